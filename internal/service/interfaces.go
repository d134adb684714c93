// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"
	"mime/multipart"

	"contact_server/internal/dto/request"
	"contact_server/internal/dto/respond"
	"contact_server/internal/model"
)

// ContactService 联系人业务接口
// 每个操作都显式接收请求方身份
type ContactService interface {
	// Create 创建联系人，photo 可为 nil
	Create(requester model.Identity, req request.CreateContactRequest, photo *multipart.FileHeader) (*respond.ContactRespond, error)
	// List 分页列出请求方可见的联系人
	List(requester model.Identity, req request.ListContactsRequest) (*respond.ContactListRespond, error)
	// Get 获取单个联系人
	Get(id int64, requester model.Identity) (*respond.ContactRespond, error)
	// Update 部分更新联系人，photo 可为 nil
	Update(id int64, requester model.Identity, req request.UpdateContactRequest, photo *multipart.FileHeader) (*respond.ContactRespond, error)
	// Delete 永久删除联系人
	Delete(id int64, requester model.Identity) error
}

// AuthService 账号认证业务接口
type AuthService interface {
	// Register 注册账号
	Register(req request.RegisterRequest) (*respond.RegisterRespond, error)
	// Login 邮箱密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// Refresh 刷新 Access Token
	Refresh(ctx context.Context, refreshToken string) (*respond.RefreshRespond, error)
	// Logout 注销当前会话
	Logout(ctx context.Context, requester model.Identity) error
}
