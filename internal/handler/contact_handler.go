// Package handler 提供 HTTP 请求处理器
// 本文件处理联系人相关的 API 请求
package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"contact_server/internal/dto/request"
	"contact_server/internal/infrastructure/middleware"
	"contact_server/internal/model"
	"contact_server/internal/service"
	"contact_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

var errNotLoggedIn = errorx.New(errorx.CodeUnauthorized, "please log in first")

// ContactHandler 联系人处理器
type ContactHandler struct {
	contactSvc service.ContactService
}

// NewContactHandler 创建联系人处理器实例
func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// Create 创建联系人
// POST /contacts
// multipart 表单: name, email, phone, photo(可选)
// 响应: 201 respond.ContactRespond
func (h *ContactHandler) Create(c *gin.Context) {
	requester, ok := requesterOf(c)
	if !ok {
		return
	}
	var req request.CreateContactRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	photo, err := photoFile(c)
	if err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.Create(requester, req, photo)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// List 分页查询联系人
// GET /contacts?page=1&limit=10&search=ann&sortBy=name&sortOrder=ASC
// 响应: {success, data: []respond.ContactRespond, meta}
func (h *ContactHandler) List(c *gin.Context) {
	requester, ok := requesterOf(c)
	if !ok {
		return
	}
	var req request.ListContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.List(requester, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandlePage(c, data.Data, data.Meta)
}

// Get 获取单个联系人
// GET /contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	requester, ok := requesterOf(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}
	data, err := h.contactSvc.Get(id, requester)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Update 部分更新联系人
// PUT /contacts/:id
// multipart 表单: name, email, phone, photo 的任意子集，未出现的字段保持不变
func (h *ContactHandler) Update(c *gin.Context) {
	requester, ok := requesterOf(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}
	var req request.UpdateContactRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	photo, err := photoFile(c)
	if err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.Update(id, requester, req, photo)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Delete 删除联系人
// DELETE /contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	requester, ok := requesterOf(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}
	if err := h.contactSvc.Delete(id, requester); err != nil {
		HandleError(c, err)
		return
	}
	HandleMessage(c, "Contact deleted successfully")
}

// requesterOf 读取 JWT 中间件写入的身份，缺失时直接返回 401
func requesterOf(c *gin.Context) (model.Identity, bool) {
	requester, ok := middleware.CurrentIdentity(c)
	if !ok {
		HandleError(c, errNotLoggedIn)
	}
	return requester, ok
}

// contactID 解析路径参数 id，格式错误返回 400
func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		HandleError(c, errorx.Wrap(err, errorx.CodeInvalidParam, "invalid contact id"))
		return 0, false
	}
	return id, true
}

// photoFile 读取可选的 photo 文件字段
func photoFile(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return fh, nil
}
