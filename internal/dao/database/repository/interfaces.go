// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
package repository

import (
	"contact_server/internal/model"

	"gorm.io/gorm"
)

// ==================== 查询参数 ====================

// 可排序列
const (
	SortByName      = "name"
	SortByEmail     = "email"
	SortByCreatedAt = "created_at"
)

// ContactFilter 联系人过滤条件
type ContactFilter struct {
	// RestrictOwner 为 true 时只返回 OwnerUserId 名下的联系人
	RestrictOwner bool
	OwnerUserId   string
	// Search 对 name 或 email 做不区分大小写的子串匹配（含非 ASCII 字母），空串表示不过滤
	Search string
}

// ContactQuery 联系人分页查询参数
// 同一排序键的记录按 id 同方向排序，保证翻页稳定
type ContactQuery struct {
	Filter ContactFilter
	SortBy string // SortByName / SortByEmail / SortByCreatedAt
	Desc   bool
	Offset int
	Limit  int
}

// ContactChanges 联系人部分更新，nil 字段表示不修改
type ContactChanges struct {
	Name  *string
	Email *string
	Phone *string
	Photo *string
}

// ==================== Repository 接口定义 ====================

// ContactRepository 联系人数据访问接口
type ContactRepository interface {
	// Create 创建联系人，分配 Id 与 CreatedAt
	Create(contact *model.Contact) error
	// FindById 根据 ID 查找联系人
	FindById(id int64) (*model.Contact, error)
	// Update 按字段更新联系人，返回更新后的记录与更新前的照片
	Update(id int64, changes ContactChanges) (*model.Contact, *string, error)
	// Delete 物理删除联系人，返回被删除记录的照片
	Delete(id int64) (*string, error)
	// Query 过滤、排序、分页查询，同时返回过滤后的总数
	Query(q ContactQuery) ([]model.Contact, int64, error)
}

// UserRepository 账号数据访问接口
type UserRepository interface {
	// FindById 根据 ID 查找账号
	FindById(id int64) (*model.User, error)
	// FindByEmail 根据邮箱查找账号
	FindByEmail(email string) (*model.User, error)
	// Create 创建账号
	Create(user *model.User) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	Contact ContactRepository
	User    UserRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Contact: NewContactRepository(db),
		User:    NewUserRepository(db),
	}
}
