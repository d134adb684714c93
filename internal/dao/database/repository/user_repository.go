package repository

import (
	"errors"

	"contact_server/internal/model"
	"contact_server/pkg/errorx"
	"contact_server/pkg/util/snowflake"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建账号 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindById 根据 ID 查找账号
func (r *userRepository) FindById(id int64) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询账号 id=%d", id)
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找账号
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询账号 email=%s", email)
	}
	return &user, nil
}

// Create 创建账号，邮箱冲突时返回 CodeUserExist
func (r *userRepository) Create(user *model.User) error {
	if user.Id == 0 {
		user.Id = snowflake.GenerateID()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errorx.Wrapf(err, errorx.CodeUserExist, "邮箱 %s 已注册", user.Email)
		}
		return wrapDBError(err, "创建账号")
	}
	return nil
}
