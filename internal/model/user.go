package model

import (
	"time"

	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// User 账号模型
// 对应数据库 user_account 表
type User struct {
	// Id 雪花 ID，对外以字符串形式作为 user_id 下发在 Token 中
	Id int64 `gorm:"column:id;primaryKey;autoIncrement:false"`

	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null;comment:登录邮箱"`
	Name  string `gorm:"column:name;type:varchar(50);not null;comment:昵称"`

	// Password bcrypt 哈希后的密码，不存储明文
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// Role 角色：admin / user
	Role string `gorm:"column:role;type:varchar(16);not null;default:user;comment:角色"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// RawPassword 明文密码（不存入数据库），在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "user_account"
}

// BeforeSave GORM Hook：在创建和更新前将 RawPassword 加密后存入 Password
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = "" // 清空明文，防止泄露
	}
	return nil
}

// CheckPassword 校验密码是否正确
func (u *User) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
