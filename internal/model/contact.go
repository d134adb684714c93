// Package model 定义数据库实体模型
package model

import "time"

// Contact 联系人模型
// 对应数据库 contact 表，无软删除：删除即物理删除
type Contact struct {
	// Id 雪花 ID，创建时分配，不可变、不复用
	Id int64 `gorm:"column:id;primaryKey;autoIncrement:false"`

	Name  string `gorm:"column:name;type:varchar(100);not null;index;comment:姓名"`
	Email string `gorm:"column:email;type:varchar(255);not null;index;comment:邮箱"`
	Phone string `gorm:"column:phone;type:varchar(32);not null;comment:电话"`

	// Photo 照片访问路径，未上传时为 NULL，不会是空串
	Photo *string `gorm:"column:photo;type:varchar(255);comment:照片"`

	// OwnerUserId 创建者用户 ID，创建后不可变
	OwnerUserId string `gorm:"column:owner_user_id;type:varchar(32);not null;index;comment:所属用户id"`

	CreatedAt time.Time `gorm:"column:created_at;index;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (Contact) TableName() string {
	return "contact"
}
