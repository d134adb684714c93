package respond

import (
	"strconv"
	"time"

	"contact_server/internal/model"
)

// ContactRespond 联系人响应
// id 以字符串下发，避免前端 JavaScript 丢失 int64 精度
type ContactRespond struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Photo       *string   `json:"photo"`
	OwnerUserId string    `json:"ownerUserId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PageMeta 分页信息
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// ContactListRespond 联系人分页列表
type ContactListRespond struct {
	Data []ContactRespond
	Meta PageMeta
}

// NewContactRespond 由模型构造响应
func NewContactRespond(c *model.Contact) *ContactRespond {
	return &ContactRespond{
		Id:          strconv.FormatInt(c.Id, 10),
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Photo:       c.Photo,
		OwnerUserId: c.OwnerUserId,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
