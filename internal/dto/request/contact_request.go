package request

// CreateContactRequest 创建联系人请求（multipart 表单，照片文件单独读取）
// 使用位置:
//   - internal/handler/contact_handler.go: CreateContactHandler
//   - internal/service/contact/service.go: Create
type CreateContactRequest struct {
	Name  string `form:"name" binding:"required,max=100"`
	Email string `form:"email" binding:"required,email,max=255"`
	Phone string `form:"phone" binding:"required,max=32"`
}

// UpdateContactRequest 更新联系人请求，nil 字段表示不修改
// 提供了的字段按创建时的规则校验，空串视为非法
// 使用位置:
//   - internal/handler/contact_handler.go: UpdateContactHandler
//   - internal/service/contact/service.go: Update
type UpdateContactRequest struct {
	Name  *string `form:"name" binding:"omitnil,required,max=100"`
	Email *string `form:"email" binding:"omitnil,required,email,max=255"`
	Phone *string `form:"phone" binding:"omitnil,required,max=32"`
}

// ListContactsRequest 联系人列表查询参数，缺省值由 Service 填充
// 使用位置:
//   - internal/handler/contact_handler.go: ListContactsHandler
//   - internal/service/contact/service.go: List
type ListContactsRequest struct {
	Page      *int   `form:"page"`
	Limit     *int   `form:"limit"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`    // name / email / createdAt
	SortOrder string `form:"sortOrder"` // ASC / DESC
}
