package model

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity 请求方身份，由 JWT 中间件从 Access Token 中解析得到
// 每个 Service 操作都显式接收该参数，不依赖全局的"当前用户"
type Identity struct {
	UserId string
	Role   string
}

// IsAdmin 是否为管理员
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
