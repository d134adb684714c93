package respond

// RegisterRespond 注册响应
type RegisterRespond struct {
	UserId string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// LoginRespond 登录响应
type LoginRespond struct {
	UserId       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRespond 刷新 Token 响应
type RefreshRespond struct {
	AccessToken string `json:"access_token"`
}
