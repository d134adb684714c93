// Package auth 提供账号注册、登录与 Token 刷新
// Refresh Token 的 ID 存入缓存，新登录会覆盖旧 ID，实现单点互踢
package auth

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"contact_server/internal/dao/database/repository"
	myredis "contact_server/internal/dao/redis"
	"contact_server/internal/dto/request"
	"contact_server/internal/dto/respond"
	"contact_server/internal/model"
	"contact_server/pkg/errorx"
	"contact_server/pkg/util/jwt"
)

var (
	errBadCredentials = errorx.New(errorx.CodeInvalidPassword, "invalid email or password")
	errSessionExpired = errorx.New(errorx.CodeUnauthorized, "session expired, please log in again")
)

// dummyPasswordHash 账号不存在时用于比对的哈希，与真实密码同样的 cost
// 登录耗时因此不暴露邮箱是否已注册
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("contact-server-placeholder"), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("生成占位密码哈希失败", zap.Error(err))
	}
	return string(hash)
})

// Service 认证服务实现
type Service struct {
	repos       *repository.Repositories
	cache       myredis.CacheService // 缓存服务（依赖倒置）
	adminEmails map[string]struct{}
}

// NewAuthService 创建认证服务实例
// adminEmails 中的邮箱注册后获得 admin 角色
func NewAuthService(repos *repository.Repositories, cache myredis.CacheService, adminEmails []string) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	dummyPasswordHash()
	return &Service{repos: repos, cache: cache, adminEmails: admins}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func tokenKey(userID string) string {
	return "user_token:" + userID
}

// Register 注册账号
func (s *Service) Register(req request.RegisterRequest) (*respond.RegisterRespond, error) {
	email := normalizeEmail(req.Email)
	role := model.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:       email,
		Name:        req.Name,
		Role:        role,
		RawPassword: req.Password,
	}
	if err := s.repos.User.Create(user); err != nil {
		if errorx.GetCode(err) == errorx.CodeUserExist {
			return nil, errorx.New(errorx.CodeUserExist, "email already registered")
		}
		zap.L().Error("register user failed", zap.String("email", email), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user registered", zap.Int64("id", user.Id), zap.String("role", role))

	return &respond.RegisterRespond{
		UserId: strconv.FormatInt(user.Id, 10),
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}

// Login 邮箱密码登录，签发双 Token
func (s *Service) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := s.repos.User.FindByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errorx.IsNotFound(err) {
			(&model.User{Password: dummyPasswordHash()}).CheckPassword(req.Password)
			return nil, errBadCredentials
		}
		zap.L().Error("find user failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errBadCredentials
	}

	userID := strconv.FormatInt(user.Id, 10)
	accessToken, err := jwt.GenerateAccessToken(userID, user.Role)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(userID, user.Role)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 缓存不可用时不阻塞登录，只是之后无法刷新
	if err := s.cache.Set(ctx, tokenKey(userID), tokenID, jwt.RefreshTokenExpiry()); err != nil {
		zap.L().Error("存储 Token ID 失败", zap.String("user_id", userID), zap.Error(err))
	}

	return &respond.LoginRespond{
		UserId:       userID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh 用 Refresh Token 换取新的 Access Token
// 角色从数据库重新读取，权限变更在下一次刷新时生效
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*respond.RefreshRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil || claims.Subject != jwt.SubjectRefresh {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid refresh token")
	}

	validTokenID, err := s.cache.Get(ctx, tokenKey(claims.UserID))
	if err != nil {
		zap.L().Error("读取 Token ID 失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if validTokenID == "" || validTokenID != claims.TokenID {
		return nil, errSessionExpired
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid refresh token")
	}
	user, err := s.repos.User.FindById(id)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errSessionExpired
		}
		zap.L().Error("find user failed", zap.Int64("id", id), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID, user.Role)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RefreshRespond{AccessToken: accessToken}, nil
}

// Logout 删除缓存中的 Token ID，已签发的 Refresh Token 随之失效
func (s *Service) Logout(ctx context.Context, requester model.Identity) error {
	if err := s.cache.Delete(ctx, tokenKey(requester.UserId)); err != nil {
		zap.L().Error("删除 Token ID 失败", zap.String("user_id", requester.UserId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}
