// Package contact 实现联系人的增删改查与访问控制
// 所有操作显式接收请求方身份，不依赖全局的"当前用户"
package contact

import (
	"math"
	"mime/multipart"

	"contact_server/internal/config"
	"contact_server/internal/dao/database/repository"
	"contact_server/internal/dto/request"
	"contact_server/internal/dto/respond"
	"contact_server/internal/infrastructure/storage"
	"contact_server/internal/model"
	"contact_server/pkg/errorx"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// 对外暴露的联系人错误，消息原样返回给调用方
var (
	ErrContactNotFound  = errorx.New(errorx.CodeNotFound, "Contact not found")
	ErrContactForbidden = errorx.New(errorx.CodeForbidden, "You do not have access to this contact")
	errNoIdentity       = errorx.New(errorx.CodeUnauthorized, "missing requester identity")
)

const (
	defaultPage      = 1
	defaultSortBy    = "createdAt"
	defaultSortOrder = "DESC"
)

// 对外排序字段到数据库列的映射
var sortByColumns = map[string]string{
	"name":      repository.SortByName,
	"email":     repository.SortByEmail,
	"createdAt": repository.SortByCreatedAt,
}

// contactService 联系人业务逻辑实现
type contactService struct {
	repos        *repository.Repositories
	photos       storage.PhotoStorage
	validate     *validator.Validate
	defaultLimit int
	maxLimit     int
}

// NewContactService 构造函数，注入 Repository 与照片存储
// photos 为 nil 时带照片的请求会被拒绝
func NewContactService(repos *repository.Repositories, photos storage.PhotoStorage, page config.PageConfig) *contactService {
	s := &contactService{
		repos:        repos,
		photos:       photos,
		validate:     newValidator(),
		defaultLimit: page.DefaultLimit,
		maxLimit:     page.MaxLimit,
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = 10
	}
	if s.maxLimit <= 0 {
		s.maxLimit = 100
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	return s
}

// Create 创建联系人，所有已认证的请求方都可以创建，所有者为请求方
func (s *contactService) Create(requester model.Identity, req request.CreateContactRequest, photo *multipart.FileHeader) (*respond.ContactRespond, error) {
	if requester.UserId == "" {
		return nil, errNoIdentity
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	contact := &model.Contact{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		OwnerUserId: requester.UserId,
	}
	if photo != nil {
		photoPath, err := s.savePhoto(photo)
		if err != nil {
			return nil, err
		}
		contact.Photo = &photoPath
	}

	if err := s.repos.Contact.Create(contact); err != nil {
		if contact.Photo != nil {
			s.removePhoto(*contact.Photo)
		}
		zap.L().Error("create contact failed", zap.String("owner", requester.UserId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("contact created", zap.Int64("id", contact.Id), zap.String("owner", requester.UserId))
	return respond.NewContactRespond(contact), nil
}

// List 分页列出请求方可见的联系人
func (s *contactService) List(requester model.Identity, req request.ListContactsRequest) (*respond.ContactListRespond, error) {
	if requester.UserId == "" {
		return nil, errNoIdentity
	}

	page := defaultPage
	if req.Page != nil {
		page = *req.Page
	}
	if page < 1 {
		return nil, errorx.New(errorx.CodeInvalidParam, "page must be a positive integer")
	}
	limit := s.defaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit < 1 || limit > s.maxLimit {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "limit must be between 1 and %d", s.maxLimit)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	column, ok := sortByColumns[sortBy]
	if !ok {
		return nil, errorx.New(errorx.CodeInvalidParam, "sortBy must be one of name, email, createdAt")
	}
	sortOrder := req.SortOrder
	if sortOrder == "" {
		sortOrder = defaultSortOrder
	}
	if sortOrder != "ASC" && sortOrder != "DESC" {
		return nil, errorx.New(errorx.CodeInvalidParam, "sortOrder must be ASC or DESC")
	}

	filter := VisibilityFilter(requester)
	filter.Search = req.Search

	// 页码过大时偏移量封顶，结果为空页而不是溢出
	offset := math.MaxInt32
	if page-1 <= math.MaxInt32/limit {
		offset = (page - 1) * limit
	}

	contacts, total, err := s.repos.Contact.Query(repository.ContactQuery{
		Filter: filter,
		SortBy: column,
		Desc:   sortOrder == "DESC",
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		zap.L().Error("query contacts failed", zap.String("requester", requester.UserId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	data := make([]respond.ContactRespond, 0, len(contacts))
	for i := range contacts {
		data = append(data, *respond.NewContactRespond(&contacts[i]))
	}
	return &respond.ContactListRespond{
		Data: data,
		Meta: respond.PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

// Get 获取单个联系人
func (s *contactService) Get(id int64, requester model.Identity) (*respond.ContactRespond, error) {
	contact, err := s.authorized(id, requester, CanRead)
	if err != nil {
		return nil, err
	}
	return respond.NewContactRespond(contact), nil
}

// Update 部分更新联系人，照片如果提供则覆盖旧照片
func (s *contactService) Update(id int64, requester model.Identity, req request.UpdateContactRequest, photo *multipart.FileHeader) (*respond.ContactRespond, error) {
	if _, err := s.authorized(id, requester, CanWrite); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	changes := repository.ContactChanges{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if photo != nil {
		photoPath, err := s.savePhoto(photo)
		if err != nil {
			return nil, err
		}
		changes.Photo = &photoPath
	}

	updated, previousPhoto, err := s.repos.Contact.Update(id, changes)
	if err != nil {
		if changes.Photo != nil {
			s.removePhoto(*changes.Photo)
		}
		if errorx.IsNotFound(err) {
			// 读取之后被并发删除
			return nil, ErrContactNotFound
		}
		zap.L().Error("update contact failed", zap.Int64("id", id), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 旧照片取行锁内读到的值
	if changes.Photo != nil && previousPhoto != nil && *previousPhoto != *changes.Photo {
		s.removePhoto(*previousPhoto)
	}
	zap.L().Info("contact updated", zap.Int64("id", id), zap.String("requester", requester.UserId))
	return respond.NewContactRespond(updated), nil
}

// Delete 永久删除联系人
func (s *contactService) Delete(id int64, requester model.Identity) error {
	if _, err := s.authorized(id, requester, CanWrite); err != nil {
		return err
	}
	photo, err := s.repos.Contact.Delete(id)
	if err != nil {
		if errorx.IsNotFound(err) {
			return ErrContactNotFound
		}
		zap.L().Error("delete contact failed", zap.Int64("id", id), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if photo != nil {
		s.removePhoto(*photo)
	}
	zap.L().Info("contact deleted", zap.Int64("id", id), zap.String("requester", requester.UserId))
	return nil
}

// authorized 读取联系人并检查请求方权限
// 不存在优先于无权限：先返回 NotFound，再返回 Forbidden
func (s *contactService) authorized(id int64, requester model.Identity, allow func(model.Identity, string) bool) (*model.Contact, error) {
	if requester.UserId == "" {
		return nil, errNoIdentity
	}
	contact, err := s.repos.Contact.FindById(id)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrContactNotFound
		}
		zap.L().Error("find contact failed", zap.Int64("id", id), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !allow(requester, contact.OwnerUserId) {
		return nil, ErrContactForbidden
	}
	return contact, nil
}

// savePhoto 交给存储保存照片，参数错误原样返回，其他错误记录后转换为服务繁忙
func (s *contactService) savePhoto(photo *multipart.FileHeader) (string, error) {
	if s.photos == nil {
		return "", errorx.New(errorx.CodeInvalidParam, "photo upload is not available")
	}
	photoPath, err := s.photos.Save(photo)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeInvalidParam {
			return "", err
		}
		zap.L().Error("save photo failed", zap.String("filename", photo.Filename), zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return photoPath, nil
}

// removePhoto 尽力删除照片文件，失败只记录日志
func (s *contactService) removePhoto(photoPath string) {
	if s.photos == nil {
		return
	}
	if err := s.photos.Remove(photoPath); err != nil {
		zap.L().Warn("remove photo failed", zap.String("photo", photoPath), zap.Error(err))
	}
}
