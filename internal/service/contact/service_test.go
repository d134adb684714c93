package contact

import (
	"fmt"
	"mime/multipart"
	"testing"

	"contact_server/internal/config"
	"contact_server/internal/dao/database/dialect"
	"contact_server/internal/dao/database/repository"
	"contact_server/internal/dto/request"
	"contact_server/internal/model"
	"contact_server/pkg/errorx"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	u1    = model.Identity{UserId: "u1", Role: model.RoleUser}
	u2    = model.Identity{UserId: "u2", Role: model.RoleUser}
	admin = model.Identity{UserId: "root", Role: model.RoleAdmin}
)

// fakePhotos 记录保存与删除的照片路径
type fakePhotos struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fakePhotos) Save(fh *multipart.FileHeader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	p := fmt.Sprintf("/uploads/%d-%s", len(f.saved), fh.Filename)
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakePhotos) Remove(p string) error {
	f.removed = append(f.removed, p)
	return nil
}

func newTestService(t *testing.T) (*contactService, *fakePhotos) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(dialect.SQLite(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Contact{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	photos := &fakePhotos{}
	svc := NewContactService(repository.NewRepositories(db), photos, config.PageConfig{DefaultLimit: 10, MaxLimit: 100})
	return svc, photos
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func mustCreate(t *testing.T, svc *contactService, who model.Identity, name string) int64 {
	t.Helper()
	c, err := svc.Create(who, request.CreateContactRequest{Name: name, Email: name + "@x.com", Phone: "123"}, nil)
	require.NoError(t, err)
	return mustParse(t, c.Id)
}

func TestPolicy(t *testing.T) {
	assert.True(t, CanRead(u1, "u1"))
	assert.False(t, CanRead(u1, "u2"))
	assert.True(t, CanRead(admin, "u2"))
	assert.True(t, CanWrite(u2, "u2"))
	assert.False(t, CanWrite(u2, "u1"))
	assert.True(t, CanWrite(admin, "u1"))

	assert.Equal(t, repository.ContactFilter{}, VisibilityFilter(admin))
	assert.Equal(t, repository.ContactFilter{RestrictOwner: true, OwnerUserId: "u1"}, VisibilityFilter(u1))
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(u1, request.CreateContactRequest{Name: "Ann", Email: "ann@x.com", Phone: "123"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "u1", created.OwnerUserId)
	assert.Nil(t, created.Photo)

	id := mustParse(t, created.Id)
	got, err := svc.Get(id, u1)
	require.NoError(t, err)
	assert.Equal(t, created.Id, got.Id)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@x.com", got.Email)
	assert.Equal(t, "123", got.Phone)
	assert.Equal(t, "u1", got.OwnerUserId)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []request.CreateContactRequest{
		{Name: "", Email: "ann@x.com", Phone: "123"},
		{Name: "Ann", Email: "not-an-email", Phone: "123"},
		{Name: "Ann", Email: "ann@x.com", Phone: ""},
	}
	for _, req := range cases {
		_, err := svc.Create(u1, req, nil)
		assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err), "%+v", req)
	}
}

func TestCreateWithPhoto(t *testing.T) {
	svc, photos := newTestService(t)

	c, err := svc.Create(u1, request.CreateContactRequest{Name: "Ann", Email: "ann@x.com", Phone: "123"},
		&multipart.FileHeader{Filename: "ann.png"})
	require.NoError(t, err)
	require.NotNil(t, c.Photo)
	assert.Equal(t, photos.saved[0], *c.Photo)
}

func TestCreateRejectedPhotoKeepsNothing(t *testing.T) {
	svc, photos := newTestService(t)
	photos.saveErr = errorx.New(errorx.CodeInvalidParam, "photo must be an image")

	_, err := svc.Create(u1, request.CreateContactRequest{Name: "Ann", Email: "ann@x.com", Phone: "123"},
		&multipart.FileHeader{Filename: "ann.txt"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	list, err := svc.List(u1, request.ListContactsRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, list.Meta.Total)
}

func TestOwnershipScenario(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc, u1, "Ann")

	updated, err := svc.Update(id, u1, request.UpdateContactRequest{Name: strPtr("Anna")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)

	got, err := svc.Get(id, u1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, "Ann@x.com", got.Email)
	assert.Equal(t, "123", got.Phone)
	assert.Equal(t, "u1", got.OwnerUserId)

	// 其他普通用户无权访问
	_, err = svc.Get(id, u2)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	_, err = svc.Update(id, u2, request.UpdateContactRequest{Name: strPtr("X")}, nil)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(svc.Delete(id, u2)))

	list, err := svc.List(u2, request.ListContactsRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
	assert.EqualValues(t, 0, list.Meta.Total)

	// admin 可以读取并删除
	got, err = svc.Get(id, admin)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
	require.NoError(t, svc.Delete(id, admin))

	_, err = svc.Get(id, u1)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestNotFoundTakesPrecedence(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(12345, u2)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	_, err = svc.Update(12345, u2, request.UpdateContactRequest{}, nil)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(svc.Delete(12345, u2)))
}

func TestDeleteTwice(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc, u1, "Ann")

	require.NoError(t, svc.Delete(id, u1))
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(svc.Delete(id, u1)))
}

func TestUpdateValidatesSuppliedFields(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc, u1, "Ann")

	_, err := svc.Update(id, u1, request.UpdateContactRequest{Email: strPtr("broken")}, nil)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
	_, err = svc.Update(id, u1, request.UpdateContactRequest{Name: strPtr("")}, nil)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	got, err := svc.Get(id, u1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestUpdatePhotoReplacesOld(t *testing.T) {
	svc, photos := newTestService(t)
	created, err := svc.Create(u1, request.CreateContactRequest{Name: "Ann", Email: "ann@x.com", Phone: "123"},
		&multipart.FileHeader{Filename: "a.png"})
	require.NoError(t, err)
	id := mustParse(t, created.Id)

	updated, err := svc.Update(id, u1, request.UpdateContactRequest{}, &multipart.FileHeader{Filename: "b.png"})
	require.NoError(t, err)
	require.NotNil(t, updated.Photo)
	assert.Equal(t, photos.saved[1], *updated.Photo)
	assert.Equal(t, []string{photos.saved[0]}, photos.removed)

	require.NoError(t, svc.Delete(id, u1))
	assert.Equal(t, []string{photos.saved[0], photos.saved[1]}, photos.removed)
}

// racingContacts 在每次 Update 之前插入另一个请求已提交的照片替换
type racingContacts struct {
	repository.ContactRepository
	photo string
}

func (r *racingContacts) Update(id int64, changes repository.ContactChanges) (*model.Contact, *string, error) {
	if _, _, err := r.ContactRepository.Update(id, repository.ContactChanges{Photo: &r.photo}); err != nil {
		return nil, nil, err
	}
	return r.ContactRepository.Update(id, changes)
}

func TestUpdatePhotoRemovesPhotoCurrentAtUpdate(t *testing.T) {
	svc, photos := newTestService(t)
	created, err := svc.Create(u1, request.CreateContactRequest{Name: "Ann", Email: "ann@x.com", Phone: "123"},
		&multipart.FileHeader{Filename: "a.png"})
	require.NoError(t, err)
	id := mustParse(t, created.Id)

	svc.repos = &repository.Repositories{
		Contact: &racingContacts{ContactRepository: svc.repos.Contact, photo: "/uploads/concurrent.png"},
		User:    svc.repos.User,
	}
	updated, err := svc.Update(id, u1, request.UpdateContactRequest{}, &multipart.FileHeader{Filename: "b.png"})
	require.NoError(t, err)
	assert.Equal(t, photos.saved[1], *updated.Photo)
	// 原照片已被另一个请求替换，这里只删除被本次覆盖的那张
	assert.Equal(t, []string{"/uploads/concurrent.png"}, photos.removed)
}

func TestListValidation(t *testing.T) {
	svc, _ := newTestService(t)

	bad := []request.ListContactsRequest{
		{Page: intPtr(0)},
		{Limit: intPtr(0)},
		{Limit: intPtr(101)},
		{SortBy: "phone"},
		{SortOrder: "desc"},
		{SortOrder: "UP"},
	}
	for _, req := range bad {
		_, err := svc.List(u1, req)
		assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err), "%+v", req)
	}
}

func TestListDefaultsAndMeta(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		mustCreate(t, svc, u1, fmt.Sprintf("c%d", i))
	}

	list, err := svc.List(u1, request.ListContactsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Meta.Page)
	assert.Equal(t, 10, list.Meta.Limit)
	assert.EqualValues(t, 3, list.Meta.Total)
	assert.Equal(t, 1, list.Meta.TotalPages)
	// 默认按创建时间倒序
	require.Len(t, list.Data, 3)
	assert.Equal(t, "c2", list.Data[0].Name)
	assert.Equal(t, "c0", list.Data[2].Name)

	empty, err := svc.List(u2, request.ListContactsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Meta.TotalPages)
	assert.NotNil(t, empty.Data)
}

func TestListPagesPartitionVisibleSet(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 7; i++ {
		mustCreate(t, svc, u1, fmt.Sprintf("mine%d", i))
	}
	mustCreate(t, svc, u2, "theirs")

	seen := make(map[string]bool)
	for page := 1; page <= 3; page++ {
		list, err := svc.List(u1, request.ListContactsRequest{Page: intPtr(page), Limit: intPtr(3), SortBy: "name", SortOrder: "ASC"})
		require.NoError(t, err)
		assert.EqualValues(t, 7, list.Meta.Total)
		assert.Equal(t, 3, list.Meta.TotalPages)
		for _, c := range list.Data {
			assert.False(t, seen[c.Id])
			assert.Equal(t, "u1", c.OwnerUserId)
			seen[c.Id] = true
		}
	}
	assert.Len(t, seen, 7)

	beyond, err := svc.List(u1, request.ListContactsRequest{Page: intPtr(99), Limit: intPtr(3)})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
	assert.EqualValues(t, 7, beyond.Meta.Total)

	all, err := svc.List(admin, request.ListContactsRequest{Limit: intPtr(100)})
	require.NoError(t, err)
	assert.EqualValues(t, 8, all.Meta.Total)
}

func TestListSearchAndSortReverse(t *testing.T) {
	svc, _ := newTestService(t)
	for _, name := range []string{"Annabel", "bob", "JoAnn", "Cid"} {
		mustCreate(t, svc, u1, name)
	}

	found, err := svc.List(u1, request.ListContactsRequest{Search: "ann", SortBy: "name", SortOrder: "ASC"})
	require.NoError(t, err)
	require.Len(t, found.Data, 2)
	assert.Equal(t, "Annabel", found.Data[0].Name)
	assert.Equal(t, "JoAnn", found.Data[1].Name)

	asc, err := svc.List(u1, request.ListContactsRequest{SortBy: "email", SortOrder: "ASC"})
	require.NoError(t, err)
	desc, err := svc.List(u1, request.ListContactsRequest{SortBy: "email", SortOrder: "DESC"})
	require.NoError(t, err)
	require.Len(t, desc.Data, len(asc.Data))
	for i := range asc.Data {
		assert.Equal(t, asc.Data[i].Id, desc.Data[len(desc.Data)-1-i].Id)
	}
}

func TestListSearchMatchesNonASCIINames(t *testing.T) {
	svc, _ := newTestService(t)
	for i, name := range []string{"Ärger Müller", "Zoë Ünal", "Bob"} {
		_, err := svc.Create(u1, request.CreateContactRequest{Name: name, Email: fmt.Sprintf("c%d@x.com", i), Phone: "123"}, nil)
		require.NoError(t, err)
	}

	for _, search := range []string{"Ärger", "ärger", "ÄRGER", "MÜLL"} {
		found, err := svc.List(u1, request.ListContactsRequest{Search: search})
		require.NoError(t, err, search)
		require.Len(t, found.Data, 1, search)
		assert.Equal(t, "Ärger Müller", found.Data[0].Name, search)
	}

	found, err := svc.List(u1, request.ListContactsRequest{Search: "ÜNAL"})
	require.NoError(t, err)
	require.Len(t, found.Data, 1)
	assert.Equal(t, "Zoë Ünal", found.Data[0].Name)
}

func TestRequesterRequired(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(model.Identity{}, request.CreateContactRequest{Name: "Ann", Email: "ann@x.com", Phone: "1"}, nil)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func mustParse(t *testing.T, id string) int64 {
	t.Helper()
	var v int64
	_, err := fmt.Sscan(id, &v)
	require.NoError(t, err)
	return v
}
