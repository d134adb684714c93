package repository

import (
	"contact_server/internal/model"
	"contact_server/pkg/errorx"
	"contact_server/pkg/util/snowflake"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// contactRepository ContactRepository 接口的实现
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建联系人 Repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

var sortColumns = map[string]struct{}{
	SortByName:      {},
	SortByEmail:     {},
	SortByCreatedAt: {},
}

// Create 创建联系人
func (r *contactRepository) Create(contact *model.Contact) error {
	if contact.Id == 0 {
		contact.Id = snowflake.GenerateID()
	}
	if err := r.db.Create(contact).Error; err != nil {
		return wrapDBError(err, "创建联系人")
	}
	return nil
}

// FindById 根据 ID 查找联系人
func (r *contactRepository) FindById(id int64) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.First(&contact, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询联系人 id=%d", id)
	}
	return &contact, nil
}

// Update 在事务内锁定行后按字段更新，同时返回锁定时读到的旧照片
// 与并发删除竞争失败时返回 CodeNotFound；id、owner_user_id、created_at 永不修改
func (r *contactRepository) Update(id int64, changes ContactChanges) (*model.Contact, *string, error) {
	var contact model.Contact
	var previousPhoto *string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// SQLite 不支持行锁，方言会忽略 FOR UPDATE
		if err := lockContact(tx, &contact, id); err != nil {
			return err
		}
		previousPhoto = copyPhoto(contact.Photo)

		values := changes.columns()
		if len(values) == 0 {
			return nil
		}
		if err := tx.Model(&contact).Updates(values).Error; err != nil {
			return err
		}
		contact = model.Contact{}
		return tx.First(&contact, "id = ?", id).Error
	})
	if err != nil {
		return nil, nil, wrapDBErrorf(err, "更新联系人 id=%d", id)
	}
	return &contact, previousPhoto, nil
}

// Delete 锁定后物理删除联系人，返回被删除记录的照片
// 没有删除任何行时返回 CodeNotFound
func (r *contactRepository) Delete(id int64) (*string, error) {
	var photo *string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var contact model.Contact
		if err := lockContact(tx, &contact, id); err != nil {
			return err
		}
		photo = copyPhoto(contact.Photo)

		res := tx.Where("id = ?", id).Delete(&model.Contact{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBErrorf(err, "删除联系人 id=%d", id)
	}
	return photo, nil
}

func lockContact(tx *gorm.DB, contact *model.Contact, id int64) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(contact, "id = ?", id).Error
}

// copyPhoto 复制照片路径，避免后续扫描复用同一个指针
func copyPhoto(photo *string) *string {
	if photo == nil {
		return nil
	}
	p := *photo
	return &p
}

// Query 过滤、排序、分页查询联系人
func (r *contactRepository) Query(q ContactQuery) ([]model.Contact, int64, error) {
	if _, ok := sortColumns[q.SortBy]; !ok {
		return nil, 0, errorx.Newf(errorx.CodeInvalidParam, "unsupported sort column %q", q.SortBy)
	}

	var total int64
	if err := r.filtered(q.Filter).Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "统计联系人数量")
	}
	contacts := make([]model.Contact, 0)
	if total == 0 || q.Offset >= int(total) {
		return contacts, total, nil
	}

	err := r.filtered(q.Filter).
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortBy}, Desc: q.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Desc}).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, wrapDBError(err, "分页查询联系人")
	}
	return contacts, total, nil
}

// filtered 每次返回新的查询链，Count 与 Find 互不干扰
func (r *contactRepository) filtered(f ContactFilter) *gorm.DB {
	tx := r.db.Model(&model.Contact{})
	if f.RestrictOwner {
		tx = tx.Where("owner_user_id = ?", f.OwnerUserId)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		match := "LIKE LOWER(?) ESCAPE '" + likeEscape + "'"
		tx = tx.Where("(LOWER(name) "+match+" OR LOWER(email) "+match+")", pattern, pattern)
	}
	return tx
}

// columns 把非 nil 字段转换为列更新
func (c ContactChanges) columns() map[string]interface{} {
	values := make(map[string]interface{}, 4)
	if c.Name != nil {
		values["name"] = *c.Name
	}
	if c.Email != nil {
		values["email"] = *c.Email
	}
	if c.Phone != nil {
		values["phone"] = *c.Phone
	}
	if c.Photo != nil {
		values["photo"] = *c.Photo
	}
	return values
}
