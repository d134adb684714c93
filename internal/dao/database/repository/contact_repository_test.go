package repository

import (
	"fmt"
	"strings"
	"testing"

	"contact_server/internal/model"
	"contact_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedContacts(t *testing.T, repo ContactRepository, owner string, names ...string) []model.Contact {
	t.Helper()
	out := make([]model.Contact, 0, len(names))
	for _, name := range names {
		c := &model.Contact{
			Name:        name,
			Email:       strings.ToLower(name) + "@example.com",
			Phone:       "123",
			OwnerUserId: owner,
		}
		require.NoError(t, repo.Create(c))
		out = append(out, *c)
	}
	return out
}

func TestContactCreateAssignsIdentity(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))

	c := &model.Contact{Name: "Ann", Email: "ann@x.com", Phone: "123", OwnerUserId: "u1"}
	require.NoError(t, repo.Create(c))
	assert.NotZero(t, c.Id)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.FindById(c.Id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Nil(t, got.Photo)
	assert.Equal(t, "u1", got.OwnerUserId)
}

func TestContactFindMissing(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))

	_, err := repo.FindById(42)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestContactUpdateOnlySuppliedFields(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	c := seedContacts(t, repo, "u1", "Ann")[0]

	updated, previousPhoto, err := repo.Update(c.Id, ContactChanges{Name: strPtr("Anna"), Photo: strPtr("/uploads/a.png")})
	require.NoError(t, err)
	assert.Nil(t, previousPhoto)
	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, c.Email, updated.Email)
	assert.Equal(t, c.Phone, updated.Phone)
	require.NotNil(t, updated.Photo)
	assert.Equal(t, "/uploads/a.png", *updated.Photo)
	assert.Equal(t, c.OwnerUserId, updated.OwnerUserId)
	assert.True(t, c.CreatedAt.Equal(updated.CreatedAt))

	unchanged, previousPhoto, err := repo.Update(c.Id, ContactChanges{})
	require.NoError(t, err)
	assert.Equal(t, "Anna", unchanged.Name)
	require.NotNil(t, previousPhoto)
	assert.Equal(t, "/uploads/a.png", *previousPhoto)
}

func TestContactUpdateAfterDeleteIsNotFound(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	c := seedContacts(t, repo, "u1", "Ann")[0]

	_, err := repo.Delete(c.Id)
	require.NoError(t, err)
	_, _, err = repo.Update(c.Id, ContactChanges{Name: strPtr("Anna")})
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestContactDeleteTwice(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	c := seedContacts(t, repo, "u1", "Ann")[0]

	_, err := repo.Delete(c.Id)
	require.NoError(t, err)
	_, err = repo.Delete(c.Id)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestContactUpdateReturnsPhotoReadUnderLock(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	c := seedContacts(t, repo, "u1", "Ann")[0]

	_, _, err := repo.Update(c.Id, ContactChanges{Photo: strPtr("/uploads/a.png")})
	require.NoError(t, err)
	updated, previousPhoto, err := repo.Update(c.Id, ContactChanges{Photo: strPtr("/uploads/b.png")})
	require.NoError(t, err)
	require.NotNil(t, previousPhoto)
	assert.Equal(t, "/uploads/a.png", *previousPhoto)
	assert.Equal(t, "/uploads/b.png", *updated.Photo)

	photo, err := repo.Delete(c.Id)
	require.NoError(t, err)
	require.NotNil(t, photo)
	assert.Equal(t, "/uploads/b.png", *photo)
}

func TestContactQueryOwnerFilter(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	seedContacts(t, repo, "u1", "Ann", "Bob")
	seedContacts(t, repo, "u2", "Cid")

	items, total, err := repo.Query(ContactQuery{
		Filter: ContactFilter{RestrictOwner: true, OwnerUserId: "u1"},
		SortBy: SortByName,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	for _, c := range items {
		assert.Equal(t, "u1", c.OwnerUserId)
	}

	_, total, err = repo.Query(ContactQuery{SortBy: SortByName, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestContactQuerySearchIsCaseInsensitive(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	seedContacts(t, repo, "u1", "Annabel", "Bob", "Joanna")

	items, total, err := repo.Query(ContactQuery{
		Filter: ContactFilter{Search: "ANN"},
		SortBy: SortByName,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Annabel", items[0].Name)
	assert.Equal(t, "Joanna", items[1].Name)

	// 邮箱同样参与匹配
	_, total, err = repo.Query(ContactQuery{Filter: ContactFilter{Search: "bob@EXAMPLE"}, SortBy: SortByName, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestContactQuerySearchFoldsNonASCIIName(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	// 邮箱与姓名无关，只能通过姓名命中
	for i, name := range []string{"Ärger Müller", "Zoë Ünal", "Bob"} {
		c := &model.Contact{Name: name, Email: fmt.Sprintf("contact%d@example.com", i), Phone: "123", OwnerUserId: "u1"}
		require.NoError(t, repo.Create(c))
	}

	cases := map[string]string{
		"Ärger":  "Ärger Müller",
		"ärger":  "Ärger Müller",
		"ÄRGER":  "Ärger Müller",
		"mÜLLER": "Ärger Müller",
		"zoË":    "Zoë Ünal",
		"ünal":   "Zoë Ünal",
	}
	for search, want := range cases {
		items, total, err := repo.Query(ContactQuery{Filter: ContactFilter{Search: search}, SortBy: SortByName, Limit: 10})
		require.NoError(t, err, search)
		assert.EqualValues(t, 1, total, search)
		require.Len(t, items, 1, search)
		assert.Equal(t, want, items[0].Name, search)
	}

	_, total, err := repo.Query(ContactQuery{Filter: ContactFilter{Search: "CONTACT2@"}, SortBy: SortByName, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestContactQuerySearchEscapesWildcards(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	seedContacts(t, repo, "u1", "100%Real", "100xReal", "a_b", "axb")

	_, total, err := repo.Query(ContactQuery{Filter: ContactFilter{Search: "100%"}, SortBy: SortByName, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = repo.Query(ContactQuery{Filter: ContactFilter{Search: "a_b"}, SortBy: SortByName, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestContactQueryPagesPartitionSortedSet(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	// 同名记录依赖 id 排序打破平局
	seedContacts(t, repo, "u1", "Eve", "Ann", "Dan", "Ann", "Cat", "Bob", "Ann")

	var all []model.Contact
	for offset := 0; ; offset += 3 {
		items, total, err := repo.Query(ContactQuery{SortBy: SortByName, Offset: offset, Limit: 3})
		require.NoError(t, err)
		assert.EqualValues(t, 7, total)
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
	}
	require.Len(t, all, 7)

	seen := make(map[int64]bool)
	for i, c := range all {
		assert.False(t, seen[c.Id], "duplicate id %d", c.Id)
		seen[c.Id] = true
		if i > 0 {
			prev := all[i-1]
			assert.True(t, prev.Name < c.Name || (prev.Name == c.Name && prev.Id < c.Id))
		}
	}
}

func TestContactQueryDescReversesAsc(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	seedContacts(t, repo, "u1", "Bob", "Ann", "Cat", "Ann")

	asc, _, err := repo.Query(ContactQuery{SortBy: SortByName, Limit: 10})
	require.NoError(t, err)
	desc, _, err := repo.Query(ContactQuery{SortBy: SortByName, Desc: true, Limit: 10})
	require.NoError(t, err)

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i].Id, desc[len(desc)-1-i].Id)
	}
}

func TestContactQueryRejectsUnknownColumn(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))

	_, _, err := repo.Query(ContactQuery{SortBy: "phone; DROP TABLE contact", Limit: 10})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}
