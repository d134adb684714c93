package contact

import (
	"contact_server/internal/dao/database/repository"
	"contact_server/internal/model"
)

// CanRead admin 可读所有联系人，普通用户只能读自己的
func CanRead(requester model.Identity, ownerUserId string) bool {
	return requester.IsAdmin() || requester.UserId == ownerUserId
}

// CanWrite 与 CanRead 规则一致
func CanWrite(requester model.Identity, ownerUserId string) bool {
	return requester.IsAdmin() || requester.UserId == ownerUserId
}

// VisibilityFilter 返回请求方在列表中可见的范围
func VisibilityFilter(requester model.Identity) repository.ContactFilter {
	if requester.IsAdmin() {
		return repository.ContactFilter{}
	}
	return repository.ContactFilter{RestrictOwner: true, OwnerUserId: requester.UserId}
}
