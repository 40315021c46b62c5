package services

import "github.com/ArowuTest/lottery-rounds/internal/models"

// AdminList is a static AccessControl backed by configured addresses
type AdminList struct {
	admins map[models.Address]struct{}
}

func NewAdminList(addresses []string) *AdminList {
	admins := make(map[models.Address]struct{}, len(addresses))
	for _, a := range addresses {
		if addr := models.Address(a).Normalize(); addr != "" {
			admins[addr] = struct{}{}
		}
	}
	return &AdminList{admins: admins}
}

func (l *AdminList) IsAdmin(caller models.Address) bool {
	if caller.IsZero() {
		return false
	}
	_, ok := l.admins[caller.Normalize()]
	return ok
}
