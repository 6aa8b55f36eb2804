package usecase

import (
	"errors"

	"pcshop_service/internal/domain/entities"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient authority")
)

func requireAuthenticated(id entities.Identity) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func requireAdmin(id entities.Identity) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// requireOwnerOrAdmin gates personal records.
func requireOwnerOrAdmin(id entities.Identity, ownerID string) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	if !id.CanAccess(ownerID) {
		return ErrForbidden
	}
	return nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage clamps listing parameters to page >= 1 and 1..100 rows.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
