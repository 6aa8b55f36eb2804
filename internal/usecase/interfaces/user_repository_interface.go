package interfaces

import (
	"context"
	"time"

	"pcshop_service/internal/domain/entities"
)

// IUserRepository persists shop accounts. Lookups return a zero User when
// nothing matches.
type IUserRepository interface {
	Create(ctx context.Context, u entities.User) (entities.User, error)
	GetByID(ctx context.Context, id string) (entities.User, error)
	GetByEmail(ctx context.Context, email string) (entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
}

// ITokenIssuer signs and verifies session tokens.
type ITokenIssuer interface {
	Issue(u entities.User) (token string, expiresAt time.Time, err error)
	Parse(token string) (entities.Identity, error)
}
