package interfaces

import (
	"context"

	"pcshop_service/internal/domain/entities"
)

// IServiceRequestRepository persists customer submissions. Replace stores the
// whole document and is used once attachments have been uploaded.
type IServiceRequestRepository interface {
	Create(ctx context.Context, r entities.ServiceRequest) (entities.ServiceRequest, error)
	GetByID(ctx context.Context, id string) (entities.ServiceRequest, error)
	Replace(ctx context.Context, r entities.ServiceRequest) (entities.ServiceRequest, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entities.ServiceRequestFilter, page, pageSize int) ([]entities.ServiceRequest, int, error)
}

type IReviewRepository interface {
	Create(ctx context.Context, r entities.Review) (entities.Review, error)
	GetByID(ctx context.Context, id string) (entities.Review, error)
	Replace(ctx context.Context, r entities.Review) (entities.Review, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]entities.Review, int, error)
}
