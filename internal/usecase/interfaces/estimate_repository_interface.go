package interfaces

import (
	"context"

	"pcshop_service/internal/domain/entities"
)

// IEstimateRepository abstracts DynamoDB persistence for Estimate.
//
// The back-office must be able to:
//   - create an empty estimate and open it later by id
//   - save an estimate as a whole document (replace, last write wins)
//   - list estimates with a free-text search and the contractor flag
//
// GetByID returns a zero Estimate when the id does not exist.

type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	Replace(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entities.EstimateFilter, page, pageSize int) ([]entities.Estimate, int, error)
}
