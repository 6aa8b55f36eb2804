package interfaces

import (
	"context"

	"pcshop_service/internal/domain/entities"
)

// IEstimatePaymentRepository abstracts DynamoDB persistence for EstimatePayment.

type IEstimatePaymentRepository interface {
	Create(ctx context.Context, p entities.EstimatePayment) (entities.EstimatePayment, error)
	GetByID(ctx context.Context, id string) (entities.EstimatePayment, error)
	ListByEstimateID(ctx context.Context, estimateID string) ([]entities.EstimatePayment, error)
}
