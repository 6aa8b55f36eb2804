package interfaces

import (
	"context"

	"pcshop_service/internal/domain/entities"
)

// IAttachmentStore uploads files to blob storage. index is the position of the
// file within its submission and becomes part of the object key.
type IAttachmentStore interface {
	Upload(ctx context.Context, file entities.UploadFile, ownerID string, index int) (entities.Attachment, error)
	Delete(ctx context.Context, key string) error
}

// IEstimateRenderer produces the customer-facing document of an estimate.
type IEstimateRenderer interface {
	Render(e entities.Estimate) ([]byte, error)
}
