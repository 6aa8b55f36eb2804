package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	MaxReviewImages            = 5
	MaxReviewImageSize         = 10 << 20
	MaxServiceRequestFiles     = 5
	MaxServiceRequestBatchSize = 2 << 20
)

var (
	ErrTooManyFiles         = errors.New("too many files")
	ErrFileTooLarge         = errors.New("file too large")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrAttachmentUpload     = errors.New("attachment upload failed")
	ErrAttachmentStoreUnset = errors.New("attachment store not configured")
)

// validateReviewImages enforces the review photo policy: at most 5 images of
// at most 10MB each.
func validateReviewImages(files []entities.UploadFile) error {
	if len(files) > MaxReviewImages {
		return fmt.Errorf("%w: %d images, at most %d allowed", ErrTooManyFiles, len(files), MaxReviewImages)
	}
	for _, f := range files {
		if !strings.HasPrefix(strings.ToLower(f.MimeType), "image/") {
			return fmt.Errorf("%w: %s is %q", ErrUnsupportedFileType, f.Filename, f.MimeType)
		}
		if f.Size > MaxReviewImageSize {
			return fmt.Errorf("%w: %s exceeds 10MB", ErrFileTooLarge, f.Filename)
		}
	}
	return nil
}

// validateServiceRequestFiles enforces the ticket policy: at most 5 files and
// 2MB for the whole batch.
func validateServiceRequestFiles(files []entities.UploadFile) error {
	if len(files) > MaxServiceRequestFiles {
		return fmt.Errorf("%w: %d files, at most %d allowed", ErrTooManyFiles, len(files), MaxServiceRequestFiles)
	}
	var total int64
	for _, f := range files {
		total += f.Size
	}
	if total > MaxServiceRequestBatchSize {
		return fmt.Errorf("%w: batch of %d bytes exceeds 2MB", ErrFileTooLarge, total)
	}
	return nil
}

// uploadAll uploads files one by one and stops at the first failure. Blobs
// uploaded before the failure are deleted again.
func uploadAll(ctx context.Context, store interfaces.IAttachmentStore, files []entities.UploadFile, ownerID string) ([]entities.Attachment, error) {
	if len(files) == 0 {
		return []entities.Attachment{}, nil
	}
	if store == nil {
		return nil, ErrAttachmentStoreUnset
	}

	uploaded := make([]entities.Attachment, 0, len(files))
	for i, f := range files {
		att, err := store.Upload(ctx, f, ownerID, i)
		if err != nil {
			logrus.WithFields(logrus.Fields{"owner_id": ownerID, "index": i, "filename": f.Filename}).
				Errorf("[attachment][usecase] upload failed err=%v", err)
			deleteAttachments(ctx, store, uploaded)
			return nil, fmt.Errorf("%w: %s: %v", ErrAttachmentUpload, f.Filename, err)
		}
		uploaded = append(uploaded, att)
	}
	return uploaded, nil
}

// deleteAttachments is best effort; failures are logged only.
func deleteAttachments(ctx context.Context, store interfaces.IAttachmentStore, atts []entities.Attachment) {
	if store == nil {
		return
	}
	for _, a := range atts {
		if err := store.Delete(ctx, a.Key); err != nil {
			logrus.WithField("key", a.Key).Warnf("[attachment][usecase] delete failed err=%v", err)
		}
	}
}
