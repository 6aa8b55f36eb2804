package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidReview   = errors.New("invalid review")
	ErrInvalidReviewID = errors.New("invalid review id")
)

type IReviewUseCase interface {
	Create(ctx context.Context, identity entities.Identity, review entities.Review, images []entities.UploadFile) (entities.Review, error)
	List(ctx context.Context, page, pageSize int) ([]entities.Review, int, error)
	Delete(ctx context.Context, identity entities.Identity, id string) error
}

type ReviewUseCase struct {
	repo  interfaces.IReviewRepository
	users interfaces.IUserRepository
	store interfaces.IAttachmentStore
	now   func() time.Time
}

var _ IReviewUseCase = (*ReviewUseCase)(nil)

func NewReviewUseCase(repo interfaces.IReviewRepository, users interfaces.IUserRepository, store interfaces.IAttachmentStore) *ReviewUseCase {
	return &ReviewUseCase{repo: repo, users: users, store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores the review and uploads its photos. A failed upload removes the
// review and every photo uploaded before it.
func (u *ReviewUseCase) Create(ctx context.Context, identity entities.Identity, review entities.Review, images []entities.UploadFile) (entities.Review, error) {
	if err := requireAuthenticated(identity); err != nil {
		return entities.Review{}, err
	}
	if review.Rating < 1 || review.Rating > 5 {
		return entities.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	}
	if strings.TrimSpace(review.Content) == "" {
		return entities.Review{}, fmt.Errorf("%w: content is required", ErrInvalidReview)
	}
	if err := validateReviewImages(images); err != nil {
		return entities.Review{}, err
	}

	review.ID = uuid.NewString()
	review.UserID = identity.UserID
	review.Images = []entities.Attachment{}
	review.CreatedAt = u.now()
	if u.users != nil && strings.TrimSpace(review.AuthorName) == "" {
		if user, err := u.users.GetByID(ctx, identity.UserID); err == nil && user.ID != "" {
			review.AuthorName = user.Name
		}
	}

	created, err := u.repo.Create(ctx, review)
	if err != nil {
		return entities.Review{}, err
	}
	if len(images) == 0 {
		return created, nil
	}

	atts, err := uploadAll(ctx, u.store, images, created.ID)
	if err != nil {
		u.rollback(ctx, created.ID)
		return entities.Review{}, err
	}
	created.Images = atts
	saved, err := u.repo.Replace(ctx, created)
	if err == nil && saved.ID == "" {
		err = ErrReviewNotFound
	}
	if err != nil {
		deleteAttachments(ctx, u.store, atts)
		u.rollback(ctx, created.ID)
		return entities.Review{}, err
	}
	logrus.Infof("[review][usecase] created review_id=%s images=%d", saved.ID, len(atts))
	return saved, nil
}

func (u *ReviewUseCase) rollback(ctx context.Context, id string) {
	if err := u.repo.Delete(ctx, id); err != nil {
		logrus.Errorf("[review][usecase] rollback delete failed review_id=%s err=%v", id, err)
	}
}

func (u *ReviewUseCase) List(ctx context.Context, page, pageSize int) ([]entities.Review, int, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return u.repo.List(ctx, page, pageSize)
}

func (u *ReviewUseCase) Delete(ctx context.Context, identity entities.Identity, id string) error {
	if err := requireAuthenticated(identity); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidReviewID
	}
	r, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.ID == "" {
		return ErrReviewNotFound
	}
	if err := requireOwnerOrAdmin(identity, r.UserID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, r.ID); err != nil {
		return err
	}
	deleteAttachments(ctx, u.store, r.Images)
	return nil
}
