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
	ErrServiceRequestNotFound  = errors.New("service request not found")
	ErrInvalidServiceRequest   = errors.New("invalid service request")
	ErrInvalidServiceRequestID = errors.New("invalid service request id")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// IServiceRequestUseCase handles customer submissions (quote requests, repair
// tickets, inquiries). Owners see their own records; administrators see all
// and drive the status workflow.
type IServiceRequestUseCase interface {
	Create(ctx context.Context, identity entities.Identity, req entities.ServiceRequest, files []entities.UploadFile) (entities.ServiceRequest, error)
	GetByID(ctx context.Context, identity entities.Identity, id string) (entities.ServiceRequest, error)
	List(ctx context.Context, identity entities.Identity, filter entities.ServiceRequestFilter, page, pageSize int) ([]entities.ServiceRequest, int, error)
	UpdateStatus(ctx context.Context, identity entities.Identity, id string, status entities.ServiceRequestStatus) (entities.ServiceRequest, error)
	Delete(ctx context.Context, identity entities.Identity, id string) error
}

type ServiceRequestUseCase struct {
	repo  interfaces.IServiceRequestRepository
	store interfaces.IAttachmentStore
	now   func() time.Time
}

var _ IServiceRequestUseCase = (*ServiceRequestUseCase)(nil)

func NewServiceRequestUseCase(repo interfaces.IServiceRequestRepository, store interfaces.IAttachmentStore) *ServiceRequestUseCase {
	return &ServiceRequestUseCase{repo: repo, store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores the submission, then uploads its files one at a time. When an
// upload fails the blobs already stored and the new record are deleted.
func (u *ServiceRequestUseCase) Create(ctx context.Context, identity entities.Identity, req entities.ServiceRequest, files []entities.UploadFile) (entities.ServiceRequest, error) {
	if err := requireAuthenticated(identity); err != nil {
		return entities.ServiceRequest{}, err
	}
	if err := validateServiceRequest(req); err != nil {
		return entities.ServiceRequest{}, err
	}
	if err := validateServiceRequestFiles(files); err != nil {
		return entities.ServiceRequest{}, err
	}

	now := u.now()
	req.ID = uuid.NewString()
	req.UserID = identity.UserID
	req.Status = entities.RequestStatusReceived
	req.Attachments = []entities.Attachment{}
	req.CreatedAt = now
	req.UpdatedAt = now

	created, err := u.repo.Create(ctx, req)
	if err != nil {
		logrus.Errorf("[service-request][usecase] create failed kind=%s err=%v", req.Kind, err)
		return entities.ServiceRequest{}, err
	}
	if len(files) == 0 {
		return created, nil
	}

	atts, err := uploadAll(ctx, u.store, files, created.ID)
	if err != nil {
		u.rollback(ctx, created.ID)
		return entities.ServiceRequest{}, err
	}
	created.Attachments = atts
	saved, err := u.repo.Replace(ctx, created)
	if err == nil && saved.ID == "" {
		err = ErrServiceRequestNotFound
	}
	if err != nil {
		logrus.Errorf("[service-request][usecase] attach failed request_id=%s err=%v", created.ID, err)
		deleteAttachments(ctx, u.store, atts)
		u.rollback(ctx, created.ID)
		return entities.ServiceRequest{}, err
	}
	logrus.Infof("[service-request][usecase] created request_id=%s kind=%s files=%d", saved.ID, saved.Kind, len(atts))
	return saved, nil
}

func (u *ServiceRequestUseCase) rollback(ctx context.Context, id string) {
	if err := u.repo.Delete(ctx, id); err != nil {
		logrus.Errorf("[service-request][usecase] rollback delete failed request_id=%s err=%v", id, err)
		return
	}
	logrus.Warnf("[service-request][usecase] rolled back request_id=%s", id)
}

func (u *ServiceRequestUseCase) GetByID(ctx context.Context, identity entities.Identity, id string) (entities.ServiceRequest, error) {
	if err := requireAuthenticated(identity); err != nil {
		return entities.ServiceRequest{}, err
	}
	r, err := u.load(ctx, id)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if err := requireOwnerOrAdmin(identity, r.UserID); err != nil {
		return entities.ServiceRequest{}, err
	}
	return r, nil
}

func (u *ServiceRequestUseCase) load(ctx context.Context, id string) (entities.ServiceRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.ServiceRequest{}, ErrInvalidServiceRequestID
	}
	r, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if r.ID == "" {
		return entities.ServiceRequest{}, ErrServiceRequestNotFound
	}
	return r, nil
}

// List returns the caller's own records; administrators may list everyone's
// and filter by owner.
func (u *ServiceRequestUseCase) List(ctx context.Context, identity entities.Identity, filter entities.ServiceRequestFilter, page, pageSize int) ([]entities.ServiceRequest, int, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, 0, err
	}
	if !identity.IsAdmin() {
		filter.UserID = identity.UserID
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidServiceRequest, filter.Kind)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidServiceRequest, filter.Status)
	}
	page, pageSize = NormalizePage(page, pageSize)
	return u.repo.List(ctx, filter, page, pageSize)
}

func (u *ServiceRequestUseCase) UpdateStatus(ctx context.Context, identity entities.Identity, id string, status entities.ServiceRequestStatus) (entities.ServiceRequest, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.ServiceRequest{}, err
	}
	if !status.Valid() {
		return entities.ServiceRequest{}, fmt.Errorf("%w: unknown status %q", ErrInvalidServiceRequest, status)
	}
	r, err := u.load(ctx, id)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if !r.Status.CanTransitionTo(status) {
		return entities.ServiceRequest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, r.Status, status)
	}

	prev := r.Status
	r.Status = status
	r.UpdatedAt = u.now()
	saved, err := u.repo.Replace(ctx, r)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if saved.ID == "" {
		return entities.ServiceRequest{}, ErrServiceRequestNotFound
	}
	logrus.Infof("[service-request][usecase] status request_id=%s %s->%s by=%s", r.ID, prev, status, identity.UserID)
	return saved, nil
}

// Delete removes the record and then its blobs.
func (u *ServiceRequestUseCase) Delete(ctx context.Context, identity entities.Identity, id string) error {
	if err := requireAuthenticated(identity); err != nil {
		return err
	}
	r, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(identity, r.UserID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, r.ID); err != nil {
		return err
	}
	deleteAttachments(ctx, u.store, r.Attachments)
	return nil
}

func validateServiceRequest(r entities.ServiceRequest) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidServiceRequest, r.Kind)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidServiceRequest)
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidServiceRequest)
	}
	if r.Kind == entities.KindInquiry && strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidServiceRequest)
	}
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidServiceRequest)
	}
	return nil
}
