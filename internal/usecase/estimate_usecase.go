package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/domain/pricing"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEstimateNotFound    = errors.New("estimate not found")
	ErrInvalidEstimateID   = errors.New("invalid estimate id")
	ErrInvalidEstimateVal  = errors.New("invalid estimate value")
	ErrEmptyEditBatch      = errors.New("edit batch is empty")
	ErrRendererUnavailable = errors.New("estimate renderer not configured")
)

// IEstimateUseCase exposes the back-office estimate operations. All of them
// are restricted to administrators.
//
//   - Create/GetByID/List/Save/Delete => estimate CRUD (save replaces the document)
//   - ApplyEdits => operator edit commands, including the rounding workflow
//   - Calculate => stateless preview of totals for an unsaved estimate
//   - ParseBulk => bulk line-item import without touching any estimate
//   - RenderPDF => customer-facing document

type IEstimateUseCase interface {
	Create(ctx context.Context, identity entities.Identity, draft entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, identity entities.Identity, id string) (entities.Estimate, error)
	List(ctx context.Context, identity entities.Identity, filter entities.EstimateFilter, page, pageSize int) ([]entities.Estimate, int, error)
	Save(ctx context.Context, identity entities.Identity, e entities.Estimate) (entities.Estimate, error)
	Delete(ctx context.Context, identity entities.Identity, id string) error
	ApplyEdits(ctx context.Context, identity entities.Identity, id string, cmds []pricing.Command) (entities.Estimate, []pricing.Notice, error)
	Calculate(identity entities.Identity, e entities.Estimate) (entities.Estimate, error)
	ParseBulk(identity entities.Identity, text string) ([]entities.LineItem, error)
	RenderPDF(ctx context.Context, identity entities.Identity, id string) (entities.Estimate, []byte, error)
}

type EstimateUseCase struct {
	repo     interfaces.IEstimateRepository
	renderer interfaces.IEstimateRenderer
	now      func() time.Time
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository, renderer interfaces.IEstimateRenderer) *EstimateUseCase {
	return &EstimateUseCase{repo: repo, renderer: renderer, now: func() time.Time { return time.Now().UTC() }}
}

func (u *EstimateUseCase) Create(ctx context.Context, identity entities.Identity, draft entities.Estimate) (entities.Estimate, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.Estimate{}, err
	}
	if err := validateEstimate(draft); err != nil {
		return entities.Estimate{}, err
	}

	now := u.now()
	e := draft.Clone()
	e.ID = uuid.NewString()
	e.CreatedBy = identity.UserID
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.ServiceData == nil {
		e.ServiceData = []entities.ServiceItem{}
	}
	pricing.Normalize(&e)

	created, err := u.repo.Create(ctx, e)
	if err != nil {
		logrus.Errorf("[estimate][usecase] create failed estimate_id=%s err=%v", e.ID, err)
		return entities.Estimate{}, err
	}
	logrus.Infof("[estimate][usecase] created estimate_id=%s by=%s", created.ID, identity.UserID)
	return created, nil
}

func (u *EstimateUseCase) GetByID(ctx context.Context, identity entities.Identity, id string) (entities.Estimate, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.Estimate{}, err
	}
	return u.load(ctx, id)
}

func (u *EstimateUseCase) load(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

func (u *EstimateUseCase) List(ctx context.Context, identity entities.Identity, filter entities.EstimateFilter, page, pageSize int) ([]entities.Estimate, int, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, 0, err
	}
	page, pageSize = NormalizePage(page, pageSize)
	filter.Query = strings.TrimSpace(filter.Query)
	return u.repo.List(ctx, filter, page, pageSize)
}

// Save replaces the stored document. Totals and the rounding row are derived
// again from the submitted content; client-sent CalculatedValues are ignored.
func (u *EstimateUseCase) Save(ctx context.Context, identity entities.Identity, e entities.Estimate) (entities.Estimate, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.Estimate{}, err
	}
	if err := validateEstimate(e); err != nil {
		return entities.Estimate{}, err
	}
	current, err := u.load(ctx, e.ID)
	if err != nil {
		return entities.Estimate{}, err
	}

	next := e.Clone()
	next.CreatedBy = current.CreatedBy
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = u.now()
	pricing.Normalize(&next)

	saved, err := u.repo.Replace(ctx, next)
	if err != nil {
		logrus.Errorf("[estimate][usecase] save failed estimate_id=%s err=%v", next.ID, err)
		return entities.Estimate{}, err
	}
	if saved.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return saved, nil
}

func (u *EstimateUseCase) Delete(ctx context.Context, identity entities.Identity, id string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	e, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, e.ID); err != nil {
		return err
	}
	logrus.Infof("[estimate][usecase] deleted estimate_id=%s by=%s", e.ID, identity.UserID)
	return nil
}

// ApplyEdits runs a batch of operator commands in order on a copy of the
// stored estimate. The first failing command aborts the batch and nothing is
// written.
func (u *EstimateUseCase) ApplyEdits(ctx context.Context, identity entities.Identity, id string, cmds []pricing.Command) (entities.Estimate, []pricing.Notice, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.Estimate{}, nil, err
	}
	if len(cmds) == 0 {
		return entities.Estimate{}, nil, ErrEmptyEditBatch
	}
	current, err := u.load(ctx, id)
	if err != nil {
		return entities.Estimate{}, nil, err
	}

	work := current.Clone()
	session := pricing.NewEditSession(&work)
	for i, cmd := range cmds {
		if err := session.Apply(cmd); err != nil {
			logrus.WithFields(logrus.Fields{"estimate_id": id, "index": i, "type": cmd.Type}).
				Infof("[estimate][usecase] edit rejected err=%v", err)
			return entities.Estimate{}, nil, fmt.Errorf("command %d (%s): %w", i, cmd.Type, err)
		}
	}
	work.UpdatedAt = u.now()

	saved, err := u.repo.Replace(ctx, work)
	if err != nil {
		logrus.Errorf("[estimate][usecase] save edits failed estimate_id=%s err=%v", id, err)
		return entities.Estimate{}, nil, err
	}
	if saved.ID == "" {
		return entities.Estimate{}, nil, ErrEstimateNotFound
	}
	return saved, session.Notices(), nil
}

func (u *EstimateUseCase) Calculate(identity entities.Identity, e entities.Estimate) (entities.Estimate, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.Estimate{}, err
	}
	if err := validateEstimate(e); err != nil {
		return entities.Estimate{}, err
	}
	preview := e.Clone()
	pricing.Normalize(&preview)
	return preview, nil
}

func (u *EstimateUseCase) ParseBulk(identity entities.Identity, text string) ([]entities.LineItem, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return pricing.ParseBulkInput(text)
}

func (u *EstimateUseCase) RenderPDF(ctx context.Context, identity entities.Identity, id string) (entities.Estimate, []byte, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.Estimate{}, nil, err
	}
	if u.renderer == nil {
		return entities.Estimate{}, nil, ErrRendererUnavailable
	}
	e, err := u.load(ctx, id)
	if err != nil {
		return entities.Estimate{}, nil, err
	}
	pricing.Normalize(&e)

	doc, err := u.renderer.Render(e)
	if err != nil {
		logrus.Errorf("[estimate][usecase] render failed estimate_id=%s err=%v", id, err)
		return entities.Estimate{}, nil, err
	}
	return e, doc, nil
}

// validateEstimate rejects submitted values Normalize would otherwise discard.
func validateEstimate(e entities.Estimate) error {
	p := e.PaymentInfo
	if p == nil {
		return nil
	}
	for _, v := range []int64{p.LaborCost, p.TuningCost, p.SetupCost, p.WarrantyFee, p.Discount, p.Deposit, p.ShippingCost} {
		if v < 0 {
			return fmt.Errorf("%w: negative amount", ErrInvalidEstimateVal)
		}
	}
	if p.VatRate != nil && (*p.VatRate < 0 || *p.VatRate > 100) {
		return fmt.Errorf("%w: vat rate out of range", ErrInvalidEstimateVal)
	}
	if !p.RoundingType.Valid() {
		return fmt.Errorf("%w: unknown rounding tier", ErrInvalidEstimateVal)
	}
	if !p.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method", ErrInvalidEstimateVal)
	}
	if p.ReleaseDate != "" {
		if _, err := time.Parse(time.DateOnly, p.ReleaseDate); err != nil {
			return fmt.Errorf("%w: release date must be YYYY-MM-DD", ErrInvalidEstimateVal)
		}
	}
	return nil
}
