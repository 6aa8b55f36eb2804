package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/domain/pricing"
	mock_interfaces "pcshop_service/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func storedEstimate() entities.Estimate {
	e := entities.NewEstimate("est-1", "admin-1", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	e.TableData = []entities.LineItem{{Category: "CPU", ProductName: "i5", Quantity: 1, Price: "1,234,567"}}
	pricing.Normalize(&e)
	return e
}

func TestEstimateUseCase_Authorization(t *testing.T) {
	uc := NewEstimateUseCase(nil, nil)
	ctx := context.Background()

	if _, err := uc.GetByID(ctx, entities.Identity{}, "est-1"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := uc.GetByID(ctx, customerID, "est-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, _, err := uc.List(ctx, customerID, entities.EstimateFilter{}, 1, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, _, err := uc.ApplyEdits(ctx, customerID, "est-1", []pricing.Command{{Type: pricing.CmdClearRounding}}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := uc.ParseBulk(customerID, "x"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := uc.Delete(ctx, customerID, "est-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEstimateUseCase_Create(t *testing.T) {
	t.Run("normalizes and stamps", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil)

		draft := entities.Estimate{
			TableData:        []entities.LineItem{{Price: "1,234,567"}},
			PaymentInfo:      &entities.PaymentInfo{RoundingType: entities.RoundingThousand},
			CalculatedValues: entities.CalculatedValues{FinalPayment: 1},
		}
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.ID == "" || e.CreatedBy != "admin-1" || e.CreatedAt.IsZero() {
					t.Fatalf("expected id/creator/timestamps, got %+v", e)
				}
				if e.CalculatedValues.TotalPurchase != 1234000 {
					t.Fatalf("expected recomputed totals, got %+v", e.CalculatedValues)
				}
				if len(e.ServiceData) != 1 || !pricing.IsRoundingItem(e.ServiceData[0]) {
					t.Fatalf("expected rounding row, got %+v", e.ServiceData)
				}
				return e, nil
			},
		)

		if _, err := uc.Create(context.Background(), adminID, draft); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects invalid payment info", func(t *testing.T) {
		uc := NewEstimateUseCase(nil, nil)
		rate := 150
		cases := []*entities.PaymentInfo{
			{LaborCost: -1},
			{IncludeVat: true, VatRate: &rate},
			{PaymentMethod: "bitcoin"},
			{RoundingType: "5down"},
			{ReleaseDate: "tomorrow"},
		}
		for _, p := range cases {
			_, err := uc.Create(context.Background(), adminID, entities.Estimate{PaymentInfo: p})
			if !errors.Is(err, ErrInvalidEstimateVal) {
				t.Fatalf("expected ErrInvalidEstimateVal for %+v, got %v", p, err)
			}
		}
	})
}

func TestEstimateUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewEstimateUseCase(nil, nil)
		_, err := uc.GetByID(context.Background(), adminID, "  ")
		if !errors.Is(err, ErrInvalidEstimateID) {
			t.Fatalf("expected ErrInvalidEstimateID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, nil)

		_, err := uc.GetByID(context.Background(), adminID, " est-1 ")
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, errors.New("db"))

		_, err := uc.GetByID(context.Background(), adminID, "est-1")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestEstimateUseCase_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
	uc := NewEstimateUseCase(repo, nil)

	yes := true
	repo.EXPECT().List(gomock.Any(), entities.EstimateFilter{Query: "kim", IsContractor: &yes}, 1, maxPageSize).
		Return([]entities.Estimate{{ID: "est-1"}}, 1, nil)

	items, total, err := uc.List(context.Background(), adminID, entities.EstimateFilter{Query: "  kim ", IsContractor: &yes}, 0, 1000)
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("unexpected result items=%v total=%d err=%v", items, total, err)
	}
}

func TestEstimateUseCase_Save(t *testing.T) {
	t.Run("replaces with recomputed values", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil)

		stored := storedEstimate()
		submitted := stored.Clone()
		submitted.CreatedBy = "someone-else"
		submitted.CalculatedValues = entities.CalculatedValues{FinalPayment: 42}
		submitted.ServiceData = append(submitted.ServiceData, entities.ServiceItem{ProductName: pricing.RoundingMarker + " forged"})

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(stored, nil)
		repo.EXPECT().Replace(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.CreatedBy != "admin-1" || !e.CreatedAt.Equal(stored.CreatedAt) {
					t.Fatalf("creation metadata must be preserved: %+v", e)
				}
				if e.CalculatedValues.FinalPayment != 1234567 {
					t.Fatalf("expected recomputed values, got %+v", e.CalculatedValues)
				}
				if len(e.ServiceData) != 0 {
					t.Fatalf("forged rounding row must be dropped: %+v", e.ServiceData)
				}
				return e, nil
			},
		)

		if _, err := uc.Save(context.Background(), adminID, submitted); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "est-9").Return(entities.Estimate{}, nil)

		_, err := uc.Save(context.Background(), adminID, entities.Estimate{ID: "est-9"})
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})
}

func TestEstimateUseCase_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
	uc := NewEstimateUseCase(repo, nil)

	repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(storedEstimate(), nil)
	repo.EXPECT().Delete(gomock.Any(), "est-1").Return(nil)

	if err := uc.Delete(context.Background(), adminID, "est-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEstimateUseCase_ApplyEdits(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		uc := NewEstimateUseCase(nil, nil)
		_, _, err := uc.ApplyEdits(context.Background(), adminID, "est-1", nil)
		if !errors.Is(err, ErrEmptyEditBatch) {
			t.Fatalf("expected ErrEmptyEditBatch, got %v", err)
		}
	})

	t.Run("rounding then labor edit clears it with a notice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(storedEstimate(), nil)
		repo.EXPECT().Replace(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) { return e, nil },
		)

		cmds := []pricing.Command{
			{Type: pricing.CmdSelectRounding, Tier: entities.RoundingTenThousand},
			{Type: pricing.CmdSetPaymentAmount, Field: pricing.FieldLaborCost, Value: 10000},
		}
		saved, notices, err := uc.ApplyEdits(context.Background(), adminID, "est-1", cmds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notices) != 1 || notices[0].Code != pricing.NoticeRoundingCleared {
			t.Fatalf("expected rounding_cleared notice, got %+v", notices)
		}
		if saved.PaymentInfo.RoundingType != entities.RoundingNone || len(saved.ServiceData) != 0 {
			t.Fatalf("rounding should be cleared: %+v", saved)
		}
		if saved.CalculatedValues.TotalPurchase != 1244567 {
			t.Fatalf("unexpected totals: %+v", saved.CalculatedValues)
		}
	})

	t.Run("failing command writes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(storedEstimate(), nil)
		repo.EXPECT().Replace(gomock.Any(), gomock.Any()).Times(0)

		cmds := []pricing.Command{
			{Type: pricing.CmdSelectRounding, Tier: entities.RoundingThousand},
			{Type: pricing.CmdRemoveLineItem, Index: 7},
		}
		_, _, err := uc.ApplyEdits(context.Background(), adminID, "est-1", cmds)
		if !errors.Is(err, pricing.ErrIndexOutOfRange) || !errors.Is(err, pricing.ErrInvalidEdit) {
			t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
		}
	})
}

func TestEstimateUseCase_CalculateAndParseBulk(t *testing.T) {
	uc := NewEstimateUseCase(nil, nil)

	preview, err := uc.Calculate(adminID, entities.Estimate{
		TableData:   []entities.LineItem{{Price: "1,200,000"}},
		PaymentInfo: &entities.PaymentInfo{LaborCost: 50000, IncludeVat: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.CalculatedValues.FinalPayment != 1375000 {
		t.Fatalf("unexpected preview: %+v", preview.CalculatedValues)
	}

	items, err := uc.ParseBulk(adminID, "[CPU] i5\n정품\n1\n250,000\n")
	if err != nil || len(items) != 1 || items[0].Category != "CPU" {
		t.Fatalf("unexpected parse result items=%+v err=%v", items, err)
	}
	if _, err := uc.ParseBulk(adminID, "a\nb"); !errors.Is(err, pricing.ErrUnrecognizedBulkFormat) {
		t.Fatalf("expected ErrUnrecognizedBulkFormat, got %v", err)
	}
}

func TestEstimateUseCase_RenderPDF(t *testing.T) {
	t.Run("renderer missing", func(t *testing.T) {
		uc := NewEstimateUseCase(nil, nil)
		_, _, err := uc.RenderPDF(context.Background(), adminID, "est-1")
		if !errors.Is(err, ErrRendererUnavailable) {
			t.Fatalf("expected ErrRendererUnavailable, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		renderer := mock_interfaces.NewMockIEstimateRenderer(ctrl)
		uc := NewEstimateUseCase(repo, renderer)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(storedEstimate(), nil)
		renderer.EXPECT().Render(gomock.Any()).Return([]byte("%PDF-1.3"), nil)

		e, doc, err := uc.RenderPDF(context.Background(), adminID, "est-1")
		if err != nil || e.ID != "est-1" || string(doc) != "%PDF-1.3" {
			t.Fatalf("unexpected result e=%+v doc=%q err=%v", e, doc, err)
		}
	})
}
