package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pcshop_service/internal/adapter/http/handlers/mocks"
	"pcshop_service/internal/adapter/http/middleware"
	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

var adminIdentity = entities.Identity{UserID: "admin-1", Authority: entities.AuthorityAdministrative}

type failingReadCloser struct{}

func (failingReadCloser) Read(_ []byte) (int, error) { return 0, errors.New("read error") }
func (failingReadCloser) Close() error               { return nil }

func newPaymentRouter(h *EstimatePaymentHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.WithIdentity(adminIdentity))
	r.POST("/v1/payments/:estimate_id", h.CreatePaymentByEstimateID)
	r.GET("/v1/payments/:estimate_id", h.GetPaymentByEstimateID)
	r.GET("/v1/payments/:estimate_id/:payment_id", h.GetPayment)
	return r
}

func TestEstimatePaymentHandler_CreatePaymentByEstimateID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payload is handed to the usecase empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		uc.EXPECT().CreateAndApprove(gomock.Any(), adminIdentity, "est-1", gomock.Nil()).Return(entities.EstimatePayment{}, usecase.ErrInvalidMPPayload)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/est-1", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("usecase mapped error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		uc.EXPECT().CreateAndApprove(gomock.Any(), adminIdentity, "est-1", gomock.Any()).Return(entities.EstimatePayment{}, usecase.ErrEstimateNotPayable)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/est-1", bytes.NewBufferString(`{"payment_method_id":"visa","payer":{"email":"x@test.com"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success unwraps mp_payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		now := time.Now().UTC()
		uc.EXPECT().CreateAndApprove(gomock.Any(), adminIdentity, "est-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ entities.Identity, _ string, payload json.RawMessage) (entities.EstimatePayment, error) {
				if string(payload) != `{"payment_method_id":"visa"}` {
					t.Fatalf("expected unwrapped payload, got %s", payload)
				}
				return entities.EstimatePayment{ID: "pay-1", EstimateID: "est-1", Amount: 1364000, Date: now, Status: entities.PaymentStatusApproved}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/est-1", bytes.NewBufferString(`{"mp_payload":{"payment_method_id":"visa"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["payment_id"] != "pay-1" || body["amount"] != float64(1364000) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestEstimatePaymentHandler_GetPaymentByEstimateID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		uc.EXPECT().ListByEstimateID(gomock.Any(), adminIdentity, "est-1").Return(nil, usecase.ErrInvalidPaymentEstimateID)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/est-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		uc.EXPECT().ListByEstimateID(gomock.Any(), adminIdentity, "est-1").Return([]entities.EstimatePayment{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/est-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success returns latest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		old := entities.EstimatePayment{ID: "old", EstimateID: "est-1", Date: time.Now().Add(-time.Hour), Status: entities.PaymentStatusRejected}
		latest := entities.EstimatePayment{ID: "latest", EstimateID: "est-1", Date: time.Now(), Status: entities.PaymentStatusApproved}
		uc.EXPECT().ListByEstimateID(gomock.Any(), adminIdentity, "est-1").Return([]entities.EstimatePayment{old, latest}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/est-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["payment_id"] != "latest" {
			t.Fatalf("expected latest payment, got body: %s", w.Body.String())
		}
	})
}

func TestEstimatePaymentHandler_GetPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("payment of another estimate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		uc.EXPECT().GetByID(gomock.Any(), adminIdentity, "pay-1").Return(entities.EstimatePayment{ID: "pay-1", EstimateID: "est-2"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/est-1/pay-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimatePaymentUseCase(ctrl)
		r := newPaymentRouter(NewEstimatePaymentHandler(uc))

		uc.EXPECT().GetByID(gomock.Any(), adminIdentity, "pay-1").Return(entities.EstimatePayment{ID: "pay-1", EstimateID: "est-1"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/est-1/pay-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestReadMPPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	makeCtx := func(raw string) *gin.Context {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(raw))
		c.Request.Header.Set("Content-Type", "application/json")
		return c
	}

	ctxReadErr := makeCtx("{}")
	ctxReadErr.Request.Body = failingReadCloser{}
	if _, err := readMPPayload(ctxReadErr); err == nil {
		t.Fatalf("expected read body error")
	}

	if _, err := readMPPayload(makeCtx("{invalid")); err == nil {
		t.Fatalf("expected invalid json error")
	}

	payload, err := readMPPayload(makeCtx("   "))
	if err != nil || string(payload) != "{}" {
		t.Fatalf("expected {}, got payload=%s err=%v", string(payload), err)
	}

	if _, err := readMPPayload(makeCtx(`{"mp_payload":null}`)); err == nil {
		t.Fatalf("expected mp_payload empty error")
	}

	payload, err = readMPPayload(makeCtx(`{"mp_payload":{"a":1}}`))
	if err != nil || string(payload) != `{"a":1}` {
		t.Fatalf("expected wrapped payload, got %s err=%v", payload, err)
	}

	payload, err = readMPPayload(makeCtx(`{"payment_method_id":"visa"}`))
	if err != nil || string(payload) != `{"payment_method_id":"visa"}` {
		t.Fatalf("expected raw body payload, got %s err=%v", payload, err)
	}
}

func TestMapEstimatePaymentError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{usecase.ErrInvalidPaymentEstimateID, http.StatusBadRequest},
		{usecase.ErrInvalidMPPayload, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayBadRequest, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayCustomerNotFound, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayInvalidUsers, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayUnauthorized, http.StatusBadGateway},
		{usecase.ErrPaymentGatewayNotConfigured, http.StatusServiceUnavailable},
		{usecase.ErrEstimateNotFound, http.StatusNotFound},
		{usecase.ErrEstimateNotPayable, http.StatusConflict},
		{usecase.ErrPaymentNotFound, http.StatusNotFound},
		{usecase.ErrUnauthenticated, http.StatusUnauthorized},
		{usecase.ErrForbidden, http.StatusForbidden},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := mapEstimatePaymentError(tc.err)
		if got.HTTPStatus != tc.code {
			t.Fatalf("for err %v expected %d got %d", tc.err, tc.code, got.HTTPStatus)
		}
	}
}
