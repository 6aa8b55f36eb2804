package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pcshop_service/internal/adapter/http/dto/response"
	"pcshop_service/internal/adapter/http/middleware"
	"pcshop_service/internal/usecase"
	"pcshop_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EstimatePaymentHandler handles card payments charged against an estimate.
type EstimatePaymentHandler struct {
	usecase usecase.IEstimatePaymentUseCase
}

func NewEstimatePaymentHandler(uc usecase.IEstimatePaymentUseCase) *EstimatePaymentHandler {
	return &EstimatePaymentHandler{usecase: uc}
}

// CreatePaymentByEstimateID charges the estimate's final amount. The body is
// the Mercado Pago payment request, bare or wrapped in "mp_payload".
func (h *EstimatePaymentHandler) CreatePaymentByEstimateID(c *gin.Context) {
	estimateID := c.Param("estimate_id")
	logrus.Infof("[payment][handler] create start estimate_id=%s", estimateID)

	mpPayload, err := readMPPayload(c)
	if err != nil {
		// The usecase decides: mock mode charges an empty request, live mode rejects it.
		logrus.Warnf("[payment][handler] unreadable payload estimate_id=%s err=%v", estimateID, err)
		mpPayload = nil
	}

	created, err := h.usecase.CreateAndApprove(c.Request.Context(), middleware.IdentityFrom(c), estimateID, mpPayload)
	if err != nil {
		logrus.Warnf("[payment][handler] create failed estimate_id=%s err=%v", estimateID, err)
		respond(c, mapEstimatePaymentError(err))
		return
	}
	logrus.Infof("[payment][handler] create success estimate_id=%s payment_id=%s status=%s", estimateID, created.ID, created.Status)

	c.JSON(http.StatusOK, response.FromEstimatePayment(created))
}

// GetPaymentByEstimateID returns the latest payment for an estimate.
func (h *EstimatePaymentHandler) GetPaymentByEstimateID(c *gin.Context) {
	estimateID := c.Param("estimate_id")

	payments, err := h.usecase.ListByEstimateID(c.Request.Context(), middleware.IdentityFrom(c), estimateID)
	if err != nil {
		logrus.Warnf("[payment][handler] get-by-estimate failed estimate_id=%s err=%v", estimateID, err)
		respond(c, mapEstimatePaymentError(err))
		return
	}

	if len(payments) == 0 {
		respond(c, pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound))
		return
	}

	latest := payments[0]
	for _, p := range payments[1:] {
		if p.Date.After(latest.Date) {
			latest = p
		}
	}
	c.JSON(http.StatusOK, response.FromEstimatePayment(latest))
}

// GetPayment returns one payment. It must belong to the estimate in the path.
func (h *EstimatePaymentHandler) GetPayment(c *gin.Context) {
	estimateID := strings.TrimSpace(c.Param("estimate_id"))

	p, err := h.usecase.GetByID(c.Request.Context(), middleware.IdentityFrom(c), c.Param("payment_id"))
	if err != nil {
		respond(c, mapEstimatePaymentError(err))
		return
	}
	if p.EstimateID != estimateID {
		respond(c, mapEstimatePaymentError(usecase.ErrPaymentNotFound))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimatePayment(p))
}

func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["mp_payload"]; ok {
			if len(strings.TrimSpace(string(wrapped))) == 0 || strings.TrimSpace(string(wrapped)) == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return wrapped, nil
		}
	}

	return json.RawMessage(raw), nil
}

func mapEstimatePaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentEstimateID), errors.Is(err, usecase.ErrInvalidPaymentID),
		errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider rejected the shop credentials", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider not configured", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateNotPayable):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_PAYABLE", "Estimate has no amount to pay", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return mapCommonError(err)
	}
}
