package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"pcshop_service/internal/adapter/http/dto/request"
	"pcshop_service/internal/adapter/http/dto/response"
	"pcshop_service/internal/adapter/http/middleware"
	"pcshop_service/internal/domain/pricing"
	"pcshop_service/internal/usecase"
	"pcshop_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	errInvalidEstimatePayload = pkg.NewDomainErrorSimple("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", http.StatusBadRequest)
)

// EstimateHandler serves the back-office estimate calculator.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

// CreateEstimate stores a new estimate. An empty body creates a blank one.
func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var payload request.EstimateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respond(c, errInvalidEstimatePayload)
			return
		}
	}

	created, err := h.usecase.Create(c.Request.Context(), middleware.IdentityFrom(c), payload.ToEstimate(""))
	if err != nil {
		logrus.Warnf("[estimate][handler] create failed err=%v", err)
		respond(c, mapEstimateError(err))
		return
	}
	logrus.Infof("[estimate][handler] create success estimate_id=%s", created.ID)
	c.JSON(http.StatusCreated, response.FromEstimate(created))
}

func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	e, err := h.usecase.GetByID(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respond(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(e))
}

func (h *EstimateHandler) ListEstimates(c *gin.Context) {
	var q request.ListEstimatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond(c, errInvalidPayload)
		return
	}
	filter, err := q.Filter()
	if err != nil {
		respond(c, invalid(err))
		return
	}

	page, pageSize := usecase.NormalizePage(q.Page, q.PageSize)
	items, total, err := h.usecase.List(c.Request.Context(), middleware.IdentityFrom(c), filter, page, pageSize)
	if err != nil {
		respond(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.NewPagedResponse(response.FromEstimates(items), total, page, pageSize))
}

// SaveEstimate replaces the whole document. Totals and the rounding row are
// recomputed from the submitted rows and terms.
func (h *EstimateHandler) SaveEstimate(c *gin.Context) {
	var payload request.EstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, errInvalidEstimatePayload)
		return
	}

	id := c.Param("id")
	saved, err := h.usecase.Save(c.Request.Context(), middleware.IdentityFrom(c), payload.ToEstimate(id))
	if err != nil {
		logrus.Warnf("[estimate][handler] save failed estimate_id=%s err=%v", id, err)
		respond(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(saved))
}

func (h *EstimateHandler) DeleteEstimate(c *gin.Context) {
	id := c.Param("id")
	if err := h.usecase.Delete(c.Request.Context(), middleware.IdentityFrom(c), id); err != nil {
		respond(c, mapEstimateError(err))
		return
	}
	logrus.Infof("[estimate][handler] delete success estimate_id=%s", id)
	c.Status(http.StatusNoContent)
}

// ApplyEdits runs an operator edit batch. Nothing is stored when one command
// of the batch is rejected.
func (h *EstimateHandler) ApplyEdits(c *gin.Context) {
	var payload request.EditBatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, errInvalidEstimatePayload)
		return
	}

	id := c.Param("id")
	e, notices, err := h.usecase.ApplyEdits(c.Request.Context(), middleware.IdentityFrom(c), id, payload.Commands)
	if err != nil {
		logrus.Warnf("[estimate][handler] edits failed estimate_id=%s commands=%d err=%v", id, len(payload.Commands), err)
		respond(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimateEdit(e, notices))
}

// Calculate previews totals without storing anything.
func (h *EstimateHandler) Calculate(c *gin.Context) {
	var payload request.EstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, errInvalidEstimatePayload)
		return
	}

	preview, err := h.usecase.Calculate(middleware.IdentityFrom(c), payload.ToEstimate(""))
	if err != nil {
		respond(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(preview))
}

// BulkImport parses pasted price-comparison text into rows. The caller adds
// them to an estimate with an import_line_items edit or a save.
func (h *EstimateHandler) BulkImport(c *gin.Context) {
	var payload request.BulkImportRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, errInvalidPayload)
		return
	}

	items, err := h.usecase.ParseBulk(middleware.IdentityFrom(c), payload.Text)
	if err != nil {
		respond(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromBulkImport(items))
}

// DownloadPDF renders the customer-facing estimate document.
func (h *EstimateHandler) DownloadPDF(c *gin.Context) {
	e, doc, err := h.usecase.RenderPDF(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respond(c, mapEstimateError(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate-%s.pdf"`, e.ID))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func mapEstimateError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidEstimateVal),
		errors.Is(err, usecase.ErrEmptyEditBatch), errors.Is(err, pricing.ErrInvalidEdit):
		return invalid(err)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrRendererUnavailable):
		return pkg.NewDomainError("PDF_UNAVAILABLE", "Estimate documents are not available", err, http.StatusServiceUnavailable)
	default:
		return mapCommonError(err)
	}
}
