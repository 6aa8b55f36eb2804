package handlers

import (
	"errors"
	"net/http"

	"pcshop_service/internal/adapter/http/dto/request"
	"pcshop_service/internal/adapter/http/dto/response"
	"pcshop_service/internal/adapter/http/middleware"
	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase"
	"pcshop_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const serviceRequestFilesField = "files"

// ServiceRequestHandler serves quote requests, repair tickets and inquiries.
type ServiceRequestHandler struct {
	usecase usecase.IServiceRequestUseCase
}

func NewServiceRequestHandler(uc usecase.IServiceRequestUseCase) *ServiceRequestHandler {
	return &ServiceRequestHandler{usecase: uc}
}

// CreateServiceRequest accepts a multipart form; attachments come from the
// "files" field.
func (h *ServiceRequestHandler) CreateServiceRequest(c *gin.Context) {
	var form request.ServiceRequestForm
	if err := c.ShouldBind(&form); err != nil {
		respond(c, errInvalidPayload)
		return
	}
	sr, err := form.ToServiceRequest()
	if err != nil {
		respond(c, invalid(err))
		return
	}
	files, err := readUploads(c, serviceRequestFilesField)
	if err != nil {
		logrus.Warnf("[service-request][handler] unreadable upload err=%v", err)
		respond(c, errInvalidPayload)
		return
	}

	identity := middleware.IdentityFrom(c)
	created, err := h.usecase.Create(c.Request.Context(), identity, sr, files)
	if err != nil {
		logrus.Warnf("[service-request][handler] create failed user_id=%s kind=%s files=%d err=%v", identity.UserID, sr.Kind, len(files), err)
		respond(c, mapServiceRequestError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromServiceRequest(created))
}

func (h *ServiceRequestHandler) GetServiceRequest(c *gin.Context) {
	sr, err := h.usecase.GetByID(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respond(c, mapServiceRequestError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromServiceRequest(sr))
}

// ListServiceRequests returns the caller's own submissions, or every
// submission for administrators.
func (h *ServiceRequestHandler) ListServiceRequests(c *gin.Context) {
	var q request.ListServiceRequestsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond(c, errInvalidPayload)
		return
	}

	page, pageSize := usecase.NormalizePage(q.Page, q.PageSize)
	items, total, err := h.usecase.List(c.Request.Context(), middleware.IdentityFrom(c), q.Filter(), page, pageSize)
	if err != nil {
		respond(c, mapServiceRequestError(err))
		return
	}
	c.JSON(http.StatusOK, response.NewPagedResponse(response.FromServiceRequests(items), total, page, pageSize))
}

func (h *ServiceRequestHandler) UpdateStatus(c *gin.Context) {
	var payload request.StatusUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, errInvalidPayload)
		return
	}

	id := c.Param("id")
	updated, err := h.usecase.UpdateStatus(c.Request.Context(), middleware.IdentityFrom(c), id, entities.ServiceRequestStatus(payload.Status))
	if err != nil {
		logrus.Warnf("[service-request][handler] status update failed request_id=%s status=%s err=%v", id, payload.Status, err)
		respond(c, mapServiceRequestError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromServiceRequest(updated))
}

func (h *ServiceRequestHandler) DeleteServiceRequest(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		respond(c, mapServiceRequestError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func mapServiceRequestError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidServiceRequest), errors.Is(err, usecase.ErrInvalidServiceRequestID):
		return invalid(err)
	case errors.Is(err, usecase.ErrServiceRequestNotFound):
		return pkg.NewDomainErrorSimple("SERVICE_REQUEST_NOT_FOUND", "Service request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		return pkg.NewDomainError("INVALID_STATUS_TRANSITION", err.Error(), err, http.StatusConflict)
	default:
		return mapCommonError(err)
	}
}
