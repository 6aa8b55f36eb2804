package handlers

import (
	"errors"
	"net/http"

	"pcshop_service/internal/adapter/http/dto/request"
	"pcshop_service/internal/adapter/http/dto/response"
	"pcshop_service/internal/adapter/http/middleware"
	"pcshop_service/internal/usecase"
	"pcshop_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const reviewImagesField = "images"

type ReviewHandler struct {
	usecase usecase.IReviewUseCase
}

func NewReviewHandler(uc usecase.IReviewUseCase) *ReviewHandler {
	return &ReviewHandler{usecase: uc}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var form request.ReviewForm
	if err := c.ShouldBind(&form); err != nil {
		respond(c, errInvalidPayload)
		return
	}
	images, err := readUploads(c, reviewImagesField)
	if err != nil {
		logrus.Warnf("[review][handler] unreadable upload err=%v", err)
		respond(c, errInvalidPayload)
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), middleware.IdentityFrom(c), form.ToReview(), images)
	if err != nil {
		logrus.Warnf("[review][handler] create failed images=%d err=%v", len(images), err)
		respond(c, mapReviewError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromReview(created))
}

// ListReviews is public.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var q request.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond(c, errInvalidPayload)
		return
	}

	page, pageSize := usecase.NormalizePage(q.Page, q.PageSize)
	items, total, err := h.usecase.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respond(c, mapReviewError(err))
		return
	}
	c.JSON(http.StatusOK, response.NewPagedResponse(response.FromReviews(items), total, page, pageSize))
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		respond(c, mapReviewError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func mapReviewError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidReview), errors.Is(err, usecase.ErrInvalidReviewID):
		return invalid(err)
	case errors.Is(err, usecase.ErrReviewNotFound):
		return pkg.NewDomainErrorSimple("REVIEW_NOT_FOUND", "Review not found", http.StatusNotFound)
	default:
		return mapCommonError(err)
	}
}
