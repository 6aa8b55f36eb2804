package handlers

import (
	"errors"
	"net/http"

	"pcshop_service/internal/usecase"
	"pcshop_service/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
)

func respond(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// invalid reports a validation failure with the cause as the message.
func invalid(err error) *pkg.AppError {
	return pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest)
}

// mapCommonError covers the errors every usecase can return: authorization
// and the attachment policy.
func mapCommonError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		return pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Insufficient permissions", http.StatusForbidden)
	case errors.Is(err, usecase.ErrTooManyFiles), errors.Is(err, usecase.ErrFileTooLarge), errors.Is(err, usecase.ErrUnsupportedFileType):
		return invalid(err)
	case errors.Is(err, usecase.ErrAttachmentUpload):
		return pkg.NewDomainError("UPSTREAM_ERROR", "Attachment upload failed", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrAttachmentStoreUnset):
		return pkg.NewDomainError("ATTACHMENTS_UNAVAILABLE", "Attachments are not available", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
