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

// UserHandler serves registration, login and account lookups.
type UserHandler struct {
	usecase usecase.IUserUseCase
}

func NewUserHandler(uc usecase.IUserUseCase) *UserHandler {
	return &UserHandler{usecase: uc}
}

func (h *UserHandler) Register(c *gin.Context) {
	var payload request.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, errInvalidPayload)
		return
	}

	u, err := h.usecase.Register(c.Request.Context(), payload.ToInput())
	if err != nil {
		respond(c, mapUserError(err))
		return
	}
	logrus.Infof("[user][handler] registered user_id=%s authority=%s", u.ID, u.Authority)
	c.JSON(http.StatusCreated, response.FromUser(u))
}

func (h *UserHandler) Login(c *gin.Context) {
	var payload request.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, errInvalidPayload)
		return
	}

	session, err := h.usecase.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respond(c, mapUserError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromSession(session))
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.usecase.Me(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		respond(c, mapUserError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromUser(u))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.usecase.List(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		respond(c, mapUserError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromUsers(users))
}

func mapUserError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidUserInput):
		return invalid(err)
	case errors.Is(err, usecase.ErrEmailAlreadyRegistered):
		return pkg.NewDomainErrorSimple("EMAIL_ALREADY_REGISTERED", "Email already registered", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return pkg.NewDomainErrorSimple("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrUserNotFound):
		return pkg.NewDomainErrorSimple("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	default:
		return mapCommonError(err)
	}
}
