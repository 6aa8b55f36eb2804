package routes

import (
	"pcshop_service/internal/adapter/http/handlers"
	"pcshop_service/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathAuth            = "/auth"
	PathUsers           = "/users"
	PathServiceRequests = "/service-requests"
	PathReviews         = "/reviews"
)

func addUserRoutes(rg *gin.RouterGroup, am *middleware.AuthMiddleware, userHandler *handlers.UserHandler) {
	auth := rg.Group(PathAuth)
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}

	users := rg.Group(PathUsers, am.RequireAuth())
	{
		users.GET("/me", userHandler.Me)
		users.GET("", am.RequireAdmin(), userHandler.ListUsers)
	}
}

// addCustomerRoutes registers the storefront: submissions need a session,
// status changes are for administrators and reviews can be read anonymously.
func addCustomerRoutes(rg *gin.RouterGroup, am *middleware.AuthMiddleware, requestHandler *handlers.ServiceRequestHandler, reviewHandler *handlers.ReviewHandler) {
	requests := rg.Group(PathServiceRequests, am.RequireAuth())
	{
		requests.POST("", requestHandler.CreateServiceRequest)
		requests.GET("", requestHandler.ListServiceRequests)
		requests.GET("/:id", requestHandler.GetServiceRequest)
		requests.PATCH("/:id/status", am.RequireAdmin(), requestHandler.UpdateStatus)
		requests.DELETE("/:id", requestHandler.DeleteServiceRequest)
	}

	reviews := rg.Group(PathReviews)
	{
		reviews.GET("", am.OptionalAuth(), reviewHandler.ListReviews)
		reviews.POST("", am.RequireAuth(), reviewHandler.CreateReview)
		reviews.DELETE("/:id", am.RequireAuth(), reviewHandler.DeleteReview)
	}
}
