package routes

import (
	"pcshop_service/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathEstimates = "/estimates"
	PathPayments  = "/payments"
)

// addEstimateRoutes registers the back-office calculator. Every route is for
// administrators; admin must be RequireAuth followed by RequireAdmin.
func addEstimateRoutes(rg *gin.RouterGroup, admin []gin.HandlerFunc, estimateHandler *handlers.EstimateHandler, paymentHandler *handlers.EstimatePaymentHandler) {
	estimates := rg.Group(PathEstimates, admin...)
	{
		estimates.POST("", estimateHandler.CreateEstimate)
		estimates.GET("", estimateHandler.ListEstimates)
		estimates.POST("/calculate", estimateHandler.Calculate)
		estimates.POST("/bulk-import", estimateHandler.BulkImport)
		estimates.GET("/:id", estimateHandler.GetEstimate)
		estimates.PUT("/:id", estimateHandler.SaveEstimate)
		estimates.DELETE("/:id", estimateHandler.DeleteEstimate)
		estimates.POST("/:id/edits", estimateHandler.ApplyEdits)
		estimates.GET("/:id/pdf", estimateHandler.DownloadPDF)
	}

	payments := rg.Group(PathPayments, admin...)
	{
		payments.POST("/:estimate_id", paymentHandler.CreatePaymentByEstimateID)
		payments.GET("/:estimate_id", paymentHandler.GetPaymentByEstimateID)
		payments.GET("/:estimate_id/:payment_id", paymentHandler.GetPayment)
	}
}
