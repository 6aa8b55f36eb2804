package routes

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pcshop_service/internal/adapter/http/handlers"
	"pcshop_service/internal/adapter/http/middleware"
	"pcshop_service/internal/adapter/persistence/repository"
	"pcshop_service/internal/config"
	"pcshop_service/internal/infrastructure/auth"
	"pcshop_service/internal/infrastructure/database"
	"pcshop_service/internal/infrastructure/payments"
	"pcshop_service/internal/infrastructure/pdf"
	"pcshop_service/internal/infrastructure/storage"
	"pcshop_service/internal/usecase"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Run will start the server and block until SIGINT/SIGTERM.
func Run(cfg *config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxMultipartMemory
	setMiddlewares(router, cfg)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(ctx, router, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.Infof("[server] listening port=%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to startup the application: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("[server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("[server] forced shutdown err=%v", err)
	}
}

func getRoutes(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	ddb, awsCfg := database.ConnectDynamoDB(ctx, cfg.AWS)

	estimateRepo := repository.NewEstimateDynamoRepository(ddb, cfg.Tables.Estimates)
	paymentRepo := repository.NewEstimatePaymentDynamoRepository(ddb, cfg.Tables.Payments)
	serviceRequestRepo := repository.NewServiceRequestDynamoRepository(ddb, cfg.Tables.ServiceRequests)
	reviewRepo := repository.NewReviewDynamoRepository(ddb, cfg.Tables.Reviews)
	userRepo := repository.NewUserDynamoRepository(ddb, cfg.Tables.Users)

	attachments := storage.NewS3AttachmentStore(storage.NewS3Client(awsCfg, cfg.Storage), cfg.Storage, cfg.AWS.Region)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
	renderer := pdf.NewEstimateRenderer(cfg.PDF.ShopName, cfg.PDF.FontFamily, cfg.PDF.FontPath)

	estimateUseCase := usecase.NewEstimateUseCase(estimateRepo, renderer)
	paymentUseCase := usecase.NewEstimatePaymentUseCase(paymentRepo, estimateRepo, paymentGateway(cfg.Payments), usecase.PaymentSettings{
		MockMode:           cfg.Payments.MockMode,
		Sandbox:            cfg.Payments.Sandbox(),
		SandboxPayerEmail:  cfg.Payments.SandboxPayerEmail,
		SandboxPayerUserID: cfg.Payments.SandboxPayerUserID,
	})
	serviceRequestUseCase := usecase.NewServiceRequestUseCase(serviceRequestRepo, attachments)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, userRepo, attachments)
	userUseCase := usecase.NewUserUseCase(userRepo, tokens, cfg.AdminEmails)

	estimateHandler := handlers.NewEstimateHandler(estimateUseCase)
	paymentHandler := handlers.NewEstimatePaymentHandler(paymentUseCase)
	serviceRequestHandler := handlers.NewServiceRequestHandler(serviceRequestUseCase)
	reviewHandler := handlers.NewReviewHandler(reviewUseCase)
	userHandler := handlers.NewUserHandler(userUseCase)

	am := middleware.NewAuthMiddleware(tokens)
	admin := []gin.HandlerFunc{am.RequireAuth(), am.RequireAdmin()}

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addUserRoutes(v1, am, userHandler)
	addCustomerRoutes(v1, am, serviceRequestHandler, reviewHandler)
	addEstimateRoutes(v1, admin, estimateHandler, paymentHandler)
}

// paymentGateway returns nil in mock mode or without an access token; the
// payment usecase then reports the gateway as not configured or simulates it.
func paymentGateway(c config.PaymentsConfig) interfaces.IPaymentGateway {
	if c.MockMode {
		logrus.Info("[payments] gateway mock mode enabled")
		return nil
	}
	gw, err := payments.NewMercadoPagoGateway(c.AccessToken)
	if err != nil {
		logrus.Warnf("[payments] Mercado Pago gateway not configured err=%v", err)
		return nil
	}
	logrus.Infof("[payments] Mercado Pago gateway configured sandbox=%t", c.Sandbox())
	return gw
}

func setMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestLogger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.Errorf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))
}
