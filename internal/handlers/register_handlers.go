package handlers

import (
	"github.com/SscSPs/logistics_ledger/cmd/docs"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/middleware"
	"github.com/SscSPs/logistics_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupSwaggerRoutes(r, cfg)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerAccountRoutes(v1, service.Account, service.Balance)
	registerExchangeRateRoutes(v1, service.Currency)
	registerJournalRoutes(v1, service.Journal)
	registerFiscalPeriodRoutes(v1, service.FiscalPeriod)
	registerBankAccountRoutes(v1, service.Balance)
	registerReportingRoutes(v1, service.Reporting)
	registerPayrollRoutes(v1, service.Payroll)
	registerCostAllocationRoutes(v1, service.CostAllocation)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		// no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
