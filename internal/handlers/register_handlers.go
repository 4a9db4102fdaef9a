package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SscSPs/bank_statements_svc/cmd/docs"
	portssvc "github.com/SscSPs/bank_statements_svc/internal/core/ports/services"
	"github.com/SscSPs/bank_statements_svc/internal/middleware"
	"github.com/SscSPs/bank_statements_svc/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	decoder middleware.TokenDecoder,
) {
	registerHomeRoutes(r)

	// Claims extraction is optional on the whole versioned group: only the
	// endpoints that need identity enforce it.
	v1 := r.Group("/v1/bankstatements", middleware.ClaimsExtractionMiddleware(decoder))
	registerStatementRoutes(v1, services)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/v1/bankstatements"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
