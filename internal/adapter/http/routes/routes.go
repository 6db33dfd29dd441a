package routes

import (
	"log"
	"net/http"

	_ "devis_broker/docs" // This will be auto-generated
	"devis_broker/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	Quote        *handlers.QuoteHandler
	Notification *handlers.NotificationHandler
	Forwarder    *handlers.ForwarderHandler
}

// NewRouter builds the gin engine. Serving it is left to the caller so the
// server can be shut down together with the background jobs.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addQuoteRoutes(v1, h.Quote)
	addNotificationRoutes(v1, h.Notification)
	addForwarderRoutes(v1, h.Forwarder)
	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
