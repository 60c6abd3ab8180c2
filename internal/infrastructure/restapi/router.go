package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions toggles the optional routes.
type RouterOptions struct {
	SwaggerEnabled  bool
	SwaggerSpecPath string // served at /docs/swagger.yaml
}

// SetupRouter configures and returns the Gin router.
func SetupRouter(scoreHandler *ScoreHandler, zapLogger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(zapLogger.Named("HTTP")))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/scores/:walletAddress", scoreHandler.GetWalletScoreHandler)
		v1.POST("/scores", scoreHandler.PostBatchScoresHandler)
		v1.GET("/chain", scoreHandler.GetChainHandler)
		v1.GET("/chains", scoreHandler.GetKnownChainsHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.SwaggerEnabled && opts.SwaggerSpecPath != "" {
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerSpecPath)
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
	}

	return router
}
