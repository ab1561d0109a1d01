package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"availability-engine/internal/handler/api"
	"availability-engine/internal/handler/middleware"
	"availability-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, availabilityHandler *api.AvailabilityHandler, healthHandler *api.HealthHandler) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, availabilityHandler, healthHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, availabilityHandler *api.AvailabilityHandler, healthHandler *api.HealthHandler) {
	engine.GET("/health", healthHandler.Check)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		properties := apiGroup.Group("/properties/:propertyId")
		{
			addRoutes(properties, []route{
				{Method: http.MethodGet, Path: "", Handler: availabilityHandler.GetProperty},
				{Method: http.MethodGet, Path: "/rooms/:roomId/availability", Handler: availabilityHandler.GetAvailability},
				{Method: http.MethodGet, Path: "/rooms/:roomId/quote", Handler: availabilityHandler.GetQuote},
			})
		}

		cacheGroup := apiGroup.Group("/cache")
		{
			addRoutes(cacheGroup, []route{
				{Method: http.MethodPost, Path: "/invalidate", Handler: availabilityHandler.Invalidate},
			})
		}
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
