package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"tripshare/internal/handler"
	"tripshare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	VehicleHandler *handler.VehicleHandler
	JourneyHandler *handler.JourneyHandler
	BookingHandler *handler.BookingHandler
	RequestHandler *handler.RequestHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
			users.POST("/:id/remove", deps.UserHandler.Remove)
		}

		// Vehicle routes.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", deps.VehicleHandler.Register)
			vehicles.GET("/:id", deps.VehicleHandler.Get)
		}

		// Journey routes.
		journeys := v1.Group("/journeys")
		{
			journeys.POST("", deps.JourneyHandler.Publish)
			journeys.GET("/:id", deps.JourneyHandler.Get)
			journeys.POST("/:id/cancel", deps.JourneyHandler.Cancel)
			journeys.POST("/:id/complete", deps.JourneyHandler.Complete)
			journeys.GET("/:id/participation", deps.BookingHandler.HasBooked)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("", deps.BookingHandler.ListByRider)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
		}

		// Journey request and proposal routes.
		requests := v1.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.Create)
			requests.GET("/:id", deps.RequestHandler.Get)
			requests.POST("/:id/cancel", deps.RequestHandler.Cancel)
			requests.POST("/:id/proposals", deps.RequestHandler.CreateProposal)
			requests.GET("/:id/proposals", deps.RequestHandler.ListProposals)
		}
	}

	return router
}
