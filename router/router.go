package router

import (
	"net/http"

	"github.com/AlexeyDemidow/restaurant-api-service/controllers"
	"github.com/AlexeyDemidow/restaurant-api-service/kds"
	"github.com/AlexeyDemidow/restaurant-api-service/middlewares"
	"github.com/AlexeyDemidow/restaurant-api-service/services"
	"github.com/gin-gonic/gin"
)

// Options configures the optional parts of the middleware chain. The zero
// value gives an open API with no rate limit.
type Options struct {
	CORSOrigin string

	RateLimitRPS   float64
	RateLimitBurst int

	// Auth guards table management when non-nil.
	Auth      *controllers.AuthController
	JWTSecret []byte
}

func SetupRouter(svc *services.ReservationService, hub *kds.Hub, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	if opts.CORSOrigin != "" {
		r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))
	}
	if opts.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())
	}

	tableCtrl := controllers.NewTableController(svc)
	reservationCtrl := controllers.NewReservationController(svc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/tables/", tableCtrl.GetAllTables)
	r.GET("/tables/:id/reservations/", tableCtrl.GetTableSchedule)

	r.GET("/reservations/", reservationCtrl.GetAllReservations)
	r.POST("/reservations/", reservationCtrl.CreateReservation)
	r.DELETE("/reservations/:id/", reservationCtrl.DeleteReservation)

	// ----------------------------------------------------------------
	//                      TABLE MANAGEMENT
	// ----------------------------------------------------------------
	staff := r.Group("/")
	if opts.Auth != nil {
		r.POST("/login", middlewares.NewRateLimiter(0.2, 5).RateLimit(), opts.Auth.Login)
		staff.Use(middlewares.AuthMiddleware(opts.JWTSecret, controllers.RoleStaff))
	}
	{
		// legacy create path, kept for existing clients
		staff.POST("/posts/", tableCtrl.CreateTable)
		staff.POST("/tables/", tableCtrl.CreateTable)
		staff.DELETE("/tables/:id/", tableCtrl.DeleteTable)
		staff.GET("/ws", controllers.EventsHandler(hub))
	}

	return r
}
