package routes

import (
	"YouthHealth/controllers"
	"YouthHealth/handlers"
	"YouthHealth/middlewares"
	"YouthHealth/services"
	"YouthHealth/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Services groups everything the router dispatches to.
type Services struct {
	Auth          services.AuthService
	Consultations services.ConsultationService
	Doctors       services.DoctorService
	Users         services.UserService
	Analytics     services.AnalyticsService
	Messages      services.MessageService
	Contact       services.ContactService
}

// Options configures SetupRoutes.
type Options struct {
	Tokens         *utils.TokenMaker
	Logger         *logrus.Logger
	AllowedOrigins []string
	RateLimit      middlewares.RateLimiterConfig
	Gatherer       prometheus.Gatherer
	// Realtime serves GET /socket.io/ when set.
	Realtime http.Handler
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(svc Services, opts Options) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.LoggingMiddleware(opts.Logger))
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(opts.AllowedOrigins)))
	if opts.RateLimit.RequestsPerSecond > 0 {
		router.Use(middlewares.NewRateLimiterMiddleware(opts.RateLimit))
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	controllers.SetupRootRoute(router, gatherer, opts.Realtime)

	authController := controllers.NewAuthController(handlers.NewAuthHandler(svc.Auth))
	authController.RegisterRoutes(router)

	dashboardController := &controllers.DashboardController{
		Tokens:        opts.Tokens,
		Consultations: handlers.NewConsultationHandler(svc.Consultations),
		Doctors:       handlers.NewDoctorHandler(svc.Doctors),
		Users:         handlers.NewUserHandler(svc.Users),
		Analytics:     handlers.NewAnalyticsHandler(svc.Analytics),
		Messages:      handlers.NewMessageHandler(svc.Messages, svc.Contact),
	}
	dashboardController.RegisterRoutes(router)

	return router
}
