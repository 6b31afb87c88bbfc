package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/crmdesk/crm-system/internal/api/handler"
	"github.com/crmdesk/crm-system/internal/api/middleware"
	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/service"
	mongodb "github.com/crmdesk/crm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/crmdesk/crm-system/internal/infrastructure/db/redis"
)

// RouterConfig carries the knobs the router needs beyond its storage handles.
type RouterConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *goredis.Client, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	invoiceRepo := mongodb.NewInvoiceRepository(db)
	statsCache := redisdb.NewStatsCache(rdb)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	userService := service.NewUserService(userRepo, clientRepo, invoiceRepo, statsCache, log)
	clientService := service.NewClientService(clientRepo, invoiceRepo, statsCache, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, clientRepo, statsCache, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	clientHandler := handler.NewClientHandler(clientService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Tenant routes ---
	// Every /v1 route requires a valid token; the baseline role check keeps
	// tokens minted without any role out.
	v1 := e.Group("/v1",
		middleware.Auth(cfg.JWTSecret),
		middleware.RBAC(domain.RoleUser, domain.RoleAdmin),
	)

	v1.GET("/me", userHandler.Profile)
	v1.DELETE("/me", userHandler.DeleteAccount)

	v1.GET("/clients", clientHandler.List)
	v1.POST("/clients", clientHandler.Create)
	v1.GET("/clients/stats/monthly", clientHandler.MonthlyStats)
	v1.GET("/clients/:id", clientHandler.Get)
	v1.PUT("/clients/:id", clientHandler.Update)
	v1.DELETE("/clients/:id", clientHandler.Delete)
	v1.GET("/clients/:id/invoices", invoiceHandler.ListByClient)

	v1.POST("/invoices", invoiceHandler.Create)
	v1.GET("/invoices/stats/monthly", invoiceHandler.MonthlyStats)
	v1.GET("/invoices/number/:number", invoiceHandler.GetByNumber)
	v1.GET("/invoices/:id", invoiceHandler.Get)
	v1.PUT("/invoices/:id", invoiceHandler.Update)
	v1.DELETE("/invoices/:id", invoiceHandler.Delete)

	return e
}
