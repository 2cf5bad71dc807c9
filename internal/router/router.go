package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gstbill/internal/config"
	"gstbill/internal/domain"
	"gstbill/internal/handler"
	"gstbill/internal/middleware"
	"gstbill/internal/service"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Business *handler.BusinessHandler
	User     *handler.UserHandler
	Customer *handler.CustomerHandler
	Product  *handler.ProductHandler
	Invoice  *handler.InvoiceHandler
	Report   *handler.ReportHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, log logrus.FieldLogger, authSvc service.AuthService, h Handlers) *gin.Engine {
	handler.RegisterValidators()
	handler.SetLogger(log)

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	if cfg.Server.Environment != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimiter(cfg.Rate.AuthRPS, cfg.Rate.AuthBurst))
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.BusinessGuard())

	admin := middleware.RequireRole(domain.RoleAdmin)

	protected.GET("/business", h.Business.Get)
	protected.PUT("/business", admin, h.Business.Update)

	users := protected.Group("/users", admin)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", h.User.Delete)

	customers := protected.Group("/customers")
	customers.POST("", h.Customer.Create)
	customers.GET("", h.Customer.List)
	customers.GET("/:id", h.Customer.GetByID)
	customers.PUT("/:id", h.Customer.Update)
	customers.DELETE("/:id", admin, h.Customer.Delete)

	products := protected.Group("/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", admin, h.Product.Delete)

	protected.GET("/hsn/:code/rate", h.Invoice.HSNRate)

	invoices := protected.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.POST("/preview", h.Invoice.Preview)
	invoices.GET("/export", h.Invoice.ExportCSV)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.GET("/:id/pdf", h.Invoice.PDF)
	invoices.POST("/:id/cancel", admin, h.Invoice.Cancel)

	reports := protected.Group("/reports")
	reports.GET("/summary", h.Report.Summary)
	reports.GET("/summary.csv", h.Report.SummaryCSV)
	reports.GET("/summary.xlsx", h.Report.SummaryXLSX)
	reports.GET("/gstr1", h.Report.GSTR1)
	reports.POST("/archive", admin, h.Report.Archive)

	return r
}
