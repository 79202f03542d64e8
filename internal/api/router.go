package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/api/handler"
	"github.com/hospos/hospos-client/internal/api/middleware"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
	"github.com/hospos/hospos-client/internal/core/validation"
)

// Deps is everything the console router needs from main.
type Deps struct {
	Log         zerolog.Logger
	Renderer    echo.Renderer
	Validator   *validation.Validator
	Session     middleware.SessionConfig
	Collections handler.Collections
	Auth        ports.AuthClient
	Admin       ports.AdminClient
	Checks      map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = d.Renderer
	e.Validator = d.Validator
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Health probes and metrics (no session) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Dependencies ---
	authService := service.NewAuthService(d.Auth, d.Validator, d.Log)
	adminService := service.NewAdminService(d.Admin, d.Validator)
	screens := handler.NewScreens(d.Collections, d.Validator, d.Log)

	authHandler := handler.NewAuthHandler(authService)
	catalog := handler.NewCatalogHandlers(screens)
	reports := handler.NewReportHandlers(screens)
	bookings := handler.NewBookingHandler(screens, adminService)
	discounts := handler.NewDiscountHandler(screens, adminService, d.Log)
	users := handler.NewUserHandler(screens, adminService)
	locations := handler.NewLocationHandler(screens, adminService)
	business := handler.NewBusinessHandler(adminService)
	finance := handler.NewFinanceHandler(adminService)
	dashboard := handler.NewDashboardHandler(screens, adminService)

	// --- Console pages (session resolved per request) ---
	web := e.Group("", middleware.Session(d.Session, d.Log))
	staff := middleware.Guard(handler.StaffRoles...)
	admin := middleware.Guard(handler.AdminRoles...)

	web.GET(middleware.LoginPath, authHandler.LoginForm)
	web.POST(middleware.LoginPath, authHandler.Login)
	web.POST("/logout", authHandler.Logout)
	web.GET(middleware.UnauthorizedPath, authHandler.Unauthorized)
	web.GET("/", dashboard.Show, staff)
	web.GET("/dashboard", dashboard.Show, staff)

	mountResource(web, "/products", catalog.Products, staff)
	mountResource(web, "/categories", catalog.Categories, staff)
	mountResource(web, "/customers", catalog.Customers, staff)
	web.GET("/customers/:id", catalog.Customers.Show, staff)
	mountResource(web, "/admin/roles", catalog.Roles, admin)

	web.GET("/bookings", bookings.List, staff)
	web.POST("/bookings", bookings.Create, staff)
	web.GET("/bookings/:id", bookings.Show, staff)
	web.POST("/bookings/:id", bookings.Update, staff)
	web.GET("/bookings/:id/delete", bookings.ConfirmDelete, staff)
	web.POST("/bookings/:id/delete", bookings.Delete, staff)

	web.GET("/tills", locations.List, staff)
	web.POST("/tills", locations.Create, staff)
	web.GET("/tills/:id/delete", locations.ConfirmDelete, staff)
	web.POST("/tills/:id/delete", locations.Delete, staff)

	web.GET("/discounts", discounts.List, admin)
	web.POST("/discounts", discounts.Create, admin)
	web.POST("/discounts/:id/renew", discounts.Renew, admin)
	web.GET("/discounts/:id/delete", discounts.ConfirmDelete, admin)
	web.POST("/discounts/:id/delete", discounts.Delete, admin)

	web.GET("/admin/users", users.List, admin)
	web.POST("/admin/users", users.Create, admin)
	web.POST("/admin/users/:id/pin", users.ResetPin, admin)
	web.POST("/admin/users/:id/role", users.ChangeRole, admin)
	web.GET("/admin/users/:id/delete", users.ConfirmDelete, admin)
	web.POST("/admin/users/:id/delete", users.Delete, admin)

	web.GET("/admin/business", business.Show, admin)
	web.POST("/admin/business", business.Save, admin)

	web.GET("/finance", finance.Summary, staff)
	web.GET("/finance/tax", finance.Tax, staff)
	web.GET("/finance/sales", reports.Sales.List, staff)
	web.GET("/finance/payments", reports.Payments.List, staff)
	web.GET("/finance/receipts", reports.Receipts.List, staff)

	return e
}

func mountResource[T any](g *echo.Group, path string, h *handler.ResourceHandler[T], guard echo.MiddlewareFunc) {
	g.GET(path, h.List, guard)
	g.POST(path, h.Create, guard)
	g.GET(path+"/:id/delete", h.ConfirmDelete, guard)
	g.POST(path+"/:id/delete", h.Delete, guard)
}
