package server

import (
	"github.com/labstack/echo/v4"

	"example.com/event-planner/backend/internal/handlers"
)

type routeHandlers struct {
	auth          *handlers.AuthHandler
	profile       *handlers.ProfileHandler
	events        *handlers.EventHandler
	plans         *handlers.PlanHandler
	catalog       *handlers.CatalogHandler
	stats         *handlers.StatsHandler
	notifications *handlers.NotificationHandler
	admin         *handlers.AdminHandler
	health        *handlers.HealthHandler
}

type routeMiddleware struct {
	auth     echo.MiddlewareFunc
	admin    echo.MiddlewareFunc
	authRate echo.MiddlewareFunc
	aiRate   echo.MiddlewareFunc
}

func registerRoutes(e *echo.Echo, h routeHandlers, mw routeMiddleware) {
	e.GET("/health", h.health.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", mw.authRate)

	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)
	authGroup.POST("/refresh", h.auth.Refresh)
	authGroup.POST("/logout", h.auth.Logout)
	authGroup.GET("/me", h.auth.Me, mw.auth)

	profile := api.Group("/profile", mw.auth)
	profile.GET("", h.profile.Get)
	profile.PATCH("", h.profile.Update)

	events := api.Group("/events", mw.auth)
	events.GET("", h.events.List)
	events.POST("", h.events.Create)
	events.POST("/bulk-delete", h.events.BulkDelete)
	events.GET("/:id", h.events.Get)
	events.PATCH("/:id", h.events.Update)
	events.DELETE("/:id", h.events.Delete)
	events.POST("/:id/plan", h.plans.Generate, mw.aiRate)
	events.GET("/:id/plan/export", h.plans.ExportPlan)

	services := api.Group("/services")
	services.GET("", h.catalog.List)
	services.GET("/:id", h.catalog.Get)
	services.POST("", h.catalog.Create, mw.auth)
	services.PUT("/:id", h.catalog.Update, mw.auth)
	services.DELETE("/:id", h.catalog.Delete, mw.auth)

	stats := api.Group("/stats", mw.auth)
	stats.GET("/overview", h.stats.Overview)
	stats.GET("/cost-by-category", h.stats.CostByCategory)
	stats.GET("/monthly", h.stats.Monthly)

	notifications := api.Group("/notifications", mw.auth)
	notifications.GET("/stream", h.notifications.Stream)

	admin := api.Group("/admin", mw.auth, mw.admin)
	admin.GET("/users", h.admin.ListUsers)
	admin.GET("/ai-requests", h.admin.ListAIRequests)
	admin.GET("/usage", h.admin.Usage)
}
