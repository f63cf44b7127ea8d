package router

import (
	"github.com/gin-gonic/gin"

	"kvitto/internal/domain"
	"kvitto/internal/handler"
	"kvitto/internal/middleware"
	"kvitto/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	receiptH *handler.ReceiptHandler,
	commentH *handler.CommentHandler,
	auditH *handler.AuditHandler,
	statsH *handler.StatsHandler,
	userH *handler.UserHandler,
	settingsH *handler.SettingsHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// Receipt lifecycle
	receipts := protected.Group("/receipts")
	receipts.POST("", receiptH.Upload)
	receipts.GET("", receiptH.List)
	receipts.GET("/:id", receiptH.GetByID)
	receipts.GET("/:id/download", receiptH.Download)
	receipts.PUT("/:id/status", adminOnly, receiptH.UpdateStatus)
	receipts.DELETE("/:id", adminOnly, receiptH.Delete)
	receipts.GET("/:id/history", adminOnly, receiptH.History)

	// Threaded comments
	receipts.GET("/:id/comments", commentH.List)
	receipts.POST("/:id/comments", commentH.Add)
	comments := protected.Group("/comments")
	comments.DELETE("/:id", adminOnly, commentH.Delete)
	comments.GET("/unread-count", commentH.UnreadCount)

	// Audit ledger
	audit := protected.Group("/audit")
	audit.Use(adminOnly)
	audit.GET("", auditH.List)
	audit.GET("/users/:id", auditH.ListForUser)

	// Dashboards
	stats := protected.Group("/stats")
	stats.GET("/dashboard", statsH.Dashboard)
	stats.GET("/monthly", adminOnly, statsH.Monthly)
	stats.GET("/users", adminOnly, statsH.PerUser)

	// User administration
	users := protected.Group("/users")
	users.Use(adminOnly)
	users.POST("", userH.Create)
	users.GET("", userH.List)
	users.GET("/:id", userH.GetByID)
	users.PUT("/:id/role", userH.UpdateRole)
	users.DELETE("/:id", userH.Delete)

	// Settings: exports and data reset
	settings := protected.Group("/settings")
	settings.Use(adminOnly)
	settings.GET("/audit-export.csv", settingsH.ExportAuditCSV)
	settings.GET("/audit-export.xlsx", settingsH.ExportAuditXLSX)
	settings.GET("/audit-count", settingsH.AuditCount)
	settings.POST("/reset", settingsH.ResetData)

	return r
}
