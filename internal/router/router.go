package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/handler"
	"github.com/escolacentral/escola-backend/internal/middleware"
	"github.com/escolacentral/escola-backend/internal/response"
	"github.com/escolacentral/escola-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	FirstAccess *handler.FirstAccessHandler
	Security    *handler.SecurityHandler
	AdminUser   *handler.AdminUserHandler
	School      *handler.SchoolHandler
	Class       *handler.ClassHandler
	Subject     *handler.SubjectHandler
	Student     *handler.StudentHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	rdb *redis.Client,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Latency sampling feeds the security dashboard's avg_response_time_ms.
	router.Use(middleware.RecordLatency(rdb, cfg.LatencySampleSize))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the public activation surface (20 requests per
	// minute per IP). The endpoints themselves never reveal token state
	// beyond the single invalid message; the limiter slows enumeration.
	firstAccessLimiter := middleware.NewRateLimiter(20, time.Minute)

	// ─── 1. Public Group (No Auth, Rate Limited) ───────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(firstAccessLimiter.Middleware())
	{
		publicAPI.GET("/first-access/:token", handlers.FirstAccess.CheckToken)
		publicAPI.POST("/first-access", handlers.FirstAccess.Activate)
	}

	// ─── 2. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.Login)

		auth.POST("/admin/logout", middleware.RequireAdminJWT(authService), handlers.Auth.Logout)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.Me)
	}

	// ─── 3. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Provisioning and monitoring, super admin only.
		adminAPI.POST("/access-tokens",
			middleware.RequireSuperAdmin(),
			handlers.FirstAccess.IssueToken,
		)
		adminAPI.GET("/users",
			middleware.RequireSuperAdmin(),
			handlers.AdminUser.ListAdmins,
		)
		adminAPI.PUT("/users/:id/school",
			middleware.RequireSuperAdmin(),
			handlers.AdminUser.AssignSchool,
		)

		securityGroup := adminAPI.Group("/security")
		securityGroup.Use(middleware.RequireSuperAdmin())
		{
			securityGroup.GET("/dashboard", handlers.Security.GetDashboard)
			securityGroup.GET("/stream", handlers.Security.StreamDashboard)
		}

		// School management, super admin only; the remaining resources are
		// open to every active admin.
		schoolsGroup := adminAPI.Group("/schools")
		{
			schoolsGroup.GET("", handlers.School.GetAll)
			schoolsGroup.POST("", middleware.RequireSuperAdmin(), handlers.School.Create)
			schoolsGroup.PUT("/:id", middleware.RequireSuperAdmin(), handlers.School.Update)
			schoolsGroup.DELETE("/:id", middleware.RequireSuperAdmin(), handlers.School.Delete)
		}

		classesGroup := adminAPI.Group("/classes")
		{
			classesGroup.GET("", handlers.Class.List)
			classesGroup.POST("", handlers.Class.Create)
			classesGroup.PUT("/:id", handlers.Class.Update)
			classesGroup.DELETE("/:id", handlers.Class.Delete)
		}

		subjectsGroup := adminAPI.Group("/subjects")
		{
			subjectsGroup.GET("", handlers.Subject.List)
			subjectsGroup.POST("", handlers.Subject.Create)
			subjectsGroup.PUT("/:id", handlers.Subject.Update)
			subjectsGroup.DELETE("/:id", handlers.Subject.Delete)
		}

		studentsGroup := adminAPI.Group("/students")
		{
			studentsGroup.GET("", handlers.Student.List)
			studentsGroup.POST("", handlers.Student.Create)
			studentsGroup.PUT("/:id", handlers.Student.Update)
			studentsGroup.DELETE("/:id", handlers.Student.Delete)
		}
	}

	return router
}
