package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vvf-roster/backend/config"
	"vvf-roster/backend/internal/api/handler"
	"vvf-roster/backend/internal/api/middleware"
	"vvf-roster/backend/internal/model"
	"vvf-roster/backend/pkg/jwt"
	"vvf-roster/backend/pkg/redis"
)

// Setup builds the Gin engine with all routes and middleware.
//
// Role gates: event and staff mutations are editor work, the day lock
// belongs to approvers, and seat operations belong to the compiling
// groups. Reads are open to every authenticated user.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// authentication (no token required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// personnel reference
			operators := authorized.Group("/operators")
			{
				operators.GET("", h.Staff.List)
				operators.GET("/:id", h.Staff.Get)
				operators.PUT("/:id/unavailable", middleware.RoleAuth(model.RoleRedattore), h.Staff.MarkUnavailable)
				operators.PUT("/:id/available", middleware.RoleAuth(model.RoleRedattore), h.Staff.MarkAvailable)
			}

			// operational events
			events := authorized.Group("/events")
			{
				events.GET("", h.Event.DayRoster)
				events.GET("/summary", h.Event.RoleSummary)
				events.GET("/:id", h.Event.Get)
				events.POST("", middleware.RoleAuth(model.RoleRedattore), h.Event.Create)
				events.PUT("/:id", middleware.RoleAuth(model.RoleRedattore), h.Event.Update)
				events.DELETE("/:id", middleware.RoleAuth(model.RoleRedattore), h.Event.Delete)

				// seat operations
				seats := events.Group("/:id/requirements/:reqId/slots/:slot")
				{
					seats.GET("/candidates", h.Assignment.Candidates)
					seats.PUT("/assign", middleware.RoleAuth(model.RoleCompilatore), h.Assignment.Assign)
					seats.PUT("/unassign", middleware.RoleAuth(model.RoleCompilatore), h.Assignment.Unassign)
					seats.PUT("/entrust", middleware.RoleAuth(model.RoleCompilatore), h.Assignment.Entrust)
					seats.PUT("/revoke-entrust", middleware.RoleAuth(model.RoleCompilatore), h.Assignment.RevokeEntrust)
				}
			}

			// day approval
			days := authorized.Group("/days")
			{
				days.GET("/:date/approval", h.Approval.Get)
				days.PUT("/:date/approval", middleware.RoleAuth(model.RoleApprovatore), h.Approval.Set)
			}

			// duty rotation
			rotation := authorized.Group("/rotation")
			{
				rotation.GET("/day", h.Rotation.Day)
				rotation.GET("/projection", h.Rotation.Projection)
			}

			// exports
			export := authorized.Group("/export")
			{
				export.GET("/day", h.Export.DayRoster)
				export.GET("/rotation.ics", h.Export.RotationICS)
			}
		}
	}

	return r
}
