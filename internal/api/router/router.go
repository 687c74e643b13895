package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RVCE-Utility/rvce-utility-bknd/config"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/api/handler"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/api/middleware"
	"github.com/RVCE-Utility/rvce-utility-bknd/pkg/jwt"
	"github.com/RVCE-Utility/rvce-utility-bknd/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(8 << 20)) // Excel 课表上传需要较大的上限

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 课表模块
			timetable := authorized.Group("/timetable")
			{
				timetable.POST("", h.Timetable.Upload)
				timetable.POST("/import", h.Timetable.UploadXLSX)
				timetable.GET("", h.Timetable.Get)
				timetable.GET("/check", h.Timetable.Check)
				timetable.PATCH("/courses/:name/min-attendance", h.Timetable.SetCourseMinAttendance)
			}

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/day", h.Attendance.GetOrCreateDay)
				attendance.PUT("/day", h.Attendance.UpdateDay)
				attendance.POST("/occurrences", h.Attendance.AddOccurrence)
				attendance.DELETE("/occurrences", h.Attendance.RemoveOccurrence)
				attendance.GET("/statistics", h.Attendance.Statistics)
			}

			// 资料贡献模块
			contributions := authorized.Group("/contributions")
			{
				contributions.POST("", h.Contribution.Create)
				contributions.GET("", h.Contribution.ListMine)
				contributions.GET("/review", middleware.RoleAuth("manager", "admin"), h.Contribution.ListForReview)
				contributions.PATCH("/:id/review", middleware.RoleAuth("manager", "admin"), h.Contribution.Review)
			}

			// 资料求助模块
			requests := authorized.Group("/requests")
			{
				requests.POST("", h.Request.Create)
				requests.GET("", h.Request.ListMine)
				requests.GET("/review", middleware.RoleAuth("manager", "admin"), h.Request.ListForReview)
				requests.POST("/:id/files", middleware.RoleAuth("manager", "admin"), h.Request.Fulfill)
				requests.PATCH("/:id/status", middleware.RoleAuth("manager", "admin"), h.Request.UpdateStatus)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/calendar.ics", h.Export.CalendarICS)
				export.GET("/statistics.xlsx", h.Export.StatisticsXLSX)
			}
		}
	}

	return r
}
