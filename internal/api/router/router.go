package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Maddrobots/hangar13demo/config"
	"github.com/Maddrobots/hangar13demo/internal/api/handler"
	"github.com/Maddrobots/hangar13demo/internal/api/middleware"
	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/pkg/jwt"
	"github.com/Maddrobots/hangar13demo/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流降级放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidatorTagNames()

	var (
		checker middleware.TokenChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		checker, limiter = rdb, rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	staff := middleware.RoleAuth(model.RoleManager, model.RoleGod)
	loginLimit := middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", loginLimit, h.Auth.Register)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", loginLimit, h.Auth.RefreshToken)
		}

		v1.GET("/logbook/chapters", h.Logbook.ListChapters)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.PUT("/me", h.User.UpdateMe)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id/role", staff, h.User.UpdateRole)
			}

			// 学徒登记、导师分配、进度与导出
			apprentices := authorized.Group("/apprentices")
			{
				apprentices.POST("", staff, h.Apprentice.Enroll)
				apprentices.GET("/assignable", h.Apprentice.ListAssignable)
				apprentices.GET("/:id", h.Apprentice.Get)
				apprentices.POST("/:id/claim", h.Apprentice.Claim)
				apprentices.PUT("/:id/mentor", staff, h.Apprentice.AssignMentor)
				apprentices.PUT("/:id/status", staff, h.Apprentice.UpdateStatus)
				apprentices.GET("/:id/entries", h.Review.ListApprenticeEntries)
				apprentices.GET("/:id/progress", h.Progress.GetApprenticeProgress)
				apprentices.GET("/:id/export/xlsx", h.Export.ExportXLSX)
				apprentices.GET("/:id/export/ics", h.Export.ExportICS)
			}

			// 工作日志
			entries := authorized.Group("/logbook/entries")
			{
				entries.POST("", h.Logbook.CreateEntry)
				entries.GET("", h.Logbook.ListMyEntries)
				entries.GET("/:id", h.Logbook.GetEntry)
				entries.PUT("/:id", h.Logbook.UpdateEntry)
				entries.DELETE("/:id", h.Logbook.DeleteEntry)
				entries.POST("/:id/approve", h.Review.Approve)
				entries.POST("/:id/reject", h.Review.Reject)
			}

			// 导师视图
			mentor := authorized.Group("/mentor")
			{
				mentor.GET("/roster", h.Progress.GetMentorRoster)
				mentor.GET("/pending", h.Review.ListPending)
			}

			authorized.GET("/progress/me", h.Progress.GetMyProgress)

			// 周反思
			submissions := authorized.Group("/submissions")
			{
				submissions.GET("", h.Submission.List)
				submissions.GET("/weeks/:week", h.Submission.Get)
				submissions.PUT("/weeks/:week", h.Submission.Submit)
				submissions.POST("/weeks/:week/files", h.Submission.UploadFile)
			}

			// 课程
			curriculum := authorized.Group("/curriculum")
			{
				curriculum.GET("", h.Curriculum.List)
				curriculum.PUT("/:id/progress", h.Curriculum.UpdateProgress)
			}
		}
	}

	return r
}
