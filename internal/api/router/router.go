package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/api/handler"
	"github.com/j4v3l/Duty-Tracker/internal/api/middleware"
	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/pkg/redis"
	"github.com/j4v3l/Duty-Tracker/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎；rdb 为 nil 时导入接口不限流
func Setup(cfg *config.Config, h *handler.Handler, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health"))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db, rdb))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 人员模块
		personnel := v1.Group("/personnel")
		{
			personnel.GET("", h.Personnel.ListPersonnel)
			personnel.POST("", h.Personnel.CreatePersonnel)
			personnel.GET("/:id", h.Personnel.GetPersonnel)
			personnel.GET("/:id/details", h.Personnel.GetPersonnelDetails)
			personnel.PUT("/:id/deactivate", h.Personnel.DeactivatePersonnel)
		}

		// 岗位模块
		v1.GET("/post-types", h.Post.ListPostTypes)
		v1.POST("/post-types", h.Post.CreatePostType)
		posts := v1.Group("/posts")
		{
			posts.GET("", h.Post.ListPosts)
			posts.POST("", h.Post.CreatePost)
			posts.POST("/setup", h.Post.SetupPosts)
		}

		// 值班分配模块
		assignments := v1.Group("/assignments")
		{
			assignments.GET("", h.Assignment.ListAssignments)
			assignments.POST("", h.Assignment.CreateAssignment)
		}

		// 公平性模块
		fairness := v1.Group("/fairness")
		{
			fairness.GET("", h.Fairness.GetRanking)
			fairness.POST("/recalculate", h.Fairness.Recalculate)
		}

		// 统计模块
		stats := v1.Group("/stats")
		{
			stats.GET("/dashboard", h.Stats.Dashboard)
			stats.GET("/post-distribution", h.Stats.PostDistribution)
		}

		// 群聊名册导入（Redis 可用时按 IP 限流）
		roster := v1.Group("/roster")
		{
			roster.POST("/import", middleware.RateLimit(rdb, cfg.Roster.ImportRateLimit, time.Minute, logger), h.Roster.ImportRoster)
			roster.POST("/preview", h.Roster.PreviewRoster)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/distribution", h.Export.ExportDistribution)
			export.GET("/personnel/:id/calendar", h.Export.ExportCalendar)
		}
	}

	return r
}

// healthCheck 检查数据库连通性；Redis 仅报告是否启用
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := dto.HealthResponse{Status: "ok", Database: "ok", Redis: "disabled", CheckedAt: time.Now().UTC()}
		if rdb != nil {
			resp.Redis = "enabled"
		}

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			response.ServiceUnavailable(c, "数据库不可用", resp)
			return
		}

		response.OK(c, resp)
	}
}
