package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/handlers"
	"github.com/yusurko/freak/internal/middlewares"
)

// SetupRoutes 注册所有路由。读接口允许匿名（可见性按匿名收紧），
// 写接口必须带 token。用户页挂在 /u/:username 下，避免和
// register/login 这类静态段在同级冲突
func SetupRoutes(r *gin.Engine,
	userHandler *handlers.UserHandler,
	guildHandler *handlers.GuildHandler,
	postHandler *handlers.PostHandler,
	blockHandler *handlers.BlockHandler,
	reportHandler *handlers.ReportHandler,
	siteHandler *handlers.SiteHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/v1/stats", siteHandler.Stats)

	registerUserRoutes(r, userHandler, blockHandler, postHandler)
	registerGuildRoutes(r, guildHandler, postHandler)
	registerPostRoutes(r, postHandler)
	registerReportRoutes(r, reportHandler)
}

func registerUserRoutes(r *gin.Engine, userHandler *handlers.UserHandler, blockHandler *handlers.BlockHandler, postHandler *handlers.PostHandler) {
	userGroup := r.Group("/api/v1/users")
	{
		userGroup.POST("/register", userHandler.Register) // 注册
		userGroup.POST("/login", userHandler.Login)       // 登录
	}

	r.GET("/api/v1/me", middlewares.AuthMiddleware(true), userHandler.Me) // 当前用户

	profileGroup := r.Group("/api/v1/u", middlewares.AuthMiddleware(false))
	{
		profileGroup.GET("/:username", userHandler.GetProfile)     // 用户主页
		profileGroup.GET("/:username/posts", postHandler.UserFeed) // 用户帖子
	}

	authed := r.Group("/api/v1/u", middlewares.AuthMiddleware(true))
	{
		authed.PUT("/:username/block", blockHandler.Block)      // 屏蔽
		authed.DELETE("/:username/block", blockHandler.Unblock) // 解除屏蔽
		authed.POST("/:username/karma/recompute", userHandler.RecomputeKarma)
		authed.POST("/:username/suspend", userHandler.Suspend) // 站级封禁（管理员）
	}
}

func registerGuildRoutes(r *gin.Engine, guildHandler *handlers.GuildHandler, postHandler *handlers.PostHandler) {
	guildGroup := r.Group("/api/v1/guilds", middlewares.AuthMiddleware(false))
	{
		guildGroup.GET("/:name", guildHandler.Get)            // 社区信息
		guildGroup.GET("/:name/posts", postHandler.GuildFeed) // 社区 feed
	}

	authed := r.Group("/api/v1/guilds", middlewares.AuthMiddleware(true))
	{
		authed.POST("", guildHandler.Create)                // 创建社区
		authed.PATCH("/:name", guildHandler.UpdateSettings) // 修改设置
		authed.PUT("/:name/subscription", guildHandler.Subscribe)
		authed.DELETE("/:name/subscription", guildHandler.Unsubscribe)
		authed.POST("/:name/bans", guildHandler.Exile)
		authed.DELETE("/:name/bans", guildHandler.Unexile)
		authed.POST("/:name/moderators", guildHandler.PromoteModerator)
		authed.POST("/:name/approvals", guildHandler.Approve)
		authed.POST("/:name/owner", guildHandler.TransferOwnership)
	}
}

func registerPostRoutes(r *gin.Engine, postHandler *handlers.PostHandler) {
	postGroup := r.Group("/api/v1/posts", middlewares.AuthMiddleware(false))
	{
		postGroup.GET("", postHandler.PublicFeed) // 全站 feed
		postGroup.GET("/:id", postHandler.Get)    // 直达帖子
		postGroup.GET("/:id/comments", postHandler.Comments)
	}

	authed := r.Group("/api/v1/posts", middlewares.AuthMiddleware(true))
	{
		authed.POST("", postHandler.Create) // 发帖
		authed.POST("/:id/comments", postHandler.CreateComment)
		authed.PUT("/:id/vote", postHandler.Vote) // 投票
	}
}

func registerReportRoutes(r *gin.Engine, reportHandler *handlers.ReportHandler) {
	r.GET("/api/v1/reasons", reportHandler.Reasons) // 举报理由表

	reportGroup := r.Group("/api/v1/reports", middlewares.AuthMiddleware(true))
	{
		reportGroup.POST("", reportHandler.Submit) // 提交举报
		reportGroup.GET("", reportHandler.List)    // 待处理队列（管理员）
		reportGroup.POST("/:id/transition", reportHandler.Transition)
	}
}
