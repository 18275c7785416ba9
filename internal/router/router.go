package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/user/geppu/internal/config"
	"github.com/user/geppu/internal/handler"
	"github.com/user/geppu/internal/middleware"
)

// NewEngine 创建 Gin 引擎并挂载全局中间件和路由
func NewEngine(cfg *config.Config, h *handler.Handler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	r := gin.New()
	// 只信任配置的代理，否则客户端可以伪造 X-Forwarded-For 绕过登录限流
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.WithError(err).Warn("[Router] TRUSTED_PROXIES 无效，不信任任何代理")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 用户会话
	r.Use(middleware.Sessions(cfg))

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	requireAuth := middleware.RequireAuth(h.Users)
	optionalAuth := middleware.OptionalAuth(h.Users)

	api := r.Group("/api")

	// ==================== 认证 ====================
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", optionalAuth, h.Me)
	}

	// ==================== 个人中心（需要登录）====================
	user := api.Group("/user")
	user.Use(requireAuth)
	{
		user.PUT("/profile", h.UpdateProfile)
		user.GET("/favorites", h.UserFavorites)
		user.POST("/favorites", h.UserAddFavorite)
		user.DELETE("/favorites", h.UserRemoveFavorite)
		user.GET("/lists", h.UserLists)
		user.GET("/continue-watching", h.ContinueWatching)
		user.POST("/progress", h.SaveProgress)
	}

	// ==================== 收藏 / 片单 ====================
	api.GET("/favorites", optionalAuth, h.FavoriteStatus)
	api.POST("/favorites", requireAuth, h.AddFavorite)
	api.DELETE("/favorites", requireAuth, h.RemoveFavorite)

	api.GET("/lists", optionalAuth, h.ListStatus)
	api.POST("/lists", requireAuth, h.SetListStatus)
	api.DELETE("/lists", requireAuth, h.RemoveFromList)

	// ==================== 公开目录 ====================
	api.GET("/search", h.Search)
	api.GET("/schedule", h.GetSchedule)
	api.GET("/home", optionalAuth, h.Home)
	api.GET("/releases", h.Catalog)
	api.GET("/releases/random", h.RandomRelease)
	api.GET("/releases/:id", optionalAuth, h.ReleaseDetail)
	api.GET("/releases/:id/episodes/:number", optionalAuth, h.WatchEpisode)

	// ==================== 管理后台 ====================
	api.POST("/admin/login", h.AdminLogin)
	api.POST("/admin/logout", h.AdminLogout)

	admin := api.Group("/admin")
	admin.Use(h.Admin.RequireAdmin())
	{
		admin.GET("/releases", h.AdminReleases)
		admin.POST("/releases", h.AdminReleaseCreate)
		admin.PUT("/releases", h.AdminReleaseUpdate)
		admin.DELETE("/releases", h.AdminReleaseDelete)

		admin.GET("/episodes", h.AdminEpisodes)
		admin.POST("/episodes", h.AdminEpisodeCreate)
		admin.PUT("/episodes", h.AdminEpisodeUpdate)
		admin.DELETE("/episodes", h.AdminEpisodeDelete)
	}
}
