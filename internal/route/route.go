package route

import (
	"context"
	"net/http"
	"time"

	"seichi/cms/config"
	"seichi/cms/internal/article"
	"seichi/cms/internal/asset"
	"seichi/cms/internal/background"
	"seichi/cms/internal/cache"
	"seichi/cms/internal/content"
	"seichi/cms/internal/favorite"
	"seichi/cms/internal/middleware"
	"seichi/cms/internal/review"
	"seichi/cms/internal/revision"
	"seichi/cms/packages/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps 进程启动时构造一次，之后只读
type Deps struct {
	Config    *config.AppConfig
	DB        *gorm.DB
	PageCache *cache.PageCache // 为 nil 时不缓存
	Runner    *background.Runner
	Guides    *content.Reader
	Storage   asset.Storage
	Notifier  review.Notifier // 为 nil 时不通知
	Log       zerolog.Logger
}

func initRoute(r *gin.Engine, deps Deps) {
	conf := deps.Config

	var inv cache.Invalidator = cache.NopInvalidator{}
	if deps.PageCache != nil {
		inv = deps.PageCache
	}
	refresher := cache.NewRefresher(inv, deps.Runner)

	// 仓储
	articleRepo := article.NewArticleRepository(deps.DB)
	revisionRepo := article.NewRevisionRepository(deps.DB)
	favoriteRepo := favorite.NewFavoriteRepository(deps.DB)
	assetRepo := asset.NewAssetRepository(deps.DB)

	// 服务
	articleService := article.NewArticleService(articleRepo, refresher, deps.Log)
	revisionService := revision.NewRevisionService(articleRepo, revisionRepo, refresher, deps.Log)
	reviewService := review.NewReviewService(deps.DB, articleRepo, revisionRepo, article.NewMergeService(),
		refresher, deps.Runner, deps.Notifier, deps.Log)
	favoriteService := favorite.NewFavoriteService(favoriteRepo, articleRepo, deps.Guides, deps.Log)
	assetService := asset.NewAssetService(assetRepo, articleRepo, deps.Storage, asset.Options{
		MaxSize:      conf.Asset.MaxSize,
		AllowedTypes: conf.Asset.AllowedTypes,
	}, deps.Log)

	// 中间件
	auth := middleware.JWTAuth(conf.JWT.Secret)
	optionalAuth := middleware.OptionalJWTAuth(conf.JWT.Secret)
	cached := cache.Cached(deps.PageCache)

	r.GET("/health", healthHandler(deps.DB))

	// 接口文档仅在非 release 模式开放
	if conf.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		article.SetupArticleRoutes(api, article.NewArticleHandler(articleService), auth, optionalAuth, cached)
		revision.SetupRevisionRoutes(api, revision.NewRevisionHandler(revisionService), auth)
		review.SetupReviewRoutes(api, review.NewReviewHandler(reviewService), auth)
		favorite.SetupFavoriteRoutes(api, favorite.NewFavoriteHandler(favoriteService), auth)
		asset.SetupAssetRoutes(api, asset.NewAssetHandler(assetService), auth)
		content.SetupGuideRoutes(api, content.NewHandler(deps.Guides, refresher), cached, auth, middleware.RequireAdmin())
	}
}

// SetupRouter 创建 gin 引擎并注册全部路由
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Log), middleware.Recovery(deps.Log))

	origin := deps.Config.Server.FrontendURL
	if origin == "" {
		origin = "http://localhost:5173" // 默认值
	}

	// 设置跨域请求，cookie 会话需要 AllowCredentials
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	initRoute(r, deps)

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("健康检查失败")
			c.JSON(http.StatusServiceUnavailable, response.StatusResponse("unavailable"))
			return
		}
		c.JSON(http.StatusOK, response.StatusResponse("ok"))
	}
}
