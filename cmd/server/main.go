package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seichi/cms/config"
	"seichi/cms/internal/asset"
	"seichi/cms/internal/background"
	"seichi/cms/internal/cache"
	"seichi/cms/internal/content"
	"seichi/cms/internal/database"
	"seichi/cms/internal/grpc"
	"seichi/cms/internal/review"
	"seichi/cms/internal/route"
	"seichi/cms/packages/email"
	"seichi/cms/packages/logger"
	"seichi/cms/packages/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	conf := config.MustLoad(*configPath)
	log := logger.New(conf.Log)

	if err := run(conf, log); err != nil {
		log.Fatal().Err(err).Msg("服务异常退出")
	}
}

func run(conf *config.AppConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 链路追踪
	shutdownTracing, err := telemetry.Setup(ctx, conf.Telemetry)
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}

	// 3. 初始化数据库
	db, err := database.Open(conf.Database, log)
	if err != nil {
		return err
	}

	var pageCache *cache.PageCache
	rdb, err := database.OpenRedis(conf.Redis, log)
	if err != nil {
		// 缓存只是加速，Redis 不可用时照常提供服务
		log.Warn().Err(err).Msg("Redis 连接失败，公开页面不缓存")
	} else if rdb != nil {
		pageCache = cache.NewPageCache(rdb.Client, conf.Redis.PageTTL)
		defer rdb.Close()
	}

	// 4. 其余依赖
	guides, err := content.NewReader(conf.Content.Dir, log)
	if err != nil {
		return fmt.Errorf("读取攻略目录失败: %w", err)
	}
	storage, err := asset.NewLocalStorage(conf.Asset.Dir)
	if err != nil {
		return err
	}
	runner := background.NewRunner(log, conf.Email.Timeout+5*time.Second)
	notifier := review.NewEmailNotifier(db, email.NewClient(&conf.Email), conf.Server.PublicURL)

	// 5. 设置路由
	if conf.Server.Mode != "" {
		gin.SetMode(conf.Server.Mode)
	}
	r := route.SetupRouter(route.Deps{
		Config:    conf,
		DB:        db,
		PageCache: pageCache,
		Runner:    runner,
		Guides:    guides,
		Storage:   storage,
		Notifier:  notifier,
		Log:       log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	// 6. 启动服务
	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP 服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP 服务失败: %w", err)
		}
	}()

	if conf.Server.GRPCPort > 0 {
		grpcServer, err := grpc.NewServer(conf.Server.GRPCPort, log)
		if err != nil {
			return err
		}
		go func() {
			if err := grpcServer.Serve(ctx); err != nil {
				errCh <- err
			}
		}()
		go grpcServer.Monitor(ctx, 15*time.Second, func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("收到退出信号，开始优雅退出")
	case err := <-errCh:
		log.Error().Err(err).Msg("服务失败，开始退出")
	}
	stop()

	// 7. 优雅退出：停止接收请求，等待后台任务，刷出 span
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP 服务关闭失败")
	}
	if err := runner.WaitContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("后台任务未在超时前完成")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("刷出链路追踪数据失败")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("服务已退出")
	return nil
}
