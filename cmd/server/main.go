// 医院排班引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Berner89/hospital-staff-scheduler/internal/config"
	"github.com/Berner89/hospital-staff-scheduler/internal/database"
	"github.com/Berner89/hospital-staff-scheduler/internal/department"
	"github.com/Berner89/hospital-staff-scheduler/internal/handler"
	"github.com/Berner89/hospital-staff-scheduler/internal/metrics"
	"github.com/Berner89/hospital-staff-scheduler/internal/middleware"
	"github.com/Berner89/hospital-staff-scheduler/internal/repository"
	"github.com/Berner89/hospital-staff-scheduler/internal/security"
	"github.com/Berner89/hospital-staff-scheduler/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logFormat := "json"
	if cfg.IsDevelopment() {
		logFormat = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: logFormat,
	})

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.App.Env).
		Msg("医院排班引擎启动中")

	// 数据库可选，未启用时生成路径完全在内存中运行
	var runs repository.RunRepositoryInterface
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("连接数据库失败")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.EnsureSchema(ctx); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("初始化表结构失败")
		}
		cancel()

		runs = repository.NewRunRepository(db)
		logger.Info().Str("host", cfg.Database.Host).Msg("数据库已连接")
	}

	// 科室注册表，启动时只有缺省科室
	departments := department.NewManager()
	defaultDept := department.CreateDefault()
	if err := departments.Register(defaultDept); err != nil {
		logger.Fatal().Err(err).Msg("注册缺省科室失败")
	}

	// 鉴权组件
	apiKeys := security.NewAPIKeyManager()
	apiKeys.LoadStatic(cfg.Security.APIKeys, defaultDept.Code)
	rateLimiter := security.NewRateLimiter(cfg.API.RateLimit, time.Minute)

	// 处理器
	scheduleHandler := handler.NewScheduleHandler(handler.ScheduleOptions{
		Runs:            runs,
		GenerateTimeout: cfg.Scheduler.GenerateTimeout,
		TrialWorkers:    cfg.Scheduler.TrialWorkers,
		MaxTrialSeeds:   cfg.Scheduler.MaxTrialSeeds,
	})
	statsHandler := handler.NewStatsHandler()
	catalogHandler := handler.NewCatalogHandler()

	mux := http.NewServeMux()

	// 系统端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Health(ctx); err != nil {
				status = "degraded"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":%q,"service":%q}`, status, cfg.App.Name)
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"version":%q,"build_time":%q,"git_commit":%q}`, Version, BuildTime, GitCommit)
	})

	// API v1 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"message": "医院排班引擎 API v1",
			"endpoints": {
				"schedule": {
					"generate": "POST /api/v1/schedule/generate",
					"validate": "POST /api/v1/schedule/validate",
					"relief":   "POST /api/v1/schedule/relief",
					"trial":    "POST /api/v1/schedule/trial",
					"export":   "POST /api/v1/schedule/export",
					"runs":     "GET /api/v1/schedule/runs"
				},
				"catalog": {
					"presets":     "GET /api/v1/presets",
					"patterns":    "GET /api/v1/patterns",
					"constraints": "GET /api/v1/constraints"
				},
				"stats": {
					"fairness": "POST /api/v1/stats/fairness",
					"coverage": "POST /api/v1/stats/coverage"
				}
			}
		}`))
	})

	// 排班 API
	mux.HandleFunc("/api/v1/schedule/generate", scheduleHandler.Generate)
	mux.HandleFunc("/api/v1/schedule/validate", scheduleHandler.Validate)
	mux.HandleFunc("/api/v1/schedule/relief", scheduleHandler.Relief)
	mux.HandleFunc("/api/v1/schedule/trial", scheduleHandler.Trial)
	mux.HandleFunc("/api/v1/schedule/export", scheduleHandler.Export)
	mux.HandleFunc("/api/v1/schedule/runs", scheduleHandler.Runs)

	// 目录 API
	mux.HandleFunc("/api/v1/presets", catalogHandler.Presets)
	mux.HandleFunc("/api/v1/patterns", catalogHandler.Patterns)
	mux.HandleFunc("/api/v1/constraints", catalogHandler.Constraints)

	// 统计分析 API
	mux.HandleFunc("/api/v1/stats/fairness", statsHandler.Fairness)
	mux.HandleFunc("/api/v1/stats/coverage", statsHandler.Coverage)

	// 监控端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// 中间件从外到内：恢复 -> 请求ID -> 限流 -> CORS -> 日志 -> 鉴权
	mws := []func(http.Handler) http.Handler{
		middleware.Recovery,
		middleware.RequestID,
		middleware.RateLimit(rateLimiter),
		middleware.Logging,
	}
	if cfg.API.CORS.Enabled {
		mws = append(mws, middleware.CORS)
	}
	if cfg.Security.AuthEnabled() {
		mws = append(mws, middleware.Auth(&middleware.AuthConfig{
			APIKeyManager: apiKeys,
			Departments:   departments,
			SkipPaths:     []string{"/health", "/version", cfg.Metrics.Path},
		}))
		logger.Info().Int("keys", len(cfg.Security.APIKeys)).Msg("API鉴权已启用")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      middleware.Chain(mux, mws...),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}
