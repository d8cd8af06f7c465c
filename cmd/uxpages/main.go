package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/uxpages/internal/config"
	"github.com/xxxsen/uxpages/internal/dispatch"
	"github.com/xxxsen/uxpages/internal/handler"
	"github.com/xxxsen/uxpages/internal/job"
	"github.com/xxxsen/uxpages/internal/middleware"
	"github.com/xxxsen/uxpages/internal/pkg/jwt"
	"github.com/xxxsen/uxpages/internal/repo"
	"github.com/xxxsen/uxpages/internal/schedule"
	"github.com/xxxsen/uxpages/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "uxpages",
		Short: "pages api server",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json or config.yaml")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run pages server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return runServer(cfg, db)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}

	var tokenUser string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "print a bearer token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenUser == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			token, err := jwt.GenerateToken(tokenUser, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to embed in the token")

	rootCmd.AddCommand(runCmd, migrateCmd, tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*repo.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := repo.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := repo.ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

func runServer(cfg *config.Config, db *repo.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_driver", db.Driver()),
	)

	pageRepo := repo.NewPageRepo(db)
	historyRepo := repo.NewPageHistoryRepo(db)

	pageService := service.NewPageService(pageRepo, historyRepo, cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	bus := dispatch.NewBus()
	pageService.Register(bus)

	deps := handler.RouterDeps{
		Pages:        handler.NewPageHandler(bus),
		History:      handler.NewHistoryHandler(bus),
		JWTSecret:    []byte(cfg.JWTSecret),
		CreateWindow: time.Duration(cfg.CreateRateLimitMS) * time.Millisecond,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewHistoryPruneJob(historyRepo, cfg.History.MaxKeep), cfg.History.PruneSpec); err != nil {
		return fmt.Errorf("schedule history prune: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
