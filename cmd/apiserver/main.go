package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amoylab/sdctrack/internal/apiserver/handler"
	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/amoylab/sdctrack/internal/store"
	"github.com/amoylab/sdctrack/pkg/logger"
	"github.com/amoylab/sdctrack/pkg/metrics"
	"github.com/amoylab/sdctrack/pkg/trace"
	"github.com/amoylab/sdctrack/pkg/version"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Seed every empty collection and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "SDC tracking API server",
		Long:  `Serves the clinical trial admin console API: reference data, users and SDC tracking entries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", "apiserver.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd, seedCmd)
}

func initLogger(cfg *config.APIServerConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return lg
}

func initStore(ctx context.Context, lg *zap.Logger, cfg *config.StorageConfig) store.Backend {
	backend, err := store.NewBackend(ctx, lg, cfg)
	if err != nil {
		lg.Fatal("Failed to initialize storage", zap.String("type", cfg.Type), zap.Error(err))
	}
	return backend
}

func initI18n(lg *zap.Logger, cfg *config.I18nConfig) *i18n.Translator {
	tr, err := i18n.NewTranslator(cfg.DefaultLanguage)
	if err != nil {
		lg.Fatal("Failed to initialize i18n", zap.Error(err))
	}
	lg.Info("Loaded translations", zap.Strings("languages", tr.Languages()))
	return tr
}

func initCollections(backend store.Backend, lg *zap.Logger, m *metrics.Metrics, cfg *config.APIServerConfig) *store.Collections {
	var recorder store.Recorder
	if m != nil {
		recorder = m
	}
	admin := entity.SuperAdmin(cfg.SuperAdmin.Username, cfg.SuperAdmin.Password)
	return store.NewCollections(backend, lg, recorder, store.WithSuperAdmin(admin))
}

func initRouter(cfg *config.APIServerConfig, cols *store.Collections, tr *i18n.Translator, m *metrics.Metrics, lg *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return handler.NewRouter(handler.RouterOptions{
		Config:      cfg,
		Collections: cols,
		Translator:  tr,
		Metrics:     m,
		Logger:      lg,
	})
}

func seedAll(ctx context.Context, lg *zap.Logger, cols *store.Collections) error {
	seeded, err := cols.SeedAll(ctx)
	if err != nil {
		return err
	}
	lg.Info("Seeding finished", zap.Strings("seeded", seeded))
	return nil
}

func seed(ctx context.Context) error {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", cfgPath, err)
	}
	lg := initLogger(cfg)
	defer lg.Sync()

	backend := initStore(ctx, lg, &cfg.Storage)
	defer backend.Close()

	return seedAll(ctx, lg, initCollections(backend, lg, nil, cfg))
}

func run() error {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", cfgPath, err)
	}

	lg := initLogger(cfg)
	defer lg.Sync()
	lg.Info("Starting apiserver",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath),
		zap.Bool("enforce_authz", cfg.Authz.EnforceAuthz()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			lg.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	backend := initStore(ctx, lg, &cfg.Storage)
	defer backend.Close()

	cols := initCollections(backend, lg, m, cfg)
	if err := seedAll(ctx, lg, cols); err != nil {
		return fmt.Errorf("failed to seed storage: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           initRouter(cfg, cols, initI18n(lg, &cfg.I18n), m, lg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		lg.Info("Shutting down server")
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
