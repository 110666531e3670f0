package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WreckedIT/MoveMate/internal/config"
	"github.com/WreckedIT/MoveMate/internal/database"
	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/WreckedIT/MoveMate/internal/logging"
	"github.com/WreckedIT/MoveMate/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "movemate-api",
		Short: "MoveMate box tracking backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("storage-driver", defaults.GetString("storage.driver"), "Storage driver (sqlite, memory)")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("cors-origins", defaults.GetString("http.cors_origins"), "Comma-separated allowed CORS origins")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "storage.driver", "storage-driver")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "http.cors_origins", "cors-origins")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	dispatcher := server.NewActivityDispatcher()

	var store inventory.Store
	switch appConfig.StorageDriver {
	case config.StorageDriverMemory:
		store = inventory.NewMemoryStore(inventory.MemoryStoreConfig{
			Logger:            logger,
			ActivityPublisher: dispatcher.Publish,
		})
	default:
		db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		sqlStore, err := inventory.NewSQLStore(inventory.SQLStoreConfig{
			Database:          db,
			Logger:            logger,
			ActivityPublisher: dispatcher.Publish,
		})
		if err != nil {
			return err
		}
		store = sqlStore
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Store:       store,
		Dispatcher:  dispatcher,
		Logger:      logger,
		CORSOrigins: appConfig.CORSOriginList(),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("address", appConfig.HTTPAddress),
			zap.String("storage_driver", appConfig.StorageDriver))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	summaryTimer := time.AfterFunc(time.Second, func() {
		logStartupSummary(signalCtx, store, logger)
	})
	defer summaryTimer.Stop()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// logStartupSummary reports the inventory shape shortly after boot. It only
// reads, and a failure here is logged rather than surfaced: the server keeps
// serving either way.
func logStartupSummary(ctx context.Context, store inventory.Store, logger *zap.Logger) {
	summaryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	boxes, err := store.ListBoxes(summaryCtx)
	if err != nil {
		logger.Warn("startup summary skipped", zap.Error(err))
		return
	}
	inTruck := 0
	for _, box := range boxes {
		if box.Position != nil {
			inTruck++
		}
	}
	owners, err := store.ListOwners(summaryCtx)
	if err != nil {
		logger.Warn("startup summary skipped", zap.Error(err))
		return
	}
	activities, err := store.ListActivities(summaryCtx, 0)
	if err != nil {
		logger.Warn("startup summary skipped", zap.Error(err))
		return
	}

	logger.Info("inventory summary",
		zap.Int("boxes", len(boxes)),
		zap.Int("boxes_in_truck", inTruck),
		zap.Int("owners", len(owners)),
		zap.Int("activities", len(activities)))
}
