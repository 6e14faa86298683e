package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirola777/order-capture-service/internal/application/use_cases"
	"github.com/mirola777/order-capture-service/internal/domain"
	"github.com/mirola777/order-capture-service/internal/infrastructure/auth"
	gormdb "github.com/mirola777/order-capture-service/internal/infrastructure/gorm"
	echoserver "github.com/mirola777/order-capture-service/internal/presentation/echo"
	"github.com/mirola777/order-capture-service/internal/utils/config"
	"github.com/mirola777/order-capture-service/internal/utils/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "order-capture-service",
		Short:         "Captures authorized order payments",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP API", RunE: runServe},
		&cobra.Command{Use: "migrate", Short: "Apply database migrations and exit", RunE: runMigrate},
		newTokenCmd(),
	)
	return root
}

func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := gormdb.NewConnection(cfg)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := gormdb.RunMigrations(db, log); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := gormdb.RunMigrations(db, log); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	container, err := use_cases.NewContainer(ctx, db, cfg, log, reg)
	if err != nil {
		log.Error("failed to build container", zap.Error(err))
		return err
	}
	container.Start()

	server := echoserver.NewServer(cfg, container, log, reg, sqlDB)
	serveErr := server.Run(ctx)
	if serveErr != nil {
		log.Error("server error", zap.Error(serveErr))
	}
	return errors.Join(serveErr, container.Close())
}

func newTokenCmd() *cobra.Command {
	var (
		user        string
		shops       []string
		permissions []string
		ttl         time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := auth.NewTokenCodec(cfg.JWTSecret).Sign(domain.Actor{
				UserID:      user,
				ShopIDs:     shops,
				Permissions: permissions,
			}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id placed in the subject claim")
	cmd.Flags().StringSliceVar(&shops, "shop", nil, "shop the user may act for (repeatable)")
	cmd.Flags().StringSliceVar(&permissions, "permission", []string{"capture:payment", "read:order"}, "granted permission (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

