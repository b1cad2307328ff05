package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/digcfo/stats-service/internal/config"
	"github.com/digcfo/stats-service/internal/db"
	httpSrv "github.com/digcfo/stats-service/internal/http"
	"github.com/digcfo/stats-service/internal/logger"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)

		opts := db.MySQLOpts{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			PingTimeout:     cfg.Database.PingTimeout,
		}

		registrationDSN, err := db.BuildDSN(cfg.Database.BaseDSN, cfg.Database.RegistrationDB)
		if err != nil {
			return fmt.Errorf("registration dsn: %w", err)
		}
		registrationDB, err := db.NewMySQLConnection(registrationDSN, opts)
		if err != nil {
			return fmt.Errorf("registration connect: %w", err)
		}
		defer registrationDB.Close()

		financeDataDSN, err := db.BuildDSN(cfg.Database.BaseDSN, cfg.Database.FinanceDataDB)
		if err != nil {
			return fmt.Errorf("financedata dsn: %w", err)
		}
		// The financedata source may be down; requests degrade, so a failed
		// ping must not block startup. Open without the ping gate.
		financeDataDB, err := db.OpenMySQL(financeDataDSN, opts)
		if err != nil {
			return fmt.Errorf("financedata open: %w", err)
		}
		defer financeDataDB.Close()

		redisClient, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		server := httpSrv.NewServer(cfg, registrationDB, financeDataDB, redisClient)

		errCh := make(chan error, 1)
		go func() {
			log.Printf("starting http on %s", cfg.HTTP.Addr)
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("signal received: %s, shutting down...", sig)
		case err := <-errCh:
			if err != nil {
				log.Printf("http server exited: %v", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
