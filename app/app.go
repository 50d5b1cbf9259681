package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"

	"auction-management-api/internal/clock"
	"auction-management-api/internal/config"
	"auction-management-api/internal/controller"
	"auction-management-api/internal/livefeed"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/service"
	"auction-management-api/pkg/http_server"
	"auction-management-api/pkg/logger"
	"auction-management-api/pkg/postgres"
)

func runMigrations(postgresDB *postgres.Postgres, sourceUrl string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{})
	if err != nil {
		logger.Fatal("failed to prepare migration driver", map[string]any{"error": err.Error()})
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, "postgres", driver)
	if err != nil {
		logger.Fatal("failed to load migrations", map[string]any{"error": err.Error()})
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no change made by migration scripts", nil)
		} else {
			logger.Fatal("failed to apply migrations", map[string]any{"error": err.Error()})
		}
	}
}

func Run() {
	cfg := config.Load()
	if !cfg.Validate() {
		logger.Fatal("missing required configuration", map[string]any{
			"server_address_set": cfg.ServerAddress != "",
			"postgres_conn_set":  cfg.PostgresConn != "",
		})
	}
	logger.SetLevel(cfg.LogLevel)

	logger.Info("Connecting database...", nil)
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		logger.Fatal("error occurred while connecting to db", map[string]any{"error": err.Error()})
	}
	defer postgresDB.Close()

	logger.Info("Running migrations...", nil)
	runMigrations(postgresDB, cfg.MigrationsPath)

	redisClient := livefeed.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if redisClient == nil {
		logger.Warn("redis unavailable, live feed disabled", map[string]any{"addr": cfg.Redis.Addr})
	}
	feed := livefeed.New(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.BidStreamKey, cfg.Redis.CurrentBidTTL)

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories, clock.New(), feed)
	handler := echo.New()

	logger.Info("Setup routes...", nil)
	controller.SetupRoutesHandlers(handler, services)

	logger.Info("Starting server...", map[string]any{"address": cfg.ServerAddress})
	httpServer := http_server.New(handler, cfg.ServerAddress)

	logger.Info("Ready to process requests...", nil)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		logger.Info("Got signal: "+s.String(), nil)
	case err = <-httpServer.Notify():
		logger.Error("Notify error", map[string]any{"error": err.Error()})
	}

	logger.Info("Shutting down...", nil)
	err = httpServer.Shutdown()
	if err != nil {
		logger.Error("Shutdown error", map[string]any{"error": err.Error()})
	} else {
		logger.Info("Successful shutdown", nil)
	}
}
