package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pavitra93/hotel-energy-tracker/shared/config"
	"github.com/pavitra93/hotel-energy-tracker/shared/middleware"
	"github.com/pavitra93/hotel-energy-tracker/shared/store"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
)

func main() {
	cfg := config.Load()
	config.ConfigureLogging(cfg)

	// Initialize database
	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if cfg.AutoMigrate {
		if err := config.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	}

	app := &App{
		store:  store.New(db),
		events: noopPublisher{},
	}
	metrics := middleware.NewMetrics("tracker")

	// Redis only tracks view versions, the service runs without it
	redisCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := utils.InitRedis(redisCtx, cfg.Redis)
	cancel()
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, view staleness tracking disabled")
	} else {
		defer redisClient.Close()
		app.views = utils.NewViewTracker(redisClient)
	}

	if cfg.KafkaBroker != "" {
		producer := NewKafkaProducer(cfg.KafkaBroker, cfg.ChangesTopic, metrics)
		defer func() {
			if err := producer.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close Kafka producer")
			}
		}()
		app.events = producer
	} else {
		logrus.Warn("KAFKA_BROKER not set, change events are not published")
	}

	var auth *middleware.AuthMiddleware
	if cfg.DBJWTSecret != "" {
		auth = middleware.NewAuthMiddleware(cfg.DBJWTSecret)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(app, metrics, auth),
	}

	errChan := make(chan error, 1)
	go func() {
		logrus.Infof("Tracker service starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logrus.Infof("Received %s, shutting down", sig)
	case err := <-errChan:
		logrus.WithError(err).Error("Tracker service stopped")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Failed to shut down HTTP server")
	}
}
