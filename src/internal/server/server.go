package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = *logrus.StandardLogger()

type Server struct {
	cfg  *config.Configuration
	deps *dependency.Manager
}

func New(cfg *config.Configuration) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	mongodb, err := clients.NewMongoDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}

	redisClient, err := clients.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	rabbitMQ, err := clients.NewRabbitMQ(&cfg.Queue)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to RabbitMQ")
	}
	if err := rabbitMQ.SetupQueue(); err != nil {
		log.WithError(err).Fatal("Failed to declare RabbitMQ exchange")
	}

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.Timeout)*time.Second)
	defer cancel()
	if err := deps.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("Failed to ensure database indexes")
	}

	SetupRoutes(deps)

	return &Server{cfg: cfg, deps: deps}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains
// in-flight requests and closes the client connections.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.deps.Router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on :%s", s.cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
		return err
	}

	s.close(ctx)
	log.Info("Server stopped")
	return nil
}

func (s *Server) close(ctx context.Context) {
	if err := s.deps.RabbitMQ.Close(); err != nil {
		log.WithError(err).Warn("Failed to close RabbitMQ")
	}
	if err := s.deps.Redis.Close(); err != nil {
		log.WithError(err).Warn("Failed to close Redis")
	}
	if err := s.deps.Mongodb.Close(ctx); err != nil {
		log.WithError(err).Warn("Failed to close MongoDB")
	}
}
