package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/developia-II/catalog-backend/internal/adapters/repository/memory"
	"github.com/developia-II/catalog-backend/internal/adapters/repository/mongodb"
	"github.com/developia-II/catalog-backend/internal/config"
	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/handlers"
	"github.com/developia-II/catalog-backend/internal/media"
	"github.com/developia-II/catalog-backend/internal/middleware"
	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/developia-II/catalog-backend/internal/validation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogging(cfg)
	logrus.WithFields(logrus.Fields{
		"env":   cfg.Env,
		"store": cfg.StoreDriver,
		"media": cfg.MediaDriver,
	}).Info("Starting catalog backend...")

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logrus.Fatalf("Failed to ensure indexes: %v", err)
	}

	mediaStore, cleanup, err := openMedia(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to configure media storage: %v", err)
	}
	defer cleanup()

	resolver := media.NewResolver(mediaStore, cfg.MediaFolder, cfg.MediaMaxBytes)
	svc := catalog.NewService(store, validation.New(), resolver)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.Logger(), cors.New(corsConfig(cfg)))

	opts := handlers.RouteOptions{
		Prefix:       cfg.APIPrefix,
		JWTSecret:    cfg.JWTSecret,
		MaxBodyBytes: handlers.BodyLimit(cfg.MediaMaxBytes),
	}
	if local, ok := mediaStore.(*media.LocalStore); ok {
		opts.StaticDir = local.Dir()
		opts.StaticPath = cfg.MediaPublicBaseURL
	}
	handlers.SetupRoutes(router, store, svc, resolver, opts)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}
	go func() {
		logrus.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server shutdown failed: %v", err)
	}
}

func configureLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.DebugLevel)
}

func openStore(ctx context.Context, cfg *config.Config) (domain.CatalogStore, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logrus.Warn("Using the in-memory store - data is lost on restart")
		return memory.New(), nil
	}
	store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	logrus.Info("Connected to MongoDB")
	return store, nil
}

func openMedia(ctx context.Context, cfg *config.Config) (media.Store, func(), error) {
	switch cfg.MediaDriver {
	case config.MediaGCS:
		s, err := media.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCDNDomain, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logrus.WithError(err).Warn("closing GCS client failed")
			}
		}, nil
	case config.MediaLocal:
		s, err := media.NewLocalStore(cfg.MediaLocalDir, cfg.MediaPublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		s, err := media.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	} else {
		c.AllowAllOrigins = true
	}
	return c
}
