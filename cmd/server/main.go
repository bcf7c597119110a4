package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/imgcatalog/backend/internal/config"
	"github.com/imgcatalog/backend/internal/database"
	"github.com/imgcatalog/backend/internal/handlers"
	"github.com/imgcatalog/backend/internal/middleware"
	"github.com/imgcatalog/backend/internal/repository"
	"github.com/imgcatalog/backend/internal/services"
	"github.com/imgcatalog/backend/internal/storage"
	"github.com/imgcatalog/backend/pkg/logger"
)

func main() {
	logger.Init()

	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	dialer, uploadCfg, err := newImageStore(cfg)
	if err != nil {
		log.Fatalf("storage initialization failed: %v", err)
	}

	uploadService := services.NewUploadService(dialer, uploadCfg)
	userService := services.NewUserService(repository.NewUserRepository(db), uploadService)

	routes := handlers.Routes{
		Categories: handlers.NewCategoriesHandler(repository.NewCategoryRepository(db)),
		Products:   handlers.NewProductsHandler(repository.NewProductRepository(db)),
		Users:      handlers.NewUsersHandler(userService),
		Files:      handlers.NewFilesHandler(uploadService),
	}

	app := fiber.New(fiber.Config{BodyLimit: cfg.Server.BodyLimitMB * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.AllowOrigin))
	app.Use(middleware.RequestLogger())
	routes.Register(app)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":       cfg.Server.Port,
		"address":    listenAddr,
		"store":      dialer.Name(),
		"body_limit": fmt.Sprintf("%dMB", cfg.Server.BodyLimitMB),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}

// newImageStore selects the remote store for uploaded images and derives the
// public URL layout that goes with it.
func newImageStore(cfg *config.Config) (storage.Dialer, services.UploadConfig, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverFTP, "":
		return storage.NewFTPClient(cfg.FTP), services.UploadConfig{
			Host:       cfg.FTP.Host,
			PublicPath: cfg.FTP.PublicPath,
			BasePath:   cfg.FTP.UploadPath,
			MaxBytes:   cfg.Upload.MaxBytes,
		}, nil
	case config.StorageDriverMinIO:
		client, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			return nil, services.UploadConfig{}, err
		}
		if err := client.EnsureBucket(context.Background()); err != nil {
			return nil, services.UploadConfig{}, fmt.Errorf("failed ensuring minio bucket: %w", err)
		}
		return client, services.UploadConfig{
			Host:       cfg.MinIO.PublicEndpoint,
			PublicPath: path.Join(cfg.MinIO.Bucket, cfg.MinIO.UploadPath),
			BasePath:   cfg.MinIO.UploadPath,
			MaxBytes:   cfg.Upload.MaxBytes,
		}, nil
	default:
		return nil, services.UploadConfig{}, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
