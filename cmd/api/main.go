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

	"github.com/devstudio-hq/orders-backend/config"
	"github.com/devstudio-hq/orders-backend/internal/auth"
	"github.com/devstudio-hq/orders-backend/internal/bootstrap"
	s3store "github.com/devstudio-hq/orders-backend/internal/storage/s3"
)

const serviceName = "orders-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	sqlDB, err := bootstrap.OpenSQLDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open sql db: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer redisClient.Close()

	authClient, err := auth.NewAuthClient(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("init firebase: %v", err)
	}

	s3Client, err := bootstrap.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		DB:          db,
		SQLDB:       sqlDB,
		Auth:        authClient,
		Redis:       redisClient,
		Blobs:       s3store.NewStore(s3Client, cfg.Storage),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped gracefully")
}
