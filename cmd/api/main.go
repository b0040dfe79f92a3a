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

	"github.com/redis/go-redis/v9"

	"github.com/spshpau/project-service/config"
	"github.com/spshpau/project-service/internal/auth"
	"github.com/spshpau/project-service/internal/bootstrap"
	filerepo "github.com/spshpau/project-service/internal/files/repository"
	"github.com/spshpau/project-service/internal/files/purge"
	s3store "github.com/spshpau/project-service/internal/storage/s3"
)

const serviceName = "project-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	fbAuth, err := auth.NewVerifier(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}

	store, err := s3store.New(ctx, &cfg.S3)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		DB:             pool,
		Redis:          rdb,
		Storage:        store,
		TokenVerifier:  fbAuth,
		ConnectionsURL: cfg.Connections.BaseURL,
		PresignTTL:     cfg.S3.PresignTTL,
	})

	if cfg.Purge.Schedule != "" {
		purger := purge.NewPurger(filerepo.NewFileRepository(pool), store, cfg.Purge.BatchSize)
		scheduler, err := purge.StartScheduler(purger, cfg.Purge.Schedule)
		if err != nil {
			log.Fatalf("purge scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
