package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AshwinGadhvi/VideoTube/internal/config"
	"github.com/AshwinGadhvi/VideoTube/internal/database"
	"github.com/AshwinGadhvi/VideoTube/internal/handlers"
	"github.com/AshwinGadhvi/VideoTube/internal/repository"
	"github.com/AshwinGadhvi/VideoTube/internal/server"
	"github.com/AshwinGadhvi/VideoTube/internal/services"
	"github.com/AshwinGadhvi/VideoTube/internal/token"
	"github.com/AshwinGadhvi/VideoTube/internal/uploader"
	"github.com/AshwinGadhvi/VideoTube/internal/utils"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.App.Env)
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting videotube auth service in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	if err := os.MkdirAll(cfg.App.TempDir, 0o755); err != nil {
		sugar.Fatalf("failed to create temp dir: %v", err)
	}

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	var files uploader.Uploader
	if cfg.AWS.Bucket != "" {
		s3up, err := uploader.NewS3Uploader(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.KeyPrefix)
		if err != nil {
			sugar.Fatalf("failed to initialize S3 uploader: %v", err)
		}
		files = s3up
		sugar.Infof("S3 uploader configured for bucket %s", cfg.AWS.Bucket)
	} else {
		files = uploader.Disabled{}
		sugar.Warn("No S3 bucket configured. Media uploads are disabled; registration will reject avatars.")
	}

	userRepo := repository.NewMongoUserRepo(db, cfg.Mongo.Collection)
	tokens := token.NewService(
		userRepo,
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL(),
		sugar,
	)
	authSvc := services.NewAuthService(userRepo, tokens, files, sugar)
	h := handlers.NewHandler(authSvc, cfg.App.TempDir)

	app := server.New(cfg, h, tokens, sugar)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}

	sugar.Info("Graceful shutdown complete")
}
