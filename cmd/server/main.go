package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/mediascribe/mediascribe/internal/cleanup"
	"github.com/mediascribe/mediascribe/internal/config"
	"github.com/mediascribe/mediascribe/internal/handlers"
	"github.com/mediascribe/mediascribe/internal/pipeline"
	"github.com/mediascribe/mediascribe/internal/scratch"
	"github.com/mediascribe/mediascribe/internal/storage"
	"github.com/mediascribe/mediascribe/internal/transcription"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := scratch.New(cfg.Storage.ScratchDir, log)
	if err != nil {
		return err
	}

	records, err := storage.NewRecordStore(cfg.Storage.Database)
	if err != nil {
		return err
	}
	defer records.Close()

	converter := transcription.NewConverter(cfg.FFmpeg.Binary, log)
	transcriber := transcription.NewClient(cfg.Transcription.BaseURL, cfg.Transcription.APIKey, cfg.Transcription.Model)

	// Drive archival is enabled only when credentials are present.
	var archiver pipeline.Archiver
	if cfg.GoogleDrive.CredentialsFile != "" {
		da, err := storage.NewDriveArchiver(context.Background(),
			cfg.GoogleDrive.CredentialsFile,
			cfg.GoogleDrive.TokenFile,
			cfg.GoogleDrive.FolderName)
		if err != nil {
			log.Warn("drive archival disabled", "error", err)
		} else {
			archiver = da
			log.Info("drive archival enabled", "folder", cfg.GoogleDrive.FolderName)
		}
	}

	pipe := pipeline.New(store, converter, transcriber, records, archiver, log)

	sweeper := cleanup.NewScheduler(store.Dir(),
		time.Duration(cfg.Cleanup.IntervalMinutes)*time.Minute,
		time.Duration(cfg.Cleanup.MaxAgeHours)*time.Hour,
		log)
	sweeper.Start()
	defer sweeper.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Limits.MaxUploadMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
	}))

	auth := handlers.NewAuthHandler(cfg.Auth.Password, cfg.Auth.SecureCookie)
	transcribe := handlers.NewTranscribeHandler(pipe, log)
	list := handlers.NewRecordsHandler(records, log)
	stream := handlers.NewStreamHandler(pipe, log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	app.Post("/api/login", auth.HandleLogin)
	app.Post("/api/logout", auth.HandleLogout)

	app.Post("/api/transcribe", auth.Require, transcribe.HandleVideo)
	app.Post("/api/transcribe-audio", auth.Require, transcribe.HandleAudio)
	app.Get("/api/transcriptions", auth.Require, list.HandleList)
	app.Get("/ws/record", auth.Require, websocket.New(stream.Handle))

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("shutting down")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("server starting", "addr", addr)
	return app.Listen(addr)
}
