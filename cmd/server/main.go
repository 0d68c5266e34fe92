package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/2gazb/BargainDrivingServer/internal/config"
	"github.com/2gazb/BargainDrivingServer/internal/database"
	"github.com/2gazb/BargainDrivingServer/internal/handler"
	"github.com/2gazb/BargainDrivingServer/internal/queue"
	"github.com/2gazb/BargainDrivingServer/internal/repository"
	"github.com/2gazb/BargainDrivingServer/internal/router"
	"github.com/2gazb/BargainDrivingServer/internal/service"
	"github.com/2gazb/BargainDrivingServer/internal/token"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(migCtx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	cancel()

	key, err := cfg.SigningKey()
	if err != nil {
		log.Fatalf("signing key: %v", err)
	}
	signer := token.NewSigner(key, cfg.JWTKeyID, cfg.AccessTTL(), cfg.RefreshTTL())

	userRepo := repository.NewUserRepo(db)
	phraseRepo := repository.NewPhraseRepo(db)

	userHandler := handler.NewUserHandler(cfg, userRepo, signer, service.PublishAccountEvent)
	phraseHandler := handler.NewPhraseHandler(phraseRepo)

	// nil when Redis is unreachable; rate limiting and caching degrade
	// to pass-throughs in that case.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	// Audit consumer runs for the lifetime of the process and survives
	// broker restarts on its own.
	go queue.StartAccountConsumer()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAPI(e, userHandler, phraseHandler, signer, userRepo, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
