package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/glebk/lunch-buddy/internal/bot"
	"github.com/glebk/lunch-buddy/internal/catalog"
	"github.com/glebk/lunch-buddy/internal/config"
	"github.com/glebk/lunch-buddy/internal/repository/sqlite"
	"github.com/glebk/lunch-buddy/internal/service"
	"github.com/glebk/lunch-buddy/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database initialized at: %s", cfg.DatabasePath)

	venueRepo := sqlite.NewVenueRepository(db)
	if cfg.VenuesCSV != "" {
		n, err := service.ImportVenuesFile(ctx, venueRepo, cfg.VenuesCSV)
		if err != nil {
			log.Fatalf("Failed to import venues: %v", err)
		}
		log.Printf("Imported %d venues from %s", n, cfg.VenuesCSV)
	}
	if n, err := venueRepo.Count(ctx); err != nil {
		log.Printf("Error counting venues: %v", err)
	} else if n == 0 {
		log.Println("No venues stored, summaries will come without recommendations")
	}

	cat, err := catalog.Default()
	if err != nil {
		log.Fatalf("Failed to load question catalog: %v", err)
	}

	// Initialize services
	st := store.New()
	survey := service.NewSurveyService(st, store.NewCursors(), cat)
	services := bot.Services{
		Survey:      survey,
		Invitations: service.NewInvitationService(st, cat, survey),
		Summaries: service.NewSummaryService(st, cat,
			service.NewRecommendationService(venueRepo, cfg.RecommendationLimit), cfg.Language),
	}

	// Initialize bot
	telegramBot, err := bot.New(cfg, services)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil {
		log.Printf("Bot stopped with error: %v", err)
	}
	log.Println("Shutting down gracefully...")
}
