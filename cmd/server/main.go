package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"feedback-backend/internal/analysis"
	"feedback-backend/internal/config"
	"feedback-backend/internal/database"
	"feedback-backend/internal/handlers"
	"feedback-backend/internal/ingest"
	"feedback-backend/internal/logger"
	"feedback-backend/internal/notify"
	"feedback-backend/internal/repository"
)

// Covers every ping retry plus index/schema setup.
const remoteConnectTimeout = 45 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}

	logger.Init(logger.New("feedback-backend", cfg.LogLevel))
	cfg.LogSummary()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid display time zone")
	}

	// Storage
	local, err := repository.NewFileStore(cfg.DataFile)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid local data file")
	}

	remote, closeRemote := connectRemote(cfg)
	defer closeRemote()

	store, err := repository.NewFallbackStore(remote, cfg.StoreDriver(), local)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to build store")
	}
	log.Info().Str("mode", store.Mode()).Str("data_file", local.Path()).Msg("💾 Submission store ready")

	// Analysis
	var gen analysis.Generator
	if cfg.AnalysisConfigured() {
		g, err := analysis.NewOpenAIGenerator(cfg.GeminiAPIKey, cfg.AnalysisModel, analysis.WithBaseURL(cfg.AnalysisBaseURL))
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to build analysis client")
		}
		gen = g
	} else {
		log.Warn().Msg("⚠️  GEMINI_API_KEY not set; submissions get the static analysis response")
	}
	analyzer := analysis.NewAnalyzer(gen, cfg.AnalysisTimeout)

	// Critical feedback alerts
	var notifier notify.Notifier = notify.NewLogNotifier()
	if cfg.EmailConfigured() {
		n, err := notify.NewEmailNotifier(cfg.ResendAPIKey, cfg.AlertFromEmail, cfg.AlertToEmail)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to build email notifier")
		}
		notifier = n
	}

	pipeline, err := ingest.NewPipeline(analyzer, store, ingest.WithNotifier(notifier))
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to build ingest pipeline")
	}

	feedbackHandler := handlers.NewFeedbackHandler(pipeline, store, loc)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newRouter(feedbackHandler, cfg.AllowedOrigins(), log.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AnalysisTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("🚀 Feedback backend starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// connectRemote opens the remote store named by STORE_URL. Any failure is
// logged and the service continues on the local file alone.
func connectRemote(cfg *config.Config) (repository.SubmissionStore, func()) {
	noop := func() {}
	if !cfg.RemoteConfigured() {
		log.Info().Msg("STORE_URL/STORE_KEY not set; using local file store")
		return nil, noop
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteConnectTimeout)
	defer cancel()

	switch cfg.StoreDriver() {
	case "mongo":
		db, err := database.ConnectMongo(ctx, cfg.StoreURL, cfg.StoreKey, cfg.StoreDBName)
		if err != nil {
			log.Error().Err(err).Msg("❌ MongoDB unavailable; using local file store")
			return nil, noop
		}
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to create feedback indexes")
		}
		store, err := repository.NewMongoStore(db)
		if err != nil {
			log.Error().Err(err).Msg("❌ MongoDB store unavailable; using local file store")
			disconnectMongo(db.Client())
			return nil, noop
		}
		return store, func() { disconnectMongo(db.Client()) }

	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.StoreURL, cfg.StoreKey)
		if err != nil {
			log.Error().Err(err).Msg("❌ Postgres unavailable; using local file store")
			return nil, noop
		}
		store, err := repository.NewPostgresStore(db)
		if err != nil {
			log.Error().Err(err).Msg("❌ Postgres store unavailable; using local file store")
			closeSQL(db)
			return nil, noop
		}
		if err := store.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to create feedback table")
		}
		return store, func() { closeSQL(db) }

	default:
		log.Warn().Msg("⚠️  STORE_URL scheme not recognized; using local file store")
		return nil, noop
	}
}

func disconnectMongo(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("disconnect MongoDB")
	}
}

func closeSQL(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("close Postgres")
	}
}
