package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sandymist/pfinance/internal/api/handlers"
	"github.com/sandymist/pfinance/internal/api/middleware"
	"github.com/sandymist/pfinance/internal/auth"
	"github.com/sandymist/pfinance/internal/config"
	"github.com/sandymist/pfinance/internal/infra/mongostore"
	"github.com/sandymist/pfinance/internal/insight"
	"github.com/sandymist/pfinance/internal/logger"
)

func main() {
	var (
		envFile = flag.String("env", "app.env", "path to the environment file (optional)")
		port    = flag.String("port", "", "HTTP server port (overrides PF_SERVER_PORT)")
	)
	flag.Parse()

	// Missing env file is fine; the environment may be set directly.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}

	log := logger.New(cfg.LogLevel)

	ctx := context.Background()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		cancelPing()
		log.Fatal().Err(err).Msg("MongoDB is unreachable")
	}
	cancelPing()

	store := mongostore.New(client, cfg.MongoDatabase, cfg.MongoCollection)

	// Completion service
	completion, err := insight.NewGeminiClient(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create completion client")
	}

	classifier := insight.NewClassifier(completion, log)
	extractor := insight.NewWindowExtractor(completion, log)
	resolver := insight.NewResolver(completion, log)

	// Identity provider is optional; without an audience the API is open.
	var verifier auth.Verifier
	if cfg.AuthAudience != "" {
		verifier = auth.NewGoogleVerifier(cfg.AuthAudience)
		log.Info().Msg("Token verification enabled")
	} else {
		log.Warn().Msg("AUTH_AUDIENCE not set - token verification disabled")
	}

	// Initialize handlers
	entriesHandler := handlers.NewEntriesHandler(store, log)
	categorizeHandler := handlers.NewCategorizeHandler(classifier, log)
	insightsHandler := handlers.NewInsightsHandler(extractor, resolver, store, log)
	importHandler := handlers.NewImportHandler(store, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		handlers.Home(w, r)
	})

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("/api/entries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			entriesHandler.List(w, r)
		case http.MethodPost:
			entriesHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/check_transaction", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			entriesHandler.Check(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categorize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			categorizeHandler.Categorize(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/insights", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			insightsHandler.Insights(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/uploadcsv", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importHandler.UploadCSV(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(
				middleware.CORS(cfg.CORSOrigins)(
					middleware.Auth(verifier, log)(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
