package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sundialhq/sundial/internal/api/handlers"
	mw "github.com/sundialhq/sundial/internal/api/middleware"
	"github.com/sundialhq/sundial/internal/calendar"
	"github.com/sundialhq/sundial/internal/config"
	"github.com/sundialhq/sundial/internal/domain"
	"github.com/sundialhq/sundial/internal/embedding"
	"github.com/sundialhq/sundial/internal/llm"
	"github.com/sundialhq/sundial/internal/service"
	"github.com/sundialhq/sundial/internal/store"
	"go.uber.org/zap"
)

// App holds the router and request metrics.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	userStore := store.NewUserStore(db)
	prefStore := store.NewPreferenceStore(db)
	chatStore := store.NewChatStore(db)

	// External clients via provider factory
	var llmClient domain.LLMClient
	var embeddingClient domain.EmbeddingClient

	var err error
	llmClient, err = llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", config.LLMProvider()), zap.Error(err))
	} else {
		logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))
	}

	embeddingClient, err = embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey(), config.EmbeddingModel())
	if err != nil {
		logger.Warn("Embedding client initialization failed", zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
	} else {
		logger.Info("Embedding client initialized", zap.String("provider", config.EmbeddingProvider()))
	}

	calendarClient := calendar.NewGoogleClient()

	// Services
	interp := service.NewInterpreter(service.InterpreterConfig{
		DefaultBoundary: config.DefaultBoundaryTime(),
	})
	prefSvc := service.NewPreferenceService(prefStore, embeddingClient, logger)
	beliefSvc := service.NewBeliefService(prefStore, interp, config.ProposalFloorHour(), logger)
	reasoningSvc := service.NewReasoningService(beliefSvc, logger)
	chatSvc := service.NewChatService(chatStore, prefSvc, reasoningSvc, calendarClient, llmClient, logger)

	// Handlers
	userHandler := handlers.NewUserHandler(userStore)
	prefHandler := handlers.NewPreferenceHandler(prefSvc)
	scheduleHandler := handlers.NewScheduleHandler(reasoningSvc)
	chatHandler := handlers.NewChatHandler(chatSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// User creation (no auth — bootstrap endpoint)
	r.Post("/v1/users", userHandler.Create)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(userStore))

		r.Get("/users/me", userHandler.Me)

		// Raw preference statements
		r.Route("/preferences", func(r chi.Router) {
			r.Post("/", prefHandler.Create)
			r.Get("/", prefHandler.List)
			r.Delete("/", prefHandler.Clear)
			r.Get("/similar", prefHandler.Similar)
		})

		// Reasoning queries
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/constraints", scheduleHandler.Constraints)
			r.Get("/conflicts", scheduleHandler.Conflicts)
			r.Post("/propose", scheduleHandler.Propose)
		})

		// Conversational front end
		r.Route("/chat", func(r chi.Router) {
			r.Post("/message", chatHandler.Message)
			r.Get("/history", chatHandler.History)
			r.Delete("/history", chatHandler.ClearHistory)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.UserStore       = (*store.UserStore)(nil)
	_ domain.PreferenceStore = (*store.PreferenceStore)(nil)
	_ domain.ChatStore       = (*store.ChatStore)(nil)
	_ domain.CalendarClient  = (*calendar.GoogleClient)(nil)
	_ domain.CalendarClient  = (*calendar.MockClient)(nil)
	_ domain.LLMClient       = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient       = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient       = (*llm.MockClient)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
)
