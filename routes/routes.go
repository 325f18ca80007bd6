package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options собирает то, что роутеру нужно из конфигурации.
type Options struct {
	JWTSecret      []byte
	RequestTimeout time.Duration
	AllowedOrigins []string
	MetricsHandler http.Handler
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	leagueEventHandler *handlers.LeagueEventHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", healthHandler.Health)
	if opts.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	// Websocket живет дольше таймаута запроса
	router.Get("/ws/league-events/{eventID}", webSocketHandler.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Route("/api/league-events", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		// Публичное чтение
		r.Get("/{eventID}", leagueEventHandler.GetEvent)

		// Организаторы и админы
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/", leagueEventHandler.CreateEvent)
			r.Post("/auto-save", leagueEventHandler.AutoSave)
			r.Put("/matches/{matchID}", leagueEventHandler.UpdateMatch)
			r.Post("/{eventID}/export", leagueEventHandler.ExportStandings)
		})

		// Только админы
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/{eventID}/recompute", leagueEventHandler.RecomputeEvent)
		})
	})
}
