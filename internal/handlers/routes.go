package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gdg-garage/event-registration-api/internal/config"
)

func RegisterRoutes(r *chi.Mux, cfg *config.Config, users *UserHandler, events *EventHandler, registrations *RegistrationHandler) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(Recoverer)
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	// Initialize Huma API
	apiConfig := huma.DefaultConfig("Event Registration API", "1.0.0")
	apiConfig.Info.Description = "Users, events and event registrations."
	// No $schema links in response bodies.
	apiConfig.CreateHooks = nil
	api := humachi.New(r, apiConfig)

	r.Get("/health", handleHealth)
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	huma.Post(api, "/api/users", users.HandleCreate, created)
	huma.Get(api, "/api/users", users.HandleList)
	huma.Get(api, "/api/users/{id}", users.HandleGet)
	huma.Get(api, "/api/users/{id}/registrations", users.HandleRegistrations)

	huma.Post(api, "/api/events", events.HandleCreate, created)
	huma.Get(api, "/api/events", events.HandleListUpcoming)
	huma.Get(api, "/api/events/{id}", events.HandleGet)
	huma.Get(api, "/api/events/{id}/stats", events.HandleStats)

	huma.Post(api, "/api/registrations", registrations.HandleRegister, created)
	huma.Delete(api, "/api/registrations", registrations.HandleCancel)
	huma.Get(api, "/api/registrations/status", registrations.HandleStatus)

	return api
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}
