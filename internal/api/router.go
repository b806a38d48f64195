package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// RouterConfig carries what the HTTP surface needs beyond the service.
type RouterConfig struct {
	// JWTSecret protects the /api group. Empty leaves the API open,
	// intended for local development only.
	JWTSecret string

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter assembles the full studio server router.
func NewRouter(svc studiogen.Service, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	handler := NewGenerateHandler(svc)
	r.Route("/api", func(r chi.Router) {
		if cfg.JWTSecret != "" {
			tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator)
		}
		r.Mount("/", handler.Routes())
	})

	return r
}
