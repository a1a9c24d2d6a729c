package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/kongbun/internal/auth"
	"github.com/MrJamesThe3rd/kongbun/internal/http/broadcast"
	"github.com/MrJamesThe3rd/kongbun/internal/http/campaign"
	"github.com/MrJamesThe3rd/kongbun/internal/http/contribution"
	"github.com/MrJamesThe3rd/kongbun/internal/http/export"
	"github.com/MrJamesThe3rd/kongbun/internal/http/importcsv"
	"github.com/MrJamesThe3rd/kongbun/internal/http/topic"
)

type Options struct {
	Verifier       *auth.Verifier
	Timeout        time.Duration
	AllowedOrigins []string
}

type Handlers struct {
	Topics        *topic.Handler
	Campaigns     *campaign.Handler
	Contributions *contribution.Handler
	Broadcasts    *broadcast.Handler
	Import        *importcsv.Handler
	Export        *export.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.Verifier))

		r.Route("/topics", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Topics.Routes(r)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Campaigns.Routes(r)
		})

		r.Route("/contributions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Contributions.Routes(r)
		})

		r.Route("/broadcasts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Broadcasts.Routes(r)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
