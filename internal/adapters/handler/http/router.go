package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

type Handlers struct {
	Sessions *SessionHandler
	Ballots  *BallotHandler
	Results  *ResultsHandler
}

func NewHandler(log *slog.Logger, sessions ports.SessionService, h Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(WithLogging(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/", h.Sessions.SignIn)

			r.Group(func(r chi.Router) {
				r.Use(RequireSession(sessions))
				r.Get("/", h.Sessions.Current)
				r.Delete("/", h.Sessions.SignOut)
			})
		})

		r.Route("/ballots", func(r chi.Router) {
			r.Get("/{id}", h.Ballots.Get)

			r.Group(func(r chi.Router) {
				r.Use(RequireSession(sessions))
				r.Get("/", h.Ballots.ListMine)
				r.Post("/", h.Ballots.Record)
			})
		})

		r.Get("/elections/{id}/results", h.Results.GetElectionResults)
	})

	return r
}
