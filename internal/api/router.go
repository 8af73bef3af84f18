package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcclean/waste-backend/internal/api/handlers"
	"github.com/gcclean/waste-backend/internal/api/httpx"
	"github.com/gcclean/waste-backend/internal/auth"
	"github.com/gcclean/waste-backend/internal/config"
	"github.com/gcclean/waste-backend/internal/middleware"
	"github.com/gcclean/waste-backend/internal/services"
	"github.com/gcclean/waste-backend/internal/validate"
)

func NewRouter(cfg config.Config, tm *auth.TokenManager, us *services.UserService, es *services.EntryService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.Handler())

	ah := handlers.NewAuthHandler(us, tm)
	authMW := middleware.NewAuthMiddleware(tm)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", ah.Register)
		r.Post("/auth/login", ah.Login)
		r.Post("/auth/refresh", ah.Refresh)

		// The same rule table the server validates with, for client-side
		// pre-checks.
		r.Get("/validation/rules", func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, validate.EntryRules(cfg.StrictMode))
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			// ---------- dashboard ----------
			r.Get("/entries", func(w http.ResponseWriter, r *http.Request) {
				claims, _ := middleware.SessionClaims(r.Context())
				d, err := es.Dashboard(claims.UserID)
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not load entries", nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, d)
			})

			// ---------- create ----------
			r.Post("/entries", func(w http.ResponseWriter, r *http.Request) {
				claims, _ := middleware.SessionClaims(r.Context())
				var req validate.EntryInput
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
					return
				}
				e, fields, err := es.Create(claims.UserID, claims.Department, req)
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not save entry", nil)
					return
				}
				if fields != nil {
					httpx.WriteFieldErrors(w, fields)
					return
				}
				httpx.WriteJSON(w, http.StatusCreated, e)
			})

			// ---------- edit ----------
			r.Put("/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
				claims, _ := middleware.SessionClaims(r.Context())
				var req validate.EntryInput
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
					return
				}
				e, fields, err := es.Update(claims.UserID, chi.URLParam(r, "id"), req)
				if err != nil {
					writeEntryErr(w, err)
					return
				}
				if fields != nil {
					httpx.WriteFieldErrors(w, fields)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, e)
			})

			// ---------- delete ----------
			r.Delete("/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
				claims, _ := middleware.SessionClaims(r.Context())
				if err := es.Delete(claims.UserID, chi.URLParam(r, "id")); err != nil {
					writeEntryErr(w, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			// ---------- live collector check ----------
			r.Get("/entries/check-collector", func(w http.ResponseWriter, r *http.Request) {
				exists, err := es.CollectorExists(r.URL.Query().Get("name"))
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "lookup failed", nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, map[string]bool{"exists": exists})
			})

			// ---------- leaderboard ----------
			r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
				dept := r.URL.Query().Get("dept")
				res, err := es.Leaderboard(dept)
				if err != nil {
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not load leaderboard", nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, res)
			})
		})
	})

	return r
}

func writeEntryErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "entry not found", nil)
	case errors.Is(err, services.ErrNotOwner):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "entry belongs to another user", nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
