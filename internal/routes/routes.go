package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/serenify-engagement/internal/handlers"
	"github.com/AnshRaj112/serenify-engagement/internal/metrics"
	"github.com/AnshRaj112/serenify-engagement/internal/middleware"
)

type Deps struct {
	Engagement *handlers.EngagementHandler
	Verifier   middleware.PrincipalVerifier
}

func SetupRoutes(r chi.Router, d Deps) {
	// Operational endpoints, no auth
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Engagement routes, bearer credential required
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Verifier))

		r.Get("/streak", d.Engagement.GetStreak)
		r.Post("/streak", d.Engagement.RecordStreak)

		r.Get("/journal", d.Engagement.ListJournal)
		r.Post("/journal", d.Engagement.CreateJournal)
	})
}
