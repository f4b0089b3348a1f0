package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
)

// NewRouter assembles the public API surface. Registration, login and email
// confirmation are open; submitting items needs a valid token; everything
// that moderates or schedules needs the admin role.
func NewRouter(
	items *ItemHandler,
	subs *SubscriptionHandler,
	users *UserHandler,
	jwtSecret string,
	log logger.Logger,
) http.Handler {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Post("/api/auth/register", users.Register)
	mux.Post("/api/auth/login", users.Login)
	mux.Get("/api/auth/confirm/{token}", users.ConfirmEmail)

	mux.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, log))

		r.Post("/api/offers", items.CreateOffer)
		r.Post("/api/wanted", items.CreateWanted)
		r.Post("/api/events", items.CreateEvent)

		r.Group(func(admin chi.Router) {
			admin.Use(RequireAdmin(log))

			admin.Get("/api/offers", items.ListOffers)
			admin.Get("/api/wanted", items.ListWanted)
			admin.Get("/api/events", items.ListEvents)

			admin.Patch("/api/offers/state", items.ChangeOfferState)
			admin.Patch("/api/wanted/state", items.ChangeWantedState)
			admin.Patch("/api/events/state", items.ChangeEventState)

			admin.Post("/api/subscriptions", subs.Create)
			admin.Get("/api/subscriptions", subs.List)
		})
	})

	return mux
}
