package http

import (
	"context"
	"net/http"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/service"
)

type subscriptionService interface {
	Create(ctx context.Context, in service.CreateSubscriptionInput, actorID string) (string, error)
	List(ctx context.Context, in service.ListSubscriptionsInput) ([]entity.Subscription, error)
}

type SubscriptionHandler struct {
	subs subscriptionService
	log  logger.Logger
}

func NewSubscriptionHandler(subs subscriptionService, log logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, log: log}
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateSubscriptionInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.subs.Create(r.Context(), in, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := service.ListSubscriptionsInput{
		IDs:    q["id"],
		States: q["state"],
	}

	dateRange, err := parseDateRange(q.Get("dateBefore"), q.Get("dateAfter"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	in.Date = dateRange

	subs, err := h.subs.List(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
