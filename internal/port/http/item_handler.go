package http

import (
	"context"
	"net/http"
	"time"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/repository"
	"github.com/swapshop/marketplace-service/internal/service"
)

type itemService interface {
	CreateOffer(ctx context.Context, in service.CreateListingInput, actorID string) (string, error)
	CreateWanted(ctx context.Context, in service.CreateListingInput, actorID string) (string, error)
	CreateEvent(ctx context.Context, in service.CreateEventInput, actorID string) (string, error)
	ListOffers(ctx context.Context, in service.ListItemsInput) ([]entity.Listing, error)
	ListWanted(ctx context.Context, in service.ListItemsInput) ([]entity.Listing, error)
	ListEvents(ctx context.Context, in service.ListItemsInput) ([]entity.Event, error)
	ChangeOfferState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error)
	ChangeWantedState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error)
	ChangeEventState(ctx context.Context, ids []string, target entity.ItemState, actorID string) (repository.ChangeStateResult, error)
}

type ItemHandler struct {
	items itemService
	log   logger.Logger
}

func NewItemHandler(items itemService, log logger.Logger) *ItemHandler {
	return &ItemHandler{items: items, log: log}
}

type createdResponse struct {
	ID string `json:"id"`
}

func (h *ItemHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	h.createListing(w, r, h.items.CreateOffer)
}

func (h *ItemHandler) CreateWanted(w http.ResponseWriter, r *http.Request) {
	h.createListing(w, r, h.items.CreateWanted)
}

func (h *ItemHandler) createListing(w http.ResponseWriter, r *http.Request, create func(context.Context, service.CreateListingInput, string) (string, error)) {
	var in service.CreateListingInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := create(r.Context(), in, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *ItemHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in service.CreateEventInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.items.CreateEvent(r.Context(), in, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *ItemHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(ctx context.Context, in service.ListItemsInput) (any, error) {
		return h.items.ListOffers(ctx, in)
	})
}

func (h *ItemHandler) ListWanted(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(ctx context.Context, in service.ListItemsInput) (any, error) {
		return h.items.ListWanted(ctx, in)
	})
}

func (h *ItemHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(ctx context.Context, in service.ListItemsInput) (any, error) {
		return h.items.ListEvents(ctx, in)
	})
}

func (h *ItemHandler) list(w http.ResponseWriter, r *http.Request, find func(context.Context, service.ListItemsInput) (any, error)) {
	in, err := parseListQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	items, err := find(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// parseListQuery reads repeatable id/name/email/state params and RFC 3339
// date-range params. Bounds are exclusive.
func parseListQuery(r *http.Request) (service.ListItemsInput, error) {
	q := r.URL.Query()
	in := service.ListItemsInput{
		IDs:    q["id"],
		Names:  q["name"],
		Emails: q["email"],
		States: q["state"],
	}

	var err error
	if in.CreatedDate, err = parseDateRange(q.Get("createdBefore"), q.Get("createdAfter")); err != nil {
		return in, err
	}
	if in.UpdatedDate, err = parseDateRange(q.Get("updatedBefore"), q.Get("updatedAfter")); err != nil {
		return in, err
	}
	return in, nil
}

func parseDateRange(before, after string) (*repository.DateRange, error) {
	if before == "" && after == "" {
		return nil, nil
	}

	var r repository.DateRange
	if before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return nil, err
		}
		r.Before = &t
	}
	if after != "" {
		t, err := time.Parse(time.RFC3339, after)
		if err != nil {
			return nil, err
		}
		r.After = &t
	}
	return &r, nil
}

type changeStateRequest struct {
	IDs   []string `json:"ids"`
	State string   `json:"state"`
}

type changeStateResponse struct {
	Requested int64 `json:"requested"`
	Matched   int64 `json:"matched"`
}

func (h *ItemHandler) ChangeOfferState(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, h.items.ChangeOfferState)
}

func (h *ItemHandler) ChangeWantedState(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, h.items.ChangeWantedState)
}

func (h *ItemHandler) ChangeEventState(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, h.items.ChangeEventState)
}

func (h *ItemHandler) changeState(w http.ResponseWriter, r *http.Request, change func(context.Context, []string, entity.ItemState, string) (repository.ChangeStateResult, error)) {
	var req changeStateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	target, ok := parseItemState(req.State)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown item state " + req.State})
		return
	}
	if len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ids must not be empty"})
		return
	}

	result, err := change(r.Context(), req.IDs, target, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, changeStateResponse{Requested: result.Requested, Matched: result.Matched})
}

func parseItemState(s string) (entity.ItemState, bool) {
	switch entity.ItemState(s) {
	case entity.StateAwaitingReview, entity.StateApproved, entity.StateRejected:
		return entity.ItemState(s), true
	default:
		return "", false
	}
}
