package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/service"
)

type userService interface {
	Register(ctx context.Context, in service.RegisterInput) (string, error)
	ConfirmEmail(ctx context.Context, confirmToken string) error
	Login(ctx context.Context, in service.LoginInput) (service.TokenResponse, error)
}

type UserHandler struct {
	users userService
	log   logger.Logger
}

func NewUserHandler(users userService, log logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.users.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *UserHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	confirmToken := chi.URLParam(r, "token")
	if confirmToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "confirmation token is required"})
		return
	}

	if err := h.users.ConfirmEmail(r.Context(), confirmToken); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !decodeBody(w, r, &in) {
		return
	}

	resp, err := h.users.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
