package handler

import (
	"context"
	"net/http"

	"cortex_edu/internal/app/service"
	"cortex_edu/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthService interface {
	Signup(ctx context.Context, req service.SignupRequest) (*service.AuthResponse, error)
	Login(ctx context.Context, req service.LoginRequest) (*service.AuthResponse, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
