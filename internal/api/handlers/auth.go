package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gcclean/waste-backend/internal/api/httpx"
	"github.com/gcclean/waste-backend/internal/auth"
	"github.com/gcclean/waste-backend/internal/models"
	"github.com/gcclean/waste-backend/internal/services"
	"github.com/gcclean/waste-backend/internal/validate"
)

type AuthHandler struct {
	Users *services.UserService
	TM    *auth.TokenManager
}

func NewAuthHandler(us *services.UserService, tm *auth.TokenManager) *AuthHandler {
	return &AuthHandler{Users: us, TM: tm}
}

type loginResp struct {
	services.TokenPair
	User models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validate.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
		return
	}
	u, fields, err := h.Users.Register(req)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not register user", nil)
		return
	}
	if fields != nil {
		httpx.WriteFieldErrors(w, fields)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validate.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
		return
	}
	pair, u, fields, err := h.Users.Login(req)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "login failed", nil)
		return
	}
	if fields != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", fields)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResp{TokenPair: pair, User: u})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "refresh_token required", nil)
		return
	}
	claims, isRefresh, err := h.TM.ParseAny(req.RefreshToken)
	if err != nil || !isRefresh {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	access, refresh, exp, err := h.TM.GeneratePair(claims.UserID, claims.Name, claims.Department)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, services.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
	})
}
