package handler

import (
	"encoding/json"
	"net/http"

	"church_roster/internal/api/middleware"
	"church_roster/internal/app/service"
	"church_roster/internal/common"
	"church_roster/internal/common/security"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authService *service.AuthService
	tokens      *security.SessionTokens
}

func NewAuthHandler(authService *service.AuthService, tokens *security.SessionTokens) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register-admin", h.register)
	r.Post("/login", h.login)
	r.Get("/check-session", h.checkSession)
	r.Get("/logout", h.logout)
}

type checkSessionResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Admin    string `json:"admin,omitempty"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.authService.Register(r.Context(), req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Admin registered successfully"})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	session, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(session.ID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign session token")
		// Do not leave a marker behind that no client can present.
		_ = h.authService.Logout(r.Context(), session.ID)
		common.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	h.tokens.SetCookie(w, token, session.ExpiresAt)
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Success: true, Message: "Login successful"})
}

func (h *AuthHandler) checkSession(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		common.RespondWithJSON(w, http.StatusOK, checkSessionResponse{LoggedIn: false})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, checkSessionResponse{LoggedIn: true, Admin: session.Username})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := middleware.GetSessionIDFromContext(r.Context()); ok {
		if err := h.authService.Logout(r.Context(), sessionID); err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("logout could not delete session")
		}
	}
	h.tokens.ClearCookie(w)
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Logged out successfully"})
}
