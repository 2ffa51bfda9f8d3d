package middleware

import (
	"context"
	"errors"
	"net/http"

	"church_roster/internal/common"
	"church_roster/internal/common/security"
	"church_roster/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	SessionCtxKey    contextKey = "session"
	SessionErrCtxKey contextKey = "sessionErr"
	SessionIDCtxKey  contextKey = "sessionID"
)

// SessionResolver looks up a live session marker by id.
type SessionResolver interface {
	CurrentSession(ctx context.Context, sessionID string) (*model.Session, error)
}

// LoadSession resolves the session named by the verified cookie, if any, and
// stores it in the request context. It never rejects a request; that is
// RequireLogin's job. Must run after the jwtauth verifier.
func LoadSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				next.ServeHTTP(w, r)
				return
			}
			sessionID, err := security.GetSessionIDFromClaims(claims)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionIDCtxKey, sessionID)
			session, err := resolver.CurrentSession(ctx, sessionID)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, SessionCtxKey, session)
			case errors.Is(err, common.ErrUnauthorized):
			default:
				log.Error().Err(err).Str("session_id", sessionID).Msg("session lookup failed")
				ctx = context.WithValue(ctx, SessionErrCtxKey, err)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin rejects requests that carry no live session marker.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err, ok := r.Context().Value(SessionErrCtxKey).(error); ok && err != nil {
			common.RespondWithError(w, http.StatusInternalServerError, "Server error")
			return
		}
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			common.RespondWithError(w, http.StatusForbidden, common.PublicMessage(common.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to get the live session from context
func GetSessionFromContext(ctx context.Context) (*model.Session, bool) {
	session, ok := ctx.Value(SessionCtxKey).(*model.Session)
	return session, ok && session != nil
}

// GetSessionIDFromContext returns the id named by a verified cookie, even
// when the session itself has expired.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDCtxKey).(string)
	return id, ok && id != ""
}
