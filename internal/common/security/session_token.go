package security

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const sessionIDClaim = "sid"

// SessionTokens signs the cookie that names a server-side session.
// The cookie carries only the session id; the session itself stays on the
// server.
type SessionTokens struct {
	auth       *jwtauth.JWTAuth
	ttl        time.Duration
	cookieName string
	secure     bool
}

func NewSessionTokens(secret []byte, ttl time.Duration, cookieName string, secure bool) *SessionTokens {
	return &SessionTokens{
		auth:       jwtauth.New("HS256", secret, nil),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
	}
}

func (t *SessionTokens) TTL() time.Duration { return t.ttl }

func (t *SessionTokens) CookieName() string { return t.cookieName }

// Issue signs a token for sessionID that expires at expiresAt.
func (t *SessionTokens) Issue(sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{sessionIDClaim: sessionID}
	jwtauth.SetIssuedAt(claims, issuedAt)
	jwtauth.SetExpiry(claims, expiresAt)
	_, tokenString, err := t.auth.Encode(claims)
	return tokenString, err
}

// Verifier verifies the session cookie and puts the token and claims in the
// request context for jwtauth.FromContext.
func (t *SessionTokens) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(t.auth, t.tokenFromCookie)
}

func (t *SessionTokens) tokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(t.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (t *SessionTokens) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (t *SessionTokens) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func GetSessionIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims[sessionIDClaim].(string)
	if !ok || id == "" {
		return "", errors.New("sid claim is missing or not a string")
	}
	return id, nil
}
