// Package auth issues and verifies the bearer tokens that identify API
// callers, and provides the middleware that loads the verified caller into
// the request context.
//
// Terminology: User Identifiers
//   - UserID / userID / user_id: the MongoDB ObjectID (_id) that uniquely
//     identifies a user record. It is the only thing a token carries.
//
// Tokens are HS256-signed JWTs with a 30-day default expiry. They are
// opaque to clients; the only supported operations are issuance at
// signup/signin and verification on each call. Authorization (role and
// ownership checks) is never derived from the token beyond the user id;
// handlers re-check roles against the users collection per call.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTTL is how long issued tokens stay valid.
const DefaultTTL = 30 * 24 * time.Hour

// ErrInvalidToken covers malformed, expired, and wrongly signed tokens.
// Callers only ever need the one distinction: missing vs invalid.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and verifies bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager. A non-positive ttl falls back to
// DefaultTTL.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user id.
func (m *TokenManager) Issue(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.Hex(),
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	})
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning the user id it carries.
func (m *TokenManager) Verify(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, ErrInvalidToken
	}
	hex, ok := claims["user_id"].(string)
	if !ok {
		return primitive.NilObjectID, ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-caller context helpers                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserIDKey ctxKey = "currentUserID"

// CurrentUserID returns the verified caller's user id and a "found?" flag.
func CurrentUserID(r *http.Request) (primitive.ObjectID, bool) {
	id, ok := r.Context().Value(currentUserIDKey).(primitive.ObjectID)
	return id, ok
}

func withUserID(r *http.Request, id primitive.ObjectID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserIDKey, id))
}

// WithTestUser injects a caller id directly into the request context,
// bypassing token verification. Test use only.
func WithTestUser(r *http.Request, id primitive.ObjectID) *http.Request {
	return withUserID(r, id)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// tokenFromRequest extracts the raw token. The Authorization header is
// canonical; the query parameter and X-Access-Token header are kept for
// compatibility with existing clients.
func tokenFromRequest(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		raw = r.Header.Get("X-Access-Token")
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		raw = strings.TrimSpace(raw[len("bearer "):])
	}
	return raw
}

// RequireUser rejects requests without a valid token (401 missing_token /
// invalid_token) and loads the verified user id into the context for
// CurrentUserID.
func (m *TokenManager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeMissingToken)
			return
		}
		id, err := m.Verify(raw)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), currentUserIDKey, id)))
	})
}
