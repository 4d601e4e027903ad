package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hongminglow/parts-inventory/internal/auth"
	"github.com/hongminglow/parts-inventory/internal/http/respond"
)

// MsgForbidden is returned to authenticated callers lacking admin rights.
const MsgForbidden = "You are not authorized to perform this action"

// TokenVerifier turns a bearer token into the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// IdentityResolver derives the caller identity from a verified user ID.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID int64) (auth.Identity, error)
}

// Authenticator verifies bearer credentials and attaches the caller Identity
// to the request context.
type Authenticator struct {
	tokens   TokenVerifier
	resolver IdentityResolver
	log      *zap.Logger
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(tokens TokenVerifier, resolver IdentityResolver, log *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, resolver: resolver, log: log}
}

// Authenticate rejects requests without a valid bearer token with 401. The
// identity, including admin status, is re-resolved on every request.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respond.Msg(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
			return
		}

		userID, err := a.tokens.Verify(token)
		if err != nil {
			a.log.Debug("token rejected", zap.Error(err))
			respond.Msg(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		identity, err := a.resolver.Resolve(r.Context(), userID)
		if err != nil {
			a.log.Error("resolve identity", zap.Int64("user_id", userID), zap.Error(err))
			respond.Msg(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin must run after Authenticate. Non-admins are turned away before
// the wrapped handler touches the store, so they cannot probe which ids exist.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin {
			respond.Msg(w, http.StatusForbidden, MsgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
