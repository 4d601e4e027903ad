package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hongminglow/parts-inventory/internal/auth"
	"github.com/hongminglow/parts-inventory/internal/models"
	"github.com/hongminglow/parts-inventory/internal/storage/memory"
)

type resolverFunc func(ctx context.Context, userID int64) (auth.Identity, error)

func (f resolverFunc) Resolve(ctx context.Context, userID int64) (auth.Identity, error) {
	return f(ctx, userID)
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Msg
}

func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user_id": id.UserID, "is_admin": id.IsAdmin})
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin, err := store.CreateUser(ctx, models.User{Username: "admin", IsAdmin: true})
	require.NoError(t, err)
	clerk, err := store.CreateUser(ctx, models.User{Username: "clerk"})
	require.NoError(t, err)

	tokens := auth.NewTokenManager("secret", "parts-inventory", time.Hour)
	authn := NewAuthenticator(tokens, auth.NewResolver(store), zap.NewNop())
	handler := authn.Authenticate(identityEcho())

	sign := func(u models.User) string {
		s, err := tokens.Generate(u)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantAdmin  bool
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "admin", header: "Bearer " + sign(admin), wantStatus: http.StatusOK, wantAdmin: true},
		{name: "clerk", header: "bearer " + sign(clerk), wantStatus: http.StatusOK},
		{name: "unknown subject", header: "Bearer " + sign(models.User{ID: 999}), wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/parts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, decodeMsg(t, rec))
				return
			}
			var body struct {
				IsAdmin bool `json:"is_admin"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantAdmin, body.IsAdmin)
		})
	}
}

func TestAuthenticateResolverFailure(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "parts-inventory", time.Hour)
	failing := resolverFunc(func(context.Context, int64) (auth.Identity, error) {
		return auth.Identity{}, errors.New("db down")
	})
	handler := NewAuthenticator(tokens, failing, zap.NewNop()).Authenticate(identityEcho())

	signed, err := tokens.Generate(models.User{ID: 1})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/parts", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	reached := false
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, id := range []*auth.Identity{nil, {UserID: 2, IsAdmin: false}} {
		reached = false
		req := httptest.NewRequest(http.MethodDelete, "/parts/1", nil)
		if id != nil {
			req = req.WithContext(auth.WithIdentity(req.Context(), *id))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, MsgForbidden, decodeMsg(t, rec))
		assert.False(t, reached)
	}

	req := httptest.NewRequest(http.MethodDelete, "/parts/1", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: 1, IsAdmin: true}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, reached)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := Logging(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/parts/5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "/parts/5", fields["path"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), fields["request_id"])
}

func TestLoggingKeepsIncomingRequestID(t *testing.T) {
	handler := Logging(zap.NewNop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		handler := CORS([]string{"https://app.example"}, next)
		req := httptest.NewRequest(http.MethodGet, "/parts", nil)
		req.Header.Set("Origin", "https://APP.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://APP.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		handler := CORS([]string{"https://app.example"}, next)
		req := httptest.NewRequest(http.MethodGet, "/parts", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard preflight", func(t *testing.T) {
		handler := CORS([]string{"*"}, next)
		req := httptest.NewRequest(http.MethodOptions, "/parts/1", nil)
		req.Header.Set("Origin", "https://any.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}
