package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/metrics"
	"github.com/shelfmark/shelfmark/internal/model"
)

// TokenVerifier checks a bearer token and returns the embedded user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserSource resolves a user ID to an account record.
type UserSource interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// IdentityCache is an optional read-through cache for resolved
// identities. Pass nil to always hit the UserSource.
type IdentityCache interface {
	GetIdentity(ctx context.Context, userID string) (*model.Identity, error)
	SetIdentity(ctx context.Context, id *model.Identity) error
}

// AuthConfig holds configuration for the auth gate.
type AuthConfig struct {
	Logger   *slog.Logger
	Tokens   TokenVerifier
	Users    UserSource
	Cache    IdentityCache
	Recorder metrics.Recorder
}

// Auth returns a middleware that authenticates bearer-token requests.
// It extracts the token from the Authorization header, verifies it,
// confirms the account still exists, and injects the resolved identity
// into the request context. Any failure rejects the request with the
// same 401 body; the gate never mutates a store.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractBearerToken(r)
			if tokenStr == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			userID, err := cfg.Tokens.Verify(tokenStr)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			identity, cacheHit := lookupIdentity(r.Context(), cfg, userID)
			if identity == nil {
				// Token verified but the account is gone.
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "unknown_user"),
					slog.String("user_id", userID),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if cacheHit {
				recorder.IncAuthCacheHit()
			} else {
				recorder.IncAuthCacheMiss()
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", identity.UserID),
				slog.Bool("cache_hit", cacheHit),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// lookupIdentity resolves a verified user ID to an identity, consulting
// the cache first. Returns nil when the account does not exist.
func lookupIdentity(ctx context.Context, cfg AuthConfig, userID string) (*model.Identity, bool) {
	if cfg.Cache != nil {
		if id, _ := cfg.Cache.GetIdentity(ctx, userID); id != nil {
			return id, true
		}
	}

	user, err := cfg.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, false
	}

	identity := &model.Identity{UserID: user.ID, Email: user.Email}
	if cfg.Cache != nil {
		_ = cfg.Cache.SetIdentity(ctx, identity)
	}
	return identity, false
}

// extractBearerToken pulls the token from "Authorization: Bearer <token>".
// Returns empty string for a missing header or any other scheme.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Invalid or missing authentication token"}`))
}
