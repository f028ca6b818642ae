package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-iam/meridian/internal/platform/httpx"
	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
	"github.com/meridian-iam/meridian/internal/token"
)

// Middleware wires the authorization guard for HTTP handlers. Every
// authenticated request verifies the token cryptographically, then re-reads
// the live user record so the principal reflects current role, tenant, and
// soft-delete state rather than the token's stale claims.
type Middleware struct {
	Tokens *token.Service
	Repo   Repository
	Logger *slog.Logger
}

// Authenticate verifies the bearer token and attaches the rebuilt principal
// to the request context.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		claims, err := m.Tokens.Verify(raw)
		if err != nil {
			httpx.RespondError(w, shared.ErrInvalidToken)
			return
		}
		user, err := m.Repo.FindActiveByID(r.Context(), claims.UserID)
		if errors.Is(err, shared.ErrNotFound) {
			// Deleted or vanished accounts lose access immediately, even
			// while their token is still within its expiry window.
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("principal lookup failed", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		principal := Principal{
			UserID:    user.ID,
			TenantID:  user.TenantID,
			Role:      user.Role,
			ExpiresAt: claims.ExpiresAt.Time,
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireRole ensures the current principal holds one of the allowed roles.
func (m Middleware) RequireRole(allowed ...roles.Name) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			for _, role := range allowed {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("role not permitted",
					slog.Int64("user_id", principal.UserID),
					slog.String("role", principal.Role.String()),
					slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, shared.ErrForbidden)
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
