package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/session"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/frahmantamala/pos-management/pkg/logger"
)

type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (identity.Identity, error)
}

// RBACAuthorization turns the session cookie into an identity and checks route permissions.
type RBACAuthorization struct {
	*transport.BaseHandler
	sessions SessionResolver
}

func NewRBACAuthorization(sessions SessionResolver, lg *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(lg),
		sessions:    sessions,
	}
}

// Authenticate puts the session identity on the request context. Requests without a valid
// session get 401.
func (ra *RBACAuthorization) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := ra.sessions.Resolve(r.Context(), r)
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) && !errors.Is(err, session.ErrInvalidToken) {
				ra.Logger.Error("session lookup failed", "error", err)
			}
			ra.WriteAppError(w, r, internal.ErrNotAuthenticated)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), id)
		ctx = logger.With(ctx, "username", id.Username, "tenantID", id.TenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require rejects requests whose identity lacks permission. An empty permission only
// requires an authenticated session.
func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				ra.WriteAppError(w, r, internal.ErrNotAuthenticated)
				return
			}

			if permission != "" && !id.HasPermission(permission) {
				logger.From(r.Context()).Warn("access denied: insufficient permissions",
					"user_id", id.UserID,
					"required_permission", permission,
					"user_permissions", id.Permissions)
				ra.WriteAppError(w, r, internal.ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
