package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
)

// RBACAuthorization gates routes on the principal's role. It must run after
// AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				ra.HandleServiceError(w, ErrMissingToken)
				return
			}

			if !principal.HasRole(roles...) {
				ra.Logger.WarnContext(r.Context(), "access denied: role not allowed",
					"role", principal.Role,
					"required_roles", roles)
				ra.HandleServiceError(w, ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits admin and superadmin.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleAdmin, internal.RoleSuperAdmin)
}

func (ra *RBACAuthorization) RequireSuperAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleSuperAdmin)
}

func (ra *RBACAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleEmployee)
}
