package middleware

import (
	"net/http"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/pkg/logger"
)

var errRoleRequired = errors.NewForbiddenError("Forbidden: insufficient role", errors.ErrCodeUnauthorizedActor)

// RequireRoles lets the request through when the actor holds any of roles.
// Administrator and System Manager always pass.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := errors.ActorFromContext(r.Context())
			if !ok {
				writeAppError(w, errors.NewUnauthorizedError("Unauthorized", errors.ErrCodeInvalidToken))
				return
			}

			if !actor.IsPrivileged() && !actor.HasAnyRole(roles...) {
				logger.From(r.Context()).Warn("access denied: missing role",
					"actor", actor.ID,
					"required_roles", roles,
					"actor_roles", actor.Roles)
				writeAppError(w, errRoleRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
