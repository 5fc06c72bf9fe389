package auth

import (
	"log/slog"
	"net/http"
)

// RoleGuard gates routes by the principal's user_type.
type RoleGuard struct {
	logger *slog.Logger
}

func NewRoleGuard(logger *slog.Logger) *RoleGuard {
	return &RoleGuard{logger: logger}
}

// Require returns middleware that allows only the given roles through.
func (g *RoleGuard) Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if user.UserType == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			g.logger.Warn("access denied: role not permitted",
				"user_id", user.ID,
				"user_type", user.UserType,
				"required_roles", roles)
			http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
		})
	}
}

// RequireAdjudicator admits employers and admins, the roles allowed to
// approve or reject loans and repayments.
func (g *RoleGuard) RequireAdjudicator() func(http.Handler) http.Handler {
	return g.Require(RoleEmployer, RoleAdmin)
}

// RequireAdmin admits admins only (manual-review queue).
func (g *RoleGuard) RequireAdmin() func(http.Handler) http.Handler {
	return g.Require(RoleAdmin)
}
