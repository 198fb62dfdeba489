package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vetcore/clinic-api/internal/core/domain"
)

// Require enforces role-based access control with hierarchy resolution.
//
// An empty role list allows every authenticated request. Otherwise the
// caller's role must either appear in the required set directly or subsume
// one of the required roles via domain.RoleHierarchy. The hierarchy map is
// already the transitive closure, so resolution is one lookup, not a walk.
func Require(requiredRoles ...string) echo.MiddlewareFunc {
	required := make(map[string]struct{}, len(requiredRoles))
	for _, r := range requiredRoles {
		required[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(required) == 0 {
				return next(c)
			}

			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusForbidden, "no role assigned")
			}

			if _, ok := required[role]; ok {
				return next(c)
			}
			for _, inherited := range domain.RoleHierarchy[role] {
				if _, ok := required[inherited]; ok {
					return next(c)
				}
			}

			msg := fmt.Sprintf("requires one of roles: %s", strings.Join(requiredRoles, ", "))
			return echo.NewHTTPError(http.StatusForbidden, msg)
		}
	}
}
