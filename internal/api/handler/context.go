package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetcore/clinic-api/internal/api/middleware"
)

// ctxIdentity extracts the claims injected by the Auth middleware and
// fast-fails before any service call: user id and tenant id must both be
// present, otherwise the token is structurally valid but operationally
// unusable and the request is rejected with 401.
func ctxIdentity(c echo.Context) (userID, tenantID string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	tenantID, _ = c.Get(middleware.CtxTenantID).(string)
	if userID == "" || tenantID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, tenantID, nil
}
