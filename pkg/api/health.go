package api

import (
	"net/http"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/api/resource"
	"github.com/labstack/echo"
)

func (h *Handler) handleHealth(c echo.Context) error {
	out := &resource.HealthResource{Status: "ok"}
	if len(h.checks) > 0 {
		out.Checks = make(map[string]bool, len(h.checks))
	}

	for name, check := range h.checks {
		ok := check(c.Request().Context())
		out.Checks[name] = ok
		if !ok {
			out.Status = "degraded"
		}
	}

	if out.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, out)
	}
	return c.JSON(http.StatusOK, out)
}
