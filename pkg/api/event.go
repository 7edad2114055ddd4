package api

import (
	"net/http"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/api/resource"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/labstack/echo"
)

func (h *Handler) handleFetchEvents(c echo.Context) error {
	var (
		m   map[string]model.Event
		err error
	)
	if ch := c.QueryParam("channel"); ch != "" {
		m, err = h.events.FetchByChannel(c.Request().Context(), ch)
	} else {
		m, err = h.events.FetchAll(c.Request().Context())
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resource.NewEventList(m))
}
