package api

import (
	"net/http"
	"strings"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/api/resource"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/labstack/echo"
)

func (h *Handler) handleFetchSessions(c echo.Context) error {
	var statuses []model.Status
	if q := c.QueryParam("status"); q != "" {
		for _, name := range strings.Split(q, ",") {
			st, err := model.ParseStatus(name)
			if err != nil {
				return c.JSON(http.StatusUnprocessableEntity, &resource.ErrorResource{
					Error:  "invalid query",
					Fields: map[string]string{"status": err.Error()},
				})
			}
			statuses = append(statuses, st)
		}
	}

	m, err := h.sessions.List(c.Request().Context(), statuses...)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resource.NewSessionList(m))
}

func (h *Handler) handleGetSessionByID(c echo.Context) error {
	m, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resource.NewSession(m))
}

func (h *Handler) handleCreateSession(c echo.Context) error {
	r := &resource.SessionCreateResource{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, resource.NewError("malformed request body"))
	}

	// an authenticated caller always creates as itself
	if caller := callerID(c); caller != "" {
		if r.UserID == "" {
			r.UserID = caller
		} else if r.UserID != caller {
			return c.JSON(http.StatusForbidden, resource.NewError("userId does not match the authenticated user"))
		}
	}

	m, err := h.sessions.Create(c.Request().Context(), r.CreateRequest())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, resource.NewSession(m))
}

func (h *Handler) handleUpdateSessionStatus(c echo.Context) error {
	r := &resource.SessionStatusResource{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, resource.NewError("malformed request body"))
	}

	st, err := model.ParseStatus(r.Status)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, &resource.ErrorResource{
			Error:  "validation failed",
			Fields: map[string]string{"status": err.Error()},
		})
	}

	m, err := h.sessions.UpdateStatus(c.Request().Context(), c.Param("id"), st)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resource.NewSession(m))
}

func (h *Handler) handleFetchAttendees(c echo.Context) error {
	m, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resource.NewAttendeeList(m.Attendees))
}
