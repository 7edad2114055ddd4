package api

import (
	"net/http"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/api/resource"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/lifecycle"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/labstack/echo"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func errorResponse(c echo.Context, err error) error {
	var verr *lifecycle.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, &resource.ErrorResource{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, lifecycle.ErrSessionNotFound),
		errors.Is(err, lifecycle.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusNotFound, resource.NewError(err.Error()))
	case lifecycle.IsTransition(err):
		return c.JSON(http.StatusConflict, resource.NewError(err.Error()))
	case errors.Is(err, lifecycle.ErrGateway):
		return c.JSON(http.StatusBadGateway, resource.NewError(err.Error()))
	}

	log.WithFields(log.Fields{
		"method": c.Request().Method,
		"uri":    c.Request().RequestURI,
	}).Errorf("request failed: %v", err)
	return c.JSON(http.StatusInternalServerError, resource.NewError("internal error"))
}
