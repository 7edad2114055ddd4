package api

import (
	"net/http"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/api/resource"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

const callerKey = "caller_id"

// authenticate rejects requests without a valid token and stores the token
// subject for the handlers.
func authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := fanout.ParseToken(secret, fanout.RequestToken(c.Request()))
			if err != nil {
				log.WithField("remote_ip", c.RealIP()).Debugf("request rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, resource.NewError("unauthorized"))
			}
			c.Set(callerKey, userID)
			return next(c)
		}
	}
}

// callerID is empty when the API runs without authentication.
func callerID(c echo.Context) string {
	id, _ := c.Get(callerKey).(string)
	return id
}
