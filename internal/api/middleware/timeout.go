package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// automationPaths are endpoints that drive a live browser within the
// request cycle. They manage their own deadlines and are exempt from
// the HTTP timeout. Fill and batch run in the background and return
// immediately, so the ordinary timeout covers them.
var automationPaths = []string{
	"/api/v1/applications/preview",
}

// SelectiveTimeoutConfig applies the timeout to ordinary endpoints and
// exempts browser-driving ones.
func SelectiveTimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			for _, p := range automationPaths {
				if strings.HasPrefix(path, p) {
					return true
				}
			}
			return false
		},
	})
}

// TimeoutConfig returns a plain timeout middleware
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})
}
