package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// aiPathPrefixes lists route prefixes that call the AI provider and need the
// longer timeout
var aiPathPrefixes = []string{
	"/api/v1/analyzer/analyze",
}

// SelectiveTimeoutConfig applies the default timeout to every endpoint except
// the AI-intensive ones, which AITimeoutConfig covers
func SelectiveTimeoutConfig(defaultTimeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: defaultTimeout,
		Skipper: func(c echo.Context) bool {
			for _, prefix := range aiPathPrefixes {
				if strings.HasPrefix(c.Path(), prefix) {
					return true
				}
			}
			return false
		},
	})
}

// AITimeoutConfig applies the long timeout only to AI-intensive endpoints,
// complementing SelectiveTimeoutConfig which skips them
func AITimeoutConfig(aiTimeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: aiTimeout,
		Skipper: func(c echo.Context) bool {
			for _, prefix := range aiPathPrefixes {
				if strings.HasPrefix(c.Path(), prefix) {
					return false
				}
			}
			return true
		},
	})
}
