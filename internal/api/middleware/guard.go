package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/infrastructure/metrics"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Guard lets a request through only when the session has a token and a role
// and, if roles are given, the role is one of them. Anonymous visitors go to
// the login page; other roles go to the unauthorized page.
func Guard(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if !sess.Authenticated() {
				metrics.GuardRedirectsTotal.WithLabelValues("login").Inc()
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			if len(allowed) > 0 {
				if _, ok := allowed[sess.Role]; !ok {
					metrics.GuardRedirectsTotal.WithLabelValues("unauthorized").Inc()
					return c.Redirect(http.StatusSeeOther, UnauthorizedPath)
				}
			}
			return next(c)
		}
	}
}
