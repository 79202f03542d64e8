package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/api/middleware"
	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginForm struct {
	Name string `form:"name" json:"name" validate:"required"`
	Pin  string `form:"pin"  json:"pin"  validate:"required,pin"`
}

type LoginView struct {
	Page
	Name string
}

// LoginForm shows the login page, or sends a signed-in user to the dashboard.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if middleware.SessionFrom(c).Authenticated() {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return c.Render(http.StatusOK, "login", LoginView{Page: newPage(c, "Log in")})
}

// Login checks name and PIN against the backend and stores the session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return h.loginFailed(c, req.Name, domain.ValidationFailure("invalid form"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return h.loginFailed(c, req.Name, err)
	}

	// The pre-login session id is never reused for the signed-in session.
	store, err := middleware.RotateSession(c)
	if err != nil {
		return err
	}
	sess, err := h.authService.Login(c.Request().Context(), store, req.Name, req.Pin)
	if err != nil {
		return h.loginFailed(c, req.Name, err)
	}
	middleware.SetSession(c, sess)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHandler) loginFailed(c echo.Context, name string, err error) error {
	status := http.StatusOK
	if errors.Is(err, domain.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
	}
	view := LoginView{Page: newPage(c, "Log in"), Name: name}
	view.Error = domain.UserMessage(err, "Login failed. Please try again.")
	return c.Render(status, "login", view)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.StoreFrom(c)); err != nil {
		return err
	}
	if _, err := middleware.RotateSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

type UnauthorizedView struct {
	Page
	Dashboard bool
}

// Unauthorized explains the refusal. Roles that cannot open the dashboard
// are only offered a way back to login.
func (h *AuthHandler) Unauthorized(c echo.Context) error {
	page := newPage(c, "Not allowed")
	return c.Render(http.StatusForbidden, "unauthorized", UnauthorizedView{
		Page:      page,
		Dashboard: page.Session.HasRole(StaffRoles...),
	})
}

type ErrorView struct {
	Page
	Message string
}

// RenderError shows msg on the error page with the given status.
func RenderError(c echo.Context, code int, msg string) error {
	return c.Render(code, "error", ErrorView{Page: newPage(c, http.StatusText(code)), Message: msg})
}
