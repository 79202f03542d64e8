package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

type UsersView struct {
	Page
	Users []domain.User
	Roles []string
}

// UserHandler manages staff accounts: add, delete, PIN reset and role change.
type UserHandler struct {
	res   *ResourceHandler[domain.User]
	roles func() *service.Screen[domain.Role]
	admin ports.AdminService
}

func NewUserHandler(s *Screens, admin ports.AdminService) *UserHandler {
	h := &UserHandler{roles: screenOf(s, "roles", s.Roles), admin: admin}
	h.res = NewResourceHandler(ResourceConfig[domain.User]{
		Title:     "Users",
		Path:      "/admin/users",
		Deletable: true,
		Parse:     parseUser,
		Render:    h.render,
	}, screenOf(s, "users", s.Users))
	return h
}

func (h *UserHandler) List(c echo.Context) error          { return h.res.List(c) }
func (h *UserHandler) Create(c echo.Context) error        { return h.res.Create(c) }
func (h *UserHandler) ConfirmDelete(c echo.Context) error { return h.res.ConfirmDelete(c) }
func (h *UserHandler) Delete(c echo.Context) error        { return h.res.Delete(c) }

func (h *UserHandler) ResetPin(c echo.Context) error {
	id, pin := c.Param("id"), c.FormValue("pin")
	return h.res.Mutate(c, "Failed to reset PIN", "PIN updated.", func(ctx context.Context) error {
		return h.admin.SetUserPin(ctx, id, pin)
	})
}

func (h *UserHandler) ChangeRole(c echo.Context) error {
	id, role := c.Param("id"), c.FormValue("role")
	return h.res.Mutate(c, "Failed to change role", "Role updated.", func(ctx context.Context) error {
		return h.admin.SetUserRole(ctx, id, role)
	})
}

func (h *UserHandler) render(c echo.Context, st service.ScreenState[domain.User], flash string) error {
	roles := h.roles().Refresh(c.Request().Context())
	names := make([]string, 0, len(roles.Items))
	for _, r := range roles.Items {
		names = append(names, r.Role)
	}

	page := newPage(c, "Users")
	page.Flash, page.Error, page.Malformed = flash, st.Err, st.Malformed
	return c.Render(http.StatusOK, "users", UsersView{Page: page, Users: st.Items, Roles: names})
}
