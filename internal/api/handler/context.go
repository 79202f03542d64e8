package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/api/middleware"
	"github.com/hospos/hospos-client/internal/core/domain"
)

var (
	// StaffRoles may use the day-to-day pages.
	StaffRoles = []string{domain.RoleAdmin, domain.RoleManager}
	// AdminRoles may manage discounts, staff and the business profile.
	AdminRoles = []string{domain.RoleAdmin}
)

type NavItem struct {
	Label string
	Path  string
	roles []string
}

var navItems = []NavItem{
	{Label: "Dashboard", Path: "/dashboard", roles: StaffRoles},
	{Label: "Products", Path: "/products", roles: StaffRoles},
	{Label: "Categories", Path: "/categories", roles: StaffRoles},
	{Label: "Customers", Path: "/customers", roles: StaffRoles},
	{Label: "Bookings", Path: "/bookings", roles: StaffRoles},
	{Label: "Discounts", Path: "/discounts", roles: AdminRoles},
	{Label: "Tills", Path: "/tills", roles: StaffRoles},
	{Label: "Finance", Path: "/finance", roles: StaffRoles},
	{Label: "Users", Path: "/admin/users", roles: AdminRoles},
	{Label: "Roles", Path: "/admin/roles", roles: AdminRoles},
	{Label: "Business", Path: "/admin/business", roles: AdminRoles},
}

// Page is embedded in every view model rendered inside the layout.
type Page struct {
	Title     string
	Session   domain.Session
	Nav       []NavItem
	Flash     string
	Error     string
	Malformed bool
}

// newPage builds the layout data; the navigation only lists pages the
// session's role can open.
func newPage(c echo.Context, title string) Page {
	sess := middleware.SessionFrom(c)
	var nav []NavItem
	for _, item := range navItems {
		if sess.HasRole(item.roles...) {
			nav = append(nav, item)
		}
	}
	return Page{Title: title, Session: sess, Nav: nav}
}
