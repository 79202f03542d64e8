package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

type FinanceView struct {
	Page
	Summary domain.FinanceSummary
	Loaded  bool
}

// FinanceHandler shows the server's totals. Nothing is summed locally.
type FinanceHandler struct {
	admin ports.AdminService
}

func NewFinanceHandler(admin ports.AdminService) *FinanceHandler {
	return &FinanceHandler{admin: admin}
}

func (h *FinanceHandler) Summary(c echo.Context) error {
	return h.show(c, "Finance")
}

// Tax is the VAT report: sales and VAT totals as reported by the backend.
func (h *FinanceHandler) Tax(c echo.Context) error {
	return h.show(c, "Tax report")
}

func (h *FinanceHandler) show(c echo.Context, title string) error {
	sum, err := h.admin.FinanceSummary(c.Request().Context())
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return err
	}
	page := newPage(c, title)
	page.Error = domain.UserMessage(err, "Failed to load finance summary. Please try again later.")
	return c.Render(http.StatusOK, "finance", FinanceView{Page: page, Summary: sum, Loaded: err == nil})
}

type DashboardView struct {
	Page
	Summary       domain.FinanceSummary
	SummaryLoaded bool
	Today         []domain.Booking
}

// DashboardHandler is the landing page after login.
type DashboardHandler struct {
	admin    ports.AdminService
	bookings func() *service.Screen[domain.Booking]
	now      func() time.Time
}

func NewDashboardHandler(s *Screens, admin ports.AdminService) *DashboardHandler {
	return &DashboardHandler{admin: admin, bookings: screenOf(s, "bookings", s.Bookings), now: time.Now}
}

func (h *DashboardHandler) Show(c echo.Context) error {
	ctx := c.Request().Context()
	sum, err := h.admin.FinanceSummary(ctx)
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return err
	}
	st := h.bookings().Refresh(ctx)
	if err := sessionRejected(st); err != nil {
		return err
	}

	page := newPage(c, "Dashboard")
	page.Error, page.Malformed = st.Err, st.Malformed
	view := DashboardView{Page: page, Summary: sum, SummaryLoaded: err == nil}
	now := h.now()
	for _, b := range st.Items {
		if b.Day(now) == domain.BookingToday {
			view.Today = append(view.Today, b)
		}
	}
	return c.Render(http.StatusOK, "dashboard", view)
}
