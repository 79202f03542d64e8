package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

type BookingRow struct {
	domain.Booking
	Customer string
}

type BookingsView struct {
	Page
	Query     string
	Today     []BookingRow
	Upcoming  []BookingRow
	Previous  []BookingRow
	Customers []domain.Customer
	Statuses  []string
}

var bookingStatuses = []string{domain.BookingOpen, domain.BookingClosed, domain.BookingCancelled}

type BookingView struct {
	Page
	Booking    domain.Booking
	Customer   string
	CustomerID string
	Lines      []domain.BookingLine
	Statuses   []string
}

// BookingHandler lists bookings grouped by day, shows one booking and
// applies status changes.
type BookingHandler struct {
	res       *ResourceHandler[domain.Booking]
	customers func() *service.Screen[domain.Customer]
	admin     ports.AdminService
	now       func() time.Time
}

func NewBookingHandler(s *Screens, admin ports.AdminService) *BookingHandler {
	h := &BookingHandler{
		customers: screenOf(s, "customers", s.Customers),
		admin:     admin,
		now:       time.Now,
	}
	h.res = NewResourceHandler(ResourceConfig[domain.Booking]{
		Title:     "Bookings",
		Path:      "/bookings",
		Deletable: true,
		Parse:     parseBooking,
		Render:    h.render,
		Detail:    h.detail,
		NotFound:  "Booking not found or failed to load.",
	}, screenOf(s, "bookings", s.Bookings))
	return h
}

func (h *BookingHandler) List(c echo.Context) error          { return h.res.List(c) }
func (h *BookingHandler) Show(c echo.Context) error          { return h.res.Show(c) }
func (h *BookingHandler) Create(c echo.Context) error        { return h.res.Create(c) }
func (h *BookingHandler) ConfirmDelete(c echo.Context) error { return h.res.ConfirmDelete(c) }
func (h *BookingHandler) Delete(c echo.Context) error        { return h.res.Delete(c) }

// Update changes a booking's status and, when both date and time are given,
// moves it.
func (h *BookingHandler) Update(c echo.Context) error {
	patch := domain.BookingPatch{Status: c.FormValue("status")}
	if date, clock := c.FormValue("date"), c.FormValue("time"); date != "" && clock != "" {
		patch.BookingTime = date + "T" + clock
	}
	id := c.Param("id")
	return h.res.Mutate(c, "Failed to update booking", "Booking updated.", func(ctx context.Context) error {
		return h.admin.UpdateBooking(ctx, id, patch)
	})
}

// detail shows one booking with its products. The customer name is looked
// up separately; the raw id is shown when that fails.
func (h *BookingHandler) detail(c echo.Context, b domain.Booking) error {
	view := BookingView{
		Page:     newPage(c, "Booking for table "+b.TableNumber),
		Booking:  b,
		Customer: b.CustomerID,
		Lines:    b.Lines(),
		Statuses: bookingStatuses,
	}
	if b.CustomerID != "" {
		view.CustomerID = b.CustomerID
		if cu, err := h.customers().Get(c.Request().Context(), b.CustomerID); err == nil && cu.Name != "" {
			view.Customer = cu.Name
		}
	}
	return c.Render(http.StatusOK, "booking", view)
}

func (h *BookingHandler) render(c echo.Context, st service.ScreenState[domain.Booking], flash string) error {
	customers := h.customers().Refresh(c.Request().Context())
	names := make(map[string]string, len(customers.Items))
	for _, cu := range customers.Items {
		names[cu.ID] = cu.Name
	}

	page := newPage(c, "Bookings")
	page.Flash, page.Error, page.Malformed = flash, st.Err, st.Malformed
	view := BookingsView{
		Page:      page,
		Query:     st.Query,
		Customers: customers.Items,
		Statuses:  bookingStatuses,
	}

	now := h.now()
	for _, b := range st.Items {
		row := BookingRow{Booking: b, Customer: names[b.CustomerID]}
		if row.Customer == "" {
			row.Customer = b.CustomerID
		}
		switch b.Day(now) {
		case domain.BookingToday:
			view.Today = append(view.Today, row)
		case domain.BookingFuture:
			view.Upcoming = append(view.Upcoming, row)
		default:
			view.Previous = append(view.Previous, row)
		}
	}
	return c.Render(http.StatusOK, "bookings", view)
}
