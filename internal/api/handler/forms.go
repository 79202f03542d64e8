package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/core/domain"
)

// Field describes one input of an add form.
type Field struct {
	Name    string
	Label   string
	Type    string
	Step    string
	Value   string
	Options []string
}

// bindForm runs an echo value binder and turns a binding error into a
// validation failure naming the field.
func bindForm(b *echo.ValueBinder) error {
	err := b.BindError()
	if err == nil {
		return nil
	}
	var be *echo.BindingError
	if errors.As(err, &be) {
		return domain.ValidationFailure(be.Field + " must be a number")
	}
	return domain.ValidationFailure("invalid form")
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func parseProduct(c echo.Context) (domain.Product, error) {
	var p domain.Product
	err := bindForm(echo.FormFieldBinder(c).
		String("name", &p.Name).
		Float64("price", &p.Price).
		String("category", &p.Category))
	p.Name = strings.TrimSpace(p.Name)
	return p, err
}

func parseCategory(c echo.Context) (domain.Category, error) {
	return domain.Category{Name: strings.TrimSpace(c.FormValue("name"))}, nil
}

func parseRole(c echo.Context) (domain.Role, error) {
	return domain.Role{Role: strings.TrimSpace(c.FormValue("role"))}, nil
}

func parseCustomer(c echo.Context) (domain.Customer, error) {
	return domain.Customer{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Email: strings.TrimSpace(c.FormValue("email")),
		Phone: strings.TrimSpace(c.FormValue("phone")),
		Notes: strings.TrimSpace(c.FormValue("notes")),
		Tags:  splitTags(c.FormValue("tags")),
	}, nil
}

func parseUser(c echo.Context) (domain.User, error) {
	return domain.User{
		Name: strings.TrimSpace(c.FormValue("name")),
		Pin:  c.FormValue("pin"),
		Role: c.FormValue("role"),
	}, nil
}

// parseBooking builds a new open booking; date and time come from separate
// inputs and are joined into the bookingTime the backend expects.
func parseBooking(c echo.Context) (domain.Booking, error) {
	b := domain.Booking{
		CustomerID:  strings.TrimSpace(c.FormValue("customerId")),
		TableNumber: strings.TrimSpace(c.FormValue("tableNumber")),
		Notes:       strings.TrimSpace(c.FormValue("notes")),
		Products:    []json.RawMessage{},
	}
	date, clock := c.FormValue("date"), c.FormValue("time")
	if date == "" || clock == "" {
		return b, domain.ValidationFailure("date and time are required")
	}
	b.BookingTime = date + "T" + clock
	return b, nil
}

func parseDiscountDraft(c echo.Context) (domain.DiscountDraft, error) {
	var d domain.DiscountDraft
	err := bindForm(echo.FormFieldBinder(c).
		String("name", &d.Name).
		Float64("percent", &d.Percent).
		String("type", &d.Type).
		String("code", &d.Code).
		Int("duration", &d.DurationMinutes))
	d.Name, d.Code = strings.TrimSpace(d.Name), strings.TrimSpace(d.Code)
	return d, err
}

func parseBusiness(c echo.Context) (domain.BusinessInfo, error) {
	var b domain.BusinessInfo
	err := c.Bind(&b)
	if err != nil {
		return b, domain.ValidationFailure("invalid form")
	}
	return b, nil
}
