package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
)

// LocationHandler manages till locations. Creating one shows the link code
// that tills enter when pairing.
type LocationHandler struct {
	res   *ResourceHandler[domain.Location]
	admin ports.AdminService
}

func NewLocationHandler(s *Screens, admin ports.AdminService) *LocationHandler {
	return &LocationHandler{
		admin: admin,
		res: NewResourceHandler(ResourceConfig[domain.Location]{
			Title:     "Tills",
			Path:      "/tills",
			Columns:   []string{"Location", "Link code"},
			Deletable: true,
			Empty:     "No till locations yet.",
			AddLabel:  "Add location",
			Fields:    []Field{{Name: "name", Label: "Name", Type: "text"}},
			Row: func(l domain.Location) Row {
				return Row{ID: l.ID, Label: l.Name, Cells: []string{l.Name, l.LinkCode}}
			},
			// Creation goes through AdminService; Parse only enables the form.
			Parse: func(echo.Context) (domain.Location, error) { return domain.Location{}, nil },
		}, screenOf(s, "locations", s.Locations)),
	}
}

func (h *LocationHandler) List(c echo.Context) error          { return h.res.List(c) }
func (h *LocationHandler) ConfirmDelete(c echo.Context) error { return h.res.ConfirmDelete(c) }
func (h *LocationHandler) Delete(c echo.Context) error        { return h.res.Delete(c) }

func (h *LocationHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	var created *domain.Location

	st, err := mutate(c, h.res.screen(), "Failed to add location", func(ctx context.Context) error {
		loc, err := h.admin.CreateLocation(ctx, name)
		created = loc
		return err
	})
	if err != nil {
		return h.res.render(c, st, "")
	}

	flash := "Location added."
	if created != nil && created.LinkCode != "" {
		flash = fmt.Sprintf("Added %q. Link code: %s", created.Name, created.LinkCode)
	}
	return h.res.render(c, st, flash)
}
