package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

type DiscountsView struct {
	Page
	Now     time.Time
	Active  []domain.Discount
	Expired []domain.Discount
	Path    string
	Fields  []Field
}

// DiscountHandler serves the discount board. Countdowns are drawn at render
// time; the Refresh header reloads the page when the soonest one runs out.
type DiscountHandler struct {
	res   *ResourceHandler[domain.Discount]
	board func() *service.DiscountBoard
	now   func() time.Time
}

func NewDiscountHandler(s *Screens, admin ports.AdminService, log zerolog.Logger) *DiscountHandler {
	screen := screenOf(s, "discounts", s.Discounts)
	h := &DiscountHandler{
		board: func() *service.DiscountBoard { return service.NewDiscountBoard(screen(), admin, log) },
		now:   time.Now,
	}
	h.res = NewResourceHandler(ResourceConfig[domain.Discount]{
		Title:     "Discounts",
		Path:      "/discounts",
		Deletable: true,
		Render:    h.render,
	}, screen)
	return h
}

func (h *DiscountHandler) List(c echo.Context) error { return h.res.List(c) }

func (h *DiscountHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	b := h.board()

	draft, err := parseDiscountDraft(c)
	if err != nil {
		st := b.Screen().Refresh(ctx)
		st.Err = domain.UserMessage(err, "Invalid discount")
		return h.render(c, st, "")
	}
	st, err := b.Create(ctx, draft)
	if err != nil {
		return h.render(c, withList(ctx, b.Screen(), st), "")
	}
	return h.render(c, st, "Discount added.")
}

// Renew reactivates an expired discount.
func (h *DiscountHandler) Renew(c echo.Context) error {
	ctx := c.Request().Context()
	b := h.board()
	st, err := b.Renew(ctx, c.Param("id"))
	if err != nil {
		return h.render(c, withList(ctx, b.Screen(), st), "")
	}
	return h.render(c, st, "Discount renewed.")
}

func (h *DiscountHandler) ConfirmDelete(c echo.Context) error { return h.res.ConfirmDelete(c) }

func (h *DiscountHandler) Delete(c echo.Context) error { return h.res.Delete(c) }

func (h *DiscountHandler) render(c echo.Context, st service.ScreenState[domain.Discount], flash string) error {
	if err := sessionRejected(st); err != nil {
		return err
	}
	now := h.now()
	if next, ok := domain.NextExpiry(st.Items, now); ok {
		secs := int(math.Ceil(next.Sub(now).Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Response().Header().Set("Refresh", strconv.Itoa(secs))
	}

	view := service.NewDiscountView(st, now)
	page := newPage(c, "Discounts")
	page.Flash, page.Error, page.Malformed = flash, view.Err, view.Malformed
	return c.Render(http.StatusOK, "discounts", DiscountsView{
		Page:    page,
		Now:     view.Now,
		Active:  view.Active,
		Expired: view.Expired,
		Path:    "/discounts",
		Fields: []Field{
			{Name: "name", Label: "Name", Type: "text"},
			{Name: "percent", Label: "Percent", Type: "number", Step: "1"},
			{Name: "type", Label: "Type", Options: []string{domain.DiscountStatic, domain.DiscountCode}},
			{Name: "code", Label: "Code (code discounts only)", Type: "text"},
			{Name: "duration", Label: "Expires after (minutes, optional)", Type: "number", Step: "1"},
		},
	})
}
