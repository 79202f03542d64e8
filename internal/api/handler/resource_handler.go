package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

// Row is one table line. Label names the item in the delete prompt; Href,
// when set, links the first cell to the item's page.
type Row struct {
	ID    string
	Label string
	Href  string
	Cells []string
}

type TableView struct {
	Page
	Path       string
	Searchable bool
	Query      string
	Columns    []string
	Rows       []Row
	Deletable  bool
	Fields     []Field
	AddLabel   string
	Empty      string
}

type ConfirmView struct {
	Page
	Prompt string
	Action string
	Cancel string
}

// ResourceConfig describes one resource page. A nil Parse makes the page
// read-only; a nil Render uses the generic table. Detail, when set, renders
// a single item fetched by Show; NotFound is shown when that fetch fails.
type ResourceConfig[T any] struct {
	Title      string
	Path       string
	Columns    []string
	Fields     []Field
	AddLabel   string
	Empty      string
	Searchable bool
	Deletable  bool
	Row        func(T) Row
	Parse      func(c echo.Context) (T, error)
	Render     func(c echo.Context, st service.ScreenState[T], flash string) error
	Detail     func(c echo.Context, item T) error
	NotFound   string
}

// DetailView is the page for a failed detail fetch.
type DetailView struct {
	Page
	Back string
}

// ResourceHandler serves list, create and confirm-then-delete for one
// resource. A fresh screen is built per request.
type ResourceHandler[T any] struct {
	cfg    ResourceConfig[T]
	screen func() *service.Screen[T]
}

func NewResourceHandler[T any](cfg ResourceConfig[T], screen func() *service.Screen[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{cfg: cfg, screen: screen}
}

func (h *ResourceHandler[T]) List(c echo.Context) error {
	st := h.screen().Search(c.Request().Context(), c.QueryParam("q"))
	return h.render(c, st, "")
}

func (h *ResourceHandler[T]) Create(c echo.Context) error {
	if h.cfg.Parse == nil {
		return echo.ErrMethodNotAllowed
	}
	ctx := c.Request().Context()
	s := h.screen()

	item, err := h.cfg.Parse(c)
	if err != nil {
		st := s.Refresh(ctx)
		st.Err = domain.UserMessage(err, "Invalid form")
		return h.render(c, st, "")
	}
	st, err := s.Create(ctx, item)
	if err != nil {
		return h.render(c, withList(ctx, s, st), "")
	}
	return h.render(c, st, "Saved.")
}

// Show renders one item by id. A rejected session token goes to the error
// handler; any other failure shows the NotFound message.
func (h *ResourceHandler[T]) Show(c echo.Context) error {
	if h.cfg.Detail == nil {
		return echo.ErrNotFound
	}
	item, err := h.screen().Get(c.Request().Context(), c.Param("id"))
	if err == nil {
		return h.cfg.Detail(c, item)
	}
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return err
	}

	status := http.StatusOK
	if errors.Is(err, domain.ErrNotFound) {
		status = http.StatusNotFound
	}
	page := newPage(c, h.cfg.Title)
	page.Error = h.cfg.NotFound
	return c.Render(status, "detail", DetailView{Page: page, Back: h.cfg.Path})
}

func (h *ResourceHandler[T]) ConfirmDelete(c echo.Context) error {
	label := c.QueryParam("label")
	if label == "" {
		label = c.Param("id")
	}
	return c.Render(http.StatusOK, "confirm", ConfirmView{
		Page:   newPage(c, h.cfg.Title),
		Prompt: "Delete \"" + label + "\"? This cannot be undone.",
		Action: h.cfg.Path + "/" + c.Param("id") + "/delete?label=" + url.QueryEscape(label),
		Cancel: h.cfg.Path,
	})
}

// Delete removes the item only when the form carries confirm=yes; anything
// else sends nothing and returns to the list.
func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	confirmed := ports.ConfirmFunc(func(context.Context, string) (bool, error) {
		return c.FormValue("confirm") == "yes", nil
	})
	ctx := c.Request().Context()
	s := h.screen()
	st, err := s.Delete(ctx, confirmed, c.Param("id"), c.QueryParam("label"))
	if errors.Is(err, domain.ErrConfirmationDeclined) {
		return c.Redirect(http.StatusSeeOther, h.cfg.Path)
	}
	if err != nil {
		return h.render(c, withList(ctx, s, st), "")
	}
	return h.render(c, st, "Deleted.")
}

// Mutate runs op against a fresh screen and renders the refetched list.
func (h *ResourceHandler[T]) Mutate(c echo.Context, fallback, flash string, op func(ctx context.Context) error) error {
	st, err := mutate(c, h.screen(), fallback, op)
	if err != nil {
		return h.render(c, st, "")
	}
	return h.render(c, st, flash)
}

// mutate runs op on s. When op fails the list is still loaded so the page
// can show the error above the current items.
func mutate[T any](c echo.Context, s *service.Screen[T], fallback string, op func(ctx context.Context) error) (service.ScreenState[T], error) {
	ctx := c.Request().Context()
	st, err := s.Mutate(ctx, fallback, op)
	if err != nil {
		st = withList(ctx, s, st)
	}
	return st, err
}

// withList loads the list behind a failed mutation, keeping its message.
// A list failure outranks the mutation's error as the cause.
func withList[T any](ctx context.Context, s *service.Screen[T], st service.ScreenState[T]) service.ScreenState[T] {
	if st.Loaded {
		return st
	}
	msg, cause := st.Err, st.Cause
	st = s.Refresh(ctx)
	if msg != "" {
		st.Err = msg
	}
	if st.Cause == nil {
		st.Cause = cause
	}
	return st
}

// sessionRejected returns the cause of st when the backend turned the
// session token down, so the error handler can end the session.
func sessionRejected[T any](st service.ScreenState[T]) error {
	if errors.Is(st.Cause, domain.ErrNotAuthenticated) {
		return st.Cause
	}
	return nil
}

func (h *ResourceHandler[T]) render(c echo.Context, st service.ScreenState[T], flash string) error {
	if err := sessionRejected(st); err != nil {
		return err
	}
	if h.cfg.Render != nil {
		return h.cfg.Render(c, st, flash)
	}
	return c.Render(http.StatusOK, "table", h.Table(c, st, flash))
}

// Table builds the generic table view for st.
func (h *ResourceHandler[T]) Table(c echo.Context, st service.ScreenState[T], flash string) TableView {
	page := newPage(c, h.cfg.Title)
	page.Flash, page.Error, page.Malformed = flash, st.Err, st.Malformed

	rows := make([]Row, 0, len(st.Items))
	for _, item := range st.Items {
		rows = append(rows, h.cfg.Row(item))
	}
	var fields []Field
	if h.cfg.Parse != nil {
		fields = h.cfg.Fields
	}
	return TableView{
		Page:       page,
		Path:       h.cfg.Path,
		Searchable: h.cfg.Searchable,
		Query:      st.Query,
		Columns:    h.cfg.Columns,
		Rows:       rows,
		Deletable:  h.cfg.Deletable,
		Fields:     fields,
		AddLabel:   h.cfg.AddLabel,
		Empty:      h.cfg.Empty,
	}
}
