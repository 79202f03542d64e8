package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
	"github.com/hospos/hospos-client/internal/infrastructure/backend"
)

const resourceNames = "products, categories, customers, bookings, discounts, users, roles, locations, sales, payments, receipts"

type resourceCmd interface {
	roles() []string
	list(ctx context.Context, w io.Writer, q string) error
	remove(ctx context.Context, confirm ports.Confirmer, id string) error
}

type resource[T any] struct {
	screen   func() *service.Screen[T]
	allowed  []string
	header   []string
	row      func(T) []string
	label    func(T) string
	readOnly bool
}

func (r *resource[T]) roles() []string { return r.allowed }

func (r *resource[T]) list(ctx context.Context, w io.Writer, q string) error {
	st := r.screen().Search(ctx, q)
	if st.Err != "" {
		return errors.New(st.Err)
	}
	if st.Malformed {
		fmt.Fprintln(w, "The server sent data in an unexpected format; nothing to show.")
		return nil
	}
	if len(st.Items) == 0 {
		fmt.Fprintln(w, "Nothing found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.header, "\t"))
	for _, item := range st.Items {
		fmt.Fprintln(tw, strings.Join(r.row(item), "\t"))
	}
	return tw.Flush()
}

// remove looks the item up first so the prompt can name it.
func (r *resource[T]) remove(ctx context.Context, confirm ports.Confirmer, id string) error {
	if r.readOnly {
		return errors.New("this resource is read-only")
	}
	s := r.screen()
	st := s.Refresh(ctx)
	label := id
	for _, item := range st.Items {
		if row := r.row(item); len(row) > 0 && row[0] == id {
			label = r.label(item)
		}
	}
	st, err := s.Delete(ctx, confirm, id, label)
	if err != nil && !errors.Is(err, domain.ErrConfirmationDeclined) {
		return errors.New(st.Err)
	}
	return err
}

func money(v float64) string { return fmt.Sprintf("£%.2f", v) }

func resourceCommands(res backend.Resources, validate ports.Validator, log zerolog.Logger) map[string]resourceCmd {
	staff := []string{domain.RoleAdmin, domain.RoleManager}
	admin := []string{domain.RoleAdmin}

	return map[string]resourceCmd{
		"products": &resource[domain.Product]{
			screen:  newScreen("products", res.Products, validate, log),
			allowed: staff,
			header:  []string{"ID", "NAME", "PRICE", "CATEGORY"},
			row:     func(p domain.Product) []string { return []string{p.ID, p.Name, money(p.Price), p.Category} },
			label:   func(p domain.Product) string { return p.Name },
		},
		"categories": &resource[domain.Category]{
			screen:  newScreen("categories", res.Categories, validate, log),
			allowed: staff,
			header:  []string{"ID", "NAME"},
			row:     func(c domain.Category) []string { return []string{c.ID, c.Name} },
			label:   func(c domain.Category) string { return c.Name },
		},
		"customers": &resource[domain.Customer]{
			screen:  newScreen("customers", res.Customers, validate, log),
			allowed: staff,
			header:  []string{"ID", "NAME", "EMAIL", "PHONE", "TAGS"},
			row: func(c domain.Customer) []string {
				return []string{c.ID, c.Name, c.Email, c.Phone, strings.Join(c.Tags, ",")}
			},
			label: func(c domain.Customer) string { return c.Name },
		},
		"bookings": &resource[domain.Booking]{
			screen:  newScreen("bookings", res.Bookings, validate, log),
			allowed: staff,
			header:  []string{"ID", "TABLE", "TIME", "STATUS", "BILL"},
			row: func(b domain.Booking) []string {
				return []string{b.ID, b.TableNumber, b.BookingTime, b.Status, money(b.BillTotal)}
			},
			label: func(b domain.Booking) string { return "table " + b.TableNumber },
		},
		"discounts": &resource[domain.Discount]{
			screen:  newScreen("discounts", res.Discounts, validate, log),
			allowed: admin,
			header:  []string{"ID", "NAME", "PERCENT", "TYPE", "CODE"},
			row: func(d domain.Discount) []string {
				return []string{d.ID, d.Name, strconv.FormatFloat(d.Percent, 'f', -1, 64) + "%", d.Type, d.Code}
			},
			label: func(d domain.Discount) string { return d.Name },
		},
		"users": &resource[domain.User]{
			screen:  newScreen("users", res.Users, validate, log),
			allowed: admin,
			header:  []string{"ID", "NAME", "ROLE"},
			row:     func(u domain.User) []string { return []string{u.ID, u.Name, u.Role} },
			label:   func(u domain.User) string { return u.Name },
		},
		"roles": &resource[domain.Role]{
			screen:  newScreen("roles", res.Roles, validate, log),
			allowed: admin,
			header:  []string{"ID", "ROLE"},
			row:     func(r domain.Role) []string { return []string{r.ID, r.Role} },
			label:   func(r domain.Role) string { return r.Role },
		},
		"locations": &resource[domain.Location]{
			screen:  newScreen("locations", res.Locations, validate, log),
			allowed: staff,
			header:  []string{"ID", "NAME", "LINK CODE"},
			row:     func(l domain.Location) []string { return []string{l.ID, l.Name, l.LinkCode} },
			label:   func(l domain.Location) string { return l.Name },
		},
		"sales": &resource[domain.Sale]{
			screen:   newScreen("sales", res.Sales, validate, log),
			allowed:  staff,
			readOnly: true,
			header:   []string{"ID", "PRODUCT", "QTY", "TOTAL", "VAT"},
			row: func(s domain.Sale) []string {
				return []string{s.ID, s.ProductID, strconv.Itoa(s.Quantity), money(s.Total), money(s.VAT)}
			},
		},
		"payments": &resource[domain.Payment]{
			screen:   newScreen("payments", res.Payments, validate, log),
			allowed:  staff,
			readOnly: true,
			header:   []string{"ID", "SALE", "AMOUNT", "METHOD"},
			row:      func(p domain.Payment) []string { return []string{p.ID, p.SaleID, money(p.Amount), p.Method} },
		},
		"receipts": &resource[domain.Receipt]{
			screen:   newScreen("receipts", res.Receipts, validate, log),
			allowed:  staff,
			readOnly: true,
			header:   []string{"ID", "SALE", "ISSUED"},
			row:      func(r domain.Receipt) []string { return []string{r.ID, r.SaleID, r.CreatedAt} },
		},
	}
}

func newScreen[T any](name string, coll ports.Collection[T], validate ports.Validator, log zerolog.Logger) func() *service.Screen[T] {
	return func() *service.Screen[T] { return service.NewScreen(name, coll, validate, log) }
}
