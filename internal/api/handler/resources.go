package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

// Collections are the backend resources behind the console pages.
type Collections struct {
	Products   ports.Collection[domain.Product]
	Categories ports.Collection[domain.Category]
	Customers  ports.Collection[domain.Customer]
	Bookings   ports.Collection[domain.Booking]
	Discounts  ports.Collection[domain.Discount]
	Users      ports.Collection[domain.User]
	Roles      ports.Collection[domain.Role]
	Locations  ports.Collection[domain.Location]
	Sales      ports.Collection[domain.Sale]
	Payments   ports.Collection[domain.Payment]
	Receipts   ports.Collection[domain.Receipt]
}

// Screens hands out a new screen per request so concurrent visitors never
// share list state.
type Screens struct {
	Collections
	validate ports.Validator
	log      zerolog.Logger
}

func NewScreens(cols Collections, validate ports.Validator, log zerolog.Logger) *Screens {
	return &Screens{Collections: cols, validate: validate, log: log}
}

func screenOf[T any](s *Screens, name string, coll ports.Collection[T]) func() *service.Screen[T] {
	return func() *service.Screen[T] {
		return service.NewScreen(name, coll, s.validate, s.log)
	}
}

func money(v float64) string { return fmt.Sprintf("£%.2f", v) }

// CatalogHandlers are the plain table pages of the console.
type CatalogHandlers struct {
	Products   *ResourceHandler[domain.Product]
	Categories *ResourceHandler[domain.Category]
	Customers  *ResourceHandler[domain.Customer]
	Roles      *ResourceHandler[domain.Role]
}

func NewCatalogHandlers(s *Screens) *CatalogHandlers {
	return &CatalogHandlers{
		Products: NewResourceHandler(ResourceConfig[domain.Product]{
			Title:      "Products",
			Path:       "/products",
			Columns:    []string{"Name", "Price", "Category"},
			Searchable: true,
			Deletable:  true,
			Empty:      "No products yet.",
			AddLabel:   "Add product",
			Fields: []Field{
				{Name: "name", Label: "Name", Type: "text"},
				{Name: "price", Label: "Price", Type: "number", Step: "0.01"},
				{Name: "category", Label: "Category", Type: "text"},
			},
			Row: func(p domain.Product) Row {
				return Row{ID: p.ID, Label: p.Name, Cells: []string{p.Name, money(p.Price), p.Category}}
			},
			Parse: parseProduct,
		}, screenOf(s, "products", s.Products)),

		Categories: NewResourceHandler(ResourceConfig[domain.Category]{
			Title:     "Categories",
			Path:      "/categories",
			Columns:   []string{"Name"},
			Deletable: true,
			Empty:     "No categories yet.",
			AddLabel:  "Add category",
			Fields:    []Field{{Name: "name", Label: "Name", Type: "text"}},
			Row: func(cat domain.Category) Row {
				return Row{ID: cat.ID, Label: cat.Name, Cells: []string{cat.Name}}
			},
			Parse: parseCategory,
		}, screenOf(s, "categories", s.Categories)),

		Customers: NewResourceHandler(ResourceConfig[domain.Customer]{
			Title:      "Customers",
			Path:       "/customers",
			Columns:    []string{"Name", "Email", "Phone", "Tags", "Notes"},
			Searchable: true,
			Deletable:  true,
			Empty:      "No customers found.",
			AddLabel:   "Add customer",
			Fields: []Field{
				{Name: "name", Label: "Name", Type: "text"},
				{Name: "email", Label: "Email", Type: "email"},
				{Name: "phone", Label: "Phone", Type: "tel"},
				{Name: "tags", Label: "Tags (comma separated)", Type: "text"},
				{Name: "notes", Label: "Notes", Type: "text"},
			},
			Row: func(cu domain.Customer) Row {
				return Row{ID: cu.ID, Label: cu.Name, Href: "/customers/" + cu.ID, Cells: []string{cu.Name, cu.Email, cu.Phone, strings.Join(cu.Tags, ", "), cu.Notes}}
			},
			Parse:    parseCustomer,
			Detail:   showCustomer,
			NotFound: "Customer not found",
		}, screenOf(s, "customers", s.Customers)),

		Roles: NewResourceHandler(ResourceConfig[domain.Role]{
			Title:     "Roles",
			Path:      "/admin/roles",
			Columns:   []string{"Role"},
			Deletable: true,
			Empty:     "No roles defined.",
			AddLabel:  "Add role",
			Fields:    []Field{{Name: "role", Label: "Role", Type: "text"}},
			Row: func(r domain.Role) Row {
				return Row{ID: r.ID, Label: r.Role, Cells: []string{r.Role}}
			},
			Parse: parseRole,
		}, screenOf(s, "roles", s.Roles)),
	}
}

type CustomerView struct {
	Page
	Customer domain.Customer
}

func showCustomer(c echo.Context, cu domain.Customer) error {
	return c.Render(http.StatusOK, "customer", CustomerView{Page: newPage(c, cu.Name), Customer: cu})
}

// ReportHandlers are the read-only finance tables.
type ReportHandlers struct {
	Sales    *ResourceHandler[domain.Sale]
	Payments *ResourceHandler[domain.Payment]
	Receipts *ResourceHandler[domain.Receipt]
}

func NewReportHandlers(s *Screens) *ReportHandlers {
	return &ReportHandlers{
		Sales: NewResourceHandler(ResourceConfig[domain.Sale]{
			Title:   "Sales",
			Path:    "/finance/sales",
			Columns: []string{"Sale", "Product", "Quantity", "Total", "VAT"},
			Empty:   "No sales recorded.",
			Row: func(sa domain.Sale) Row {
				return Row{ID: sa.ID, Cells: []string{sa.ID, sa.ProductID, strconv.Itoa(sa.Quantity), money(sa.Total), money(sa.VAT)}}
			},
		}, screenOf(s, "sales", s.Sales)),

		Payments: NewResourceHandler(ResourceConfig[domain.Payment]{
			Title:   "Payments",
			Path:    "/finance/payments",
			Columns: []string{"Payment", "Sale", "Amount", "Method"},
			Empty:   "No payments recorded.",
			Row: func(p domain.Payment) Row {
				return Row{ID: p.ID, Cells: []string{p.ID, p.SaleID, money(p.Amount), p.Method}}
			},
		}, screenOf(s, "payments", s.Payments)),

		Receipts: NewResourceHandler(ResourceConfig[domain.Receipt]{
			Title:   "Receipts",
			Path:    "/finance/receipts",
			Columns: []string{"Receipt", "Sale", "Issued"},
			Empty:   "No receipts issued.",
			Row: func(r domain.Receipt) Row {
				return Row{ID: r.ID, Cells: []string{r.ID, r.SaleID, formatWhen(r.CreatedAt)}}
			},
		}, screenOf(s, "receipts", s.Receipts)),
	}
}

func formatWhen(s string) string {
	t, ok := domain.ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("02 Jan 2006 15:04")
}
