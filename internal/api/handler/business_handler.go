package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
)

type BusinessView struct {
	Page
	Info   domain.BusinessInfo
	Fields []Field
}

// businessFields is the order the profile form shows its inputs in.
var businessFields = []struct {
	name, label, kind string
	get               func(domain.BusinessInfo) string
}{
	{"companyName", "Company name", "text", func(b domain.BusinessInfo) string { return b.CompanyName }},
	{"companyAddress", "Address", "text", func(b domain.BusinessInfo) string { return b.CompanyAddress }},
	{"financeEmail", "Finance email", "email", func(b domain.BusinessInfo) string { return b.FinanceEmail }},
	{"vatId", "VAT number", "text", func(b domain.BusinessInfo) string { return b.VatID }},
	{"companyRegNumber", "Company registration number", "text", func(b domain.BusinessInfo) string { return b.CompanyRegNumber }},
	{"phone", "Phone", "tel", func(b domain.BusinessInfo) string { return b.Phone }},
	{"website", "Website", "url", func(b domain.BusinessInfo) string { return b.Website }},
	{"logoUrl", "Logo URL", "url", func(b domain.BusinessInfo) string { return b.LogoURL }},
	{"salesIdPrefix", "Sales ID prefix", "text", func(b domain.BusinessInfo) string { return b.SalesIDPrefix }},
	{"lastSalesNumber", "Last sales number", "text", func(b domain.BusinessInfo) string { return b.LastSalesNumber }},
	{"currency", "Currency", "text", func(b domain.BusinessInfo) string { return b.Currency }},
	{"defaultTaxRate", "Default tax rate (%)", "text", func(b domain.BusinessInfo) string { return b.DefaultTaxRate }},
	{"country", "Country", "text", func(b domain.BusinessInfo) string { return b.Country }},
	{"bankDetails", "Bank details", "text", func(b domain.BusinessInfo) string { return b.BankDetails }},
	{"openingHours", "Opening hours", "text", func(b domain.BusinessInfo) string { return b.OpeningHours }},
	{"socialLinks", "Social links", "text", func(b domain.BusinessInfo) string { return b.SocialLinks }},
	{"invoiceFormat", "Invoice format", "text", func(b domain.BusinessInfo) string { return b.InvoiceFormat }},
	{"customReceiptMsg", "Receipt message", "text", func(b domain.BusinessInfo) string { return b.CustomReceiptMsg }},
	{"legalFooter", "Legal footer", "text", func(b domain.BusinessInfo) string { return b.LegalFooter }},
}

type BusinessHandler struct {
	admin ports.AdminService
}

func NewBusinessHandler(admin ports.AdminService) *BusinessHandler {
	return &BusinessHandler{admin: admin}
}

func (h *BusinessHandler) Show(c echo.Context) error {
	info, err := h.admin.Business(c.Request().Context())
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return err
	}
	page := newPage(c, "Business")
	page.Error = domain.UserMessage(err, "Failed to load business info. Showing defaults.")
	return h.render(c, page, info)
}

func (h *BusinessHandler) Save(c echo.Context) error {
	page := newPage(c, "Business")
	info, err := parseBusiness(c)
	if err == nil {
		err = h.admin.SaveBusiness(c.Request().Context(), info)
	}
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return err
	}
	if err != nil {
		page.Error = domain.UserMessage(err, "Failed to save business info")
	} else {
		page.Flash = "Business info saved."
	}
	return h.render(c, page, info)
}

func (h *BusinessHandler) render(c echo.Context, page Page, info domain.BusinessInfo) error {
	fields := make([]Field, 0, len(businessFields))
	for _, f := range businessFields {
		fields = append(fields, Field{Name: f.name, Label: f.label, Type: f.kind, Value: f.get(info)})
	}
	return c.Render(http.StatusOK, "business", BusinessView{Page: page, Info: info, Fields: fields})
}
