package domain

// BusinessInfo is the singleton company profile used on receipts and
// invoices. All values are free text as the backend stores them. The form
// tags match the console's profile form.
type BusinessInfo struct {
	CompanyName      string `json:"companyName"         form:"companyName"`
	CompanyAddress   string `json:"companyAddress"      form:"companyAddress"`
	FinanceEmail     string `json:"financeEmail"        form:"financeEmail"        validate:"omitempty,email"`
	VatID            string `json:"vatId"               form:"vatId"`
	CompanyRegNumber string `json:"companyRegNumber"    form:"companyRegNumber"`
	Phone            string `json:"phone"               form:"phone"`
	Website          string `json:"website"             form:"website"`
	LogoURL          string `json:"logoUrl"             form:"logoUrl"`
	SalesIDPrefix    string `json:"salesIdPrefix"       form:"salesIdPrefix"`
	Currency         string `json:"currency"            form:"currency"`
	DefaultTaxRate   string `json:"defaultTaxRate"      form:"defaultTaxRate"      validate:"omitempty,numeric"`
	BankDetails      string `json:"bankDetails"         form:"bankDetails"`
	LegalFooter      string `json:"legalFooter"         form:"legalFooter"`
	OpeningHours     string `json:"openingHours"        form:"openingHours"`
	SocialLinks      string `json:"socialLinks"         form:"socialLinks"`
	CustomReceiptMsg string `json:"customReceiptMsg"    form:"customReceiptMsg"`
	InvoiceFormat    string `json:"invoiceFormat"       form:"invoiceFormat"`
	Country          string `json:"country"             form:"country"`
	LastSalesNumber  string `json:"lastSalesNumber"     form:"lastSalesNumber"`
}

// DefaultBusinessInfo holds the values shown before anything is saved.
// Decoding a partial payload on top of it keeps these for missing keys.
func DefaultBusinessInfo() BusinessInfo {
	return BusinessInfo{
		Currency:       "GBP",
		DefaultTaxRate: "20",
		Country:        "UK",
	}
}
