package domain

// Sale, Payment and Receipt are read-only report rows. Totals and VAT are
// computed by the backend and only displayed here.
type Sale struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	VAT       float64 `json:"vat"`
}

type Payment struct {
	ID     string  `json:"id"`
	SaleID string  `json:"sale_id"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

type Receipt struct {
	ID        string `json:"id"`
	SaleID    string `json:"sale_id"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type FinanceSummary struct {
	TotalSales    float64 `json:"totalSales"`
	TotalVAT      float64 `json:"totalVAT"`
	TotalPayments float64 `json:"totalPayments"`
	TotalReceipts float64 `json:"totalReceipts"`
}
