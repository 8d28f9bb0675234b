package domain

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

// Valid invoice statuses
const (
	StatusDraft InvoiceStatus = "draft"
	StatusSent  InvoiceStatus = "sent"
	StatusPaid  InvoiceStatus = "paid"
)

// ValidStatus reports whether s is a known invoice status
func ValidStatus(s InvoiceStatus) bool {
	return s == StatusDraft || s == StatusSent || s == StatusPaid
}

// LineItem represents a single priced entry within a draft or invoice.
// ProductID is a weak reference into the product catalog; deleting a product
// does not alter invoices that reference it.
type LineItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// Customer represents a billing recipient, copied into each invoice at
// creation time rather than referenced live
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Invoice is an immutable billing record. Subtotal and total are snapshotted
// at creation and never recomputed from live catalog prices; only the status
// may change afterwards.
type Invoice struct {
	ID       string        `json:"id"`
	Number   string        `json:"number"`
	Date     string        `json:"date"` // RFC3339
	Customer Customer      `json:"customer"`
	Items    []LineItem    `json:"items"`
	Notes    string        `json:"notes,omitempty"`
	Status   InvoiceStatus `json:"status"`
	Currency string        `json:"currency"`

	// Financial breakdown, materialized at creation
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	TaxRate   float64 `json:"taxRate"`
	Shipping  float64 `json:"shipping"`
	Handling  float64 `json:"handling,omitempty"`
	Packaging float64 `json:"packaging,omitempty"`
	Total     float64 `json:"total"`
}
