package domain

// Cart action verbs produced by the voice assistant
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// CartAction is a single add/remove instruction from the assistant. It is an
// input to cart reconciliation, not a stored entity.
type CartAction struct {
	Action      string  `json:"action"`
	ProductID   string  `json:"productId,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price,omitempty"`
}

// ParsedInvoice is the structured draft produced by AI text parsing. It is
// handed back to the client for manual review and is never saved directly.
type ParsedInvoice struct {
	CustomerName string       `json:"customerName"`
	Items        []ParsedItem `json:"items"`
	Notes        string       `json:"notes,omitempty"`
}

// ParsedItem is one extracted invoice line before it receives an identifier
type ParsedItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}
