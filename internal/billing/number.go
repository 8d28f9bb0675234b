package billing

import "fmt"

// FormatInvoiceNumber builds the sequential display number for the next
// invoice given the count of existing invoices. Numbers derive from the
// current count rather than a monotonic counter, so deleting and recreating
// invoices can repeat a number; downstream consumers rely on that behavior.
func FormatInvoiceNumber(existingCount int) string {
	return fmt.Sprintf("INV-%04d", existingCount+1)
}
