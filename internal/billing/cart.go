package billing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rahu431/snapbill-service/internal/domain"
)

// NewPlaceholderItem returns the empty row that keeps a draft editable when
// it has no real line items
func NewPlaceholderItem() domain.LineItem {
	return domain.LineItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
}

// Reconcile folds an ordered sequence of cart actions onto an existing line
// item list and returns the resulting list. The input slice is not modified.
//
// A starting list consisting of exactly one empty-description item (the
// default placeholder row) is treated as empty. Actions apply strictly in
// order: each one matches the first existing item by product id when the
// action carries one, otherwise by case-insensitive description equality.
// Adds increment the matched item's quantity without touching its price, or
// append a new item. Removes decrement the matched quantity and delete the
// item once it reaches zero or below; an unmatched remove is a no-op. If the
// final list is empty, a fresh placeholder row is appended.
func Reconcile(items []domain.LineItem, actions []domain.CartAction) []domain.LineItem {
	result := make([]domain.LineItem, 0, len(items)+len(actions))
	if !isPlaceholderOnly(items) {
		result = append(result, items...)
	}

	for _, action := range actions {
		idx := matchItem(result, action)

		switch action.Action {
		case domain.ActionAdd:
			if idx >= 0 {
				result[idx].Quantity += action.Quantity
			} else {
				result = append(result, domain.LineItem{
					ID:          uuid.NewString(),
					ProductID:   action.ProductID,
					Description: action.Description,
					Quantity:    action.Quantity,
					Price:       action.Price,
				})
			}
		case domain.ActionRemove:
			if idx < 0 {
				continue
			}
			result[idx].Quantity -= action.Quantity
			if result[idx].Quantity <= 0 {
				result = append(result[:idx], result[idx+1:]...)
			}
		}
	}

	if len(result) == 0 {
		result = append(result, NewPlaceholderItem())
	}
	return result
}

// NormalizeActions validates and normalizes raw assistant output before it
// reaches Reconcile. Unknown verbs and empty descriptions are dropped,
// non-finite numbers are zeroed, and an add with a negative quantity is
// rewritten as a remove of the absolute quantity.
func NormalizeActions(raw []domain.CartAction) []domain.CartAction {
	actions := make([]domain.CartAction, 0, len(raw))
	for _, a := range raw {
		a.Action = strings.ToLower(strings.TrimSpace(a.Action))
		a.Description = strings.TrimSpace(a.Description)
		a.Quantity = Sanitize(a.Quantity)
		a.Price = Sanitize(a.Price)

		if a.Description == "" {
			continue
		}
		if a.Action == domain.ActionAdd && a.Quantity < 0 {
			a.Action = domain.ActionRemove
			a.Quantity = -a.Quantity
		}
		if a.Action != domain.ActionAdd && a.Action != domain.ActionRemove {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}

// isPlaceholderOnly reports whether the list is just the default empty row
func isPlaceholderOnly(items []domain.LineItem) bool {
	return len(items) == 1 && strings.TrimSpace(items[0].Description) == ""
}

// matchItem returns the index of the first item the action refers to, or -1.
// Product id matching takes precedence over description matching.
func matchItem(items []domain.LineItem, action domain.CartAction) int {
	if action.ProductID != "" {
		for i, item := range items {
			if item.ProductID == action.ProductID {
				return i
			}
		}
	}
	for i, item := range items {
		if strings.EqualFold(item.Description, action.Description) {
			return i
		}
	}
	return -1
}
