package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/domain"
)

func emptyCart() []domain.LineItem {
	return []domain.LineItem{NewPlaceholderItem()}
}

func TestReconcileAddToEmptyCart(t *testing.T) {
	result := Reconcile(emptyCart(), []domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 2, Price: 10},
	})

	require.Len(t, result, 1)
	assert.Equal(t, "Coffee", result[0].Description)
	assert.Equal(t, 2.0, result[0].Quantity)
	assert.Equal(t, 10.0, result[0].Price)
	assert.NotEmpty(t, result[0].ID)
}

func TestReconcileAddMergesByDescription(t *testing.T) {
	cart := Reconcile(emptyCart(), []domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 2, Price: 10},
	})
	cart = Reconcile(cart, []domain.CartAction{
		{Action: "add", Description: "coffee", Quantity: 3},
	})

	require.Len(t, cart, 1)
	assert.Equal(t, 5.0, cart[0].Quantity)
	// Merging never changes the price of the existing line
	assert.Equal(t, 10.0, cart[0].Price)
}

func TestReconcileMatchesByProductID(t *testing.T) {
	cart := []domain.LineItem{
		{ID: "i1", ProductID: "p1", Description: "Ethiopian Yirgacheffe (250g)", Quantity: 1, Price: 18},
	}
	result := Reconcile(cart, []domain.CartAction{
		{Action: "add", ProductID: "p1", Description: "yirgacheffe beans", Quantity: 2},
	})

	require.Len(t, result, 1)
	assert.Equal(t, 3.0, result[0].Quantity)
	assert.Equal(t, "Ethiopian Yirgacheffe (250g)", result[0].Description)
}

func TestReconcileRemoveBelowZeroDeletesAndRepopulates(t *testing.T) {
	cart := Reconcile(emptyCart(), []domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 2},
	})
	cart = Reconcile(cart, []domain.CartAction{
		{Action: "remove", Description: "Coffee", Quantity: 5},
	})

	// Emptied cart is repopulated with a single placeholder row
	require.Len(t, cart, 1)
	assert.Empty(t, cart[0].Description)
	assert.Equal(t, 1.0, cart[0].Quantity)
	assert.Equal(t, 0.0, cart[0].Price)
}

func TestReconcileRemovePartial(t *testing.T) {
	cart := Reconcile(emptyCart(), []domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 5, Price: 4},
	})
	cart = Reconcile(cart, []domain.CartAction{
		{Action: "remove", Description: "Coffee", Quantity: 2},
	})

	require.Len(t, cart, 1)
	assert.Equal(t, 3.0, cart[0].Quantity)
}

func TestReconcileUnmatchedRemoveIsNoOp(t *testing.T) {
	cart := []domain.LineItem{
		{ID: "i1", Description: "Tea", Quantity: 1, Price: 3},
	}
	result := Reconcile(cart, []domain.CartAction{
		{Action: "remove", Description: "Coffee", Quantity: 1},
	})

	require.Len(t, result, 1)
	assert.Equal(t, "Tea", result[0].Description)
	assert.Equal(t, 1.0, result[0].Quantity)
}

func TestReconcileOrderMatters(t *testing.T) {
	// remove-then-add: the remove is a no-op against an empty cart
	removeFirst := Reconcile(emptyCart(), []domain.CartAction{
		{Action: "remove", Description: "Coffee", Quantity: 1},
		{Action: "add", Description: "Coffee", Quantity: 2},
	})
	require.Len(t, removeFirst, 1)
	assert.Equal(t, 2.0, removeFirst[0].Quantity)

	// add-then-remove: the remove finds the freshly added line
	addFirst := Reconcile(emptyCart(), []domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 2},
		{Action: "remove", Description: "Coffee", Quantity: 1},
	})
	require.Len(t, addFirst, 1)
	assert.Equal(t, 1.0, addFirst[0].Quantity)
}

func TestReconcileFirstMatchWins(t *testing.T) {
	cart := []domain.LineItem{
		{ID: "i1", Description: "Coffee", Quantity: 1, Price: 10},
		{ID: "i2", Description: "coffee", Quantity: 1, Price: 12},
	}
	result := Reconcile(cart, []domain.CartAction{
		{Action: "add", Description: "COFFEE", Quantity: 1},
	})

	require.Len(t, result, 2)
	assert.Equal(t, 2.0, result[0].Quantity)
	assert.Equal(t, 1.0, result[1].Quantity)
}

func TestReconcilePreservesRealSingleItemStart(t *testing.T) {
	cart := []domain.LineItem{
		{ID: "i1", Description: "Tea", Quantity: 1, Price: 3},
	}
	result := Reconcile(cart, []domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 1, Price: 4},
	})

	require.Len(t, result, 2)
	assert.Equal(t, "Tea", result[0].Description)
	assert.Equal(t, "Coffee", result[1].Description)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	cart := []domain.LineItem{
		{ID: "i1", Description: "Coffee", Quantity: 2, Price: 10},
	}
	_ = Reconcile(cart, []domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 3},
	})

	assert.Equal(t, 2.0, cart[0].Quantity)
}

func TestNormalizeActionsDropsInvalid(t *testing.T) {
	actions := NormalizeActions([]domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: 1},
		{Action: "update", Description: "Tea", Quantity: 1},
		{Action: "add", Description: "   ", Quantity: 1},
		{Action: "ADD ", Description: "Sugar", Quantity: math.NaN(), Price: math.Inf(1)},
	})

	require.Len(t, actions, 2)
	assert.Equal(t, "Coffee", actions[0].Description)
	assert.Equal(t, "Sugar", actions[1].Description)
	assert.Equal(t, 0.0, actions[1].Quantity)
	assert.Equal(t, 0.0, actions[1].Price)
}

func TestNormalizeActionsNegativeAddBecomesRemove(t *testing.T) {
	actions := NormalizeActions([]domain.CartAction{
		{Action: "add", Description: "Coffee", Quantity: -3},
	})

	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionRemove, actions[0].Action)
	assert.Equal(t, 3.0, actions[0].Quantity)
}
