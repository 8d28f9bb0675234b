package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/domain"
)

// stubParser is a controllable InvoiceParser for tests
type stubParser struct {
	invoice *domain.ParsedInvoice
	actions []domain.CartAction
	err     error

	entered chan struct{} // receives one signal when a call enters
	release chan struct{} // when set, calls block until closed
}

func (p *stubParser) ParseInvoice(ctx context.Context, text string) (*domain.ParsedInvoice, error) {
	p.block()
	return p.invoice, p.err
}

func (p *stubParser) ParseCartActions(ctx context.Context, transcript string, productNames []string) ([]domain.CartAction, error) {
	p.block()
	return p.actions, p.err
}

func (p *stubParser) block() {
	if p.entered != nil {
		p.entered <- struct{}{}
	}
	if p.release != nil {
		<-p.release
	}
}

func TestParseInvoiceTextAssignsFreshIDs(t *testing.T) {
	parser := &stubParser{invoice: &domain.ParsedInvoice{
		CustomerName: "  John Doe ",
		Items: []domain.ParsedItem{
			{Description: "Consulting", Quantity: 2, Price: 50},
			{Description: "", Quantity: 1, Price: 10},
			{Description: "Setup fee", Quantity: 0, Price: 100},
		},
		Notes: "net 30",
	}}
	svc := NewAssistantService(parser, newTestStore(t))

	draft, err := svc.ParseInvoiceText(context.Background(), "bill john doe")
	require.NoError(t, err)

	assert.Equal(t, "John Doe", draft.CustomerName)
	assert.Equal(t, "net 30", draft.Notes)
	require.Len(t, draft.Items, 2)
	assert.NotEmpty(t, draft.Items[0].ID)
	assert.NotEqual(t, draft.Items[0].ID, draft.Items[1].ID)
	// Missing quantity defaults to 1
	assert.Equal(t, 1.0, draft.Items[1].Quantity)
}

func TestParseInvoiceTextFailureLeavesNoResult(t *testing.T) {
	parser := &stubParser{err: errors.New("upstream timeout")}
	svc := NewAssistantService(parser, newTestStore(t))

	draft, err := svc.ParseInvoiceText(context.Background(), "bill someone")
	assert.Error(t, err)
	assert.Nil(t, draft)
}

func TestParseCartCommandMatchesCatalog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ID: "p1", Name: "Colombian Supremo", Price: 45, TrackStock: true, Stock: 10,
	}))

	parser := &stubParser{actions: []domain.CartAction{
		{Action: "add", Description: "colombian supremo", Quantity: 2},
	}}
	svc := NewAssistantService(parser, store)

	result, err := svc.ParseCartCommand(ctx, "add two bags of colombian", nil)
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, "p1", result.Actions[0].ProductID)
	assert.Equal(t, 45.0, result.Actions[0].Price)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 2.0, result.Items[0].Quantity)
	assert.Equal(t, 45.0, result.Items[0].Price)
}

func TestParseCartCommandInvalidActionsProduceNoChanges(t *testing.T) {
	parser := &stubParser{actions: []domain.CartAction{
		{Action: "replace", Description: "Coffee", Quantity: 1},
		{Action: "add", Description: "", Quantity: 1},
	}}
	svc := NewAssistantService(parser, newTestStore(t))

	existing := []domain.LineItem{{ID: "i1", Description: "Tea", Quantity: 1, Price: 3}}
	result, err := svc.ParseCartCommand(context.Background(), "do something odd", existing)
	require.NoError(t, err)

	assert.Empty(t, result.Actions)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Tea", result.Items[0].Description)
}

func TestOverlappingParseCallsRejected(t *testing.T) {
	release := make(chan struct{})
	parser := &stubParser{
		invoice: &domain.ParsedInvoice{CustomerName: "A"},
		entered: make(chan struct{}, 1),
		release: release,
	}
	svc := NewAssistantService(parser, newTestStore(t))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.ParseInvoiceText(context.Background(), "first")
		assert.NoError(t, err)
	}()

	// Wait until the first call is inside the parser, then try a second one
	<-parser.entered
	_, err := svc.ParseInvoiceText(context.Background(), "second")
	assert.ErrorIs(t, err, ErrParseInFlight)

	close(release)
	wg.Wait()
}
