package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rahu431/snapbill-service/internal/billing"
	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/repository"
)

// ErrParseInFlight is returned when a parse is requested while another one is
// still running. There is a single active draft, so overlapping calls are
// rejected rather than interleaved.
var ErrParseInFlight = errors.New("a parse request is already in progress")

// InvoiceParser is the external AI collaborator. Implementations live in the
// gemini package; the service only consumes their structured output.
type InvoiceParser interface {
	ParseInvoice(ctx context.Context, text string) (*domain.ParsedInvoice, error)
	ParseCartActions(ctx context.Context, transcript string, productNames []string) ([]domain.CartAction, error)
}

// ParsedDraft is a reviewed-not-saved invoice draft with identified items
type ParsedDraft struct {
	CustomerName string            `json:"customerName"`
	Items        []domain.LineItem `json:"items"`
	Notes        string            `json:"notes,omitempty"`
}

// CartResult carries the normalized actions and the line items they produced
type CartResult struct {
	Actions []domain.CartAction `json:"actions"`
	Items   []domain.LineItem   `json:"items"`
}

// AssistantService mediates between the AI parser and the cart/draft state.
// Parser output is validated and normalized here before it can touch a draft;
// parser failures leave the draft untouched.
type AssistantService interface {
	ParseInvoiceText(ctx context.Context, text string) (*ParsedDraft, error)
	ParseCartCommand(ctx context.Context, transcript string, items []domain.LineItem) (*CartResult, error)
}

type assistantService struct {
	parser InvoiceParser
	store  repository.Store
	busy   atomic.Bool
}

// NewAssistantService creates a new assistant service
func NewAssistantService(parser InvoiceParser, store repository.Store) AssistantService {
	return &assistantService{parser: parser, store: store}
}

// ParseInvoiceText turns free-form text into a reviewable draft. Each item
// receives a fresh identifier; the draft is never saved here.
func (s *assistantService) ParseInvoiceText(ctx context.Context, text string) (*ParsedDraft, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrParseInFlight
	}
	defer s.busy.Store(false)

	parsed, err := s.parser.ParseInvoice(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("invoice parsing failed: %w", err)
	}

	draft := &ParsedDraft{
		CustomerName: strings.TrimSpace(parsed.CustomerName),
		Notes:        parsed.Notes,
		Items:        make([]domain.LineItem, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}
		quantity := billing.Sanitize(item.Quantity)
		if quantity == 0 {
			quantity = 1
		}
		draft.Items = append(draft.Items, domain.LineItem{
			ID:          uuid.NewString(),
			Description: desc,
			Quantity:    quantity,
			Price:       billing.Sanitize(item.Price),
		})
	}

	return draft, nil
}

// ParseCartCommand turns a voice transcript into cart actions and reconciles
// them onto the supplied line items. Actions are matched against the product
// catalog so catalog items carry their id and price.
func (s *assistantService) ParseCartCommand(ctx context.Context, transcript string, items []domain.LineItem) (*CartResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrParseInFlight
	}
	defer s.busy.Store(false)

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product catalog: %w", err)
	}
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}

	raw, err := s.parser.ParseCartActions(ctx, transcript, names)
	if err != nil {
		return nil, fmt.Errorf("cart parsing failed: %w", err)
	}

	actions := billing.NormalizeActions(raw)
	for i := range actions {
		if actions[i].ProductID != "" {
			continue
		}
		for _, p := range products {
			if strings.EqualFold(p.Name, actions[i].Description) {
				actions[i].ProductID = p.ID
				if actions[i].Price == 0 {
					actions[i].Price = p.Price
				}
				break
			}
		}
	}

	return &CartResult{
		Actions: actions,
		Items:   billing.Reconcile(items, actions),
	}, nil
}
