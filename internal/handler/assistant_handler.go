package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahu431/snapbill-service/internal/model"
	"github.com/rahu431/snapbill-service/internal/service"
)

// AssistantHandler handles HTTP requests for the AI billing assistant
type AssistantHandler struct {
	assistant service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *AssistantHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/assistant/invoice", h.ParseInvoice)
	r.POST("/assistant/cart", h.ParseCart)
}

// ParseInvoice turns free-form text into a reviewable invoice draft
// @Summary Parse invoice text
// @Description Extract a customer name, line items and notes from natural language. The draft is returned for review, not saved.
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body model.ParseInvoiceRequest true "Invoice description"
// @Success 200 {object} service.ParsedDraft
// @Failure 409 {object} model.ErrorResponse "A parse is already running"
// @Failure 502 {object} model.ErrorResponse "AI backend failure"
// @Security BearerAuth
// @Router /v1/assistant/invoice [post]
func (h *AssistantHandler) ParseInvoice(c *gin.Context) {
	var req model.ParseInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	draft, err := h.assistant.ParseInvoiceText(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrParseInFlight) {
			respondConflict(c, err.Error())
			return
		}
		respondWithError(c, http.StatusBadGateway, "Failed to parse invoice text")
		return
	}
	respondOK(c, draft)
}

// ParseCart turns a voice transcript into cart actions and applies them
// @Summary Parse a cart voice command
// @Description Turn a spoken command into add/remove actions matched against the product catalog, and return the reconciled cart.
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body model.ParseCartRequest true "Transcript and current items"
// @Success 200 {object} service.CartResult
// @Failure 409 {object} model.ErrorResponse "A parse is already running"
// @Failure 502 {object} model.ErrorResponse "AI backend failure"
// @Security BearerAuth
// @Router /v1/assistant/cart [post]
func (h *AssistantHandler) ParseCart(c *gin.Context) {
	var req model.ParseCartRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.assistant.ParseCartCommand(c.Request.Context(), req.Transcript, req.Items)
	if err != nil {
		if errors.Is(err, service.ErrParseInFlight) {
			respondConflict(c, err.Error())
			return
		}
		respondWithError(c, http.StatusBadGateway, "Failed to parse cart command")
		return
	}
	respondOK(c, result)
}
