package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rahu431/snapbill-service/internal/billing"
	"github.com/rahu431/snapbill-service/internal/model"
)

// CartHandler handles HTTP requests for cart reconciliation
type CartHandler struct{}

// NewCartHandler creates a new cart handler
func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *CartHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/carts/reconcile", h.Reconcile)
}

// Reconcile folds a list of add/remove actions onto the current cart
// @Summary Reconcile cart actions
// @Description Apply ordered add/remove actions to the current line items. Unknown action verbs and empty descriptions are dropped; a cart emptied by removals comes back with a single blank row.
// @Tags carts
// @Accept json
// @Produce json
// @Param cart body model.ReconcileCartRequest true "Current items and actions"
// @Success 200 {object} model.ReconcileCartResponse
// @Failure 400 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/carts/reconcile [post]
func (h *CartHandler) Reconcile(c *gin.Context) {
	var req model.ReconcileCartRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	actions := billing.NormalizeActions(req.Actions)
	respondOK(c, model.ReconcileCartResponse{
		Items: billing.Reconcile(req.Items, actions),
	})
}
