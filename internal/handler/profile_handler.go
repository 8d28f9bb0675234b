package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/service"
)

// ProfileHandler handles the business profile and customer roster endpoints
type ProfileHandler struct {
	catalog service.CatalogService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(catalog service.CatalogService) *ProfileHandler {
	return &ProfileHandler{catalog: catalog}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *ProfileHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
	r.GET("/customers", h.ListCustomers)
}

// GetProfile returns the business profile
// @Summary Get the business profile
// @Tags profile
// @Produce json
// @Success 200 {object} domain.BusinessProfile
// @Security BearerAuth
// @Router /v1/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.catalog.GetProfile(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, profile)
}

// UpdateProfile saves the business profile
// @Summary Update the business profile
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body domain.BusinessProfile true "Business profile"
// @Success 200 {object} domain.BusinessProfile
// @Failure 400 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var profile domain.BusinessProfile
	if err := bindJSON(c, &profile); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	saved, err := h.catalog.UpdateProfile(c.Request.Context(), &profile)
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, saved)
}

// ListCustomers returns the customer roster
// @Summary List customers
// @Tags customers
// @Produce json
// @Success 200 {array} domain.Customer
// @Security BearerAuth
// @Router /v1/customers [get]
func (h *ProfileHandler) ListCustomers(c *gin.Context) {
	customers, err := h.catalog.ListCustomers(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, customers)
}
