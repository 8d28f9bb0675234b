package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/model"
	"github.com/rahu431/snapbill-service/internal/repository"
	"github.com/rahu431/snapbill-service/internal/service"
)

// AdminHandler handles the account approval endpoints, available to super
// admins only
type AdminHandler struct {
	auth service.AuthService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(auth service.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *AdminHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/admin/users", h.ListUsers)
	r.POST("/admin/users/:id/approve", h.ApproveUser)
	r.POST("/admin/users/:id/reject", h.RejectUser)
}

// ListUsers returns all registered accounts
// @Summary List user accounts
// @Tags admin
// @Produce json
// @Success 200 {array} model.UserResponse
// @Security BearerAuth
// @Router /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.NewUserResponses(users))
}

// ApproveUser approves a pending account
// @Summary Approve an account
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.UserResponse
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/admin/users/{id}/approve [post]
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	h.updateStatus(c, h.auth.ApproveUser)
}

// RejectUser rejects an account
// @Summary Reject an account
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.UserResponse
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/admin/users/{id}/reject [post]
func (h *AdminHandler) RejectUser(c *gin.Context) {
	h.updateStatus(c, h.auth.RejectUser)
}

func (h *AdminHandler) updateStatus(c *gin.Context, fn func(ctx context.Context, userID string) (*domain.User, error)) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := fn(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.NewUserResponse(user))
}
