package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahu431/snapbill-service/internal/billing"
	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/model"
	"github.com/rahu431/snapbill-service/internal/repository"
	"github.com/rahu431/snapbill-service/internal/service"
)

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	invoices service.InvoiceService
	exports  service.ExportService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices service.InvoiceService, exports service.ExportService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, exports: exports}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *InvoiceHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/invoices", h.ListInvoices)
	r.POST("/invoices", h.CreateInvoice)
	r.GET("/invoices/export", h.ExportCSV)
	r.GET("/invoices/:id", h.GetInvoice)
	r.GET("/invoices/:id/pdf", h.ExportPDF)
	r.PATCH("/invoices/:id/status", h.UpdateStatus)
	r.DELETE("/invoices/:id", h.DeleteInvoice)
}

// ListInvoices returns all invoices, newest first
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Success 200 {array} domain.Invoice
// @Security BearerAuth
// @Router /v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.invoices.ListInvoices(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, invoices)
}

// CreateInvoice assembles and stores an invoice from the draft state
// @Summary Create an invoice
// @Description Assemble an invoice from draft items and fees. The customer name is required; everything else has defaults.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body model.CreateInvoiceRequest true "Invoice draft"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.CreateInvoice(c.Request.Context(), service.CreateInvoiceInput{
		CustomerName: req.CustomerName,
		Items:        req.Items,
		Notes:        req.Notes,
		Fees: billing.FeeInputs{
			Discount:  req.Discount,
			TaxRate:   req.TaxRate,
			Shipping:  req.Shipping,
			Handling:  req.Handling,
			Packaging: req.Packaging,
		},
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyCustomerName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondCreated(c, invoice)
}

// GetInvoice returns a single invoice
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.GetInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, invoice)
}

// UpdateStatus transitions an invoice between draft, sent and paid
// @Summary Update invoice status
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param status body model.UpdateInvoiceStatusRequest true "New status"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req model.UpdateInvoiceStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.UpdateStatus(c.Request.Context(), id, domain.InvoiceStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respondBadRequest(c, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			respondNotFound(c, ErrResourceNotFound)
		default:
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}
	respondOK(c, invoice)
}

// DeleteInvoice removes an invoice permanently
// @Summary Delete an invoice
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.invoices.DeleteInvoice(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondNoContent(c)
}

// ExportCSV downloads all invoices as a CSV file
// @Summary Export invoices as CSV
// @Tags invoices
// @Produce text/csv
// @Success 200 {string} string "CSV document"
// @Security BearerAuth
// @Router /v1/invoices/export [get]
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	data, err := h.exports.ExportInvoicesCSV(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportPDF downloads a single invoice as a PDF document
// @Summary Export an invoice as PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {string} string "PDF document"
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/invoices/{id}/pdf [get]
func (h *InvoiceHandler) ExportPDF(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	data, err := h.exports.ExportInvoicePDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+id+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
