package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/repository"
	"github.com/rahu431/snapbill-service/internal/service"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	catalog     service.CatalogService
	maxFileSize int64
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog:     catalog,
		maxFileSize: 10 * 1024 * 1024, // 10MB default
	}
}

// RegisterRoutes registers the handler's routes on the given group
func (h *ProductHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/products", h.ListProducts)
	r.POST("/products", h.CreateProduct)
	r.GET("/products/:id", h.GetProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
	r.POST("/products/:id/image", h.UploadImage)
}

// ListProducts returns the product catalog
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Security BearerAuth
// @Router /v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, products)
}

// GetProduct returns a single product
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, product)
}

// CreateProduct adds a product to the catalog
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.Product true "Product details"
// @Success 201 {object} domain.Product
// @Failure 400 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := bindJSON(c, &product); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	created, err := h.catalog.CreateProduct(c.Request.Context(), &product)
	if err != nil {
		if errors.Is(err, service.ErrEmptyProductName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondCreated(c, created)
}

// UpdateProduct replaces a product's details
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body domain.Product true "Product details"
// @Success 200 {object} domain.Product
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var product domain.Product
	if err := bindJSON(c, &product); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	product.ID = id

	updated, err := h.catalog.UpdateProduct(c.Request.Context(), &product)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyProductName):
			respondBadRequest(c, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			respondNotFound(c, ErrResourceNotFound)
		default:
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}
	respondOK(c, updated)
}

// DeleteProduct removes a product from the catalog
// @Summary Delete a product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondNoContent(c)
}

// UploadImage attaches a photo to a product
// @Summary Upload a product image
// @Description Upload a product photo. The image is resized server-side and stored in object storage; the product records its public URL.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Param file formData file true "Image file"
// @Success 200 {object} domain.Product
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Security BearerAuth
// @Router /v1/products/{id}/image [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	data, header, err := readFormFile(c, "file", h.maxFileSize)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	log.Printf("Uploading product image: %s (%d bytes)", header.Filename, header.Size)

	product, err := h.catalog.AttachProductImage(c.Request.Context(), id, data)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			respondNotFound(c, ErrResourceNotFound)
		case errors.Is(err, service.ErrNoImageStore):
			respondBadRequest(c, err.Error())
		default:
			respondBadRequest(c, "Failed to process image: "+err.Error())
		}
		return
	}
	respondOK(c, product)
}
