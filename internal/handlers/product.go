// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-compare/internal/i18n"
	"github.com/javajoker/price-compare/internal/services"
	"github.com/javajoker/price-compare/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	images         *ImageReceiver
}

func NewProductHandler(productService *services.ProductService, images *ImageReceiver) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		images:         images,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c, services.DefaultCatalogLimit)

	products, total, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, i18n.KeyProductListFailed)
		return
	}

	utils.ListResponse(c, products, total, params)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindBody(c, &req) {
		return
	}

	image, err := h.images.Receive(c)
	if err != nil {
		respondError(c, err, i18n.KeyProductCreateFailed)
		return
	}
	if image != nil {
		req.Image = image
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, i18n.KeyProductCreateFailed)
		return
	}

	utils.CreatedResponse(c, product)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyProductNotFound)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, i18n.KeyProductGetFailed)
		return
	}

	utils.SuccessResponse(c, product)
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyProductNotFound)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindBody(c, &req) {
		return
	}

	image, err := h.images.Receive(c)
	if err != nil {
		respondError(c, err, i18n.KeyProductUpdateFailed)
		return
	}
	if image != nil {
		req.Image = image
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, i18n.KeyProductUpdateFailed)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyProductNotFound)
	if !ok {
		return
	}

	result, err := h.productService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, i18n.KeyProductDeleteFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(i18n.KeyProductDeleted),
		"deletedPrices": result.DeletedPrices,
		"productName":   result.Name,
	})
}
