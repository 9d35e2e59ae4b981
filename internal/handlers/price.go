// internal/handlers/price.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-compare/internal/i18n"
	"github.com/javajoker/price-compare/internal/services"
	"github.com/javajoker/price-compare/internal/utils"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// GET /api/compare/:productId
func (h *PriceHandler) ComparePrices(c *gin.Context) {
	productID, ok := parseID(c, "productId", i18n.KeyProductNotFound)
	if !ok {
		return
	}

	filter := services.PriceFilter{
		PaginationParams: utils.GetPaginationParams(c, services.DefaultCompareLimit),
		Available:        availabilityFilter(c),
	}

	comparison, err := h.priceService.Compare(c.Request.Context(), productID, filter)
	if err != nil {
		respondError(c, err, i18n.KeyPriceCompareFailed)
		return
	}

	utils.SetPaginationHeaders(c, comparison.Total, filter.PaginationParams)
	utils.SuccessResponse(c, comparison)
}

// GET /api/prices
func (h *PriceHandler) GetPrices(c *gin.Context) {
	productID, ok := parseOptionalID(c, "productId")
	if !ok {
		return
	}
	storeID, ok := parseOptionalID(c, "storeId")
	if !ok {
		return
	}

	filter := services.PriceFilter{
		PaginationParams: utils.GetPaginationParams(c, services.DefaultPriceListLimit),
		ProductID:        productID,
		StoreID:          storeID,
		Available:        availabilityFilter(c),
	}

	prices, total, err := h.priceService.ListPrices(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, i18n.KeyPriceListFailed)
		return
	}

	utils.ListResponse(c, prices, total, filter.PaginationParams)
}

// POST /api/prices
func (h *PriceHandler) UpsertPrice(c *gin.Context) {
	var req services.UpsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(i18n.KeyValidationInvalid, "cuerpo"))
		return
	}

	entry, created, err := h.priceService.UpsertPrice(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, i18n.KeyPriceUpsertFailed)
		return
	}

	if created {
		c.Header("Location", "/api/prices/"+entry.ID.String())
	}
	utils.CreatedResponse(c, entry)
}

// GET /api/prices/:id
func (h *PriceHandler) GetPrice(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyPriceNotFound)
	if !ok {
		return
	}

	entry, err := h.priceService.GetPrice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, i18n.KeyPriceGetFailed)
		return
	}

	utils.SuccessResponse(c, entry)
}

// DELETE /api/prices/:id
func (h *PriceHandler) DeletePrice(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyPriceNotFound)
	if !ok {
		return
	}

	if err := h.priceService.DeletePrice(c.Request.Context(), id); err != nil {
		respondError(c, err, i18n.KeyPriceDeleteFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(i18n.KeyPriceDeleted),
	})
}
