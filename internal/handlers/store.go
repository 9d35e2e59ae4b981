// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-compare/internal/i18n"
	"github.com/javajoker/price-compare/internal/services"
	"github.com/javajoker/price-compare/internal/utils"
)

type StoreHandler struct {
	storeService *services.StoreService
	priceService *services.PriceService
	images       *ImageReceiver
}

func NewStoreHandler(storeService *services.StoreService, priceService *services.PriceService, images *ImageReceiver) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		priceService: priceService,
		images:       images,
	}
}

// GET /api/stores
func (h *StoreHandler) GetStores(c *gin.Context) {
	params := utils.GetPaginationParams(c, services.DefaultCatalogLimit)

	stores, total, err := h.storeService.ListStores(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, i18n.KeyStoreListFailed)
		return
	}

	utils.ListResponse(c, stores, total, params)
}

// POST /api/stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req services.CreateStoreRequest
	if !bindBody(c, &req) {
		return
	}

	image, err := h.images.Receive(c)
	if err != nil {
		respondError(c, err, i18n.KeyStoreCreateFailed)
		return
	}
	if image != nil {
		req.Image = image
	}

	store, err := h.storeService.CreateStore(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, i18n.KeyStoreCreateFailed)
		return
	}

	utils.CreatedResponse(c, store)
}

// GET /api/stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyStoreNotFound)
	if !ok {
		return
	}

	store, err := h.storeService.GetStore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, i18n.KeyStoreGetFailed)
		return
	}

	utils.SuccessResponse(c, store)
}

// PUT /api/stores/:id
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyStoreNotFound)
	if !ok {
		return
	}

	var req services.UpdateStoreRequest
	if !bindBody(c, &req) {
		return
	}

	image, err := h.images.Receive(c)
	if err != nil {
		respondError(c, err, i18n.KeyStoreUpdateFailed)
		return
	}
	if image != nil {
		req.Image = image
	}

	store, err := h.storeService.UpdateStore(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, i18n.KeyStoreUpdateFailed)
		return
	}

	utils.SuccessResponse(c, store)
}

// DELETE /api/stores/:id
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyStoreNotFound)
	if !ok {
		return
	}

	result, err := h.storeService.DeleteStore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, i18n.KeyStoreDeleteFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(i18n.KeyStoreDeleted),
		"deletedPrices": result.DeletedPrices,
		"storeName":     result.Name,
	})
}

// GET /api/stores/:id/prices
func (h *StoreHandler) GetStorePrices(c *gin.Context) {
	id, ok := parseID(c, "id", i18n.KeyStoreNotFound)
	if !ok {
		return
	}

	filter := services.PriceFilter{
		PaginationParams: utils.GetPaginationParams(c, services.DefaultStorePricesLimit),
		Available:        availabilityFilter(c),
	}

	view, err := h.priceService.CompareByStore(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err, i18n.KeyStorePricesFailed)
		return
	}

	utils.SetPaginationHeaders(c, view.Total, filter.PaginationParams)
	utils.SuccessResponse(c, view)
}
