// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Products
	KeyProductNotFound     = "product.not_found"
	KeyProductDeleted      = "product.deleted"
	KeyProductListFailed   = "product.list_failed"
	KeyProductGetFailed    = "product.get_failed"
	KeyProductCreateFailed = "product.create_failed"
	KeyProductUpdateFailed = "product.update_failed"
	KeyProductDeleteFailed = "product.delete_failed"

	// Stores
	KeyStoreNotFound     = "store.not_found"
	KeyStoreDeleted      = "store.deleted"
	KeyStoreListFailed   = "store.list_failed"
	KeyStoreGetFailed    = "store.get_failed"
	KeyStoreCreateFailed = "store.create_failed"
	KeyStoreUpdateFailed = "store.update_failed"
	KeyStoreDeleteFailed = "store.delete_failed"
	KeyStorePricesFailed = "store.prices_failed"

	// Prices
	KeyPriceNotFound      = "price.not_found"
	KeyPriceDeleted       = "price.deleted"
	KeyPriceConflict      = "price.conflict"
	KeyPriceListFailed    = "price.list_failed"
	KeyPriceGetFailed     = "price.get_failed"
	KeyPriceUpsertFailed  = "price.upsert_failed"
	KeyPriceDeleteFailed  = "price.delete_failed"
	KeyPriceCompareFailed = "price.compare_failed"

	// Files
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
	KeyFileMissing       = "file.missing"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationMin      = "validation.min"
	KeyValidationMax      = "validation.max"
	KeyValidationGte      = "validation.gte"
	KeyValidationURL      = "validation.url"
	KeyValidationCurrency = "validation.currency"
	KeyInvalidParam       = "request.invalid_param"

	// System
	KeyRateLimitExceeded = "rate.exceeded"
	KeyInternalError     = "server.internal"
	KeyHealthy           = "server.healthy"
	KeyUnhealthy         = "server.unhealthy"
)
