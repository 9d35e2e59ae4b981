// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrProductNotFound = errors.New("product not found")
	ErrStoreNotFound   = errors.New("store not found")
	ErrPriceNotFound   = errors.New("price entry not found")
	ErrPriceConflict   = errors.New("price entry already exists for product and store")
	ErrInvalidImage    = errors.New("file is not a supported image")
	ErrImageTooLarge   = errors.New("image exceeds the upload size limit")
	ErrUploadFailed    = errors.New("image upload failed")
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
