// internal/services/store_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
	"github.com/javajoker/price-compare/internal/utils"
)

type StoreService struct {
	stores repository.StoreRepository
}

type CreateStoreRequest struct {
	Name        string  `json:"name" form:"name" validate:"notblank,max=255"`
	Description string  `json:"description" form:"description"`
	Address     string  `json:"address" form:"address" validate:"max=512"`
	Phone       string  `json:"phone" form:"phone" validate:"max=64"`
	Website     string  `json:"website" form:"website" validate:"omitempty,url,max=512"`
	Image       *string `json:"image,omitempty" form:"imageUrl"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name,omitempty" form:"name" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty" form:"description"`
	Address     *string `json:"address,omitempty" form:"address" validate:"omitempty,max=512"`
	Phone       *string `json:"phone,omitempty" form:"phone" validate:"omitempty,max=64"`
	Website     *string `json:"website,omitempty" form:"website" validate:"omitempty,url,max=512"`
	Image       *string `json:"image,omitempty" form:"imageUrl"`
}

func NewStoreService(stores repository.StoreRepository) *StoreService {
	return &StoreService{stores: stores}
}

func (s *StoreService) ListStores(ctx context.Context, params utils.PaginationParams) ([]models.Store, int64, error) {
	params = utils.NormalizePagination(params, DefaultCatalogLimit)

	stores, total, err := s.stores.List(ctx, repository.ListQuery{
		Search: params.Search,
		Sort:   catalogSort.Resolve(params.SortBy, params.Order),
		Skip:   params.Skip,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, total, nil
}

func (s *StoreService) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return store, nil
}

func (s *StoreService) CreateStore(ctx context.Context, req *CreateStoreRequest) (*models.Store, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Website = strings.TrimSpace(req.Website)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	store := &models.Store{
		Name:        req.Name,
		Description: req.Description,
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		Website:     req.Website,
		Image:       emptyToNil(req.Image),
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"store_id": store.ID,
		"name":     store.Name,
	}).Info("Store created")

	return store, nil
}

func (s *StoreService) UpdateStore(ctx context.Context, id uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	trimPtr(&req.Name)
	trimPtr(&req.Website)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Description != nil {
		store.Description = *req.Description
	}
	if req.Address != nil {
		store.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		store.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Website != nil {
		store.Website = *req.Website
	}
	if req.Image != nil {
		store.Image = emptyToNil(req.Image)
	}

	if err := s.stores.Update(ctx, store); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to update store: %w", err)
	}

	return s.GetStore(ctx, id)
}

// DeleteStore removes the store together with all its price entries.
func (s *StoreService) DeleteStore(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.stores.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to delete store: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"store_id":       id,
		"deleted_prices": deleted,
	}).Info("Store deleted")

	return &DeleteResult{Name: store.Name, DeletedPrices: deleted}, nil
}

func trimPtr(s **string) {
	if *s == nil {
		return
	}
	v := strings.TrimSpace(**s)
	*s = &v
}
