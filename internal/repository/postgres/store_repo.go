package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/price-compare/internal/database"
	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
)

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

func (r *storeRepo) List(ctx context.Context, q repository.ListQuery) ([]models.Store, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Store{})

	if search := strings.TrimSpace(q.Search); search != "" {
		query = query.Where("name ILIKE ?", containsPattern(search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	order := orderBy("stores", "created_at", q.Sort.Desc)
	if q.Sort.Field == repository.SortName {
		order = orderByName("stores", q.Sort.Desc)
	}

	var stores []models.Store
	err := paginate(query, q.Skip, q.Limit).
		Order(order).
		Order(orderBy("stores", "id", false)).
		Find(&stores).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stores: %w", err)
	}

	return stores, total, nil
}

func (r *storeRepo) Create(ctx context.Context, store *models.Store) error {
	store.EnsureID()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(store).Error)
}

func (r *storeRepo) Update(ctx context.Context, store *models.Store) error {
	result := r.db.WithContext(ctx).
		Model(&models.Store{BaseModel: models.BaseModel{ID: store.ID}}).
		Select("name", "description", "address", "phone", "website", "image", "updated_at").
		Updates(store)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *storeRepo) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64
	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Where("store_id = ?", id).Delete(&models.PriceEntry{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete store prices: %w", result.Error)
		}
		deleted = result.RowsAffected

		result = tx.Delete(&models.Store{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete store: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
