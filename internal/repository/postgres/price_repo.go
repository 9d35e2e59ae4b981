package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
)

type priceRepo struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) repository.PriceRepository {
	return &priceRepo{db: db}
}

func (r *priceRepo) withJoins(db *gorm.DB, withProduct, withStore bool) *gorm.DB {
	if withProduct {
		db = db.Joins("Product")
	}
	if withStore {
		db = db.Joins("Store")
	}
	return db
}

func (r *priceRepo) FindByID(ctx context.Context, id uuid.UUID, withProduct, withStore bool) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := r.withJoins(r.db.WithContext(ctx), withProduct, withStore).
		First(&entry, "price_entries.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *priceRepo) FindByPair(ctx context.Context, productID, storeID uuid.UUID) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		First(&entry).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *priceRepo) Find(ctx context.Context, q repository.PriceQuery) ([]models.PriceEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PriceEntry{})

	if q.ProductID != nil {
		query = query.Where("price_entries.product_id = ?", *q.ProductID)
	}
	if q.StoreID != nil {
		query = query.Where("price_entries.store_id = ?", *q.StoreID)
	}
	if q.Available != nil {
		query = query.Where("price_entries.is_available = ?", *q.Available)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count prices: %w", err)
	}

	withProduct := q.WithProduct || q.Sort.Field == repository.SortProductName
	withStore := q.WithStore || q.Sort.Field == repository.SortStoreName

	var order clause.OrderByColumn
	switch q.Sort.Field {
	case repository.SortPrice:
		order = orderBy("price_entries", "price", q.Sort.Desc)
	case repository.SortStoreName:
		order = orderByName("Store", q.Sort.Desc)
	case repository.SortProductName:
		order = orderByName("Product", q.Sort.Desc)
	default:
		order = orderBy("price_entries", "last_updated", q.Sort.Desc)
	}

	var entries []models.PriceEntry
	err := paginate(r.withJoins(query, withProduct, withStore), q.Skip, q.Limit).
		Order(order).
		Order(orderBy("price_entries", "id", false)).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch prices: %w", err)
	}

	return entries, total, nil
}

func (r *priceRepo) FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceEntry, error) {
	var entries []models.PriceEntry
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product prices: %w", err)
	}
	return entries, nil
}

func (r *priceRepo) FindAllByStore(ctx context.Context, storeID uuid.UUID) ([]models.PriceEntry, error) {
	var entries []models.PriceEntry
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch store prices: %w", err)
	}
	return entries, nil
}

func (r *priceRepo) Create(ctx context.Context, entry *models.PriceEntry) error {
	entry.EnsureID()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error)
}

func (r *priceRepo) Update(ctx context.Context, entry *models.PriceEntry) error {
	result := r.db.WithContext(ctx).
		Model(&models.PriceEntry{ID: entry.ID}).
		Select("price", "currency", "is_available", "stock_quantity", "notes", "last_updated").
		Updates(entry)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *priceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PriceEntry{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
