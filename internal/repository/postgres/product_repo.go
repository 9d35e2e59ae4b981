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

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, q repository.ListQuery) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := containsPattern(search)
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	order := orderBy("products", "created_at", q.Sort.Desc)
	if q.Sort.Field == repository.SortName {
		order = orderByName("products", q.Sort.Desc)
	}

	var products []models.Product
	err := paginate(query, q.Skip, q.Limit).
		Order(order).
		Order(orderBy("products", "id", false)).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	product.EnsureID()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{BaseModel: models.BaseModel{ID: product.ID}}).
		Select("name", "description", "image", "updated_at").
		Updates(product)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepo) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64
	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Where("product_id = ?", id).Delete(&models.PriceEntry{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete product prices: %w", result.Error)
		}
		deleted = result.RowsAffected

		result = tx.Delete(&models.Product{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product: %w", result.Error)
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
