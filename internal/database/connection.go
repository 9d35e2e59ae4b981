// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/price-compare/internal/config"
	"github.com/javajoker/price-compare/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return Open(postgres.Open(cfg.DSN()), cfg)
}

// Open connects through the given dialector and applies the pool settings.
func Open(dialector gorm.Dialector, cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         gormLogger(cfg.LogLevel),
		TranslateError: true,
		// Foreign keys are added in createIndexes.
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return db, nil
}

func gormLogger(level string) logger.Interface {
	switch level {
	case "info":
		return logger.Default.LogMode(logger.Info)
	case "warn":
		return logger.Default.LogMode(logger.Warn)
	case "error":
		return logger.Default.LogMode(logger.Error)
	default:
		return logger.Default.LogMode(logger.Silent)
	}
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	logrus.Info("Database connection closed successfully")
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Product{},
		&models.Store{},
		&models.PriceEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	statements := []string{
		// Listing indexes
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_stores_created_at ON stores(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stores_name ON stores(LOWER(name))",

		// Comparison indexes
		"CREATE INDEX IF NOT EXISTS idx_price_entries_product_price ON price_entries(product_id, price)",
		"CREATE INDEX IF NOT EXISTS idx_price_entries_store_updated ON price_entries(store_id, last_updated DESC)",
	}

	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			logrus.WithError(err).WithField("statement", statement).Warn("Failed to create index")
			// Continue with other indexes instead of failing completely
		}
	}

	constraints := []struct {
		name string
		sql  string
	}{
		{"fk_price_entries_product", "ALTER TABLE price_entries ADD CONSTRAINT fk_price_entries_product FOREIGN KEY (product_id) REFERENCES products(id)"},
		{"fk_price_entries_store", "ALTER TABLE price_entries ADD CONSTRAINT fk_price_entries_store FOREIGN KEY (store_id) REFERENCES stores(id)"},
	}

	for _, constraint := range constraints {
		var count int64
		if err := db.Raw("SELECT COUNT(*) FROM pg_constraint WHERE conname = ?", constraint.name).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Exec(constraint.sql).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", constraint.name, err)
		}
	}

	return nil
}

// Transaction helper
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
