// Package postgres implements the repository interfaces on top of gorm and
// PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/price-compare/internal/database"
	"github.com/javajoker/price-compare/internal/repository"
)

// New wires the three repositories over one gorm handle.
func New(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Products: NewProductRepository(db),
		Stores:   NewStoreRepository(db),
		Prices:   NewPriceRepository(db),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Close: func() error {
			return database.Close(db)
		},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repository.ErrNotFound
	default:
		return err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func orderBy(table, column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: table, Name: column},
		Desc:   desc,
	}
}

// orderByName sorts by the lowercased name in byte order so the result does
// not depend on the database collation.
func orderByName(table string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Name: fmt.Sprintf(`LOWER(%q."name") COLLATE "C"`, table), Raw: true},
		Desc:   desc,
	}
}

func paginate(db *gorm.DB, skip, limit int) *gorm.DB {
	if skip > 0 {
		db = db.Offset(skip)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}
