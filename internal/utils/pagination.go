// internal/utils/pagination.go
package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-compare/internal/repository"
)

const MaxLimit = 100

type PaginationParams struct {
	Skip   int    `json:"skip"`
	Limit  int    `json:"limit"`
	SortBy string `json:"sortBy"`
	Order  string `json:"order"`
	Search string `json:"search"`
}

// GetPaginationParams reads skip/limit/sortBy/order/search from the query
// string. Sort validation is left to the SortRule of each listing.
func GetPaginationParams(c *gin.Context, defaultLimit int) PaginationParams {
	return NormalizePagination(PaginationParams{
		Skip:   atoiOr(c.Query("skip"), 0),
		Limit:  atoiOr(c.Query("limit"), defaultLimit),
		SortBy: strings.TrimSpace(c.Query("sortBy")),
		Order:  strings.ToLower(strings.TrimSpace(c.Query("order"))),
		Search: strings.TrimSpace(c.Query("search")),
	}, defaultLimit)
}

func NormalizePagination(p PaginationParams, defaultLimit int) PaginationParams {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func atoiOr(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// SortRule describes the sortable fields of one listing.
type SortRule struct {
	Allowed []string
	// Field used when sortBy is absent.
	DefaultField string
	// Direction used when order is neither "asc" nor "desc".
	DefaultDesc bool
	// Fallback replaces both field and direction when sortBy is not allowed.
	Fallback repository.Sort
}

func (r SortRule) Resolve(sortBy, order string) repository.Sort {
	if sortBy == "" {
		sortBy = r.DefaultField
	}

	allowed := false
	for _, field := range r.Allowed {
		if field == sortBy {
			allowed = true
			break
		}
	}
	if !allowed {
		return r.Fallback
	}

	desc := r.DefaultDesc
	switch strings.ToLower(order) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}

	return repository.Sort{Field: sortBy, Desc: desc}
}

// ParseOptionalBool returns nil for anything but "true" or "false".
func ParseOptionalBool(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	default:
		return nil
	}
}

func SetPaginationHeaders(c *gin.Context, total int64, params PaginationParams) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Skip", strconv.Itoa(params.Skip))
	c.Header("X-Limit", strconv.Itoa(params.Limit))
}
