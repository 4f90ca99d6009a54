package pagination

import (
	"fmt"
	"math"

	"github.com/cliptube/cliptube/pkg/apperrors"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params is the shared offset/limit/sort contract used by every
// list-returning operation. Page is 1-based.
type Params struct {
	Page     int
	Limit    int
	SortBy   string
	SortType string
}

// New validates the raw inputs against the view's sort allow-list and fails
// fast before any query executes. An empty sortedBy allow-list means the
// view does not support sorting and SortBy must be empty.
func New(page, limit int, sortBy, sortType string, allowedSortFields []string) (Params, error) {
	if page < 1 {
		return Params{}, fmt.Errorf("page must be >= 1: %w", apperrors.ErrInvalidArgument)
	}
	if limit < 1 {
		return Params{}, fmt.Errorf("limit must be >= 1: %w", apperrors.ErrInvalidArgument)
	}

	if len(allowedSortFields) > 0 {
		if !contains(allowedSortFields, sortBy) {
			return Params{}, fmt.Errorf("invalid sortBy value %q: %w", sortBy, apperrors.ErrInvalidArgument)
		}
		if sortType != SortAsc && sortType != SortDesc {
			return Params{}, fmt.Errorf("invalid sortType value %q: %w", sortType, apperrors.ErrInvalidArgument)
		}
	} else if sortBy != "" {
		return Params{}, fmt.Errorf("sorting is not supported here: %w", apperrors.ErrInvalidArgument)
	}

	return Params{Page: page, Limit: limit, SortBy: sortBy, SortType: sortType}, nil
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause renders the SQL ORDER BY fragment for the validated sort.
func (p Params) OrderClause() string {
	if p.SortBy == "" {
		return ""
	}
	direction := "ASC"
	if p.SortType == SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s", p.SortBy, direction)
}

// TotalPages derives the page count from the match count taken before the
// offset/limit slice was applied.
func TotalPages(totalMatched int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return int64(math.Ceil(float64(totalMatched) / float64(limit)))
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
