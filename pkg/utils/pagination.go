package utils

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize      = 6
	RelatedPageSize      = 3
	AdminPageSize        = 100
	OrderHistoryPageSize = 10

	// MaxPageSize caps any limit a client asks for.
	MaxPageSize = AdminPageSize
)

// Paginate normalizes page and limit and returns the row offset.
// page < 1 becomes 1, limit <= 0 becomes def and limit is capped at
// MaxPageSize. page is clamped so the offset never overflows.
func Paginate(page, limit, def int) (int, int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit, (page - 1) * limit
}

// TotalPages is ceil(count/limit), 0 when there is nothing to show.
func TotalPages(count int64, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}

// ParseInt reads a query value, falling back to def when it is missing or bad.
func ParseInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
