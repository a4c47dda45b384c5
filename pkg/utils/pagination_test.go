package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                    string
		page, limit             int
		wantPage, wantLimit, at int
	}{
		{"first page", 1, 6, 1, 6, 0},
		{"third page", 3, 6, 3, 6, 12},
		{"zero page", 0, 6, 1, 6, 0},
		{"negative page", -4, 6, 1, 6, 0},
		{"default limit", 2, 0, 2, DefaultPageSize, DefaultPageSize},
		{"negative limit", 1, -1, 1, DefaultPageSize, 0},
		{"limit capped", 2, 5000, 2, MaxPageSize, MaxPageSize},
		{"huge page", math.MaxInt / 3, 0, math.MaxInt / DefaultPageSize, DefaultPageSize, (math.MaxInt/DefaultPageSize - 1) * DefaultPageSize},
		{"max int page", math.MaxInt, MaxPageSize, math.MaxInt / MaxPageSize, MaxPageSize, (math.MaxInt/MaxPageSize - 1) * MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, offset := Paginate(tt.page, tt.limit, DefaultPageSize)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.at, offset)
			assert.GreaterOrEqual(t, offset, 0)
		})
	}
}

func TestPaginateHugeQueryPage(t *testing.T) {
	_, _, offset := Paginate(ParseInt("3074457345618258603", 1), 0, DefaultPageSize)
	assert.GreaterOrEqual(t, offset, 0)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 6))
	assert.Equal(t, 1, TotalPages(1, 6))
	assert.Equal(t, 1, TotalPages(6, 6))
	assert.Equal(t, 2, TotalPages(7, 6))
	assert.Equal(t, 34, TotalPages(100, 3))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 4, ParseInt("4", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, -2, ParseInt("-2", 1))
}
