package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell-feed-service/internal/pagination"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		number     int
		totalItems int
		want       pagination.Page
	}{
		{
			name:       "first page of many",
			number:     1,
			totalItems: 25,
			want: pagination.Page{
				Number:     1,
				Size:       10,
				TotalItems: 25,
				TotalPages: 3,
				HasNext:    true,
				HasPrev:    false,
			},
		},
		{
			name:       "middle page",
			number:     2,
			totalItems: 25,
			want: pagination.Page{
				Number:     2,
				Size:       10,
				TotalItems: 25,
				TotalPages: 3,
				HasNext:    true,
				HasPrev:    true,
			},
		},
		{
			name:       "last page",
			number:     3,
			totalItems: 25,
			want: pagination.Page{
				Number:     3,
				Size:       10,
				TotalItems: 25,
				TotalPages: 3,
				HasNext:    false,
				HasPrev:    true,
			},
		},
		{
			name:       "empty set still has one page",
			number:     1,
			totalItems: 0,
			want: pagination.Page{
				Number:     1,
				Size:       10,
				TotalItems: 0,
				TotalPages: 1,
				HasNext:    false,
				HasPrev:    false,
			},
		},
		{
			name:       "page number below one falls back to first",
			number:     0,
			totalItems: 5,
			want: pagination.Page{
				Number:     1,
				Size:       10,
				TotalItems: 5,
				TotalPages: 1,
				HasNext:    false,
				HasPrev:    false,
			},
		},
		{
			name:       "exact multiple of page size",
			number:     2,
			totalItems: 20,
			want: pagination.Page{
				Number:     2,
				Size:       10,
				TotalItems: 20,
				TotalPages: 2,
				HasNext:    false,
				HasPrev:    true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.New(tt.number, tt.totalItems))
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		number     int
		totalItems int
		want       int
	}{
		{name: "within range", number: 2, totalItems: 25, want: 2},
		{name: "below one", number: -3, totalItems: 25, want: 1},
		{name: "past the end snaps to last page", number: 99, totalItems: 25, want: 3},
		{name: "empty set clamps to first page", number: 7, totalItems: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.Clamp(tt.number, tt.totalItems))
		})
	}
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.New(1, 100).Offset())
	assert.Equal(t, 10, pagination.New(2, 100).Offset())
	assert.Equal(t, 40, pagination.New(5, 100).Offset())
}
