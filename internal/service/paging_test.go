package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookstore/internal/service"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
		wantOffset         int
	}{
		{"defaults", 0, 0, 1, 10, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"second page", 2, 10, 2, 10, 10},
		{"size capped", 1, 500, 1, 100, 0},
		{"negative size", 3, -1, 3, 10, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, size, offset := service.NormalizePage(tc.page, tc.size)
			assert.Equal(t, tc.wantPage, p)
			assert.Equal(t, tc.wantSize, size)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, service.TotalPages(0, 10))
	assert.Equal(t, 1, service.TotalPages(1, 10))
	assert.Equal(t, 1, service.TotalPages(10, 10))
	assert.Equal(t, 2, service.TotalPages(11, 10))
	assert.Equal(t, 3, service.TotalPages(25, 10))
}
