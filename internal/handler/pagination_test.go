package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	t.Run("defaults when absent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		p := ParsePagination(req)
		assert.Equal(t, DefaultLimit, p.Limit)
		assert.Equal(t, 0, p.Offset)
	})

	t.Run("parses explicit values", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test?limit=10&offset=20", nil)
		p := ParsePagination(req)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, 20, p.Offset)
	})

	t.Run("caps oversized limit", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test?limit=5000", nil)
		p := ParsePagination(req)
		assert.Equal(t, DefaultLimit, p.Limit)
	})

	t.Run("rejects negative offset", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test?limit=-1&offset=-5", nil)
		p := ParsePagination(req)
		assert.Equal(t, DefaultLimit, p.Limit)
		assert.Equal(t, 0, p.Offset)
	})
}
