package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedOffset int
		expectedLimit  int
		expectError    bool
	}{
		{name: "defaults", query: "", expectedOffset: 0, expectedLimit: 50},
		{name: "custom values", query: "offset=10&limit=25", expectedOffset: 10, expectedLimit: 25},
		{name: "max limit", query: "limit=100", expectedOffset: 0, expectedLimit: 100},
		{name: "negative offset", query: "offset=-1", expectError: true},
		{name: "zero limit", query: "limit=0", expectError: true},
		{name: "limit over max", query: "limit=101", expectError: true},
		{name: "non-numeric offset", query: "offset=abc", expectError: true},
		{name: "non-numeric limit", query: "limit=abc", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/v1/uploads?"+tt.query, nil)

			offset, limit, err := ParsePagination(c)
			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}
