package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		expectedOffset int
		expectedLimit  int
		expectError    bool
	}{
		{
			name:           "default values",
			url:            "/",
			expectedOffset: 0,
			expectedLimit:  50,
		},
		{
			name:           "valid custom values",
			url:            "/?offset=10&limit=20",
			expectedOffset: 10,
			expectedLimit:  20,
		},
		{
			name:           "max limit",
			url:            "/?limit=100",
			expectedOffset: 0,
			expectedLimit:  100,
		},
		{
			name:        "offset negative",
			url:         "/?offset=-1",
			expectError: true,
		},
		{
			name:        "offset not an integer",
			url:         "/?offset=abc",
			expectError: true,
		},
		{
			name:        "limit zero",
			url:         "/?limit=0",
			expectError: true,
		},
		{
			name:        "limit exceeds max",
			url:         "/?limit=101",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			c.Request = req

			offset, limit, err := ParsePagination(c)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, 0, offset)
				assert.Equal(t, 0, limit)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedOffset, offset)
				assert.Equal(t, tt.expectedLimit, limit)
			}
		})
	}
}

func TestPageRefs(t *testing.T) {
	base := "http://localhost:8000/v1/tenant-1/secrets"

	tests := []struct {
		name             string
		offset           int
		limit            int
		total            int
		expectedPrevious string
		expectedNext     string
	}{
		{
			name:         "first page with more results",
			offset:       0,
			limit:        10,
			total:        25,
			expectedNext: base + "?limit=10&offset=10",
		},
		{
			name:             "middle page",
			offset:           10,
			limit:            10,
			total:            25,
			expectedPrevious: base + "?limit=10&offset=0",
			expectedNext:     base + "?limit=10&offset=20",
		},
		{
			name:             "last page",
			offset:           20,
			limit:            10,
			total:            25,
			expectedPrevious: base + "?limit=10&offset=10",
		},
		{
			name:   "single page",
			offset: 0,
			limit:  10,
			total:  5,
		},
		{
			name:             "previous offset clamps to zero",
			offset:           5,
			limit:            10,
			total:            25,
			expectedPrevious: base + "?limit=10&offset=0",
			expectedNext:     base + "?limit=10&offset=15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous, next := PageRefs(base, tt.offset, tt.limit, tt.total)
			assert.Equal(t, tt.expectedPrevious, previous)
			assert.Equal(t, tt.expectedNext, next)
		})
	}
}

func TestRefs(t *testing.T) {
	base := "http://localhost:8000"
	secretID := uuid.MustParse("6f07dc2b-77d9-4c5e-a6ad-111111111111")

	assert.Equal(t,
		"http://localhost:8000/v1/tenant-1/secrets",
		SecretsRef(base, "tenant-1"),
	)
	assert.Equal(t,
		"http://localhost:8000/v1/tenant-1/secrets/6f07dc2b-77d9-4c5e-a6ad-111111111111",
		SecretRef(base, "tenant-1", secretID),
	)
	assert.Equal(t,
		"http://localhost:8000/v1/tenant-1/orders/6f07dc2b-77d9-4c5e-a6ad-111111111111",
		OrderRef(base, "tenant-1", secretID),
	)
	assert.Equal(t,
		"http://localhost:8000/v1/tenant-1/verifications/6f07dc2b-77d9-4c5e-a6ad-111111111111",
		VerificationRef(base, "tenant-1", secretID),
	)
}
