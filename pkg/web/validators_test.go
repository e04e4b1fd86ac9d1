package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseOptionalInt(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testCases := []struct {
		name           string
		query          string
		expectedValue  *int
		expectedOK     bool
		expectedStatus int
	}{
		{
			name:          "Absent parameter",
			query:         "",
			expectedValue: nil,
			expectedOK:    true,
		},
		{
			name:          "Valid value",
			query:         "?min_stock=5",
			expectedValue: func() *int { v := 5; return &v }(),
			expectedOK:    true,
		},
		{
			name:          "Zero is valid",
			query:         "?min_stock=0",
			expectedValue: func() *int { v := 0; return &v }(),
			expectedOK:    true,
		},
		{
			name:           "Invalid value responds 400",
			query:          "?min_stock=abc",
			expectedOK:     false,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory"+tc.query, nil)
			rec := httptest.NewRecorder()
			// when
			value, ok := ParseOptionalInt(req, rec, logger, "min_stock")
			// then
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedValue != nil {
				require.NotNil(t, value)
				assert.Equal(t, *tc.expectedValue, *value)
			} else {
				assert.Nil(t, value)
			}
			if !tc.expectedOK {
				assert.Equal(t, tc.expectedStatus, rec.Code)
			}
		})
	}
}

func Test_ParseID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testCases := []struct {
		name       string
		pathValue  string
		expectedOK bool
	}{
		{
			name:       "Valid UUID",
			pathValue:  "123e4567-e89b-12d3-a456-426614174000",
			expectedOK: true,
		},
		{
			name:       "Invalid UUID responds 400",
			pathValue:  "not-a-uuid",
			expectedOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/"+tc.pathValue, nil)
			req.SetPathValue("id", tc.pathValue)
			rec := httptest.NewRecorder()
			// when
			id, ok := ParseID(rec, req, logger)
			// then
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, tc.pathValue, id.String())
			} else {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}
