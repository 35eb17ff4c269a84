package utils

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid short name",
			id:      "A32000",
			wantErr: false,
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("a", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with invalid characters",
			id:      "A32000<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with SQL injection attempt",
			id:      "A32000'; DROP TABLE trips; --",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../../../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "valid ID with hyphens and dots",
			id:      "test-1.2_x",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err, "ValidateID should return error for invalid ID")
				assert.Contains(t, err.Error(), tt.errMsg, "Error message should contain expected text")
			} else {
				assert.NoError(t, err, "ValidateID should not return error for valid ID")
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateLatitude(42.36))
	assert.NoError(t, ValidateLatitude(-90))
	assert.Error(t, ValidateLatitude(90.01))

	assert.NoError(t, ValidateLongitude(-71.09))
	assert.NoError(t, ValidateLongitude(180))
	assert.Error(t, ValidateLongitude(-180.5))

	assert.Error(t, ValidateLatitude(math.NaN()))
	assert.Error(t, ValidateLongitude(math.NaN()))
	assert.Error(t, ValidateLongitude(math.Inf(-1)))
}

func TestValidateZoom(t *testing.T) {
	assert.NoError(t, ValidateZoom(12, 5, 18))
	assert.NoError(t, ValidateZoom(5, 5, 18))
	assert.NoError(t, ValidateZoom(18, 5, 18))

	err := ValidateZoom(4.5, 5, 18)
	assert.EqualError(t, err, "zoom must be between 5 and 18")
	assert.Error(t, ValidateZoom(19, 5, 18))
	assert.Error(t, ValidateZoom(math.NaN(), 5, 18))
}

func TestValidateDimensionAndLimit(t *testing.T) {
	assert.NoError(t, ValidateDimension(960))
	assert.Error(t, ValidateDimension(0))
	assert.Error(t, ValidateDimension(MaxViewportDimension+1))

	assert.NoError(t, ValidateLimit(50))
	assert.Error(t, ValidateLimit(0))
	assert.Error(t, ValidateLimit(MaxListLimit+1))
}

func TestValidateViewParams(t *testing.T) {
	t.Run("valid view has no errors", func(t *testing.T) {
		fieldErrors := ValidateViewParams(-71.09415, 42.36027, 12, 960, 500, 5, 18)
		assert.Empty(t, fieldErrors)
	})

	t.Run("collects one entry per bad field", func(t *testing.T) {
		fieldErrors := ValidateViewParams(-200, 95, 30, 0, -1, 5, 18)
		assert.Len(t, fieldErrors, 5)
		for _, field := range []string{"lon", "lat", "zoom", "width", "height"} {
			assert.Contains(t, fieldErrors, field)
		}
	})
}
