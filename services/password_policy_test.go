package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errMsg   string
	}{
		{"valid", "Sup3rSecret!", ""},
		{"too short", "Sh0rt!", "Password must be at least 12 characters long"},
		{"missing uppercase", "lowercase123!", "Password must contain at least one uppercase letter"},
		{"missing lowercase", "UPPERCASE123!", "Password must contain at least one lowercase letter"},
		{"missing number", "NoNumbersHere!", "Password must contain at least one number"},
		{"missing special", "NoSpecials1234", "Password must contain at least one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.errMsg, verr.Fields["password"])
		})
	}
}
