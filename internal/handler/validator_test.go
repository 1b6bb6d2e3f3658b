package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_RequestStructs(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name    string
		input   interface{}
		wantErr bool
	}{
		// Best case
		{"valid speed", SpeedRequest{Speed: "turbo"}, false},
		{"valid autoplay", AutoplayRequest{Count: 25}, false},
		{"endless autoplay", AutoplayRequest{Count: -1}, false},
		{"valid feature", BuyFeatureRequest{FeatureID: "bonus"}, false},

		// Boundary
		{"autoplay at max", AutoplayRequest{Count: 1000}, false},
		{"autoplay over max", AutoplayRequest{Count: 1001}, true},

		// Invalid
		{"unknown speed", SpeedRequest{Speed: "warp"}, true},
		{"missing feature", BuyFeatureRequest{}, true},
		{"zero autoplay", AutoplayRequest{}, true},
		{"zero bet level", BetRequest{Line: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, FormatValidationError(nil))
	})

	t.Run("non validation error", func(t *testing.T) {
		errs := FormatValidationError(errors.New("boom"))
		assert.Equal(t, "Invalid request format", errs["error"])
	})

	t.Run("field messages use lower case names", func(t *testing.T) {
		err := GetValidator().ValidateStruct(SpeedRequest{Speed: "warp"})
		require.Error(t, err)

		errs := FormatValidationError(err)
		assert.Equal(t, "Must be one of: normal fast turbo", errs["speed"])
	})

	t.Run("required and max", func(t *testing.T) {
		err := GetValidator().ValidateStruct(AutoplayRequest{})
		require.Error(t, err)
		assert.Equal(t, "This field is required", FormatValidationError(err)["count"])

		err = GetValidator().ValidateStruct(AutoplayRequest{Count: 5000})
		require.Error(t, err)
		assert.Equal(t, "Must be at most 1000", FormatValidationError(err)["count"])
	})
}
