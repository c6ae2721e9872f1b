package validator_test

import (
	"kiosk/shared/failure"
	"kiosk/shared/validator"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type turnLike struct {
	SessionID    string   `json:"sessionId"    validate:"omitempty,max=8"`
	ExpectedType string   `json:"expectedType" validate:"omitempty,oneof=number date string"`
	Confidence   *float64 `json:"confidence"   validate:"required,gte=0,lte=1"`
	Speech       string   `json:"speech"       validate:"required"`
}

func confidence(v float64) *float64 {
	return &v
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    *turnLike
		message string
	}{
		{
			name: "valid",
			data: &turnLike{Speech: "Welcome", ExpectedType: "number", Confidence: confidence(0)},
		},
		{
			name:    "missing speech",
			data:    &turnLike{Confidence: confidence(0.5)},
			message: "speech is required",
		},
		{
			name:    "missing confidence",
			data:    &turnLike{Speech: "hi"},
			message: "confidence is required",
		},
		{
			name:    "confidence out of range",
			data:    &turnLike{Speech: "hi", Confidence: confidence(1.5)},
			message: "confidence must be less than or equal to 1",
		},
		{
			name:    "unknown expected type",
			data:    &turnLike{Speech: "hi", Confidence: confidence(1), ExpectedType: "boolean"},
			message: "expectedType must be one of [number date string]",
		},
		{
			name:    "session id too long",
			data:    &turnLike{Speech: "hi", Confidence: confidence(1), SessionID: "kiosk-lobby-1"},
			message: "sessionId must be at most 8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, failure.CodeValidation, failure.GetErrorCode(err))
		})
	}
}

func TestDecode(t *testing.T) {
	var data turnLike

	require.NoError(t, validator.Decode(strings.NewReader(`{"speech":"Hello","expectedType":"weird"}`), &data))
	assert.Equal(t, "weird", data.ExpectedType)

	err := validator.Decode(strings.NewReader(`{"speech":}`), &data)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
