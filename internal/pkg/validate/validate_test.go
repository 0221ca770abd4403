package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifyPayload struct {
	Email string `json:"user_email" validate:"required,email"`
	OTP   string `json:"input_otp" validate:"required,otp"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(&verifyPayload{Email: "not-an-email", OTP: "123456"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_email")
	assert.NotContains(t, err.Error(), "Email")
}

func TestOTPTag_AcceptsSixDigits(t *testing.T) {
	require.NoError(t, Struct(&verifyPayload{Email: "a@example.com", OTP: "100000"}))
}

func TestOTPTag_RejectsWrongShapes(t *testing.T) {
	for _, code := range []string{"12345", "1234567", "12a456", " 12345"} {
		err := Struct(&verifyPayload{Email: "a@example.com", OTP: code})
		require.Error(t, err, "code %q", code)
		assert.Contains(t, err.Error(), "input_otp")
	}
}
