package validators

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Date  string `binding:"required,ymd"`
	Start string `binding:"required,clock"`
}

func TestRegisterTags(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())

	assert.NoError(t, binding.Validator.ValidateStruct(slotRequest{Date: "2099-01-01", Start: "9:00 AM"}))
	assert.NoError(t, binding.Validator.ValidateStruct(slotRequest{Date: "2099-01-01", Start: "21:30"}))
	assert.Error(t, binding.Validator.ValidateStruct(slotRequest{Date: "01/01/2099", Start: "21:30"}))
	assert.Error(t, binding.Validator.ValidateStruct(slotRequest{Date: "2099-01-01", Start: "25:00"}))
}

type signupRequest struct {
	Email string `binding:"required,trimmed_email"`
}

func TestTrimmedEmailTag(t *testing.T) {
	require.NoError(t, Register())

	assert.NoError(t, binding.Validator.ValidateStruct(signupRequest{Email: " Ana@Clinic.Example "}))
	assert.NoError(t, binding.Validator.ValidateStruct(signupRequest{Email: "ana@clinic.example"}))
	assert.Error(t, binding.Validator.ValidateStruct(signupRequest{Email: "ana at clinic"}))
	assert.Error(t, binding.Validator.ValidateStruct(signupRequest{Email: "   "}))
}
