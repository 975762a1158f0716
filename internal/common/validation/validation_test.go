package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProfileID(t *testing.T) {
	assert.NoError(t, ValidateProfileID("usr_8f14e45f"))
	assert.NoError(t, ValidateProfileID("550e8400-e29b-41d4-a716-446655440000"))

	assert.Error(t, ValidateProfileID(""))
	assert.Error(t, ValidateProfileID("has spaces"))
	assert.Error(t, ValidateProfileID("semi;colon"))
	assert.Error(t, ValidateProfileID(strings.Repeat("a", MaxProfileIDLen+1)))
}

func TestValidateEventID(t *testing.T) {
	assert.NoError(t, ValidateEventID("evt_1"))

	assert.Error(t, ValidateEventID(""))
	assert.Error(t, ValidateEventID(strings.Repeat("e", MaxEventIDLength+1)))
}

func TestValidateCoinAmount(t *testing.T) {
	assert.NoError(t, ValidateCoinAmount(1))
	assert.NoError(t, ValidateCoinAmount(MaxCoinsPerEvent))

	assert.Error(t, ValidateCoinAmount(0))
	assert.Error(t, ValidateCoinAmount(-25))
	assert.Error(t, ValidateCoinAmount(MaxCoinsPerEvent+1))
}

func TestValidateReason(t *testing.T) {
	assert.NoError(t, ValidateReason("chapter unlock"))

	assert.Error(t, ValidateReason(""))
	assert.Error(t, ValidateReason("   "))
	assert.Error(t, ValidateReason(strings.Repeat("r", MaxReasonLength+1)))
}
