package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subledger-inc/subledger/internal/shared/errors"
)

type validationFixture struct {
	Name    string `json:"name" validate:"required,min=1,max=10"`
	Cadence string `json:"cadence" validate:"omitempty,oneof=weekly monthly quarterly yearly"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(&validationFixture{Name: "acme", Cadence: "monthly", Date: "2024-01-31"})
	assert.NoError(t, err)
}

func TestValidateStruct_CollectsFieldMessages(t *testing.T) {
	err := ValidateStruct(&validationFixture{Cadence: "daily", Date: "31-01-2024"})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.True(t, errors.IsValidationError(err))
	assert.Len(t, appErr.Fields, 3)
	assert.Contains(t, appErr.Fields, "name is required")
	assert.Contains(t, appErr.Fields, "cadence must be one of [weekly monthly quarterly yearly]")
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&validationFixture{Name: "waytoolongname"})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Fields, "name must be at most 10 characters long")
}

func TestValidateCadence(t *testing.T) {
	assert.NoError(t, ValidateCadence("monthly"))
	assert.NoError(t, ValidateCadence("  Yearly  "))
	assert.Error(t, ValidateCadence("daily"))
	assert.Error(t, ValidateCadence(""))
}

func TestValidateStatus(t *testing.T) {
	assert.NoError(t, ValidateStatus("active"))
	assert.NoError(t, ValidateStatus("PAUSED"))
	assert.Error(t, ValidateStatus("expired"))
	assert.Error(t, ValidateStatus(""))
}
