package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shippingForm struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Country string `validate:"required"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(shippingForm{Name: "Ada", Email: "ada@example.com", Country: "NL"})
	assert.NoError(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(shippingForm{Name: "Ada"})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Len(t, fields, 2)
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "is required", fields["Country"])
	assert.NotContains(t, fields, "Name")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(shippingForm{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Error(), "field 'Name' is required")
}
