package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	FullName string `json:"full_name" validate:"required,max=10"`
	Email    string `json:"email" validate:"required,email"`
	CallType string `json:"call_type" validate:"oneof=ngo cic"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(sampleForm{FullName: "Ada", Email: "ada@example.com", CallType: "ngo"})
	assert.NoError(t, err)

	err = ValidateStruct(sampleForm{Email: "not-an-email", CallType: "other"})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "this field is required", ve.Fields["full_name"])
	assert.Equal(t, "enter a valid email address", ve.Fields["email"])
	assert.Contains(t, ve.Fields["call_type"], "ngo cic")
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.com"))
	assert.False(t, IsEmail(""))
	assert.False(t, IsEmail("nope"))
}
