package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func TestStructValid(t *testing.T) {
	require.NoError(t, Struct(signup{Email: "fan@example.com", Password: "hunter2hunter2"}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "short", Role: "root"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "password must be at least 8 characters long", verr.Fields["password"])
	assert.Equal(t, "role must be one of [user admin]", verr.Fields["role"])
	assert.Contains(t, err.Error(), "validation failed: ")
}
