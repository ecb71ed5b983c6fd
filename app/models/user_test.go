package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("jane", "jane@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, ROLE_USER, user.Role)
	assert.Equal(t, STATUS_INACTIVE, user.Status)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "jane@example.com", "secret123")
	assert.Error(t, err, "too short name must fail validation")

	_, err = CreateUser("jane", "not-an-email", "secret123")
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("newpass1"))

	assert.True(t, user.CheckPassword("newpass1"))
	assert.False(t, user.CheckPassword("oldpass"))
}

func TestGenerateActivationToken(t *testing.T) {
	user := &User{}
	require.NoError(t, user.GenerateActivationToken())

	assert.Len(t, user.ActivationToken, 32)
	assert.NotNil(t, user.ActivationSentAt)
}
