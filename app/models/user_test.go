package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("Awa", "Diop", "awa@example.com", "+221771234567", GENDER_FEMALE, "secret123")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, user.Role)
	assert.Equal(t, STATUS_PENDING, user.Status)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.True(t, user.IsFemale())
	assert.False(t, user.IsActive())
	assert.Equal(t, "Awa Diop", user.DisplayName())
}

func TestCreateUserValidation(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		gender   string
		password string
	}{
		{"bad email", "not-an-email", GENDER_MALE, "secret123"},
		{"bad gender", "ok@example.com", "other", "secret123"},
		{"short password", "ok@example.com", GENDER_MALE, "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateUser("Awa", "Diop", tc.email, "", tc.gender, tc.password)
			assert.Error(t, err)
		})
	}
}

func TestGenerateActivationToken(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GenerateActivationToken())

	assert.Len(t, u.ActivationToken, 32)
	assert.NotNil(t, u.ActivationSentAt)

	first := u.ActivationToken
	require.NoError(t, u.GenerateActivationToken())
	assert.NotEqual(t, first, u.ActivationToken)
}

func TestSetPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("newsecret"))
	assert.True(t, u.CheckPassword("newsecret"))
}
