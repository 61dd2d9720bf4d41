package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tok, err := m.Generate(4, "CARD0004", "PATRON")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(4), claims.PatronID)
	assert.Equal(t, "CARD0004", claims.CardNo)
	assert.Equal(t, "PATRON", claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", time.Hour).Generate(4, "CARD0004", "PATRON")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	tok, err := m.Generate(4, "CARD0004", "PATRON")
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
