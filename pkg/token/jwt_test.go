package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	signed, err := m.Issue(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	signed, err := NewManager("secret-a", time.Hour).Issue(1, "alice")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	signed, err := NewManager("secret", -time.Minute).Issue(1, "alice")
	require.NoError(t, err)

	_, err = NewManager("secret", -time.Minute).Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
