package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_IssueAndParse(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, issued, err := m.Issue(42, "Ada")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, issued.TokenID, got.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionManager_UniqueTokenIDs(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	_, a, err := m.Issue(1, "a")
	require.NoError(t, err)
	_, b, err := m.Issue(1, "a")
	require.NoError(t, err)
	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestSessionManager_Expired(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	start := time.Now()
	m.now = func() time.Time { return start }

	token, _, err := m.Issue(1, "a")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_WrongSecret(t *testing.T) {
	token, _, err := NewSessionManager("one", time.Hour).Issue(1, "a")
	require.NoError(t, err)

	_, err = NewSessionManager("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_RejectsNoneAlg(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionManager("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_RejectsBadSubject(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_Garbage(t *testing.T) {
	_, err := NewSessionManager("secret", time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
