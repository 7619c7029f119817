package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_FirstSignInCreatesAccount(t *testing.T) {
	users := newMemoryUserRepo()
	auth := NewAuthService(users, "test-secret", time.Hour)

	token, user, err := auth.SignIn(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	username, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, _, err = auth.SignIn(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.Len(t, users.users, 1)
}

func TestAuth_WrongPassword(t *testing.T) {
	auth := NewAuthService(newMemoryUserRepo(), "test-secret", time.Hour)

	_, _, err := auth.SignIn(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	_, _, err = auth.SignIn(context.Background(), "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_ParseTokenRejects(t *testing.T) {
	users := newMemoryUserRepo()
	auth := NewAuthService(users, "test-secret", time.Hour)
	other := NewAuthService(users, "other-secret", time.Hour)

	token, _, err := other.SignIn(context.Background(), "bob", "password123")
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ParseToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_ExpiredToken(t *testing.T) {
	svc := NewAuthService(newMemoryUserRepo(), "test-secret", time.Minute).(*authService)
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.SignIn(context.Background(), "carol", "password123")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
