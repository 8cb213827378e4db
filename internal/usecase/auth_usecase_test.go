package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"mhhf/internal/infrastructure/firebase"
	apperrors "mhhf/pkg/errors"
)

type fakeAuthClient struct {
	signInErr error

	verifyUID string
	verifyErr error

	revokeErr  error
	revokedUID string
}

func (c *fakeAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	if c.signInErr != nil {
		return "", "", c.signInErr
	}
	return "id-token", "uid-1", nil
}

func (c *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	if c.verifyErr != nil {
		return "", c.verifyErr
	}
	return c.verifyUID, nil
}

func (c *fakeAuthClient) GetUser(ctx context.Context, uid string) (string, string, error) {
	return "admin@mhhf.org", "MHHF Admin", nil
}

func (c *fakeAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	c.revokedUID = uid
	return c.revokeErr
}

func TestLogin(t *testing.T) {
	uc := NewAuthUseCase(&fakeAuthClient{})

	session, err := uc.Login(context.Background(), "admin@mhhf.org", "secret")

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", session.UID)
	assert.Equal(t, "admin@mhhf.org", session.Email)
	assert.Equal(t, "MHHF Admin", session.DisplayName)
	assert.Equal(t, "id-token", session.Token)
}

func TestLoginErrorMessages(t *testing.T) {
	cases := []struct {
		code    string
		appCode string
		message string
	}{
		{"EMAIL_NOT_FOUND", "UNAUTHORIZED", "No admin account found for that email."},
		{"INVALID_PASSWORD", "UNAUTHORIZED", "Incorrect email/password combination."},
		{"INVALID_LOGIN_CREDENTIALS", "UNAUTHORIZED", "Incorrect email/password combination."},
		{"TOO_MANY_ATTEMPTS_TRY_LATER", "TOO_MANY_REQUESTS", "Too many attempts. Please wait and try again."},
		{"USER_DISABLED", "UNAUTHORIZED", "Sign-in failed. Check your details and try again."},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			uc := NewAuthUseCase(&fakeAuthClient{
				signInErr: &firebase.SignInError{Code: tc.code},
			})

			_, err := uc.Login(context.Background(), "admin@mhhf.org", "wrong")

			assert.True(t, apperrors.Is(err, tc.appCode))
			appErr := err.(*apperrors.AppError)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestVerifySession(t *testing.T) {
	uc := NewAuthUseCase(&fakeAuthClient{verifyUID: "uid-1"})

	session, err := uc.VerifySession(context.Background(), "popup-token")

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", session.UID)
	assert.Equal(t, "admin@mhhf.org", session.Email)
	assert.Empty(t, session.Token)
}

func TestVerifySessionRejectsBadToken(t *testing.T) {
	uc := NewAuthUseCase(&fakeAuthClient{verifyErr: assert.AnError})

	_, err := uc.VerifySession(context.Background(), "stale-token")

	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}

func TestLogout(t *testing.T) {
	client := &fakeAuthClient{}
	uc := NewAuthUseCase(client)

	assert.NoError(t, uc.Logout(context.Background(), "uid-1"))
	assert.Equal(t, "uid-1", client.revokedUID)

	uc = NewAuthUseCase(&fakeAuthClient{revokeErr: assert.AnError})
	assert.Error(t, uc.Logout(context.Background(), "uid-1"))
}
