package usecase

import (
	"context"
	"errors"

	"mhhf/internal/infrastructure/firebase"
	apperrors "mhhf/pkg/errors"
	"mhhf/pkg/logger"
)

type AuthUseCase struct {
	authClient AuthClient
}

func NewAuthUseCase(authClient AuthClient) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
	}
}

// Session is the signed-in identity handed back to the admin client.
type Session struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Token       string `json:"token,omitempty"`
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*Session, error) {
	token, uid, err := uc.authClient.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		return nil, mapSignInError(err)
	}

	userEmail, displayName, err := uc.authClient.GetUser(ctx, uid)
	if err != nil {
		logger.Warn("Signed in but failed to load profile for %s: %v", uid, err)
		userEmail = email
	}

	return &Session{
		UID:         uid,
		Email:       userEmail,
		DisplayName: displayName,
		Token:       token,
	}, nil
}

// VerifySession validates a token minted client-side, typically by a
// federated sign-in popup, and returns the identity behind it.
func (uc *AuthUseCase) VerifySession(ctx context.Context, idToken string) (*Session, error) {
	uid, err := uc.authClient.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired session", err)
	}

	email, displayName, err := uc.authClient.GetUser(ctx, uid)
	if err != nil {
		logger.Warn("Failed to load profile for %s: %v", uid, err)
	}

	return &Session{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, uid string) error {
	if err := uc.authClient.RevokeSessions(ctx, uid); err != nil {
		return apperrors.Internal("Log out failed. Please try again.", err)
	}
	return nil
}

func mapSignInError(err error) error {
	var signInErr *firebase.SignInError
	if errors.As(err, &signInErr) {
		switch signInErr.Code {
		case "EMAIL_NOT_FOUND":
			return apperrors.Unauthorized("No admin account found for that email.", err)
		case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
			return apperrors.Unauthorized("Incorrect email/password combination.", err)
		case "TOO_MANY_ATTEMPTS_TRY_LATER":
			return apperrors.TooManyRequests("Too many attempts. Please wait and try again.")
		}
		return apperrors.Unauthorized("Sign-in failed. Check your details and try again.", err)
	}
	return apperrors.Internal("Sign-in failed. Check your details and try again.", err)
}
