package usecase

import "context"

type AuthClient interface {
	SignInWithEmailPassword(ctx context.Context, email, password string) (token string, uid string, err error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, uid string) (email, displayName string, err error)
	RevokeSessions(ctx context.Context, uid string) error
}
