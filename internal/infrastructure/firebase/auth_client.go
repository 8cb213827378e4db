package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
)

type FirebaseAuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
	signInURL  string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		signInURL:  "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword",
	}
}

// SignInError carries the Identity Toolkit error code (EMAIL_NOT_FOUND,
// INVALID_PASSWORD, TOO_MANY_ATTEMPTS_TRY_LATER, ...) so callers can map
// it to a user-facing message.
type SignInError struct {
	Code string
}

func (e *SignInError) Error() string {
	return fmt.Sprintf("sign-in rejected: %s", e.Code)
}

type signInResponse struct {
	IDToken string `json:"idToken"`
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithEmailPassword exchanges credentials for an ID token via the
// Identity Toolkit REST API.
func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", "", err
	}

	url := fmt.Sprintf("%s?key=%s", f.signInURL, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var result signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", err
	}

	if resp.StatusCode != http.StatusOK {
		code := "UNKNOWN"
		if result.Error != nil && result.Error.Message != "" {
			// Messages arrive as CODE or "CODE : details".
			code = strings.TrimSpace(strings.SplitN(result.Error.Message, ":", 2)[0])
		}
		return "", "", &SignInError{Code: code}
	}

	return result.IDToken, result.LocalID, nil
}

// VerifyToken validates an ID token (email/password or federated popup
// sign-in alike) and returns the subject UID.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return result.UID, nil
}

// GetUser fetches the identity behind a UID for display purposes.
func (f *FirebaseAuthClient) GetUser(ctx context.Context, uid string) (email, displayName string, err error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return "", "", err
	}
	return user.Email, user.DisplayName, nil
}

// RevokeSessions invalidates every refresh token for the user, moving
// the account to a signed-out state everywhere.
func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

// TestConnection exercises the Auth backend for health reporting.
func (f *FirebaseAuthClient) TestConnection(ctx context.Context) error {
	_, err := f.client.GetUserByEmail(ctx, "healthcheck@invalid.local")
	if err != nil && !auth.IsUserNotFound(err) {
		return err
	}
	return nil
}
