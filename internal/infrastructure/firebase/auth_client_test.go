package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newStubAuthClient(server *httptest.Server) *FirebaseAuthClient {
	client := NewFirebaseAuthClient(nil, "test-key")
	client.signInURL = server.URL
	return client
}

func TestSignInWithEmailPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@mhhf.org", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"idToken":"id-token","localId":"uid-1","email":"admin@mhhf.org"}`))
	}))
	defer server.Close()

	token, uid, err := newStubAuthClient(server).SignInWithEmailPassword(context.Background(), "admin@mhhf.org", "secret")

	assert.NoError(t, err)
	assert.Equal(t, "id-token", token)
	assert.Equal(t, "uid-1", uid)
}

func TestSignInWithEmailPasswordRejected(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		code    string
	}{
		{"bare code", `{"error":{"message":"EMAIL_NOT_FOUND"}}`, "EMAIL_NOT_FOUND"},
		{"code with details", `{"error":{"message":"TOO_MANY_ATTEMPTS_TRY_LATER : Try again later."}}`, "TOO_MANY_ATTEMPTS_TRY_LATER"},
		{"no message", `{}`, "UNKNOWN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.payload))
			}))
			defer server.Close()

			_, _, err := newStubAuthClient(server).SignInWithEmailPassword(context.Background(), "admin@mhhf.org", "wrong")

			var signInErr *SignInError
			assert.ErrorAs(t, err, &signInErr)
			assert.Equal(t, tc.code, signInErr.Code)
		})
	}
}
