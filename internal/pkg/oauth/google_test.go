package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestEnabled(t *testing.T) {
	assert.False(t, NewGoogleService("", "", "", nil).Enabled())
	assert.True(t, NewGoogleService("id", "secret", "http://localhost/cb", []string{"email"}).Enabled())
}

func TestGenerateStateIsRandom(t *testing.T) {
	svc := NewGoogleService("id", "secret", "http://localhost/cb", nil)
	a, err := svc.GenerateState()
	require.NoError(t, err)
	b, err := svc.GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Contains(t, svc.RedirectURL(a), "state=")
}

func TestVerifyUser(t *testing.T) {
	verified := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if verified {
			w.Write([]byte(`{"id":"g-1","email":"staff@example.com","verified_email":true}`))
			return
		}
		w.Write([]byte(`{"id":"g-1","email":"staff@example.com","verified_email":false}`))
	}))
	defer server.Close()

	svc := &GoogleServiceImpl{config: &oauth2.Config{}, userInfoURL: server.URL}
	token := &oauth2.Token{AccessToken: "token"}

	info, err := svc.VerifyUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.GoogleID)
	assert.Equal(t, "staff@example.com", info.Email)

	verified = false
	_, err = svc.VerifyUser(context.Background(), token)
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}
