package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestGitHubProfilePublicEmail(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(`{"id":7,"login":"rubie","name":"","email":"rubie@example.com","avatar_url":"https://avatars/7"}`))
	defer srv.Close()

	p, err := githubProfile(context.Background(), srv.Client(), srv.URL, srv.URL+"/unused")
	require.NoError(t, err)
	assert.Equal(t, "7", p.ProviderAccountID)
	assert.Equal(t, "rubie", p.Name, "login is used when the display name is empty")
	assert.Equal(t, "rubie@example.com", p.Email)
	assert.Equal(t, "https://avatars/7", p.Image)
}

func TestGitHubProfilePrivateEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", jsonHandler(`{"id":7,"login":"rubie","name":"Rubie","email":null}`))
	mux.HandleFunc("/user/emails", jsonHandler(`[
		{"email":"old@example.com","primary":false,"verified":true},
		{"email":"unverified@example.com","primary":true,"verified":false},
		{"email":"main@example.com","primary":true,"verified":true}
	]`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := githubProfile(context.Background(), srv.Client(), srv.URL+"/user", srv.URL+"/user/emails")
	require.NoError(t, err)
	assert.Equal(t, "main@example.com", p.Email)
	assert.Equal(t, "Rubie", p.Name)
}

func TestGitHubProfileWithoutVerifiedEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", jsonHandler(`{"id":7,"login":"rubie"}`))
	mux.HandleFunc("/user/emails", jsonHandler(`[{"email":"x@example.com","primary":true,"verified":false}]`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := githubProfile(context.Background(), srv.Client(), srv.URL+"/user", srv.URL+"/user/emails")
	assert.Error(t, err)
}

func TestGoogleProfileRequiresVerifiedEmail(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(`{"sub":"1","email":"x@gmail.com","email_verified":false}`))
	defer srv.Close()

	_, err := googleProfile(context.Background(), srv.Client(), srv.URL)
	assert.Error(t, err)
}

func TestGetJSONStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var dst map[string]any
	err := getJSON(context.Background(), srv.Client(), srv.URL, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
