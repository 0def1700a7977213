package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmdata-io/fmdata-client/internal/auth"
	fmhttp "github.com/fmdata-io/fmdata-client/internal/http"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

func newSessionServer(t *testing.T, loginStatus int, loginBody string) (*httptest.Server, *[]string) {
	t.Helper()

	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)

		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost:
			assert.Contains(t, r.Header.Get("Authorization"), "Basic ")
			w.WriteHeader(loginStatus)
			_, _ = w.Write([]byte(loginBody))
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"response":{},"messages":[{"code":"0","message":"OK"}]}`))
		}
	}))
	t.Cleanup(server.Close)

	return server, &requests
}

func TestSessionLogin(t *testing.T) {
	server, _ := newSessionServer(t, http.StatusOK,
		`{"response":{"token":"abc123"},"messages":[{"code":"0","message":"OK"}]}`)

	transport := fmhttp.NewClient(server.URL, nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	assert.Equal(t, auth.StateNoToken, session.State())

	require.NoError(t, session.Login(context.Background()))
	assert.Equal(t, auth.StateValid, session.State())

	token, err := session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestSessionLoginInvalidCredentials(t *testing.T) {
	server, _ := newSessionServer(t, http.StatusUnauthorized,
		`{"messages":[{"code":"212","message":"Invalid user account and/or password"}],"response":{}}`)

	transport := fmhttp.NewClient(server.URL, nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "wrong")

	err := session.Login(context.Background())
	require.Error(t, err)
	assert.True(t, fmdata.IsAuthFailed(err))
	assert.Equal(t, auth.StateNoToken, session.State())
}

func TestSessionLoginDiscardsPreviousToken(t *testing.T) {
	server, requests := newSessionServer(t, http.StatusOK,
		`{"response":{"token":"abc123"},"messages":[{"code":"0","message":"OK"}]}`)

	transport := fmhttp.NewClient(server.URL, nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	require.NoError(t, session.Login(context.Background()))
	require.NoError(t, session.Login(context.Background()))

	// Re-login acquires a fresh token; no logout call is made for the old one.
	assert.Len(t, *requests, 2)
	assert.Equal(t, auth.StateValid, session.State())
}

func TestSessionTokenWithoutLogin(t *testing.T) {
	transport := fmhttp.NewClient("http://unused.invalid", nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	_, err := session.Token(context.Background())
	require.ErrorIs(t, err, fmdata.ErrNotAuthenticated)
}

func TestSessionLogout(t *testing.T) {
	server, requests := newSessionServer(t, http.StatusOK,
		`{"response":{"token":"abc123"},"messages":[{"code":"0","message":"OK"}]}`)

	transport := fmhttp.NewClient(server.URL, nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	require.NoError(t, session.Login(context.Background()))
	require.NoError(t, session.Logout(context.Background()))

	assert.Equal(t, auth.StateNoToken, session.State())
	assert.Contains(t, (*requests)[1], "DELETE ")
	assert.Contains(t, (*requests)[1], "/sessions/abc123")

	_, err := session.Token(context.Background())
	require.ErrorIs(t, err, fmdata.ErrNotAuthenticated)
}

func TestSessionLogoutRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"response":{"token":"abc123"},"messages":[{"code":"0","message":"OK"}]}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"response":{},"messages":[{"code":"952","message":"Invalid FileMaker Data API token"}]}`))
		}
	}))
	t.Cleanup(server.Close)

	transport := fmhttp.NewClient(server.URL, nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	require.NoError(t, session.Login(context.Background()))

	// The remote error surfaces, but the token is gone locally anyway.
	err := session.Logout(context.Background())
	require.Error(t, err)
	assert.True(t, fmdata.IsTokenExpired(err))
	assert.Equal(t, auth.StateNoToken, session.State())

	_, err = session.Token(context.Background())
	require.ErrorIs(t, err, fmdata.ErrNotAuthenticated)
}

func TestSessionLogoutTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":{"token":"abc123"},"messages":[{"code":"0","message":"OK"}]}`))
	}))

	transport := fmhttp.NewClient(server.URL, nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	require.NoError(t, session.Login(context.Background()))

	// Server gone: the DELETE fails on the wire, the local state does not.
	server.Close()

	err := session.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, auth.StateNoToken, session.State())

	_, err = session.Token(context.Background())
	require.ErrorIs(t, err, fmdata.ErrNotAuthenticated)
}

func TestSessionLogoutWithoutSession(t *testing.T) {
	transport := fmhttp.NewClient("http://unused.invalid", nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	err := session.Logout(context.Background())
	require.ErrorIs(t, err, fmdata.ErrNotAuthenticated)
}

func TestSessionInvalidate(t *testing.T) {
	server, _ := newSessionServer(t, http.StatusOK,
		`{"response":{"token":"abc123"},"messages":[{"code":"0","message":"OK"}]}`)

	transport := fmhttp.NewClient(server.URL, nil)
	session := auth.NewSessionManager(transport, "sales", "admin", "secret")

	require.NoError(t, session.Login(context.Background()))

	session.Invalidate()
	assert.Equal(t, auth.StateNoToken, session.State())

	_, err := session.Token(context.Background())
	require.ErrorIs(t, err, fmdata.ErrNotAuthenticated)
}
