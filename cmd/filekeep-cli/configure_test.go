package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sagarc03/filekeep/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// filesServer answers GET /files with an empty list for want and 401 for anything else.
func filesServer(t *testing.T, want string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer "+want {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"Missing or invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestConfigureSet_ChecksTokenAndSaves(t *testing.T) {
	resetFlags(t)
	quiet = true

	tok := signedToken(t, "alice", time.Now().Add(time.Hour))
	server := filesServer(t, tok)

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	endpoint = server.URL + "/"
	token = tok

	configureSetCmd.SetContext(context.Background())
	require.NoError(t, runConfigureSet(configureSetCmd, []string{"work"}))

	saved, err := clientcli.LoadProfiles(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "work", saved.Current)
	assert.Equal(t, clientcli.Profile{Endpoint: server.URL, Token: tok}, saved.Entries["work"])
}

func TestConfigureSet_RejectsBearerPrefix(t *testing.T) {
	resetFlags(t)

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	endpoint = "http://localhost:5708"
	token = "Bearer abc.def.ghi"

	err := runConfigureSet(configureSetCmd, []string{"work"})
	assert.ErrorContains(t, err, "Bearer")
	assert.NoFileExists(t, cfgFile)
}

func TestCheckToken(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		resetFlags(t)
		quiet = true

		tok := signedToken(t, "alice", time.Now().Add(time.Hour))
		server := filesServer(t, tok)

		assert.NoError(t, checkToken(context.Background(), &clientcli.Config{Endpoint: server.URL, Token: tok}))
	})

	t.Run("rejected by server", func(t *testing.T) {
		resetFlags(t)

		server := filesServer(t, "other")
		tok := signedToken(t, "alice", time.Now().Add(time.Hour))

		err := checkToken(context.Background(), &clientcli.Config{Endpoint: server.URL, Token: tok})
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})

	t.Run("expired token is not sent", func(t *testing.T) {
		resetFlags(t)

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("server should not be called")
		}))
		t.Cleanup(server.Close)

		tok := signedToken(t, "alice", time.Now().Add(-time.Minute))
		err := checkToken(context.Background(), &clientcli.Config{Endpoint: server.URL, Token: tok})
		assert.ErrorIs(t, err, clientcli.ErrTokenExpired)
	})
}

func TestConfigureUseAndRemove(t *testing.T) {
	resetFlags(t)
	cfgFile = writeProfiles(t)

	require.NoError(t, runConfigureUse(nil, []string{"prod"}))
	saved, err := clientcli.LoadProfiles(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "prod", saved.Current)

	require.NoError(t, runConfigureRemove(nil, []string{"prod"}))
	saved, err = clientcli.LoadProfiles(cfgFile)
	require.NoError(t, err)
	assert.Empty(t, saved.Current)
	assert.Equal(t, []string{"local"}, saved.Names())

	assert.ErrorIs(t, runConfigureUse(nil, []string{"prod"}), clientcli.ErrProfileNotFound)
}
