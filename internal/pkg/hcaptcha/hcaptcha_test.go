package hcaptcha

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVerifyServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	old := verifyURL
	verifyURL = srv.URL
	t.Cleanup(func() { verifyURL = old })
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	t.Setenv("HCAPTCHA_SECRET_KEY", "test-secret")
	withVerifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.FormValue("secret"))
		assert.Equal(t, "tok-1", r.FormValue("response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"hostname":"pairmatch.example"}`))
	})

	ok, err := Verify("tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectedTokenIsNotAnError(t *testing.T) {
	t.Setenv("HCAPTCHA_SECRET_KEY", "test-secret")
	withVerifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	})

	ok, err := Verify("tok-bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyEmptyToken(t *testing.T) {
	t.Setenv("HCAPTCHA_SECRET_KEY", "test-secret")

	ok, err := Verify("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnreachableAPI(t *testing.T) {
	t.Setenv("HCAPTCHA_SECRET_KEY", "test-secret")
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	old := verifyURL
	verifyURL = srv.URL
	t.Cleanup(func() { verifyURL = old })

	_, err := Verify("tok-1")
	assert.Error(t, err)
}

func TestEnabled(t *testing.T) {
	t.Setenv("HCAPTCHA_SECRET_KEY", "")
	assert.False(t, Enabled())

	t.Setenv("HCAPTCHA_SECRET_KEY", "test-secret")
	assert.True(t, Enabled())
}
