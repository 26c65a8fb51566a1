package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_ProviderApproves(t *testing.T) {
	var gotSecret, gotResponse string
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	v := NewTurnstile("provider-secret")
	v.Endpoint = srv.URL

	require.True(t, v.Verify(context.Background(), "client-token"))
	require.Equal(t, "provider-secret", gotSecret)
	require.Equal(t, "client-token", gotResponse)
}

func TestVerify_ProviderRejects(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	})

	v := NewTurnstile("provider-secret")
	v.Endpoint = srv.URL

	require.False(t, v.Verify(context.Background(), "bad-token"))
}

func TestVerify_EmptyTokenShortCircuits(t *testing.T) {
	called := false
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	v := NewTurnstile("provider-secret")
	v.Endpoint = srv.URL

	require.False(t, v.Verify(context.Background(), ""))
	require.False(t, called, "provider must not be contacted for an empty token")
}

func TestVerify_ProviderErrorResolvesFalse(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	v := NewTurnstile("provider-secret")
	v.Endpoint = srv.URL

	require.False(t, v.Verify(context.Background(), "token"))
}

func TestVerify_ProviderUnreachableResolvesFalse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v := NewTurnstile("provider-secret")
	v.Endpoint = url

	require.False(t, v.Verify(context.Background(), "token"))
}

func TestVerify_MalformedBodyResolvesFalse(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	v := NewTurnstile("provider-secret")
	v.Endpoint = srv.URL

	require.False(t, v.Verify(context.Background(), "token"))
}
