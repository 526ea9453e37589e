package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-cloudlet-service/config"
)

func TestInitAuthorizationService_OptionalWithoutURL(t *testing.T) {
	cfg := &config.EnvConfig{}
	assert.Nil(t, InitAuthorizationService(cfg))
}

func TestCheckAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/authorization/token/validate", r.URL.Path)
		assert.Equal(t, "pk", r.Header.Get("Private-Key"))
		if r.URL.Query().Get("token") == "good" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("revoked"))
	}))
	defer srv.Close()

	svc := NewAuthorizationService(srv.URL, "pk")

	require.NoError(t, svc.CheckAccessToken(context.Background(), "good"))

	err := svc.CheckAccessToken(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}
