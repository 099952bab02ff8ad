package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/backoffice/internal/adminclient"
)

func TestForwardToken(t *testing.T) {
	var got string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer api.Close()

	client, err := adminclient.New(api.URL, time.Second, adminclient.StaticToken("service-token"), testLogger())
	require.NoError(t, err)
	plans := adminclient.Plans(client)

	page := ForwardToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := plans.List(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"токен оператора", "Bearer operator-token", "Bearer operator-token"},
		{"без заголовка", "", "Bearer service-token"},
		{"не bearer", "Basic dXNlcjpwYXNz", "Bearer service-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/plans", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			page.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
