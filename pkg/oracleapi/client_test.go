package oracleapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestRandomness(t *testing.T) {
	var reference string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/requests", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-API-Key"))

		var body requestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		reference = body.Reference

		w.WriteHeader(http.StatusAccepted)
		//nolint:errcheck
		w.Write([]byte(`{"requestId":"req-42"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "oracle")
	require.Equal(t, "oracle", client.Address().String())

	id, err := client.RequestRandomness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "req-42", id)
	require.NotEmpty(t, reference)
}

func TestRequestRandomnessFailures(t *testing.T) {
	fixtures := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"down"}`},
		{"empty id", http.StatusOK, `{}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(f.status)
				//nolint:errcheck
				w.Write([]byte(f.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "secret", "oracle").RequestRandomness(context.Background())
			require.Error(t, err)
		})
	}
}
