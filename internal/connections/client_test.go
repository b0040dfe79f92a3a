package connections

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConnections(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/interactions/me/connections/all" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"` + id.String() + `","username":"friend","firstName":"F","lastName":"R"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.ListConnections(context.Background(), "test-token")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "friend", got[0].Username)
}

func TestListConnectionsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	got, err := NewClient(server.URL).ListConnections(context.Background(), "token")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListConnectionsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListConnections(context.Background(), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestListConnectionsUnreachable(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").ListConnections(context.Background(), "token")
	assert.Error(t, err)
}
