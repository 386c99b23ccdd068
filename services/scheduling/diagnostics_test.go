package scheduling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL + "/", APIKey: "key-123", Timeout: 5 * time.Second}, zap.NewNop())
}

func TestDiscoverInstances_FallsBackToExistingJobs(t *testing.T) {
	up := newFakeUpstream().on("/jobs/v1/jobs", reply{
		status:      http.StatusOK,
		contentType: "application/json",
		body:        `{"data":{"jobs":[{"instanceIds":[7,9]},{"instanceIds":[9]},{"instanceIds":[9,3]}]}}`,
	})
	c := newTestClient(t, up)

	got, err := c.DiscoverInstances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "existing jobs", got.Source)
	assert.Len(t, got.Tried, 5)
	assert.Equal(t, []InstanceCount{{ID: 9, Count: 3}, {ID: 3, Count: 1}, {ID: 7, Count: 1}}, got.Instances)
}

func TestDiscoverInstances_ListingEndpoint(t *testing.T) {
	up := newFakeUpstream().on("/instances", reply{
		status:      http.StatusOK,
		contentType: "application/json",
		body:        `{"data":[{"id":11},{"id":12}]}`,
	})
	c := newTestClient(t, up)

	got, err := c.DiscoverInstances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/instances", got.Source)
	assert.Equal(t, []InstanceCount{{ID: 11}, {ID: 12}}, got.Instances)
	assert.Equal(t, 0, up.count("/v1/instances"))
}

func TestCheckAuthMethods(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") == "key-123" || r.URL.Query().Get("api_key") == "key-123" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))

	results := c.CheckAuthMethods(context.Background())
	require.Len(t, results, 5)
	ok := map[string]bool{}
	for _, r := range results {
		ok[r.Name] = r.OK
	}
	assert.Equal(t, map[string]bool{
		"bearer":             false,
		"x-api-key":          true,
		"api-key":            false,
		"connecteam-api-key": false,
		"query-api-key":      true,
	}, ok)
}

func TestListJobs(t *testing.T) {
	up := newFakeUpstream().on("/jobs/v1/jobs", reply{
		status:      http.StatusOK,
		contentType: "application/json",
		body:        `{"data":{"jobs":[{"title":"A","jobId":"1"},{"title":"B"}]}}`,
	})
	c := newTestClient(t, up)

	listing, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, listing.JobCount)
	assert.Equal(t, []string{"jobId", "title"}, listing.Fields)

	probes := c.ProbeEndpoints(context.Background())
	require.Len(t, probes, 4)
	assert.False(t, probes[0].OK)
	assert.True(t, probes[2].OK)
}
