package observability

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("activities-test", reg)
	require.NoError(t, err)
	defer func() { _ = obs.Shutdown(context.Background()) }()

	obs.RecordRequest(context.Background(), http.MethodGet, "/activities", http.StatusOK, 3*time.Millisecond)
	obs.RecordRequest(context.Background(), http.MethodPost, "/activities/:activity_name/signup", http.StatusBadRequest, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, names, "http_server_requests_total")
	assert.Contains(t, names, "http_server_duration_milliseconds")
	assert.NotContains(t, joined, "http.server")
}

func TestNilObservabilityIsSafe(t *testing.T) {
	var obs *Observability
	obs.RecordRequest(context.Background(), http.MethodGet, "/", http.StatusOK, time.Millisecond)
	assert.NoError(t, obs.Shutdown(context.Background()))
}
