package healthcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osvaldn/indexer-gateway/internal/metrics"
	"github.com/osvaldn/indexer-gateway/internal/state"
)

func TestCheckTracksProbeResult(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer backend.Close()

	st := state.New()
	m := NewMonitor(backend.URL+"/health", time.Second, st, metrics.New())

	m.Check(context.Background())
	assert.True(t, st.Healthy())

	status.Store(http.StatusInternalServerError)
	m.Check(context.Background())
	assert.False(t, st.Healthy())

	// Last probe wins, no hysteresis.
	status.Store(http.StatusOK)
	m.Check(context.Background())
	assert.True(t, st.Healthy())
}

func TestCheckUnreachableBackend(t *testing.T) {
	st := state.New()
	st.SetHealthy(true)

	m := NewMonitor("http://127.0.0.1:1/health", time.Second, st, metrics.New())
	m.Check(context.Background())

	assert.False(t, st.Healthy())
}
