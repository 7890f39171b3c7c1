package healthcheck

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/metrics"
	"github.com/osvaldn/indexer-gateway/internal/state"
)

// Monitor probes the backend on a fixed interval and publishes the result
// into the shared health flag. It is the flag's only writer; the health
// endpoint short-circuit is the reader. No debounce: the last probe wins.
type Monitor struct {
	url      string
	interval time.Duration
	client   *http.Client
	state    *state.State
	metrics  *metrics.Metrics
}

func NewMonitor(url string, interval time.Duration, st *state.State, m *metrics.Metrics) *Monitor {
	return &Monitor{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
		state:    st,
		metrics:  m,
	}
}

// Start probes once immediately, then on every tick until the context is
// cancelled.
func (m *Monitor) Start(ctx context.Context) {
	m.Check(ctx)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Check(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Check runs one probe and records the result.
func (m *Monitor) Check(ctx context.Context) {
	healthy := m.probe(ctx)

	was := m.state.Healthy()
	m.state.SetHealthy(healthy)

	if healthy != was {
		log.WithFields(log.Fields{
			"url":     m.url,
			"healthy": healthy,
		}).Info("upstream health changed")
	}
	if !healthy {
		m.metrics.IncRefreshFailure("probe")
	}
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	// 2xx and 3xx both count as alive
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
