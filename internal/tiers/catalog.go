package tiers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/metrics"
	"github.com/osvaldn/indexer-gateway/internal/models"
	"github.com/osvaldn/indexer-gateway/internal/state"
)

// Load reads the tier catalog file: a JSON array of
// {"name": ..., "rules": [{"interval": "60s", "limit": 2}, ...]}.
func Load(path string) (map[string]models.Tier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tiers file: %w", err)
	}

	var list []models.Tier
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse tiers file: %w", err)
	}

	catalog := make(map[string]models.Tier, len(list))
	for _, t := range list {
		catalog[t.Name] = t
	}

	return catalog, nil
}

// Reloader polls the tier file and swaps the catalog on every successful
// read. A failed read keeps the last-known-good catalog.
type Reloader struct {
	path     string
	interval time.Duration
	state    *state.State
	metrics  *metrics.Metrics
}

func NewReloader(path string, interval time.Duration, st *state.State, m *metrics.Metrics) *Reloader {
	return &Reloader{
		path:     path,
		interval: interval,
		state:    st,
		metrics:  m,
	}
}

// Start runs the poll loop until the context is cancelled. The initial
// load happens immediately so the proxy does not serve unlimited traffic
// for a full poll interval on boot.
func (r *Reloader) Start(ctx context.Context) {
	r.reload()

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.reload()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *Reloader) reload() {
	catalog, err := Load(r.path)
	if err != nil {
		log.WithError(err).WithField("path", r.path).Error("tier reload failed, keeping previous catalog")
		r.metrics.IncRefreshFailure("tiers")
		return
	}

	r.state.SetTiers(catalog)
}
