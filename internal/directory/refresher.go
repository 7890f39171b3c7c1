package directory

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/metrics"
	"github.com/osvaldn/indexer-gateway/internal/models"
	"github.com/osvaldn/indexer-gateway/internal/state"
	"github.com/osvaldn/indexer-gateway/internal/storage"
)

// TenantLister is the slice of the tenant repository the refresher needs.
type TenantLister interface {
	ListActive(ctx context.Context) ([]models.Tenant, error)
}

// Refresher keeps the tenant directory in sync with the control plane's
// tenant table. It polls on a fixed interval and additionally wakes up on
// the redis invalidation channel so freshly minted keys work right away.
// Every refresh builds a complete new map and swaps it in one piece.
type Refresher struct {
	repo     TenantLister
	redis    *storage.RedisClient
	state    *state.State
	metrics  *metrics.Metrics
	interval time.Duration
}

func NewRefresher(repo TenantLister, redis *storage.RedisClient, st *state.State, m *metrics.Metrics, interval time.Duration) *Refresher {
	return &Refresher{
		repo:     repo,
		redis:    redis,
		state:    st,
		metrics:  m,
		interval: interval,
	}
}

// Start performs an initial refresh and then runs the poll/wakeup loop
// until the context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		log.WithError(err).Error("initial tenant directory refresh failed")
		r.metrics.IncRefreshFailure("tenants")
	}

	sub := r.redis.SubscribeInvalidations(ctx)

	go func() {
		defer sub.Close()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
			case _, ok := <-sub.Channel():
				if !ok {
					// Subscription dropped; keep polling.
					continue
				}
			case <-ctx.Done():
				return
			}

			if err := r.Refresh(ctx); err != nil {
				log.WithError(err).Error("tenant directory refresh failed, keeping previous snapshot")
				r.metrics.IncRefreshFailure("tenants")
			}
		}
	}()
}

// Refresh rebuilds the directory from the active tenant rows.
func (r *Refresher) Refresh(ctx context.Context) error {
	tenants, err := r.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	consumers := make(map[string]models.Consumer, len(tenants))
	for _, t := range tenants {
		consumers[t.KeyHash] = t.Consumer()
	}

	r.state.SetConsumers(consumers)
	log.WithField("tenants", len(consumers)).Debug("tenant directory refreshed")

	return nil
}
