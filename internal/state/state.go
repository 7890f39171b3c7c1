package state

import (
	"sync"

	"github.com/osvaldn/indexer-gateway/internal/models"
	"github.com/osvaldn/indexer-gateway/internal/ratelimit"
)

// State is the shared view every in-flight request reads: the tenant
// directory, the tier catalog, the limiter table and the upstream health
// flag. Each substructure has its own lock and no operation ever holds two
// of them at once. The directory and catalog are replaced wholesale, never
// mutated in place, so a reader observes either a full old or a full new
// snapshot.
type State struct {
	consumersMu sync.RWMutex
	consumers   map[string]models.Consumer

	tiersMu sync.RWMutex
	tiers   map[string]models.Tier

	healthMu sync.RWMutex
	healthy  bool

	// Limiter synchronizes internally.
	Limiter *ratelimit.Engine
}

func New() *State {
	return &State{
		consumers: make(map[string]models.Consumer),
		tiers:     make(map[string]models.Tier),
		Limiter:   ratelimit.NewEngine(),
	}
}

// Consumer looks up the directory entry for a credential hash.
func (s *State) Consumer(keyHash string) (models.Consumer, bool) {
	s.consumersMu.RLock()
	defer s.consumersMu.RUnlock()

	c, ok := s.consumers[keyHash]
	return c, ok
}

// SetConsumers swaps the whole tenant directory.
func (s *State) SetConsumers(consumers map[string]models.Consumer) {
	s.consumersMu.Lock()
	defer s.consumersMu.Unlock()

	s.consumers = consumers
}

// ConsumerCount reports the current directory size.
func (s *State) ConsumerCount() int {
	s.consumersMu.RLock()
	defer s.consumersMu.RUnlock()

	return len(s.consumers)
}

// Tier looks up a tier in the current catalog.
func (s *State) Tier(name string) (models.Tier, bool) {
	s.tiersMu.RLock()
	defer s.tiersMu.RUnlock()

	t, ok := s.tiers[name]
	return t, ok
}

// Tiers returns the current catalog. The map is replaced on reload, never
// mutated, so callers may read the returned reference freely.
func (s *State) Tiers() map[string]models.Tier {
	s.tiersMu.RLock()
	defer s.tiersMu.RUnlock()

	return s.tiers
}

// SetTiers swaps the whole tier catalog.
func (s *State) SetTiers(tiers map[string]models.Tier) {
	s.tiersMu.Lock()
	defer s.tiersMu.Unlock()

	s.tiers = tiers
}

// Healthy reports the last upstream probe result.
func (s *State) Healthy() bool {
	s.healthMu.RLock()
	defer s.healthMu.RUnlock()

	return s.healthy
}

// SetHealthy records a probe result. The health monitor is the only writer.
func (s *State) SetHealthy(healthy bool) {
	s.healthMu.Lock()
	defer s.healthMu.Unlock()

	s.healthy = healthy
}
