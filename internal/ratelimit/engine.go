package ratelimit

import (
	"sync"

	"github.com/osvaldn/indexer-gateway/internal/models"
)

// Engine owns the per-consumer counter table. Counters are created lazily
// on a consumer's first request and live for the rest of the process;
// consumer cardinality is bounded by provisioned tenants, so the table
// only grows within that bound.
type Engine struct {
	mu       sync.RWMutex
	counters map[string]map[models.RateRule]*Counter
}

func NewEngine() *Engine {
	return &Engine{
		counters: make(map[string]map[models.RateRule]*Counter),
	}
}

// Exceeded records one event on every rule's counter for the consumer and
// reports whether any rule is over its limit. Every counter is incremented
// even after one rule has already failed, so the windows stay accurate for
// later requests. An empty rule set never rejects.
func (e *Engine) Exceeded(key string, rules []models.RateRule) bool {
	if len(rules) == 0 {
		return false
	}

	counters := e.countersFor(key, rules)

	exceeded := false
	for i, rule := range rules {
		if counters[i].Observe() > float64(rule.Limit) {
			exceeded = true
		}
	}

	return exceeded
}

// countersFor returns one counter per rule, creating missing ones. The
// common path is a read-locked lookup; only a first-time miss upgrades to
// the write lock, where existence is re-checked so concurrent first
// requests end up sharing a single counter.
func (e *Engine) countersFor(key string, rules []models.RateRule) []*Counter {
	counters := make([]*Counter, len(rules))

	e.mu.RLock()
	byRule := e.counters[key]
	missing := false
	for i, rule := range rules {
		if byRule == nil {
			missing = true
			break
		}
		c, ok := byRule[rule]
		if !ok {
			missing = true
			break
		}
		counters[i] = c
	}
	e.mu.RUnlock()

	if !missing {
		return counters
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	byRule = e.counters[key]
	if byRule == nil {
		byRule = make(map[models.RateRule]*Counter)
		e.counters[key] = byRule
	}
	for i, rule := range rules {
		c, ok := byRule[rule]
		if !ok {
			c = NewCounter(rule.Interval)
			byRule[rule] = c
		}
		counters[i] = c
	}

	return counters
}
