package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldn/indexer-gateway/internal/models"
)

func TestEngineSixthRequestRejected(t *testing.T) {
	e := NewEngine()
	rules := []models.RateRule{{Interval: time.Minute, Limit: 5}}

	for i := 0; i < 5; i++ {
		assert.False(t, e.Exceeded("abc", rules), "request %d should pass", i+1)
	}
	assert.True(t, e.Exceeded("abc", rules), "sixth request should be rejected")
}

func TestEngineRejectedRequestStillCounted(t *testing.T) {
	e := NewEngine()
	rules := []models.RateRule{{Interval: time.Minute, Limit: 1}}

	assert.False(t, e.Exceeded("abc", rules))
	// Each rejected request keeps incrementing the window, so the
	// consumer stays rejected instead of flapping.
	assert.True(t, e.Exceeded("abc", rules))
	assert.True(t, e.Exceeded("abc", rules))
}

func TestEngineAllRulesEvaluated(t *testing.T) {
	e := NewEngine()
	strict := models.RateRule{Interval: time.Minute, Limit: 0}
	loose := models.RateRule{Interval: time.Minute, Limit: 100}

	// The strict rule rejects immediately, but the loose rule's counter
	// must still be recording.
	for i := 0; i < 3; i++ {
		assert.True(t, e.Exceeded("abc", []models.RateRule{strict, loose}))
	}

	e.mu.RLock()
	counter := e.counters["abc"][loose]
	e.mu.RUnlock()
	require.NotNil(t, counter)
	assert.Equal(t, float64(3), counter.Rate())
}

func TestEngineEmptyRulesNeverReject(t *testing.T) {
	e := NewEngine()

	for i := 0; i < 100; i++ {
		assert.False(t, e.Exceeded("abc", nil))
	}
}

func TestEngineConsumersAreIsolated(t *testing.T) {
	e := NewEngine()
	rules := []models.RateRule{{Interval: time.Minute, Limit: 2}}

	for i := 0; i < 3; i++ {
		e.Exceeded("abc", rules)
	}
	assert.True(t, e.Exceeded("abc", rules))

	// A different consumer with the same rules has a fresh window.
	assert.False(t, e.Exceeded("xyz", rules))
}

func TestEngineConcurrentFirstTouchSharesOneCounter(t *testing.T) {
	e := NewEngine()
	const workers = 64
	rules := []models.RateRule{{Interval: time.Hour, Limit: workers}}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.False(t, e.Exceeded("abc", rules))
		}()
	}
	wg.Wait()

	// If concurrent first requests had created duplicate counters, some
	// of the N events above would be lost and this call would pass.
	assert.True(t, e.Exceeded("abc", rules))

	e.mu.RLock()
	assert.Len(t, e.counters["abc"], 1)
	e.mu.RUnlock()
}
