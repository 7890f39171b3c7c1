package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RateRule is one sliding-window constraint: at most Limit events within
// any trailing Interval. Comparable so it can key a counter map.
type RateRule struct {
	Interval time.Duration `json:"-"`
	Limit    int           `json:"limit"`
}

// Rules are configured with human-readable intervals ("1s", "60s", "1h").
func (r *RateRule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Interval string `json:"interval"`
		Limit    int    `json:"limit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	interval, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return fmt.Errorf("invalid rule interval %q: %w", raw.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("rule interval must be positive, got %q", raw.Interval)
	}

	r.Interval = interval
	r.Limit = raw.Limit
	return nil
}

func (r RateRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Interval string `json:"interval"`
		Limit    int    `json:"limit"`
	}{
		Interval: r.Interval.String(),
		Limit:    r.Limit,
	})
}

// Tier is a named set of rate rules. A request is rejected if it exceeds
// any rule; a tier with no rules never rejects.
type Tier struct {
	Name  string     `json:"name"`
	Rules []RateRule `json:"rules"`
}
