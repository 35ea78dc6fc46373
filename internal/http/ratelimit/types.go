// Package ratelimit holds the politeness knobs for outbound scraping:
// request pacing, retry limits and backoff math.
package ratelimit

// Config holds outbound request pacing and retry configuration.
type Config struct {
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	Burst             int     `json:"burst"`
	MaxRetries        int     `json:"maxRetries"`
	InitialBackoffMs  int     `json:"initialBackoffMs"`
	MaxBackoffMs      int     `json:"maxBackoffMs"`
}

// DefaultConfig paces at one request per two seconds. Competitor sites
// are scraped politely; getting blocked costs far more than waiting.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 0.5,
		Burst:             1,
		MaxRetries:        3,
		InitialBackoffMs:  500,
		MaxBackoffMs:      30000,
	}
}
