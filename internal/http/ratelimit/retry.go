package ratelimit

import (
	"math"
	"math/rand"
	"strconv"
	"time"
)

// FetchRetryError is returned when every attempt at a URL has failed.
type FetchRetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *FetchRetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *FetchRetryError) Unwrap() error { return e.LastError }

// IsRetryableStatus reports whether an HTTP status is worth retrying.
// 429 and the 5xx range are; everything else fails immediately.
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// CalculateBackoff returns the exponential backoff delay for an attempt,
// with up to 25% jitter so parallel runs do not hammer in lockstep.
func CalculateBackoff(attempt int, config Config) time.Duration {
	delay := float64(config.InitialBackoffMs) * math.Pow(2.0, float64(attempt))
	delay = math.Min(delay, float64(config.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}

// CalculateRateLimitBackoff returns the delay after an HTTP 429. A
// Retry-After header wins when present; otherwise backoff grows faster
// than for plain server errors.
func CalculateRateLimitBackoff(attempt int, config Config, retryAfter string) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			jitter := time.Duration(rand.Float64() * float64(time.Second))
			return time.Duration(seconds)*time.Second + jitter
		}
	}

	delay := float64(config.InitialBackoffMs) * math.Pow(3.0, float64(attempt))
	delay = math.Min(delay, float64(config.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}
