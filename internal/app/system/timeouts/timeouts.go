// Package timeouts provides centralized timeout values for handler
// operations. Handlers pair these with context.WithTimeout for database
// and outbound HTTP work.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: list queries, moderate writes
//   - Long: multi-step writes and operations that also push a webhook
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple single-document operations.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { return medium }

// Long returns the timeout for writes that touch multiple collections or
// block on an outbound webhook.
func Long() time.Duration { return long }
