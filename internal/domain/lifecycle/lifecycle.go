// Package lifecycle holds shared constants for application start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup checks and shutdown drains.
const DefaultTimeout = 10 * time.Second
