// Package delivery defines the contract every transport-facing server obeys.
package delivery

import "context"

// Delivery is a long-running server owned by the application lifecycle.
// Serve blocks until the server stops or the context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
