// Package delivery defines the contract every transport implementation
// satisfies so main can start them uniformly.
package delivery

import "context"

// Delivery is a serving transport (HTTP today).
type Delivery interface {
	// Serve blocks until the transport stops or fails.
	Serve(ctx context.Context) error
}
