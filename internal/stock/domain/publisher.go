package domain

import "context"

// MovementPublisher emits appended movements to the audit stream.
// Publishing is best-effort; the ledger logs failures and moves on.
type MovementPublisher interface {
	Publish(ctx context.Context, movement *Movement) error
}
