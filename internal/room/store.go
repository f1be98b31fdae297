package room

import "context"

// Store persists room records keyed by join code. Implementations must
// return ErrNotFound for unknown codes and ErrCodeTaken on duplicate
// creation; Service retries code generation on the latter.
type Store interface {
	Create(ctx context.Context, r *Room) error
	Get(ctx context.Context, code string) (*Room, error)
	Update(ctx context.Context, r *Room) error
	Delete(ctx context.Context, code string) error
	Close() error
}
