package repository

import "context"

// Tx is the commit/rollback handle backends wrap around their native transaction
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
