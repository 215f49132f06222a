package database

import "context"

// TxManager runs fn so that every repository call made with txCtx
// commits or rolls back together.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
