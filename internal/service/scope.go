// Package service holds the reconciliation logic of the booking domain: the
// availability reconciler and the show cascade.  Every operation runs inside
// a Scope, the request-scoped handle made of one transaction and the id of
// the authenticated person who triggered it.  Nothing here reads ambient
// request state.
package service

import (
	"context"
	"database/sql"
	"errors"
)

// Scope is the explicit request context passed to the reconciliation
// operations.
type Scope struct {
	Tx      *sql.Tx
	ActorID uint64
}

// Validation sentinels shared by the operations.
var (
	ErrInvalidRange        = errors.New("invalid date range")
	ErrInvalidDecision     = errors.New("invalid availability decision")
	ErrOutOfRange          = errors.New("date outside of the show range")
	ErrConflictingDecision = errors.New("an assigned artist cannot be unavailable")
)

// InTx begins a transaction, runs fn with a Scope bound to it and commits
// once.  Any error returned by fn, or a panic, rolls the whole transaction
// back so that no step is ever applied on its own.
func InTx(ctx context.Context, db *sql.DB, actorID uint64, fn func(Scope) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err = fn(Scope{Tx: tx, ActorID: actorID}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
