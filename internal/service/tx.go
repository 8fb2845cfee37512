// Package service implements the user, event and registration operations.
// Every mutation runs as one transaction against the store; reads go
// straight to the pool.
package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const defaultTxTimeout = 5 * time.Second

// Option configures a service.
type Option func(*base)

// WithTxTimeout bounds how long a single transaction may hold a connection.
func WithTxTimeout(d time.Duration) Option {
	return func(b *base) {
		if d > 0 {
			b.txTimeout = d
		}
	}
}

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

type base struct {
	db        *gorm.DB
	txTimeout time.Duration
	now       func() time.Time
}

func newBase(db *gorm.DB, opts ...Option) base {
	b := base{db: db, txTimeout: defaultTxTimeout, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) clock() time.Time {
	return b.now().UTC()
}

// precondition is one ordered check of a guarded transaction. A non-nil
// error aborts the transaction.
type precondition func(tx *gorm.DB) error

// guarded runs checks in order and then apply, all inside one transaction.
// The transaction is rolled back on any error or panic and committed only
// when apply succeeds.
func (b *base) guarded(ctx context.Context, checks []precondition, apply func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.txTimeout)
	defer cancel()

	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, check := range checks {
			if err := check(tx); err != nil {
				return err
			}
		}
		return apply(tx)
	})
}

// read returns a session bound to ctx for non-transactional queries.
func (b *base) read(ctx context.Context) *gorm.DB {
	return b.db.WithContext(ctx)
}
