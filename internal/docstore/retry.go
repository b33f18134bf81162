package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// WithRetry wraps a Store so reads are retried with exponential backoff.
// Writes are passed through once; a cancelled context is never retried.
func WithRetry(store Store, tries uint) Store {
	if tries < 1 {
		tries = 1
	}
	return &retryStore{Store: store, tries: tries}
}

type retryStore struct {
	Store
	tries uint
}

func (r *retryStore) opts() []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.tries),
	}
}

func permanentOnCancel[T any](v T, err error) (T, error) {
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return v, backoff.Permanent(err)
	}
	return v, err
}

func (r *retryStore) Find(ctx context.Context, q Query) ([]Document, error) {
	return backoff.Retry(ctx, func() ([]Document, error) {
		return permanentOnCancel(r.Store.Find(ctx, q))
	}, r.opts()...)
}

func (r *retryStore) Count(ctx context.Context, q Query) (int, error) {
	return backoff.Retry(ctx, func() (int, error) {
		return permanentOnCancel(r.Store.Count(ctx, q))
	}, r.opts()...)
}

func (r *retryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	return backoff.Retry(ctx, func() (*Document, error) {
		return permanentOnCancel(r.Store.Get(ctx, collection, id))
	}, r.opts()...)
}
