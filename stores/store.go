// Package stores holds the dashboard's in-memory domain stores. Each store
// owns one snapshot of its entity collections plus loading and error state.
// Snapshots are replaced wholesale by fetches; only Update*/Remove* touch
// individual records.
package stores

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// base carries the loading/error state shared by every store and the
// per-kind request sequence used to drop out-of-order responses.
type base struct {
	name   string
	logger *logrus.Logger

	mu       sync.RWMutex
	inflight int
	err      string
	seq      map[string]uint64
}

func (b *base) init(name string, logger *logrus.Logger) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	b.name = name
	b.logger = logger
	b.seq = make(map[string]uint64)
}

// IsLoading reports whether any fetch of this store is in flight.
func (b *base) IsLoading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.inflight > 0
}

// Error returns the message of the last failed fetch, or "" when the most
// recent attempt has not failed.
func (b *base) Error() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

func (b *base) begin(kind string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq[kind]++
	b.inflight++
	b.err = ""
	return b.seq[kind]
}

// fetch runs load outside the lock and applies its result under the lock,
// but only when this call is still the latest of its kind and ctx is alive.
// On failure the previous snapshot is kept and the error recorded.
func fetch[T any](ctx context.Context, b *base, kind string, load func(context.Context) (T, error), apply func(T)) error {
	seq := b.begin(kind)
	v, err := load(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight--

	entry := b.logger.WithFields(logrus.Fields{"store": b.name, "kind": kind, "seq": seq})
	if latest := b.seq[kind]; seq != latest {
		entry.WithField("latest", latest).Debug("discarding superseded response")
		return err
	}
	if ctx.Err() != nil {
		entry.Debug("discarding response after cancellation")
		return ctx.Err()
	}
	if err != nil {
		b.err = err.Error()
		entry.WithError(err).Warn("fetch failed, keeping previous snapshot")
		return err
	}
	apply(v)
	return nil
}

// mutate runs a write through the same loading/error bookkeeping as fetch
// but always applies a successful result, since the server has committed it.
// Fetches of the invalidated kinds that started earlier are discarded when
// they land.
func mutate[T any](ctx context.Context, b *base, kind string, load func(context.Context) (T, error), apply func(T), invalidates ...string) (T, error) {
	b.mu.Lock()
	b.inflight++
	b.err = ""
	b.mu.Unlock()

	v, err := load(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight--
	if err != nil {
		b.err = err.Error()
		b.logger.WithFields(logrus.Fields{"store": b.name, "kind": kind}).WithError(err).Warn("write failed")
		var zero T
		return zero, err
	}
	for _, k := range invalidates {
		b.seq[k]++
	}
	apply(v)
	return v, nil
}

// updateByID merges one record in place of the element with the given id.
// The returned slice is a fresh copy; found is false when no id matched.
func updateByID[T any](items []T, id string, idOf func(T) string, merge func(T) T) (out []T, found bool) {
	for i, item := range items {
		if idOf(item) != id {
			continue
		}
		out = make([]T, len(items))
		copy(out, items)
		out[i] = merge(item)
		return out, true
	}
	return items, false
}

// removeByID filters out every element with the given id.
func removeByID[T any](items []T, id string, idOf func(T) string) (out []T, found bool) {
	out = make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	if !found {
		return items, false
	}
	return out, true
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
