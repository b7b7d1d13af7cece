package lock

import (
	"context"
	"errors"
	"sort"
)

// ErrLockTimeout is returned when the keys could not be acquired before the wait budget ran out.
var ErrLockTimeout = errors.New("lock: wait timeout")

// Release frees every key held by a successful Lock call. It is safe to call more than once.
type Release func()

// Locker serializes work on a set of keys. Keys are always taken in sorted order.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (Release, error)
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func waitErr(ctx context.Context, parent context.Context) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrLockTimeout
	}
	return ctx.Err()
}
