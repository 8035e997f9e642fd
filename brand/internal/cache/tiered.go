package cache

import "context"

// Tiered reads the shared tier first and falls back to the local one;
// writes go to both. The shared tier's failures surface as misses, so a
// flaky Redis silently degrades to local-only behaviour per key.
type Tiered struct {
	remote Cache
	local  Cache
}

// NewTiered composes a remote (shared) and a local tier.
func NewTiered(remote, local Cache) *Tiered {
	return &Tiered{remote: remote, local: local}
}

func (t *Tiered) Get(ctx context.Context, key string) (*Entry, bool) {
	if e, ok := t.remote.Get(ctx, key); ok {
		return e, true
	}
	return t.local.Get(ctx, key)
}

func (t *Tiered) Set(ctx context.Context, key string, e *Entry) {
	t.remote.Set(ctx, key, e)
	t.local.Set(ctx, key, e)
}

// Close releases the remote tier's connection when it has one.
func (t *Tiered) Close() error {
	if closer, ok := t.remote.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
