package cache

import "context"

// Open connects to redis when url is set and falls back to an in-process
// cache otherwise.
func Open(ctx context.Context, url string) (Cache, func() error, error) {
	if url == "" {
		return NewMemory(), func() error { return nil }, nil
	}
	r, err := NewRedis(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}
