// internal/storage/noop.go
//
// Noop is the extension point a real object-store SDK (S3, GCS, Azure
// Blob) would replace. It satisfies Provider so a deployment can boot
// with `storage.provider: noop` before a real backend is wired, and so
// tests that do not exercise media at all can pass a zero-cost stub.
package storage

import (
	"context"
	"time"
)

// Noop implements Provider with no persistence; every call succeeds and
// does nothing.
type Noop struct{}

func (Noop) EnsurePrefix(ctx context.Context, tenant string) error { return nil }
func (Noop) RemovePrefix(ctx context.Context, tenant string) error { return nil }

func (Noop) Upload(ctx context.Context, tenant, key string, body []byte, contentType string) (string, error) {
	return "", nil
}

func (Noop) Delete(ctx context.Context, tenant, key string) error { return nil }

func (Noop) SignedURL(ctx context.Context, tenant, key string, ttl time.Duration) (string, error) {
	return "", nil
}
