// internal/storage/local.go
//
// Filesystem-backed Provider: each tenant gets a subdirectory of
// BaseDir named after its tenant name, mirroring the schema-per-tenant
// isolation used on the database side. Intended for dev and test, not
// production object storage (spec.md §1 explicitly leaves that
// unreimplemented) — the shape (narrow interface, JSON-free binary
// payloads, prefix-scoped key namespace) is grounded on echterhof's
// storage-plugin local backend.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Local implements Provider against a directory on disk.
type Local struct {
	baseDir    string
	publicBase string
	signedTTL  time.Duration
}

// NewLocal builds a Local provider rooted at baseDir; publicBase prefixes
// the URLs SignedURL/Upload return (e.g. "https://media.example.test").
func NewLocal(baseDir, publicBase string, signedTTL time.Duration) *Local {
	return &Local{baseDir: baseDir, publicBase: publicBase, signedTTL: signedTTL}
}

func (l *Local) tenantDir(tenant string) string {
	return filepath.Join(l.baseDir, tenant)
}

func (l *Local) path(tenant, key string) string {
	return filepath.Join(l.tenantDir(tenant), filepath.Clean("/"+key))
}

// EnsurePrefix creates the tenant's subdirectory; idempotent.
func (l *Local) EnsurePrefix(ctx context.Context, tenant string) error {
	return os.MkdirAll(l.tenantDir(tenant), 0o750)
}

// RemovePrefix deletes the tenant's subdirectory and everything under it.
func (l *Local) RemovePrefix(ctx context.Context, tenant string) error {
	err := os.RemoveAll(l.tenantDir(tenant))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Upload writes body under tenant's prefix and returns a public URL.
func (l *Local) Upload(ctx context.Context, tenant, key string, body []byte, contentType string) (string, error) {
	dst := l.path(tenant, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, body, 0o640); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", l.publicBase, tenant, key), nil
}

// Delete removes a single object.
func (l *Local) Delete(ctx context.Context, tenant, key string) error {
	err := os.Remove(l.path(tenant, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SignedURL returns a plain public URL; the local backend has no real
// signing key, so ttl is accepted for interface parity and ignored.
func (l *Local) SignedURL(ctx context.Context, tenant, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s/%s/%s", l.publicBase, tenant, key), nil
}
