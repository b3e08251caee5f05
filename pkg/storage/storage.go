// Package storage persists files attached to form submissions.
//
// Two drivers are available:
//   - "local" — local filesystem (default)
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once at startup, then save uploads through the default disk:
//
//	storage.Connect()
//	url, err := storage.SaveUpload(ctx, "user_form", "avatar.png", data)
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"sync"

	"github.com/shashiranjanraj/formbus/config"
	"github.com/shashiranjanraj/formbus/pkg/logger"
)

// Disk is the file storage driver contract.
type Disk interface {
	// Put writes content to p, creating parents as needed.
	Put(ctx context.Context, p string, content []byte) error
	// Get returns the full content of the file at p.
	Get(ctx context.Context, p string) ([]byte, error)
	// Exists reports whether a file exists at p.
	Exists(ctx context.Context, p string) bool
	// Delete removes the file at p. Deleting a missing file is not an error.
	Delete(ctx context.Context, p string) error
	// URL returns the public URL for p.
	URL(p string) string
}

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage disks. The local disk is always available; the
// s3 disk only when S3_BUCKET is configured.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	defaultDisk = config.StorageDefault()
	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		logger.Warn("storage: configured default disk unavailable, using local", "disk", defaultDisk)
		defaultDisk = "local"
	}
}

// Use returns the named disk ("local" or "s3").
// Panics on an unconfigured name — that is a wiring error, not runtime state.
func Use(name string) Disk {
	mu.RLock()
	d, ok := disks[name]
	mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk plugs in a custom Disk implementation (used by tests).
func RegisterDisk(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

// Default returns the configured default disk.
func Default() Disk {
	mu.RLock()
	name := defaultDisk
	mu.RUnlock()
	if name == "" {
		name = "local"
	}
	return Use(name)
}

// SaveUpload stores one uploaded file under uploads/<formID>/ with a random
// prefix so concurrent uploads of the same filename never collide.
// Returns the public URL of the stored file.
func SaveUpload(ctx context.Context, formID, filename string, content []byte) (string, error) {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	p := path.Join("uploads", formID, hex.EncodeToString(b)+"-"+path.Base(filename))

	d := Default()
	if err := d.Put(ctx, p, content); err != nil {
		return "", fmt.Errorf("storage: save upload %s: %w", filename, err)
	}
	return d.URL(p), nil
}
