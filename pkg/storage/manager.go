package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/logger"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// STORAGE_DISK picks the default.
func Connect(ctx context.Context) {
	RegisterDisk("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			RegisterDisk("s3", d)
		}
	}

	name := config.StorageDefault()
	if _, ok := Lookup(name); !ok {
		logger.Warn("storage: default disk not configured, using local", "disk", name)
		name = "local"
	}
	SetDefault(name)
}

// RegisterDisk adds or replaces a named disk.
func RegisterDisk(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

// SetDefault selects the disk used by the package-level helpers.
func SetDefault(name string) {
	mu.Lock()
	defaultDisk = name
	mu.Unlock()
}

// Lookup returns the named disk.
func Lookup(name string) (Disk, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	return d, ok
}

// Default returns the default disk.
func Default() (Disk, error) {
	mu.RLock()
	name := defaultDisk
	mu.RUnlock()
	d, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Put writes to the default disk.
func Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	d, err := Default()
	if err != nil {
		return err
	}
	return d.Put(ctx, path, r, contentType)
}

// URL returns the public URL of path on the default disk.
func URL(path string) string {
	d, err := Default()
	if err != nil {
		return ""
	}
	return d.URL(path)
}
