// Package storage stores uploaded files (product images) on a configurable
// disk: the local filesystem or any S3-compatible object store.
package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/storefront/config"
)

// Disk is one storage backend.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error
	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error
	// Get returns the file content at path.
	Get(path string) ([]byte, error)
	// Delete removes path. Deleting a missing path is not an error.
	Delete(path string) error
	// Exists reports whether path exists.
	Exists(path string) bool
	// URL returns the public URL for path.
	URL(path string) string
}

// Manager selects between configured disks.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

// NewManager boots the storage manager. The local disk is always available;
// the s3 disk is added only when S3_BUCKET is configured.
func NewManager() *Manager {
	m := &Manager{
		disks:       map[string]Disk{},
		defaultDisk: config.StorageDisk(),
	}

	m.disks["local"] = newLocalDisk(config.StorageLocalRoot(), config.StorageURL())

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			fmt.Printf("storage/s3: %v (disk disabled)\n", err)
		} else {
			m.disks["s3"] = d
		}
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		m.defaultDisk = "local"
	}

	return m
}

// Use returns the named disk ("local" or "s3").
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func (m *Manager) Default() Disk {
	d, _ := m.Use(m.defaultDisk)
	return d
}

// Register plugs in a custom Disk implementation. Intended for tests.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}
