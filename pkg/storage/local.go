package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localDisk stores files under a root directory on the local filesystem.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk(root, baseURL string) *localDisk {
	return &localDisk{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// fullPath resolves path inside the root, rejecting traversal outside it.
func (d *localDisk) fullPath(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" {
		return "", fmt.Errorf("storage/local: empty path")
	}
	return filepath.Join(d.root, clean), nil
}

func (d *localDisk) Put(path string, content []byte) error {
	full, err := d.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) PutStream(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("storage/local: read: %w", err)
	}
	return d.Put(path, data)
}

func (d *localDisk) Get(path string) ([]byte, error) {
	full, err := d.fullPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("storage/local: read %s: %w", path, err)
	}
	return data, nil
}

func (d *localDisk) Delete(path string) error {
	full, err := d.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Exists(path string) bool {
	full, err := d.fullPath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}
