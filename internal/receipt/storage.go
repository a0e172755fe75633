package receipt

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage keeps the uploaded receipt files
type Storage interface {
	// Save stores data under name and returns the key to read it back
	Save(name string, data []byte) (string, error)

	// Get retrieves a file by key
	Get(key string) ([]byte, error)

	// Delete removes a file
	Delete(key string) error
}

// LocalStorage stores receipt files flat in one directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// path confines a key to the base directory.
func (l *LocalStorage) path(key string) (string, error) {
	name := filepath.Base(filepath.Clean(key))
	if name != key || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.basePath, name), nil
}

// Save writes the file
func (l *LocalStorage) Save(name string, data []byte) (string, error) {
	p, err := l.path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return name, nil
}

// Get reads the file
func (l *LocalStorage) Get(key string) ([]byte, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes the file
func (l *LocalStorage) Delete(key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
