package cache

import (
	"os"
	"path/filepath"
)

const dirName = ".icudata"

// Cache resolves the per-user state directory
type Cache struct {
	root string
}

// New returns a cache rooted in the user's home directory, or in the working
// directory when no home directory is available
func New() *Cache {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return &Cache{root: filepath.Join(".", dirName)}
	}
	return &Cache{root: filepath.Join(homeDir, dirName)}
}

// Dir returns the state directory
func (c *Cache) Dir() string {
	return c.root
}

// CatalogPath returns the default scan catalog location
func (c *Cache) CatalogPath() string {
	return filepath.Join(c.root, "icudata.db")
}

// EnsureDir creates the state directory and all parents
func (c *Cache) EnsureDir() error {
	return os.MkdirAll(c.root, 0755)
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
