package narrative

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores generated summaries on disk, one file per selection. The
// aggregates for a past region/year never change, so entries have no TTL.
type Cache struct {
	dir string
}

// NewCache creates a cache directory. Failure to create it is logged by the
// caller and treated as a cold cache, never a startup error.
func NewCache(dir string) *Cache {
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("Warning: could not create narrative cache directory: %v\n", err)
	}
	return &Cache{dir: dir}
}

func (c *Cache) path(region string, year int) string {
	safe := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, region)
	return filepath.Join(c.dir, fmt.Sprintf("summary_%s_%d.txt", safe, year))
}

// Get returns the cached summary for the selection, if present.
func (c *Cache) Get(region string, year int) (string, bool) {
	data, err := os.ReadFile(c.path(region, year))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Set stores a summary for the selection.
func (c *Cache) Set(region string, year int, text string) error {
	return os.WriteFile(c.path(region, year), []byte(text), 0644)
}
