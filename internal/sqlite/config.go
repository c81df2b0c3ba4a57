// File path: internal/sqlite/config.go
package sqlite

import (
	"strings"
	"time"
)

const (
	DefaultBusyTimeout = 5 * time.Second
	DefaultPoolSize    = 4

	memoryPath = ":memory:"
)

// Config describes where the advisor inbox lives. An empty Path keeps the
// inbox in a private in-memory database that disappears on Close.
type Config struct {
	Path        string
	BusyTimeout time.Duration
	PoolSize    int
}

// InMemory reports whether the inbox is transient.
func (c Config) InMemory() bool {
	path := strings.TrimSpace(c.Path)
	return path == "" || path == memoryPath
}

// normalized fills unset values. Every connection to :memory: sees its own
// database, so a transient inbox always gets a single connection.
func (c Config) normalized() Config {
	c.Path = strings.TrimSpace(c.Path)
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = DefaultBusyTimeout
	}
	if c.PoolSize <= 0 {
		c.PoolSize = DefaultPoolSize
	}
	if c.InMemory() {
		c.Path = ""
		c.PoolSize = 1
	}
	return c
}
