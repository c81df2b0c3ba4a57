// File path: internal/data/orchestrator/config.go
package orchestrator

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nicodishanthj/advisor_portal/internal/assistant"
	"github.com/nicodishanthj/advisor_portal/internal/sqlite"
	"github.com/nicodishanthj/advisor_portal/internal/upload"
)

// Config controls the construction of the orchestrator.
type Config struct {
	// SeedPath points at a YAML catalog. Empty uses the embedded seed.
	SeedPath string
	// InboxPath is the advisor inbox database. Empty keeps it in memory.
	InboxPath        string
	InboxBusyTimeout time.Duration
	InboxPoolSize    int
	HistoryWindow    int
	SessionCapacity  int
	UploadMaxBytes   int64
	DefaultProject   string
}

// Inbox returns the database settings of the advisor inbox.
func (c Config) Inbox() sqlite.Config {
	return sqlite.Config{Path: c.InboxPath, BusyTimeout: c.InboxBusyTimeout, PoolSize: c.InboxPoolSize}
}

// DefaultConfig returns the baseline configuration used when no overrides are
// supplied.
func DefaultConfig() Config {
	return Config{
		InboxBusyTimeout: sqlite.DefaultBusyTimeout,
		InboxPoolSize:    sqlite.DefaultPoolSize,
		HistoryWindow:    assistant.DefaultHistoryWindow,
		SessionCapacity:  assistant.DefaultSessionCapacity,
		UploadMaxBytes:   upload.DefaultMaxBytes,
		DefaultProject:   upload.DefaultProject,
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("PORTAL_SEED_FILE")); value != "" {
		cfg.SeedPath = value
	}
	if value := strings.TrimSpace(os.Getenv("PORTAL_INBOX_PATH")); value != "" {
		cfg.InboxPath = value
	}
	if value := strings.TrimSpace(os.Getenv("PORTAL_INBOX_BUSY_TIMEOUT")); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORTAL_INBOX_BUSY_TIMEOUT: %w", err)
		}
		cfg.InboxBusyTimeout = d
	}
	if value := strings.TrimSpace(os.Getenv("PORTAL_INBOX_POOL_SIZE")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORTAL_INBOX_POOL_SIZE: %w", err)
		}
		cfg.InboxPoolSize = n
	}
	if value := strings.TrimSpace(os.Getenv("PORTAL_HISTORY_WINDOW")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORTAL_HISTORY_WINDOW: %w", err)
		}
		cfg.HistoryWindow = n
	}
	if value := strings.TrimSpace(os.Getenv("PORTAL_SESSION_CAPACITY")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORTAL_SESSION_CAPACITY: %w", err)
		}
		cfg.SessionCapacity = n
	}
	if value := strings.TrimSpace(os.Getenv("PORTAL_UPLOAD_MAX_BYTES")); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORTAL_UPLOAD_MAX_BYTES: %w", err)
		}
		cfg.UploadMaxBytes = n
	}
	if value := strings.TrimSpace(os.Getenv("PORTAL_DEFAULT_PROJECT")); value != "" {
		cfg.DefaultProject = value
	}
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.InboxBusyTimeout <= 0 {
		cfg.InboxBusyTimeout = defaults.InboxBusyTimeout
	}
	if cfg.InboxPoolSize <= 0 {
		cfg.InboxPoolSize = defaults.InboxPoolSize
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = defaults.HistoryWindow
	}
	if cfg.SessionCapacity <= 0 {
		cfg.SessionCapacity = defaults.SessionCapacity
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = defaults.UploadMaxBytes
	}
	if strings.TrimSpace(cfg.DefaultProject) == "" {
		cfg.DefaultProject = defaults.DefaultProject
	}
	return cfg
}

func (c Config) validate() error {
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("history window must be positive")
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("session capacity must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload limit must be positive")
	}
	if c.SeedPath != "" {
		if _, err := os.Stat(c.SeedPath); err != nil {
			return fmt.Errorf("seed file: %w", err)
		}
	}
	return nil
}
