// File path: internal/data/orchestrator/options.go
package orchestrator

import (
	"time"

	"github.com/nicodishanthj/advisor_portal/internal/llm"
	"github.com/nicodishanthj/advisor_portal/internal/portal"
	"github.com/nicodishanthj/advisor_portal/internal/sqlite"
)

type Option func(*options)

type options struct {
	seed     *portal.Seed
	inbox    *sqlite.Store
	provider llm.Provider
	now      func() time.Time
}

// WithSeed replaces the seed catalog.
func WithSeed(seed portal.Seed) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithInbox injects an already opened inbox. The orchestrator does not close
// injected stores.
func WithInbox(store *sqlite.Store) Option {
	return func(o *options) {
		o.inbox = store
	}
}

// WithProvider injects the remote chat provider instead of selecting one
// from the environment.
func WithProvider(provider llm.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithClock pins the catalog clock. Primarily used in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
