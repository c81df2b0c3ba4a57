// File path: internal/data/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicodishanthj/advisor_portal/internal/assistant"
	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/llm"
	"github.com/nicodishanthj/advisor_portal/internal/portal"
	"github.com/nicodishanthj/advisor_portal/internal/sqlite"
	"github.com/nicodishanthj/advisor_portal/internal/upload"
)

type closer interface {
	Close() error
}

// Orchestrator owns the portal's application state and wires the catalog,
// the assistant and the advisor inbox for the API layer.
type Orchestrator struct {
	cfg Config

	catalog   *portal.Catalog
	inbox     *sqlite.Store
	provider  llm.Provider
	bridge    *assistant.Bridge
	responder *assistant.Responder
	sessions  *assistant.Registry

	closers []closer
}

// New constructs an orchestrator from the provided configuration and optional
// overrides.
func New(ctx context.Context, cfg Config, opts ...Option) (*Orchestrator, error) {
	cfg = applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	settings := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	seed, err := loadSeed(cfg, settings)
	if err != nil {
		return nil, err
	}
	catalog := portal.NewCatalog(seed)
	if settings.now != nil {
		catalog.SetClock(settings.now)
	}

	orch := &Orchestrator{cfg: cfg, catalog: catalog}

	if settings.inbox != nil {
		orch.inbox = settings.inbox
	} else {
		inbox, err := sqlite.Open(cfg.Inbox())
		if err != nil {
			return nil, fmt.Errorf("init inbox: %w", err)
		}
		orch.inbox = inbox
		orch.closers = append(orch.closers, inbox)
	}

	provider := settings.provider
	if provider == nil {
		provider = llm.NewProvider(ctx)
	}
	orch.provider = provider
	orch.bridge = assistant.NewBridge(provider, cfg.HistoryWindow)
	orch.responder = assistant.NewResponder()
	sessionOpts := []assistant.SessionOption{assistant.WithResponder(orch.responder)}
	if settings.now != nil {
		sessionOpts = append(sessionOpts, assistant.WithClock(settings.now))
	}
	orch.sessions = assistant.NewRegistry(orch.bridge, catalog, cfg.SessionCapacity, sessionOpts...)

	common.Logger().Info("orchestrator: ready",
		"projects", len(seed.Projects),
		"documents", len(seed.Documents),
		"provider", provider.Name(),
		"inbox", cfg.InboxPath)
	return orch, nil
}

func loadSeed(cfg Config, settings options) (portal.Seed, error) {
	switch {
	case settings.seed != nil:
		return *settings.seed, nil
	case cfg.SeedPath != "":
		seed, err := portal.LoadSeed(cfg.SeedPath)
		if err != nil {
			return portal.Seed{}, fmt.Errorf("load seed: %w", err)
		}
		return seed, nil
	default:
		seed, err := portal.DefaultSeed()
		if err != nil {
			return portal.Seed{}, fmt.Errorf("load embedded seed: %w", err)
		}
		return seed, nil
	}
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config {
	if o == nil {
		return Config{}
	}
	return o.cfg
}

// Catalog exposes the application state container.
func (o *Orchestrator) Catalog() *portal.Catalog {
	if o == nil {
		return nil
	}
	return o.catalog
}

// Inbox exposes the advisor inbox.
func (o *Orchestrator) Inbox() *sqlite.Store {
	if o == nil {
		return nil
	}
	return o.inbox
}

// Provider exposes the remote chat provider.
func (o *Orchestrator) Provider() llm.Provider {
	if o == nil {
		return nil
	}
	return o.provider
}

// Bridge exposes the stateless assistant bridge.
func (o *Orchestrator) Bridge() *assistant.Bridge {
	if o == nil {
		return nil
	}
	return o.bridge
}

// Responder exposes the rule-based fallback.
func (o *Orchestrator) Responder() *assistant.Responder {
	if o == nil {
		return nil
	}
	return o.responder
}

// Sessions exposes the chat session registry.
func (o *Orchestrator) Sessions() *assistant.Registry {
	if o == nil {
		return nil
	}
	return o.sessions
}

// NewUploadBatch builds an upload batch that commits into the catalog.
func (o *Orchestrator) NewUploadBatch(project string) *upload.Batch {
	if project == "" {
		project = o.cfg.DefaultProject
	}
	return upload.NewBatch(o.catalog, upload.WithProject(project), upload.WithMaxBytes(o.cfg.UploadMaxBytes))
}

// Close releases any resources associated with the orchestrator.
func (o *Orchestrator) Close() error {
	if o == nil {
		return nil
	}
	var err error
	for i := len(o.closers) - 1; i >= 0; i-- {
		closer := o.closers[i]
		if closer == nil {
			continue
		}
		if cerr := closer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	o.closers = nil
	return err
}
