// File path: internal/portal/seed.go
package portal

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the fixed catalog the portal starts from.
type Seed struct {
	Client      ClientProfile    `yaml:"client"`
	Projects    []Project        `yaml:"projects"`
	Documents   []Document       `yaml:"documents"`
	Deadlines   []Deadline       `yaml:"deadlines"`
	Advisor     Advisor          `yaml:"advisor"`
	QuickTopics []string         `yaml:"quick_topics"`
	Reports     []Report         `yaml:"reports"`
	Financial   FinancialSummary `yaml:"financial_summary"`
}

// DefaultSeed parses the embedded seed catalog.
func DefaultSeed() (Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeed reads a seed catalog from path, or the embedded one when path is
// empty.
func LoadSeed(path string) (Seed, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML seed document.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

func (s Seed) validate() error {
	if strings.TrimSpace(s.Client.Name) == "" {
		return fmt.Errorf("seed: client name required")
	}
	projectIDs := make(map[int]struct{}, len(s.Projects))
	for _, p := range s.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("seed: project %d has no name", p.ID)
		}
		if !p.Status.Valid() {
			return fmt.Errorf("seed: project %q has unknown status %q", p.Name, p.Status)
		}
		if p.Completion < 0 || p.Completion > 100 {
			return fmt.Errorf("seed: project %q completion %d out of range", p.Name, p.Completion)
		}
		if _, dup := projectIDs[p.ID]; dup {
			return fmt.Errorf("seed: duplicate project id %d", p.ID)
		}
		projectIDs[p.ID] = struct{}{}
	}
	docIDs := make(map[string]struct{}, len(s.Documents))
	for _, d := range s.Documents {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return fmt.Errorf("seed: document %q has no id", d.Name)
		}
		if _, dup := docIDs[id]; dup {
			return fmt.Errorf("seed: duplicate document id %q", id)
		}
		docIDs[id] = struct{}{}
	}
	return nil
}
