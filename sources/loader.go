package sources

import (
	"fmt"
	"os"

	"github.com/entegrahub/webhook-gateway/webhook/signature"
	"gopkg.in/yaml.v3"
)

/* Loader manages source configuration from sources.yaml
 * Provides in-memory lookup for fast access
 * Declaration order in the file is preserved because detection precedence
 * depends on it
 */

// Config represents the structure of sources.yaml
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig represents a single source in the YAML file
type SourceConfig struct {
	ID                string            `yaml:"id"`
	Enabled           *bool             `yaml:"enabled"` // default: true
	MarkerHeader      string            `yaml:"marker_header"`
	UserAgentKeywords []string          `yaml:"user_agent_keywords"`
	Signature         signature.Scheme  `yaml:"signature"`
	SecretEnv         string            `yaml:"secret_env"` // env var holding the shared secret
	EventHeader       string            `yaml:"event_header"`
	EventField        string            `yaml:"event_field"`
	EventMap          map[string]string `yaml:"event_map"`
	TestEvent         string            `yaml:"test_event"`
}

// Loader holds the loaded sources
type Loader struct {
	ordered []*Source
	byID    map[string]*Source
}

// NewLoader creates a new source loader
func NewLoader() *Loader {
	return &Loader{
		byID: make(map[string]*Source),
	}
}

// NewLoaderFromSources builds a loader from already constructed sources.
// Used by tests and by callers that configure sources programmatically.
func NewLoaderFromSources(srcs ...*Source) (*Loader, error) {
	l := NewLoader()
	for _, src := range srcs {
		if err := l.add(src); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load reads and parses the sources.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading sources file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing sources YAML: %w", err)
	}

	for _, sc := range config.Sources {
		enabled := true
		if sc.Enabled != nil {
			enabled = *sc.Enabled
		}

		secret := ""
		if sc.SecretEnv != "" {
			secret = os.Getenv(sc.SecretEnv)
		}

		src := &Source{
			ID:                sc.ID,
			Enabled:           enabled,
			MarkerHeader:      sc.MarkerHeader,
			UserAgentKeywords: sc.UserAgentKeywords,
			Signature:         sc.Signature,
			Secret:            secret,
			EventHeader:       sc.EventHeader,
			EventField:        sc.EventField,
			EventMap:          sc.EventMap,
			TestEvent:         sc.TestEvent,
		}

		if err := l.add(src); err != nil {
			return err
		}
	}

	return nil
}

func (l *Loader) add(src *Source) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("validating source: %w", err)
	}
	if _, exists := l.byID[src.ID]; exists {
		return fmt.Errorf("duplicate source: %s", src.ID)
	}
	l.ordered = append(l.ordered, src)
	l.byID[src.ID] = src
	return nil
}

// Get retrieves a source by its ID
func (l *Loader) Get(id string) (*Source, error) {
	src, exists := l.byID[id]
	if !exists {
		return nil, fmt.Errorf("source not found: %s", id)
	}
	return src, nil
}

// List returns all loaded sources in declaration order
func (l *Loader) List() []*Source {
	out := make([]*Source, len(l.ordered))
	copy(out, l.ordered)
	return out
}

// Exists checks if a source ID exists
func (l *Loader) Exists(id string) bool {
	_, exists := l.byID[id]
	return exists
}

// Unsecured returns the IDs of enabled sources without a configured secret.
// Callers are expected to log these loudly at startup: deliveries from such
// sources are accepted without authentication.
func (l *Loader) Unsecured() []string {
	var ids []string
	for _, src := range l.ordered {
		if src.Enabled && !src.HasSecret() {
			ids = append(ids, src.ID)
		}
	}
	return ids
}
