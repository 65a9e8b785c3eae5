package orgai

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// PresetStore holds named configuration bundles resolved through the
// :preset header argument.
type PresetStore struct {
	mu      sync.RWMutex
	presets map[string]Config
}

// NewPresetStore builds an empty store.
func NewPresetStore() *PresetStore {
	return &PresetStore{presets: make(map[string]Config)}
}

type presetFile struct {
	Presets map[string]Config `yaml:"presets"`
}

// LoadPresets reads a YAML preset file of the form:
//
//	presets:
//	  terse:
//	    model: claude-sonnet-4-5
//	    system: You are terse.
func LoadPresets(path string) (*PresetStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, &OrgAIError{Type: ErrConfig, Message: fmt.Sprintf("failed to parse preset file %s", path), Err: err}
	}
	store := NewPresetStore()
	for name, cfg := range pf.Presets {
		store.Set(name, cfg)
	}
	return store, nil
}

// Set adds or replaces a preset.
func (s *PresetStore) Set(name string, cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[name] = cfg
}

// Lookup returns the preset config for name.
func (s *PresetStore) Lookup(name string) (Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.presets[name]
	return cfg, ok
}

// Names returns the preset names sorted.
func (s *PresetStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.presets))
	for name := range s.presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
