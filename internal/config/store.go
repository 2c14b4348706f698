package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/cci-tools/cci/internal/discovery"
)

// --- Path helpers ---

// ConfigDirPath returns ~/.config/cci
func ConfigDirPath() string {
	return filepath.Join(os.Getenv("HOME"), filepath.FromSlash(ConfigDir))
}

// ConfigFilePath returns ~/.config/cci/config.json
func ConfigFilePath() string {
	return filepath.Join(ConfigDirPath(), ConfigFile)
}

// --- Store ---

// Store manages reading and writing the JSON document. It is the single
// source of truth: every mutating operation persists the full document
// atomically before returning.
type Store struct {
	mu   sync.Mutex
	path string
	doc  *Document
}

var (
	defaultStore *Store
	defaultMu    sync.Mutex
)

// DefaultStore returns the global Store singleton, loading it from disk on
// first call.
func DefaultStore() *Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultStore == nil {
		defaultStore = &Store{path: ConfigFilePath()}
		defaultStore.Load()
	}
	return defaultStore
}

// ResetDefaultStore clears the singleton so the next DefaultStore() call
// re-initializes. Intended for tests.
func ResetDefaultStore() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultStore = nil
}

// Load reads the JSON document from disk. A missing file yields an empty
// document; a file that exists but cannot be parsed is an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", s.path, err)
		}
		s.doc = emptyDocument()
		return nil
	}

	var doc Document
	if err := doc.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	s.doc = &doc
	return nil
}

func emptyDocument() *Document {
	return &Document{
		Providers: make(map[string]*Provider),
		Configs:   make(map[string]*NamedConfig),
	}
}

// ensureDoc makes sure s.doc is non-nil with initialized maps.
func (s *Store) ensureDoc() {
	if s.doc == nil {
		s.doc = emptyDocument()
	}
	if s.doc.Providers == nil {
		s.doc.Providers = make(map[string]*Provider)
	}
	if s.doc.Configs == nil {
		s.doc.Configs = make(map[string]*NamedConfig)
	}
}

// saveLocked writes the document atomically (temp + rename) with 0600
// permissions. The prior on-disk document survives any failure.
func (s *Store) saveLocked() error {
	s.ensureDoc()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errPersist("create config dir", err)
	}

	data, err := marshalDocument(s.doc)
	if err != nil {
		return errPersist("marshal document", err)
	}

	tmp, err := os.CreateTemp(dir, "cci-*.json")
	if err != nil {
		return errPersist("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errPersist("write temp file", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errPersist("chmod temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errPersist("close temp file", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errPersist("rename config file", err)
	}
	return nil
}

// --- Provider operations ---

// AddProvider validates the base URL against a live discovery call and stores
// the provider under the normalized name. When discovery succeeds but lists
// zero models, the provider is stored anyway and ErrNoModelsFound is returned
// so the caller can surface the condition.
func (s *Store) AddProvider(ctx context.Context, name, baseURL, apiKey string, keyType APIKeyType) (string, error) {
	slug := Normalize(name)
	if slug == "" {
		return "", errInvalidName(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureDoc()

	if _, ok := s.doc.Providers[slug]; ok {
		return "", errDuplicateName("provider", slug)
	}

	normalized, err := discovery.NormalizeBaseURL(baseURL)
	if err != nil {
		return "", err
	}

	models, err := discovery.FetchModels(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}

	if keyType == "" {
		keyType = APIKeyNone
	}
	s.doc.Providers[slug] = &Provider{
		BaseURL:    normalized,
		Models:     models,
		APIKey:     apiKey,
		APIKeyType: keyType,
	}
	if err := s.saveLocked(); err != nil {
		return "", err
	}

	if len(models) == 0 {
		return slug, fmt.Errorf("%w: %s", ErrNoModelsFound, normalized)
	}
	return slug, nil
}

// UpdateProvider re-runs discovery and replaces the provider's model list.
// Existing configurations keep their selections even when a selected model no
// longer appears in the new list.
func (s *Store) UpdateProvider(ctx context.Context, name string) ([]string, error) {
	slug := Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureDoc()

	p, ok := s.doc.Providers[slug]
	if !ok {
		return nil, errNotFound("provider", slug)
	}

	models, err := discovery.FetchModels(ctx, p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}

	p.Models = models
	if err := s.saveLocked(); err != nil {
		return nil, err
	}

	if len(models) == 0 {
		return models, fmt.Errorf("%w: %s", ErrNoModelsFound, p.BaseURL)
	}
	return models, nil
}

// RemoveProvider deletes a provider. Configurations referencing it are not
// deleted: their provider reference and model selections are cleared, and the
// degraded configurations are persisted.
func (s *Store) RemoveProvider(name string) error {
	slug := Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureDoc()

	if _, ok := s.doc.Providers[slug]; !ok {
		return errNotFound("provider", slug)
	}
	delete(s.doc.Providers, slug)

	for _, c := range s.doc.Configs {
		if c.Provider == slug {
			c.Provider = ""
			c.Models = ModelSettings{}
		}
	}
	return s.saveLocked()
}

// GetProvider returns the named provider, or nil.
func (s *Store) GetProvider(name string) *Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	return s.doc.Providers[Normalize(name)]
}

// ProviderNames returns sorted provider names.
func (s *Store) ProviderNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	names := lo.Keys(s.doc.Providers)
	sort.Strings(names)
	return names
}

// ProviderMap returns all providers keyed by name.
func (s *Store) ProviderMap() map[string]*Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	return s.doc.Providers
}

// AvailableModels returns the cached model list for a provider.
func (s *Store) AvailableModels(name string) []string {
	p := s.GetProvider(name)
	if p == nil {
		return nil
	}
	return p.Models
}

// GetConfigsForProvider returns the sorted names of configurations that
// reference the given provider.
func (s *Store) GetConfigsForProvider(name string) []string {
	slug := Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	var names []string
	for cn, c := range s.doc.Configs {
		if c.Provider == slug {
			names = append(names, cn)
		}
	}
	sort.Strings(names)
	return names
}

// --- Configuration operations ---

// SaveConfigAs stores the draft's provider and model selections under the
// normalized name. Overwriting an existing configuration requires explicit
// consent via overwrite. When the save leaves exactly one configuration and
// no default is set, that configuration becomes the default.
func (s *Store) SaveConfigAs(name string, draft Draft, overwrite bool) (string, error) {
	slug := Normalize(name)
	if slug == "" {
		return "", errInvalidName(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureDoc()

	if _, ok := s.doc.Configs[slug]; ok && !overwrite {
		return "", errDuplicateName("configuration", slug)
	}
	if draft.Provider != "" {
		if _, ok := s.doc.Providers[draft.Provider]; !ok {
			return "", errNotFound("provider", draft.Provider)
		}
	}

	s.doc.Configs[slug] = &NamedConfig{
		Provider: draft.Provider,
		Models:   draft.Models,
	}
	if s.doc.DefaultConfig == "" && len(s.doc.Configs) == 1 {
		s.doc.DefaultConfig = slug
	}
	if err := s.saveLocked(); err != nil {
		return "", err
	}
	return slug, nil
}

// RemoveConfig deletes a configuration. If it was the default, the default
// marker is cleared rather than left dangling.
func (s *Store) RemoveConfig(name string) error {
	slug := Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureDoc()

	if _, ok := s.doc.Configs[slug]; !ok {
		return errNotFound("configuration", slug)
	}
	delete(s.doc.Configs, slug)
	if s.doc.DefaultConfig == slug {
		s.doc.DefaultConfig = ""
	}
	return s.saveLocked()
}

// LoadConfigByName returns the configuration with its provider reference
// re-validated against the live provider map. A reference to a provider that
// no longer exists is reported as ErrDanglingReference instead of producing
// an inconsistent result.
func (s *Store) LoadConfigByName(name string) (*ResolvedConfig, error) {
	slug := Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadConfigLocked(slug)
}

func (s *Store) loadConfigLocked(slug string) (*ResolvedConfig, error) {
	if s.doc == nil {
		return nil, errNotFound("configuration", slug)
	}
	c, ok := s.doc.Configs[slug]
	if !ok {
		return nil, errNotFound("configuration", slug)
	}

	rc := &ResolvedConfig{
		Name:         slug,
		ProviderName: c.Provider,
		Models:       c.Models,
	}
	if c.Provider != "" {
		p, ok := s.doc.Providers[c.Provider]
		if !ok {
			return nil, fmt.Errorf("%w: configuration %q references missing provider %q",
				ErrDanglingReference, slug, c.Provider)
		}
		rc.Provider = p
	}
	return rc, nil
}

// ConfigNames returns sorted configuration names.
func (s *Store) ConfigNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	names := lo.Keys(s.doc.Configs)
	sort.Strings(names)
	return names
}

// GetConfig returns the raw stored configuration, or nil. The provider
// reference is not validated; use LoadConfigByName for that.
func (s *Store) GetConfig(name string) *NamedConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	return s.doc.Configs[Normalize(name)]
}

// --- Default configuration ---

// SetDefaultConfig marks an existing configuration as the default.
func (s *Store) SetDefaultConfig(name string) error {
	slug := Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureDoc()

	if _, ok := s.doc.Configs[slug]; !ok {
		return errNotFound("configuration", slug)
	}
	s.doc.DefaultConfig = slug
	return s.saveLocked()
}

// DefaultConfigName returns the default configuration's name, or "".
func (s *Store) DefaultConfigName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.DefaultConfig
}

// LoadDefaultConfig resolves the default configuration. ErrNoDefaultSet when
// none is marked; ErrDanglingReference when the marker names a configuration
// that no longer exists (possible only through external edits, since
// RemoveConfig clears the marker).
func (s *Store) LoadDefaultConfig() (*ResolvedConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || s.doc.DefaultConfig == "" {
		return nil, ErrNoDefaultSet
	}
	if _, ok := s.doc.Configs[s.doc.DefaultConfig]; !ok {
		return nil, fmt.Errorf("%w: default configuration %q no longer exists",
			ErrDanglingReference, s.doc.DefaultConfig)
	}
	return s.loadConfigLocked(s.doc.DefaultConfig)
}

// EnvForConfig resolves a configuration by name and derives its environment
// mapping. Pure with respect to the document: no persistence side effect.
func (s *Store) EnvForConfig(name string) (EnvMap, error) {
	rc, err := s.LoadConfigByName(name)
	if err != nil {
		return EnvMap{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolveEnv(&NamedConfig{Provider: rc.ProviderName, Models: rc.Models}, s.doc.Providers), nil
}

func marshalDocument(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
