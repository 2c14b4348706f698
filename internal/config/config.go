// Package config owns the persisted cci document: providers, saved
// configurations, and the default-configuration marker. All mutation goes
// through Store, which enforces name normalization, referential integrity,
// and atomic persistence.
package config

import "encoding/json"

const (
	ConfigDir  = ".config/cci"
	ConfigFile = "config.json"
)

// DefaultAnthropicBaseURL is the stock endpoint. A provider pointing anywhere
// else is treated as custom, and inherited credentials are stripped from the
// child environment.
const DefaultAnthropicBaseURL = "https://api.anthropic.com"

// ModelType is one of the three fixed model tiers the claude CLI recognizes.
type ModelType string

const (
	ModelHaiku  ModelType = "haiku"
	ModelSonnet ModelType = "sonnet"
	ModelOpus   ModelType = "opus"
)

// ModelTypes returns the tiers in display order.
func ModelTypes() []ModelType {
	return []ModelType{ModelHaiku, ModelSonnet, ModelOpus}
}

// APIKeyType controls how a provider's API key is resolved at launch time.
type APIKeyType string

const (
	APIKeyNone   APIKeyType = "none"   // provider needs no key
	APIKeyDirect APIKeyType = "direct" // key stored verbatim
	APIKeyEnvVar APIKeyType = "envvar" // key read from the named env var
)

// Provider is a named remote endpoint exposing a models-listing API.
// The model list is captured when the provider is added and refreshed on
// explicit update only.
type Provider struct {
	BaseURL    string     `json:"base_url"`
	Models     []string   `json:"models"`
	APIKey     string     `json:"api_key,omitempty"`
	APIKeyType APIKeyType `json:"api_key_type,omitempty"`
}

// ModelSettings maps each model tier to a selected model identifier.
// An empty string means no selection for that tier.
type ModelSettings struct {
	Haiku  string `json:"haiku,omitempty"`
	Sonnet string `json:"sonnet,omitempty"`
	Opus   string `json:"opus,omitempty"`
}

// Get returns the selection for a tier, or "" when unset.
func (m ModelSettings) Get(t ModelType) string {
	switch t {
	case ModelHaiku:
		return m.Haiku
	case ModelSonnet:
		return m.Sonnet
	case ModelOpus:
		return m.Opus
	}
	return ""
}

// Set records a selection for a tier. Passing "" clears the tier.
func (m *ModelSettings) Set(t ModelType, model string) error {
	switch t {
	case ModelHaiku:
		m.Haiku = model
	case ModelSonnet:
		m.Sonnet = model
	case ModelOpus:
		m.Opus = model
	default:
		return errNotFound("model type", string(t))
	}
	return nil
}

// IsZero reports whether no tier has a selection.
func (m ModelSettings) IsZero() bool {
	return m == ModelSettings{}
}

// NamedConfig is a saved pairing of a provider and per-tier model selections.
// Provider holds the provider's name only; it is a weak reference that must
// be re-resolved against the live provider map on every read.
type NamedConfig struct {
	Provider string        `json:"provider,omitempty"`
	Models   ModelSettings `json:"models"`
}

// Draft accumulates provider and model selections during one editing session
// before they are saved as a named configuration. It lives purely in memory;
// nothing is persisted until Store.SaveConfigAs.
type Draft struct {
	Provider string
	Models   ModelSettings
}

// SetModel records a pending selection for a tier.
func (d *Draft) SetModel(t ModelType, model string) error {
	return d.Models.Set(t, model)
}

// Document is the top-level structure stored in config.json.
//
// Unknown fields written by other tools are tolerated on load but dropped on
// the next save; encoding/json offers no round-trip for unrecognized keys.
type Document struct {
	Providers     map[string]*Provider    `json:"providers"`
	Configs       map[string]*NamedConfig `json:"configs"`
	DefaultConfig string                  `json:"default_config,omitempty"`
}

// UnmarshalJSON fills nil maps so loaded documents are always usable.
func (d *Document) UnmarshalJSON(data []byte) error {
	type documentAlias Document
	var alias documentAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*d = Document(alias)
	if d.Providers == nil {
		d.Providers = make(map[string]*Provider)
	}
	if d.Configs == nil {
		d.Configs = make(map[string]*NamedConfig)
	}
	return nil
}

// ResolvedConfig is a NamedConfig with its provider reference resolved.
// Provider is nil when the configuration has no provider selected.
type ResolvedConfig struct {
	Name         string
	ProviderName string
	Provider     *Provider
	Models       ModelSettings
}

// Env derives the environment mapping this configuration produces.
func (rc *ResolvedConfig) Env() EnvMap {
	providers := map[string]*Provider{}
	if rc.Provider != nil {
		providers[rc.ProviderName] = rc.Provider
	}
	return ResolveEnv(&NamedConfig{Provider: rc.ProviderName, Models: rc.Models}, providers)
}
