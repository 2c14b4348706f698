package config

import (
	"os"
	"sort"
)

// Environment variable names consumed by the claude CLI. These are an
// integration contract; the names must be preserved verbatim.
const (
	EnvBaseURL     = "ANTHROPIC_BASE_URL"
	EnvAuthToken   = "ANTHROPIC_AUTH_TOKEN"
	EnvAPIKey      = "ANTHROPIC_API_KEY"
	EnvHaikuModel  = "ANTHROPIC_DEFAULT_HAIKU_MODEL"
	EnvSonnetModel = "ANTHROPIC_DEFAULT_SONNET_MODEL"
	EnvOpusModel   = "ANTHROPIC_DEFAULT_OPUS_MODEL"
)

func envForModelType(t ModelType) string {
	switch t {
	case ModelHaiku:
		return EnvHaikuModel
	case ModelSonnet:
		return EnvSonnetModel
	case ModelOpus:
		return EnvOpusModel
	}
	return ""
}

// EnvMap is the environment mutation a configuration resolves to. Set holds
// variables to export; Unset names inherited variables that must be removed
// from the child environment. Removal is explicit rather than implied by
// absence so that a custom endpoint never sees credentials meant for the
// stock one.
type EnvMap struct {
	Set   map[string]string
	Unset []string
}

// SortedKeys returns the Set variable names in stable order for display.
func (e EnvMap) SortedKeys() []string {
	keys := make([]string, 0, len(e.Set))
	for k := range e.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply mutates the current process environment, which child processes
// inherit on exec.
func (e EnvMap) Apply() {
	for _, k := range e.Unset {
		os.Unsetenv(k)
	}
	for k, v := range e.Set {
		os.Setenv(k, v)
	}
}

// ResolveEnv derives the environment mapping for a configuration against the
// live provider map.
//
// Tiers without a selection produce no variable. A configuration without a
// provider (or whose provider is missing from the map) omits the base-URL
// variable entirely. When the provider is custom, the inherited auth token is
// explicitly unset. Deterministic for fixed inputs and process environment;
// the environment is read only to resolve an envvar-typed API key.
func ResolveEnv(c *NamedConfig, providers map[string]*Provider) EnvMap {
	env := EnvMap{Set: make(map[string]string)}
	if c == nil {
		return env
	}

	for _, t := range ModelTypes() {
		if model := c.Models.Get(t); model != "" {
			env.Set[envForModelType(t)] = model
		}
	}

	if c.Provider == "" {
		return env
	}
	p := providers[c.Provider]
	if p == nil {
		return env
	}

	env.Set[EnvBaseURL] = p.BaseURL

	switch p.APIKeyType {
	case APIKeyDirect:
		if p.APIKey != "" {
			env.Set[EnvAPIKey] = p.APIKey
		}
	case APIKeyEnvVar:
		if v := os.Getenv(p.APIKey); v != "" {
			env.Set[EnvAPIKey] = v
		}
	}

	if p.BaseURL != DefaultAnthropicBaseURL {
		env.Unset = append(env.Unset, EnvAuthToken)
	}
	return env
}
