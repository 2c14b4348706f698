package config

import (
	"reflect"
	"testing"
)

func TestResolveEnvNoProvider(t *testing.T) {
	c := &NamedConfig{Models: ModelSettings{Sonnet: "some-model"}}

	env := ResolveEnv(c, map[string]*Provider{})

	if _, ok := env.Set[EnvBaseURL]; ok {
		t.Error("base URL variable must be omitted when no provider is set")
	}
	if env.Set[EnvSonnetModel] != "some-model" {
		t.Errorf("sonnet model = %q", env.Set[EnvSonnetModel])
	}
	if len(env.Unset) != 0 {
		t.Errorf("Unset = %v, want empty", env.Unset)
	}
}

func TestResolveEnvOmitsUnsetTiers(t *testing.T) {
	providers := map[string]*Provider{
		"p": {BaseURL: "https://api.example.com"},
	}
	c := &NamedConfig{Provider: "p", Models: ModelSettings{Haiku: "small-model"}}

	env := ResolveEnv(c, providers)

	if env.Set[EnvHaikuModel] != "small-model" {
		t.Errorf("haiku model = %q", env.Set[EnvHaikuModel])
	}
	for _, name := range []string{EnvSonnetModel, EnvOpusModel} {
		if _, ok := env.Set[name]; ok {
			t.Errorf("%s must be omitted for unset tier", name)
		}
	}
}

func TestResolveEnvCustomProviderUnsetsAuthToken(t *testing.T) {
	providers := map[string]*Provider{
		"custom": {BaseURL: "https://api.example.com"},
		"stock":  {BaseURL: DefaultAnthropicBaseURL},
	}

	env := ResolveEnv(&NamedConfig{Provider: "custom"}, providers)
	if !reflect.DeepEqual(env.Unset, []string{EnvAuthToken}) {
		t.Errorf("custom provider Unset = %v, want [%s]", env.Unset, EnvAuthToken)
	}
	if env.Set[EnvBaseURL] != "https://api.example.com" {
		t.Errorf("base URL = %q", env.Set[EnvBaseURL])
	}

	env = ResolveEnv(&NamedConfig{Provider: "stock"}, providers)
	if len(env.Unset) != 0 {
		t.Errorf("stock provider Unset = %v, want empty", env.Unset)
	}
}

func TestResolveEnvMissingProviderOmitsBaseURL(t *testing.T) {
	c := &NamedConfig{Provider: "gone", Models: ModelSettings{Opus: "big-model"}}

	env := ResolveEnv(c, map[string]*Provider{})

	if _, ok := env.Set[EnvBaseURL]; ok {
		t.Error("base URL variable must be omitted when provider is missing")
	}
	if env.Set[EnvOpusModel] != "big-model" {
		t.Errorf("opus model = %q", env.Set[EnvOpusModel])
	}
}

func TestResolveEnvAPIKeyDirect(t *testing.T) {
	providers := map[string]*Provider{
		"p": {BaseURL: "https://api.example.com", APIKey: "sk-test", APIKeyType: APIKeyDirect},
	}

	env := ResolveEnv(&NamedConfig{Provider: "p"}, providers)
	if env.Set[EnvAPIKey] != "sk-test" {
		t.Errorf("api key = %q", env.Set[EnvAPIKey])
	}
}

func TestResolveEnvAPIKeyFromEnvVar(t *testing.T) {
	t.Setenv("CCI_TEST_KEY", "sk-from-env")
	providers := map[string]*Provider{
		"p": {BaseURL: "https://api.example.com", APIKey: "CCI_TEST_KEY", APIKeyType: APIKeyEnvVar},
	}

	env := ResolveEnv(&NamedConfig{Provider: "p"}, providers)
	if env.Set[EnvAPIKey] != "sk-from-env" {
		t.Errorf("api key = %q", env.Set[EnvAPIKey])
	}

	t.Setenv("CCI_TEST_KEY", "")
	env = ResolveEnv(&NamedConfig{Provider: "p"}, providers)
	if _, ok := env.Set[EnvAPIKey]; ok {
		t.Error("api key variable must be omitted when the env var is empty")
	}
}

func TestResolveEnvDeterministic(t *testing.T) {
	providers := map[string]*Provider{
		"p": {BaseURL: "https://api.example.com"},
	}
	c := &NamedConfig{Provider: "p", Models: ModelSettings{Haiku: "a", Sonnet: "b", Opus: "c"}}

	first := ResolveEnv(c, providers)
	second := ResolveEnv(c, providers)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ResolveEnv not deterministic: %v vs %v", first, second)
	}
}

func TestEnvMapSortedKeys(t *testing.T) {
	env := EnvMap{Set: map[string]string{"B": "2", "A": "1", "C": "3"}}
	got := env.SortedKeys()
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
}
