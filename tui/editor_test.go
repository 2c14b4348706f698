package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cci-tools/cci/internal/config"
)

// scriptPrompter replays canned answers; selections match by title prefix is
// not needed, answers are consumed in order per prompt kind.
type scriptPrompter struct {
	t        *testing.T
	selects  []string
	confirms []bool
	texts    []string
}

func (p *scriptPrompter) Select(title string, options []string) (string, error) {
	if len(p.selects) == 0 {
		return "", ErrCancelled
	}
	answer := p.selects[0]
	p.selects = p.selects[1:]
	for _, o := range options {
		if o == answer {
			return answer, nil
		}
	}
	p.t.Fatalf("scripted answer %q not among options %v for %q", answer, options, title)
	return "", nil
}

func (p *scriptPrompter) Confirm(message string) (bool, error) {
	if len(p.confirms) == 0 {
		return false, ErrCancelled
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func (p *scriptPrompter) Text(label, placeholder string) (string, error) {
	if len(p.texts) == 0 {
		return "", ErrCancelled
	}
	answer := p.texts[0]
	p.texts = p.texts[1:]
	return answer, nil
}

func newTestEditor(t *testing.T, ui Prompter) (*Editor, *config.Store) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	config.ResetDefaultStore()
	t.Cleanup(func() { config.ResetDefaultStore() })
	s := config.DefaultStore()
	e := NewEditor(s, ui)
	e.SetOutput(&bytes.Buffer{})
	return e, s
}

func modelServer(t *testing.T, ids ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		type entry struct {
			ID string `json:"id"`
		}
		data := []entry{}
		for _, id := range ids {
			data = append(data, entry{ID: id})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func addProvider(t *testing.T, s *config.Store, name string, models ...string) {
	t.Helper()
	srv := modelServer(t, models...)
	if _, err := s.AddProvider(context.Background(), name, srv.URL, "", config.APIKeyNone); err != nil {
		t.Fatalf("AddProvider(%q) error: %v", name, err)
	}
}

func TestRunQuits(t *testing.T) {
	ui := &scriptPrompter{t: t, selects: []string{menuQuit}}
	e, _ := newTestEditor(t, ui)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestRunCancelledAtMenuExitsCleanly(t *testing.T) {
	ui := &scriptPrompter{t: t} // empty script: first Select cancels
	e, _ := newTestEditor(t, ui)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestAddProviderFlow(t *testing.T) {
	srv := modelServer(t, "model-a", "model-b")
	ui := &scriptPrompter{
		t:       t,
		selects: []string{"No API key"},
		texts:   []string{"My Provider!", srv.URL},
	}
	e, s := newTestEditor(t, ui)

	if err := e.addProvider(context.Background()); err != nil {
		t.Fatalf("addProvider() error: %v", err)
	}

	p := s.GetProvider("my-provider")
	if p == nil {
		t.Fatal("provider not stored")
	}
	if len(p.Models) != 2 {
		t.Errorf("Models = %v", p.Models)
	}
}

func TestAddProviderRetriesBadURL(t *testing.T) {
	srv := modelServer(t, "m")
	ui := &scriptPrompter{
		t:       t,
		selects: []string{"No API key"},
		texts:   []string{"work", "not a url", srv.URL},
	}
	e, s := newTestEditor(t, ui)

	if err := e.addProvider(context.Background()); err != nil {
		t.Fatalf("addProvider() error: %v", err)
	}
	if s.GetProvider("work") == nil {
		t.Fatal("provider not stored after URL retry")
	}
}

func TestAddProviderDirectKey(t *testing.T) {
	srv := modelServer(t, "m")
	ui := &scriptPrompter{
		t:       t,
		selects: []string{"Enter key directly"},
		texts:   []string{"keyed", "sk-test", srv.URL},
	}
	e, s := newTestEditor(t, ui)

	if err := e.addProvider(context.Background()); err != nil {
		t.Fatalf("addProvider() error: %v", err)
	}
	p := s.GetProvider("keyed")
	if p == nil {
		t.Fatal("provider not stored")
	}
	if p.APIKey != "sk-test" || p.APIKeyType != config.APIKeyDirect {
		t.Errorf("APIKey = %q type %q", p.APIKey, p.APIKeyType)
	}
}

func TestCreateConfigFlow(t *testing.T) {
	ui := &scriptPrompter{
		t: t,
		selects: []string{
			"work",     // provider
			"model-a",  // haiku
			noneOption, // sonnet
			"model-b",  // opus
		},
		texts: []string{"Daily Driver"},
	}
	e, s := newTestEditor(t, ui)
	addProvider(t, s, "work", "model-a", "model-b")

	if err := e.createConfig(); err != nil {
		t.Fatalf("createConfig() error: %v", err)
	}

	rc, err := s.LoadConfigByName("daily-driver")
	if err != nil {
		t.Fatalf("LoadConfigByName() error: %v", err)
	}
	if rc.Models.Haiku != "model-a" || rc.Models.Sonnet != "" || rc.Models.Opus != "model-b" {
		t.Errorf("Models = %+v", rc.Models)
	}
	// First saved config becomes the default.
	if s.DefaultConfigName() != "daily-driver" {
		t.Errorf("DefaultConfigName() = %q", s.DefaultConfigName())
	}
}

func TestCreateConfigOverwrite(t *testing.T) {
	ui := &scriptPrompter{
		t:        t,
		selects:  []string{"work", "model-a", noneOption, noneOption},
		texts:    []string{"daily"},
		confirms: []bool{true},
	}
	e, s := newTestEditor(t, ui)
	addProvider(t, s, "work", "model-a")
	if _, err := s.SaveConfigAs("daily", config.Draft{Provider: "work"}, false); err != nil {
		t.Fatal(err)
	}

	if err := e.createConfig(); err != nil {
		t.Fatalf("createConfig() error: %v", err)
	}

	rc, err := s.LoadConfigByName("daily")
	if err != nil {
		t.Fatal(err)
	}
	if rc.Models.Haiku != "model-a" {
		t.Errorf("overwrite did not take: %+v", rc.Models)
	}
}

func TestDeleteProviderFlowDegradesConfigs(t *testing.T) {
	ui := &scriptPrompter{
		t:        t,
		selects:  []string{"work"},
		confirms: []bool{true},
	}
	e, s := newTestEditor(t, ui)
	addProvider(t, s, "work", "model-a")
	if _, err := s.SaveConfigAs("daily", config.Draft{Provider: "work", Models: config.ModelSettings{Haiku: "model-a"}}, false); err != nil {
		t.Fatal(err)
	}

	if err := e.deleteProvider(); err != nil {
		t.Fatalf("deleteProvider() error: %v", err)
	}

	if s.GetProvider("work") != nil {
		t.Error("provider still present")
	}
	c := s.GetConfig("daily")
	if c == nil {
		t.Fatal("config deleted with provider")
	}
	if c.Provider != "" || !c.Models.IsZero() {
		t.Errorf("config not degraded: %+v", c)
	}
}

func TestDeleteProviderDeclined(t *testing.T) {
	ui := &scriptPrompter{
		t:        t,
		selects:  []string{"work"},
		confirms: []bool{false},
	}
	e, s := newTestEditor(t, ui)
	addProvider(t, s, "work", "m")

	if err := e.deleteProvider(); err != nil {
		t.Fatalf("deleteProvider() error: %v", err)
	}
	if s.GetProvider("work") == nil {
		t.Error("declined delete still removed the provider")
	}
}

func TestDeleteConfigClearsDefault(t *testing.T) {
	ui := &scriptPrompter{
		t:        t,
		selects:  []string{"daily"},
		confirms: []bool{true},
	}
	e, s := newTestEditor(t, ui)
	addProvider(t, s, "work", "m")
	if _, err := s.SaveConfigAs("daily", config.Draft{Provider: "work"}, false); err != nil {
		t.Fatal(err)
	}

	if err := e.deleteConfig(); err != nil {
		t.Fatalf("deleteConfig() error: %v", err)
	}
	if s.GetConfig("daily") != nil {
		t.Error("config still present")
	}
	if s.DefaultConfigName() != "" {
		t.Errorf("default not cleared: %q", s.DefaultConfigName())
	}
}

func TestSetDefaultConfigFlow(t *testing.T) {
	ui := &scriptPrompter{t: t, selects: []string{"second"}}
	e, s := newTestEditor(t, ui)
	addProvider(t, s, "work", "m")
	s.SaveConfigAs("first", config.Draft{Provider: "work"}, false)
	s.SaveConfigAs("second", config.Draft{Provider: "work"}, false)

	if err := e.setDefaultConfig(); err != nil {
		t.Fatalf("setDefaultConfig() error: %v", err)
	}
	if s.DefaultConfigName() != "second" {
		t.Errorf("DefaultConfigName() = %q", s.DefaultConfigName())
	}
}

func TestStoreWritesLandOnDisk(t *testing.T) {
	ui := &scriptPrompter{t: t, selects: []string{"work", "m", noneOption, noneOption}, texts: []string{"daily"}}
	e, s := newTestEditor(t, ui)
	addProvider(t, s, "work", "m")

	if err := e.createConfig(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(os.Getenv("HOME"), ".config", "cci", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("config file not valid JSON: %v", err)
	}
	if _, ok := doc["configs"].(map[string]any)["daily"]; !ok {
		t.Error("saved config missing from document")
	}
}
