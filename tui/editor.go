package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cci-tools/cci/internal/config"
)

// Main menu entries.
const (
	menuAddProvider     = "Add provider"
	menuListProviders   = "List providers"
	menuRefreshProvider = "Refresh provider models"
	menuDeleteProvider  = "Delete provider"
	menuCreateConfig    = "Create configuration"
	menuListConfigs     = "List configurations"
	menuSetDefault      = "Set default configuration"
	menuDeleteConfig    = "Delete configuration"
	menuQuit            = "Quit"
)

var mainMenu = []string{
	menuAddProvider,
	menuListProviders,
	menuRefreshProvider,
	menuDeleteProvider,
	menuCreateConfig,
	menuListConfigs,
	menuSetDefault,
	menuDeleteConfig,
	menuQuit,
}

// noneOption is the selector entry that clears a model tier.
const noneOption = "(none)"

// Editor drives an interactive configuration session against a store.
type Editor struct {
	store *config.Store
	ui    Prompter
	out   io.Writer
}

// NewEditor returns an editor bound to the given store and prompter.
func NewEditor(store *config.Store, ui Prompter) *Editor {
	return &Editor{store: store, ui: ui, out: os.Stdout}
}

// SetOutput redirects the editor's status output. Intended for tests.
func (e *Editor) SetOutput(w io.Writer) { e.out = w }

// Run loops on the main menu until the user quits. Individual flow errors are
// shown and the session continues; only prompt-level failures end it.
func (e *Editor) Run(ctx context.Context) error {
	for {
		choice, err := e.ui.Select("cci configuration", mainMenu)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return nil
			}
			return err
		}

		switch choice {
		case menuAddProvider:
			err = e.addProvider(ctx)
		case menuListProviders:
			err = e.listProviders()
		case menuRefreshProvider:
			err = e.refreshProvider(ctx)
		case menuDeleteProvider:
			err = e.deleteProvider()
		case menuCreateConfig:
			err = e.createConfig()
		case menuListConfigs:
			err = e.listConfigs()
		case menuSetDefault:
			err = e.setDefaultConfig()
		case menuDeleteConfig:
			err = e.deleteConfig()
		case menuQuit:
			return nil
		}

		if err != nil {
			if errors.Is(err, ErrCancelled) {
				continue
			}
			fmt.Fprintln(e.out, errorStyle.Render("Error: "+err.Error()))
		}
	}
}

// addProvider collects a name, base URL, and API key handling, then validates
// the provider with a live discovery call. Connection failures re-prompt the
// URL instead of aborting the flow.
func (e *Editor) addProvider(ctx context.Context) error {
	var slug string
	for {
		name, err := e.ui.Text("Provider name", "e.g. work")
		if err != nil {
			return err
		}
		slug = config.Normalize(name)
		if slug == "" {
			fmt.Fprintln(e.out, errorStyle.Render("Provider name must contain letters or digits."))
			continue
		}
		if e.store.GetProvider(slug) != nil {
			fmt.Fprintln(e.out, errorStyle.Render(fmt.Sprintf("Provider %q already exists.", slug)))
			continue
		}
		break
	}

	apiKey, keyType, err := e.promptAPIKey()
	if err != nil {
		return err
	}

	for {
		baseURL, err := e.ui.Text("Base URL", "https://api.example.com")
		if err != nil {
			return err
		}

		added, err := e.store.AddProvider(ctx, slug, baseURL, apiKey, keyType)
		switch {
		case err == nil:
			p := e.store.GetProvider(added)
			fmt.Fprintln(e.out, successStyle.Render(
				fmt.Sprintf("Provider %q added with %d models.", added, len(p.Models))))
			return nil
		case errors.Is(err, config.ErrNoModelsFound):
			fmt.Fprintln(e.out, warnStyle.Render(
				fmt.Sprintf("Provider %q saved, but the endpoint listed no models.", added)))
			return nil
		case errors.Is(err, config.ErrPersistence), errors.Is(err, config.ErrDuplicateName):
			return err
		default:
			// Invalid or unreachable URL: let the user re-enter it.
			fmt.Fprintln(e.out, errorStyle.Render("Error: "+err.Error()))
		}
	}
}

func (e *Editor) promptAPIKey() (string, config.APIKeyType, error) {
	choice, err := e.ui.Select("API key handling", []string{
		"No API key",
		"Enter key directly",
		"Read key from an environment variable",
	})
	if err != nil {
		return "", "", err
	}
	switch choice {
	case "Enter key directly":
		key, err := e.ui.Text("API key", "sk-...")
		if err != nil {
			return "", "", err
		}
		return key, config.APIKeyDirect, nil
	case "Read key from an environment variable":
		name, err := e.ui.Text("Environment variable name", "MY_PROVIDER_KEY")
		if err != nil {
			return "", "", err
		}
		return name, config.APIKeyEnvVar, nil
	}
	return "", config.APIKeyNone, nil
}

func (e *Editor) listProviders() error {
	names := e.store.ProviderNames()
	if len(names) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render("No providers configured."))
		return nil
	}
	for _, name := range names {
		p := e.store.GetProvider(name)
		fmt.Fprintln(e.out, titleStyle.Render(name))
		fmt.Fprintln(e.out, "  URL:    "+p.BaseURL)
		fmt.Fprintf(e.out, "  Models: %d\n", len(p.Models))
		if len(p.Models) > 0 {
			shown := p.Models
			more := ""
			if len(shown) > 5 {
				more = fmt.Sprintf(", ... (%d more)", len(shown)-5)
				shown = shown[:5]
			}
			fmt.Fprintln(e.out, dimStyle.Render("  Available: "+strings.Join(shown, ", ")+more))
		}
	}
	return nil
}

func (e *Editor) refreshProvider(ctx context.Context) error {
	names := e.store.ProviderNames()
	if len(names) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render("No providers configured."))
		return nil
	}
	name, err := e.ui.Select("Refresh which provider?", names)
	if err != nil {
		return err
	}

	models, err := e.store.UpdateProvider(ctx, name)
	if errors.Is(err, config.ErrNoModelsFound) {
		fmt.Fprintln(e.out, warnStyle.Render(
			fmt.Sprintf("Provider %q refreshed, but the endpoint listed no models.", name)))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, successStyle.Render(
		fmt.Sprintf("Provider %q refreshed: %d models.", name, len(models))))
	return nil
}

func (e *Editor) deleteProvider() error {
	names := e.store.ProviderNames()
	if len(names) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render("No providers configured."))
		return nil
	}
	name, err := e.ui.Select("Delete which provider?", names)
	if err != nil {
		return err
	}

	if configs := e.store.GetConfigsForProvider(name); len(configs) > 0 {
		fmt.Fprintln(e.out, warnStyle.Render(
			fmt.Sprintf("Provider %q is referenced by %d configuration(s):", name, len(configs))))
		for _, cn := range configs {
			marker := ""
			if cn == e.store.DefaultConfigName() {
				marker = " (default)"
			}
			fmt.Fprintln(e.out, "  - "+cn+marker)
		}
		fmt.Fprintln(e.out, warnStyle.Render(
			"These configurations will keep their name but lose their provider and model settings."))
	}

	ok, err := e.ui.Confirm(fmt.Sprintf("Delete provider %q? This cannot be undone.", name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(e.out, dimStyle.Render("Cancelled."))
		return nil
	}

	if err := e.store.RemoveProvider(name); err != nil {
		return err
	}
	fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("Provider %q deleted.", name)))
	return nil
}

// createConfig walks provider selection, per-tier model selection, and
// naming. A duplicate name offers overwrite or a different name.
func (e *Editor) createConfig() error {
	providers := e.store.ProviderNames()
	if len(providers) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render("No providers configured. Add a provider first."))
		return nil
	}
	providerName, err := e.ui.Select("Select provider", providers)
	if err != nil {
		return err
	}

	models := e.store.AvailableModels(providerName)
	if len(models) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render(
			fmt.Sprintf("Provider %q has no models. Refresh it first.", providerName)))
		return nil
	}

	draft := config.Draft{Provider: providerName}
	options := append([]string{noneOption}, models...)
	for _, tier := range config.ModelTypes() {
		choice, err := e.ui.Select("Select model for "+tierLabel(tier), options)
		if err != nil {
			return err
		}
		if choice != noneOption {
			draft.SetModel(tier, choice)
		}
	}

	overwrite := false
	for {
		name, err := e.ui.Text("Configuration name", "e.g. daily")
		if err != nil {
			return err
		}

		slug, err := e.store.SaveConfigAs(name, draft, overwrite)
		switch {
		case err == nil:
			fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("Configuration %q saved.", slug)))
			if e.store.DefaultConfigName() == slug {
				fmt.Fprintln(e.out, dimStyle.Render(fmt.Sprintf("%q is now the default configuration.", slug)))
			}
			return nil
		case errors.Is(err, config.ErrDuplicateName):
			ok, cerr := e.ui.Confirm(fmt.Sprintf("Configuration %q already exists. Overwrite?", config.Normalize(name)))
			if cerr != nil {
				return cerr
			}
			if ok {
				if _, serr := e.store.SaveConfigAs(name, draft, true); serr != nil {
					return serr
				}
				fmt.Fprintln(e.out, successStyle.Render(
					fmt.Sprintf("Configuration %q overwritten.", config.Normalize(name))))
				return nil
			}
			// Fall through to re-prompt for a different name.
		case errors.Is(err, config.ErrInvalidName):
			fmt.Fprintln(e.out, errorStyle.Render("Configuration name must contain letters or digits."))
		default:
			return err
		}
	}
}

func (e *Editor) listConfigs() error {
	names := e.store.ConfigNames()
	if len(names) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render("No configurations saved."))
		return nil
	}
	defaultName := e.store.DefaultConfigName()
	for _, name := range names {
		c := e.store.GetConfig(name)
		header := name
		if name == defaultName {
			header += " " + successStyle.Render("(default)")
		}
		fmt.Fprintln(e.out, titleStyle.Render(header))
		provider := c.Provider
		if provider == "" {
			provider = dimStyle.Render("(no provider)")
		}
		fmt.Fprintln(e.out, "  Provider: "+provider)
		for _, tier := range config.ModelTypes() {
			model := c.Models.Get(tier)
			if model == "" {
				model = dimStyle.Render("-")
			}
			fmt.Fprintf(e.out, "  %-7s %s\n", tierLabel(tier)+":", model)
		}
	}
	return nil
}

func (e *Editor) setDefaultConfig() error {
	names := e.store.ConfigNames()
	if len(names) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render("No configurations saved."))
		return nil
	}
	name, err := e.ui.Select("Set which configuration as default?", names)
	if err != nil {
		return err
	}
	if err := e.store.SetDefaultConfig(name); err != nil {
		return err
	}
	fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("%q is now the default configuration.", name)))
	return nil
}

func (e *Editor) deleteConfig() error {
	names := e.store.ConfigNames()
	if len(names) == 0 {
		fmt.Fprintln(e.out, dimStyle.Render("No configurations saved."))
		return nil
	}
	name, err := e.ui.Select("Delete which configuration?", names)
	if err != nil {
		return err
	}

	wasDefault := e.store.DefaultConfigName() == config.Normalize(name)
	ok, err := e.ui.Confirm(fmt.Sprintf("Delete configuration %q?", name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(e.out, dimStyle.Render("Cancelled."))
		return nil
	}

	if err := e.store.RemoveConfig(name); err != nil {
		return err
	}
	fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("Configuration %q deleted.", name)))
	if wasDefault {
		fmt.Fprintln(e.out, warnStyle.Render("The default configuration marker was cleared."))
	}
	return nil
}

func tierLabel(t config.ModelType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
