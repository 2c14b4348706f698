package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cci-tools/cci/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configurations and providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("109")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func runList() error {
	s := config.DefaultStore()

	configNames := s.ConfigNames()
	if len(configNames) == 0 {
		fmt.Fprintln(stdout, "No configurations saved. Run 'cci config' to create one.")
	} else {
		defaultName := s.DefaultConfigName()
		t := newTable("NAME", "PROVIDER", "HAIKU", "SONNET", "OPUS", "DEFAULT")
		for _, name := range configNames {
			c := s.GetConfig(name)
			marker := ""
			if name == defaultName {
				marker = "*"
			}
			provider := c.Provider
			if provider == "" {
				provider = "-"
			}
			t.Row(name, provider,
				orDash(c.Models.Haiku), orDash(c.Models.Sonnet), orDash(c.Models.Opus), marker)
		}
		fmt.Fprintln(stdout, summaryHeaderStyle.Render("Configurations"))
		fmt.Fprintln(stdout, t.Render())
	}

	providerNames := s.ProviderNames()
	if len(providerNames) == 0 {
		fmt.Fprintln(stdout, "No providers configured.")
		return nil
	}
	t := newTable("NAME", "BASE URL", "MODELS", "API KEY")
	for _, name := range providerNames {
		p := s.GetProvider(name)
		t.Row(name, p.BaseURL, fmt.Sprintf("%d", len(p.Models)), keyTypeLabel(p.APIKeyType))
	}
	fmt.Fprintln(stdout, summaryHeaderStyle.Render("Providers"))
	fmt.Fprintln(stdout, t.Render())
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func keyTypeLabel(t config.APIKeyType) string {
	switch t {
	case config.APIKeyDirect:
		return "direct"
	case config.APIKeyEnvVar:
		return "env var"
	default:
		return "none"
	}
}
