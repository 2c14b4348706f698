package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cci-tools/cci/internal/config"
)

var envCmd = &cobra.Command{
	Use:               "env [config]",
	Short:             "Print the environment a configuration resolves to",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeConfigNames,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE:              runEnv,
}

func runEnv(cmd *cobra.Command, args []string) error {
	s := config.DefaultStore()

	var rc *config.ResolvedConfig
	var err error
	if len(args) > 0 {
		rc, err = s.LoadConfigByName(args[0])
		if errors.Is(err, config.ErrNotFound) {
			return configNotFoundError(s, args[0])
		}
	} else {
		rc, err = s.LoadDefaultConfig()
		if errors.Is(err, config.ErrNoDefaultSet) {
			return fmt.Errorf("no default configuration set. Run 'cci config' to create one")
		}
	}
	if err != nil {
		return err
	}

	env := rc.Env()
	for _, k := range env.SortedKeys() {
		fmt.Fprintf(stdout, "export %s=%q\n", k, env.Set[k])
	}
	for _, k := range env.Unset {
		fmt.Fprintf(stdout, "unset %s\n", k)
	}
	return nil
}

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("109"))
	summaryKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("146"))
	summaryDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// printEnvSummary shows what the launch is about to apply. API keys are not
// echoed.
func printEnvSummary(w io.Writer, configName string, env config.EnvMap) {
	fmt.Fprintln(w, summaryHeaderStyle.Render("cci: using configuration "+configName))
	for _, k := range env.SortedKeys() {
		v := env.Set[k]
		if k == config.EnvAPIKey {
			v = "********"
		}
		fmt.Fprintf(w, "  %s=%s\n", summaryKeyStyle.Render(k), v)
	}
	for _, k := range env.Unset {
		fmt.Fprintln(w, summaryDimStyle.Render("  unset "+k))
	}
}
