package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cci-tools/cci/internal/config"
)

var useCmd = &cobra.Command{
	Use:               "use <config> [claude args...]",
	Short:             "Load a configuration and exec claude directly",
	ValidArgsFunction: completeConfigNames,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE:              runUse,
}

func runUse(cmd *cobra.Command, args []string) error {
	s := config.DefaultStore()
	available := s.ConfigNames()

	if len(args) == 0 {
		fmt.Println("Usage: cci use <config> [claude args...]")
		if len(available) > 0 {
			fmt.Printf("\nAvailable configurations: %s\n", strings.Join(available, ", "))
		} else {
			fmt.Println("\nNo configurations saved. Run 'cci config' to create one.")
		}
		return nil
	}

	configName := args[0]
	claudeArgs := args[1:]

	rc, err := s.LoadConfigByName(configName)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			fmt.Printf("Configuration '%s' not found.\n", configName)
			if len(available) > 0 {
				fmt.Printf("Available configurations: %s\n", strings.Join(available, ", "))
			} else {
				fmt.Println("No configurations saved. Run 'cci config' to create one.")
			}
			return nil
		}
		return err
	}

	env := rc.Env()
	printEnvSummary(stdout, rc.Name, env)
	env.Apply()

	claudeBin, err := exec.LookPath("claude")
	if err != nil {
		return fmt.Errorf("claude not found in PATH: %w", err)
	}

	// Replace this process, like shell exec.
	argv := append([]string{"claude"}, claudeArgs...)
	return syscall.Exec(claudeBin, argv, os.Environ())
}

func completeConfigNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := config.DefaultStore().ConfigNames()
	return names, cobra.ShellCompDirectiveNoFileComp
}
