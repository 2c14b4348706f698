package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cci-tools/cci/internal/config"
)

// stdout is the writer used for launch-time output. Tests can replace it.
var stdout io.Writer = os.Stdout

var rootCmd = &cobra.Command{
	Use:   "cci [claude args...]",
	Short: "Launch Claude Code with a saved provider configuration",
	Long:  "Resolve a saved configuration to environment variables and start Claude Code with the remaining arguments forwarded.",
	// Unknown flags belong to claude, not to us.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runLaunch,
}

func init() {
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func Execute() error {
	if os.Getenv("CCI_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
	return rootCmd.Execute()
}

// splitWrapperArgs pulls the -c/--config flag out of the argument list and
// returns the selected config name plus the remaining args in their original
// order. Everything not recognized as a wrapper flag is claude's.
func splitWrapperArgs(args []string) (configName string, rest []string, err error) {
	rest = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("flag %s requires a configuration name", arg)
			}
			configName = args[i+1]
			i++
		case strings.HasPrefix(arg, "-c="):
			configName = strings.TrimPrefix(arg, "-c=")
		case strings.HasPrefix(arg, "--config="):
			configName = strings.TrimPrefix(arg, "--config=")
		default:
			rest = append(rest, arg)
		}
	}
	return configName, rest, nil
}

func runLaunch(cmd *cobra.Command, args []string) error {
	configName, claudeArgs, err := splitWrapperArgs(args)
	if err != nil {
		return err
	}
	if len(claudeArgs) > 0 && (claudeArgs[0] == "-h" || claudeArgs[0] == "--help") {
		return cmd.Help()
	}

	env, name, err := resolveLaunchEnv(configName)
	if err != nil {
		return err
	}

	if name != "" {
		printEnvSummary(stdout, name, env)
		env.Apply()
	}

	return runClaude(claudeArgs)
}

// resolveLaunchEnv maps the optional -c value to an environment set. With no
// flag and no default configured the launch proceeds with a plain environment.
func resolveLaunchEnv(configName string) (config.EnvMap, string, error) {
	s := config.DefaultStore()

	if configName != "" {
		rc, err := s.LoadConfigByName(configName)
		if err != nil {
			if errors.Is(err, config.ErrNotFound) {
				return config.EnvMap{}, "", configNotFoundError(s, configName)
			}
			return config.EnvMap{}, "", err
		}
		return rc.Env(), rc.Name, nil
	}

	rc, err := s.LoadDefaultConfig()
	switch {
	case err == nil:
		return rc.Env(), rc.Name, nil
	case errors.Is(err, config.ErrNoDefaultSet):
		log.Warn("no default configuration set, launching claude unchanged", "hint", "run 'cci config' to create one")
		return config.EnvMap{}, "", nil
	case errors.Is(err, config.ErrDanglingReference):
		log.Warn("default configuration references a deleted provider, launching claude unchanged", "config", s.DefaultConfigName())
		return config.EnvMap{}, "", nil
	default:
		return config.EnvMap{}, "", err
	}
}

func configNotFoundError(s *config.Store, name string) error {
	available := s.ConfigNames()
	if len(available) == 0 {
		return fmt.Errorf("configuration '%s' not found. Run 'cci config' to create one", name)
	}
	return fmt.Errorf("configuration '%s' not found. Available: %s", name, strings.Join(available, ", "))
}

// runClaude starts claude as a subprocess with inherited stdio, forwards
// SIGINT/SIGTERM, and mirrors its exit code.
func runClaude(args []string) error {
	claudeBin, err := exec.LookPath("claude")
	if err != nil {
		return fmt.Errorf("claude not found in PATH: %w", err)
	}

	log.Debug("launching claude", "bin", claudeBin, "args", args)

	claudeCmd := exec.Command(claudeBin, args...)
	claudeCmd.Stdin = os.Stdin
	claudeCmd.Stdout = os.Stdout
	claudeCmd.Stderr = os.Stderr

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for sig := range sigCh {
			if claudeCmd.Process != nil {
				claudeCmd.Process.Signal(sig)
			}
		}
	}()

	if err := claudeCmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	return nil
}
