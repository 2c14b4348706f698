package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cci-tools/cci/internal/config"
	"github.com/cci-tools/cci/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage providers and configurations interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		editor := tui.NewEditor(config.DefaultStore(), tui.NewPrompter())
		err := editor.Run(cmd.Context())
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		return err
	},
}
