package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitreq/packages/core/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		force bool
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .hitreq.yaml",
		Long: `Write a .hitreq.yaml with the default client settings to the current
directory (or --dir). Edit it to set default headers, timeouts and
transport overrides for every call.

Examples:
  hitreq init
  hitreq init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(dir, config.ConfigFilenames[0])

			if !force {
				if _, err := os.Stat(path); err == nil {
					return withExit(ExitConfigError, fmt.Errorf("file already exists: %s (use --force to overwrite)", path))
				}
			}

			cfg := config.DefaultConfig()
			cfg.UserAgent = "hitreq/" + version
			cfg.Headers = map[string]string{"Accept": "application/json"}

			if err := cfg.SaveConfig(path); err != nil {
				return withExit(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the config file to")

	return cmd
}
