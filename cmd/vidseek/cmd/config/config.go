package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vidseek/cmd/vidseek/cmd/common"
	appconfig "vidseek/internal/app/config"
	envconfig "vidseek/internal/config"
)

var force bool

// Cmd groups the configuration commands
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the vidseek configuration",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := common.ResolvedConfigPath()
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		if err := appconfig.Save(appconfig.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration and which API keys are set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(common.ResolvedConfigPath())
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "# %s\n%s", common.ResolvedConfigPath(), out)

		available := envconfig.GetAPIKeys().Available()
		if len(available) == 0 {
			fmt.Fprintln(w, "# API keys: none")
		} else {
			fmt.Fprintf(w, "# API keys: %s\n", strings.Join(available, ", "))
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
}
