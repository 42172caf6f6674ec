package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidseek/internal/app"
)

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vidseek",
	Long:  `All software has versions. This is vidseek's.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), app.Version)
		return nil
	},
}
