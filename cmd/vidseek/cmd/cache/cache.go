package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidseek/cmd/vidseek/cmd/common"
	"vidseek/internal/app/videosearch"
)

// Cmd groups the cache maintenance commands
var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the transcript and embedding cache",
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove cache entries older than the retention period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithService(cmd.Context(), func(_ *common.Runtime, svc *videosearch.Service) error {
			removed, err := svc.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <videoId>",
	Short: "Drop the cached transcript and index of one video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithService(cmd.Context(), func(_ *common.Runtime, svc *videosearch.Service) error {
			if err := svc.Invalidate(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared cache for %s\n", args[0])
			return nil
		})
	},
}

func init() {
	Cmd.AddCommand(sweepCmd)
	Cmd.AddCommand(clearCmd)
}
