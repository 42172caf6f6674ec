package transcript

import (
	"github.com/spf13/cobra"

	"vidseek/cmd/vidseek/cmd/common"
	"vidseek/internal/app/videosearch"
)

var duration string
var asJSON bool

func init() {
	Cmd.Flags().StringVarP(&duration, "duration", "d", "", "video duration as MM:SS or HH:MM:SS")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "print the transcript as JSON")
}

// Cmd represents the transcript command
var Cmd = &cobra.Command{
	Use:   "transcript <videoId>",
	Short: "Print a video's timestamped transcript",
	Long: `Print a video's timestamped transcript

- No embedding API key is needed
- The transcript is cached for later searches`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithService(cmd.Context(), func(_ *common.Runtime, svc *videosearch.Service) error {
			t, err := svc.Transcript(cmd.Context(), videosearch.SearchSession{VideoID: args[0], Duration: duration})
			if err != nil {
				return err
			}
			if asJSON {
				return common.PrintJSON(cmd.OutOrStdout(), t)
			}
			common.PrintSegments(cmd.OutOrStdout(), t.Segments)
			return nil
		})
	},
}
