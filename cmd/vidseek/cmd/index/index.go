package index

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidseek/cmd/vidseek/cmd/common"
	"vidseek/internal/app/progress"
	"vidseek/internal/app/videosearch"
)

var duration string
var showProgress bool

func init() {
	Cmd.Flags().StringVarP(&duration, "duration", "d", "", "video duration as MM:SS or HH:MM:SS")
	Cmd.Flags().BoolVarP(&showProgress, "progress", "P", false, "show the progress bar even when stderr is not a terminal")
}

// Cmd represents the index command
var Cmd = &cobra.Command{
	Use:   "index <videoId>",
	Short: "Acquire, chunk and embed a video's transcript ahead of searching",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := progress.NewManager(progress.Config{Enabled: progress.ShouldShowProgress(showProgress)})
		tracker := progress.NewEmbeddingTracker(manager, "Embedding "+args[0])

		return common.WithService(cmd.Context(), func(_ *common.Runtime, svc *videosearch.Service) error {
			idx, err := svc.BuildIndex(cmd.Context(), videosearch.SearchSession{
				VideoID:    args[0],
				Duration:   duration,
				OnProgress: tracker.OnProgress,
			})
			tracker.Finish(err)
			manager.Wait()
			if err != nil {
				return err
			}

			state := "built"
			if idx.Cached {
				state = "reused"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Index %s for %s: %d segments from %s, %d chunks embedded with %s/%s\n",
				state, args[0], len(idx.Transcript.Segments), idx.Transcript.Source,
				len(idx.Embeddings), idx.Provider.Name, idx.Provider.Model)
			return nil
		})
	},
}
