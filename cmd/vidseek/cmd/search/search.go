package search

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vidseek/cmd/vidseek/cmd/common"
	"vidseek/internal/app/progress"
	"vidseek/internal/app/videosearch"
)

var duration string
var pagePath string
var asJSON bool

func init() {
	Cmd.Flags().StringVarP(&duration, "duration", "d", "", "video duration as MM:SS or HH:MM:SS, used to pace audio transcription")
	Cmd.Flags().StringVarP(&pagePath, "page", "p", "", "saved watch page HTML to read the rendered transcript from")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
}

// Cmd represents the search command
var Cmd = &cobra.Command{
	Use:   "search <videoId> <query...>",
	Short: "Search a video's transcript for passages matching a query",
	Long: `Search a video's transcript for passages matching a query

- Reuses the cached transcript and index when they are still valid
- Otherwise acquires the transcript and embeds it first
- Prints each match with a link that starts playback there`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := videosearch.SearchSession{
			VideoID:  args[0],
			Query:    strings.Join(args[1:], " "),
			Duration: duration,
		}
		if pagePath != "" {
			html, err := os.ReadFile(pagePath)
			if err != nil {
				return fmt.Errorf("failed to read page: %w", err)
			}
			session.PageHTML = string(html)
		}

		manager := progress.NewManager(progress.Config{Enabled: !asJSON && progress.ShouldShowProgress(false)})
		tracker := progress.NewEmbeddingTracker(manager, "Embedding")
		session.OnProgress = tracker.OnProgress

		return common.WithService(cmd.Context(), func(_ *common.Runtime, svc *videosearch.Service) error {
			resp, err := svc.Search(cmd.Context(), session)
			tracker.Finish(err)
			manager.Wait()
			if err != nil {
				return err
			}

			if asJSON {
				return common.PrintJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Results for %q (%s):\n", session.Query, resp.Provider)
			common.PrintResults(cmd.OutOrStdout(), resp.Results)
			return nil
		})
	},
}
