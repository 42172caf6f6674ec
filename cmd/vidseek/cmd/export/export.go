package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidseek/cmd/vidseek/cmd/common"
	"vidseek/internal/app/export"
	"vidseek/internal/app/model"
	"vidseek/internal/app/videosearch"
)

var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export <videoId>",
	Short: "Export a video's transcript and chunk index to excel",
	Long: `Export a video's transcript and chunk index to excel

- The Transcript sheet has one row per segment with a seek link
- The Chunks sheet is added when the video has been indexed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithService(cmd.Context(), func(_ *common.Runtime, svc *videosearch.Service) error {
			t, err := svc.Transcript(cmd.Context(), videosearch.SearchSession{VideoID: args[0]})
			if err != nil {
				return err
			}
			set, err := svc.Embeddings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var embeddings []model.ChunkEmbedding
			if set != nil {
				embeddings = set.Embeddings
			}

			if err := export.ToExcel(*t, embeddings, outputFilePath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export finished, exported file path: %v\n", outputFilePath)
			return nil
		})
	},
}
