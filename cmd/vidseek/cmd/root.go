package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vidseek/cmd/vidseek/cmd/cache"
	"vidseek/cmd/vidseek/cmd/common"
	"vidseek/cmd/vidseek/cmd/config"
	"vidseek/cmd/vidseek/cmd/export"
	"vidseek/cmd/vidseek/cmd/index"
	"vidseek/cmd/vidseek/cmd/search"
	"vidseek/cmd/vidseek/cmd/serve"
	"vidseek/cmd/vidseek/cmd/transcript"
	"vidseek/cmd/vidseek/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vidseek",
	Short: "Semantic search inside video transcripts",
	Long: `Semantic search inside video transcripts.

- Acquire a transcript from captions, the rendered transcript panel or the audio track
- Chunk and embed it with OpenAI, Gemini or Hugging Face
- Rank the chunks against a query and print links that seek to each match`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and runs it. Interrupts
// cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(search.Cmd)
	rootCmd.AddCommand(index.Cmd)
	rootCmd.AddCommand(transcript.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(cache.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&common.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&common.ConfigPath, "config", "c", "", "config file (default is $HOME/.vidseek/config.yaml)")
}
