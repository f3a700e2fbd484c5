package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"box-skill-whisper/cmd/skill/cmd/process"
	"box-skill-whisper/cmd/skill/cmd/serve"
	"box-skill-whisper/cmd/skill/cmd/version"
	"box-skill-whisper/internal/config"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skill",
	Short: "Box Skill that turns audio and video files into transcript, summary and keyword cards",
	Long: `Box Skill that turns audio and video files into transcript, summary and keyword cards.
- "serve" runs the webhook server Box invokes for every uploaded file
- "process" runs the same analysis on local files without touching Box`,
	TraverseChildren: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if Verbose {
			os.Setenv("LOG_LEVEL", "debug")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
