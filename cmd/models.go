package cmd

import (
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command.
var modelsCmd = newModelsCmd()

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models offered by the text generation service",
		Long: `List the model identifiers accepted by the configured OpenAI-compatible
service. Requires an API key (GROQ_API_KEY or AUTOCOV_LLM_API_KEY).`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Models(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
