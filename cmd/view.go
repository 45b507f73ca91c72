package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"autocov.dev/pkg/autocov/internal/domain"
	m "autocov.dev/pkg/autocov/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previously recorded coverage sessions",
		Long:  "View previously recorded coverage sessions from a reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))
			return workflow.View(cmd.Context(), domain.ViewArgs{Reports: reportsPath})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
