package cmd

import (
	"github.com/spf13/cobra"

	"autocov.dev/pkg/autocov/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List source files and their test files",
		Long:  listLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{Path: parsePath(args)})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
