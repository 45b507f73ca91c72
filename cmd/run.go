package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"autocov.dev/pkg/autocov/internal/domain"
	m "autocov.dev/pkg/autocov/internal/model"
)

var runTargetFlag float64
var runMaxRoundsFlag int
var runModelFlag string
var runParallelFlag int
var runYesFlag bool
var runReviewFlag bool
var runInstallDepsFlag bool
var runSkipModelFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Generate tests until the coverage target is met",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.Run(cmd.Context(), domain.RunArgs{
				Path:           parsePath(args),
				Reports:        m.Path(viper.GetString(outputFlagName)),
				Model:          viper.GetString(runModelConfigKey),
				TargetCoverage: viper.GetFloat64(runTargetConfigKey),
				MaxRounds:      viper.GetInt(runMaxRoundsConfigKey),
				Parallel:       viper.GetInt(runParallelConfigKey),
				AlwaysProceed:  viper.GetBool(runYesConfigKey),
				Review:         viper.GetBool(runReviewConfigKey),
				InstallDeps:    viper.GetBool(runInstallDepsConfigKey),
				SkipModelCheck: viper.GetBool(runSkipModelConfigKey),
			})

			return err
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&runTargetFlag, runTargetFlagName, "t", viper.GetFloat64(runTargetConfigKey), "target line coverage percentage (0-100)")
	bindFlagToConfig(cmd.Flags().Lookup(runTargetFlagName), runTargetConfigKey)

	cmd.Flags().IntVarP(&runMaxRoundsFlag, runMaxRoundsFlagName, "r", viper.GetInt(runMaxRoundsConfigKey), "maximum number of generation rounds")
	bindFlagToConfig(cmd.Flags().Lookup(runMaxRoundsFlagName), runMaxRoundsConfigKey)

	cmd.Flags().StringVarP(&runModelFlag, runModelFlagName, "m", viper.GetString(runModelConfigKey), "language model used to generate tests")
	bindFlagToConfig(cmd.Flags().Lookup(runModelFlagName), runModelConfigKey)

	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of files prepared concurrently (0 means unlimited)")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().BoolVarP(&runYesFlag, runYesFlagName, "y", viper.GetBool(runYesConfigKey), "proceed without asking for confirmation")
	bindFlagToConfig(cmd.Flags().Lookup(runYesFlagName), runYesConfigKey)

	cmd.Flags().BoolVar(&runReviewFlag, runReviewFlagName, viper.GetBool(runReviewConfigKey), "pause after writing tests so they can be edited")
	bindFlagToConfig(cmd.Flags().Lookup(runReviewFlagName), runReviewConfigKey)

	cmd.Flags().BoolVar(&runInstallDepsFlag, runInstallDepsFlagName, viper.GetBool(runInstallDepsConfigKey), "install the project's dependencies with pip first")
	bindFlagToConfig(cmd.Flags().Lookup(runInstallDepsFlagName), runInstallDepsConfigKey)

	cmd.Flags().BoolVar(&runSkipModelFlag, runSkipModelFlagName, viper.GetBool(runSkipModelConfigKey), "use the model as given without checking the service's model list")
	bindFlagToConfig(cmd.Flags().Lookup(runSkipModelFlagName), runSkipModelConfigKey)
}
