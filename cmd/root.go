// Package cmd provides the root command and CLI setup for autocov.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"autocov.dev/pkg/autocov/internal/adapter"
	"autocov.dev/pkg/autocov/internal/controller"
	"autocov.dev/pkg/autocov/internal/domain"
	m "autocov.dev/pkg/autocov/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var testRunner adapter.TestRunnerAdapter
var coverageEngine adapter.CoverageEngine
var llmClient adapter.LLMClient
var installer adapter.DependencyInstaller
var reportStore adapter.ReportStore
var inventory domain.Inventory
var analyzer domain.Analyzer
var generator domain.Generator
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	python := viper.GetString(pythonInterpreterKey)
	pythonTimeout := secondsSetting(pythonTimeoutKey)

	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	testRunner = adapter.NewLocalTestRunnerAdapter(python, pythonTimeout)
	coverageEngine = adapter.NewCoveragePyEngine(python, pythonTimeout)
	llmClient = adapter.NewLazyOpenAIClient(llmConfig)
	installer = adapter.NewPipInstaller(python, pythonTimeout)
	reportStore = adapter.NewReportStore()
	inventory = domain.NewInventory(fsAdapter, domain.InventoryOptions{
		SourceDir: viper.GetString(projectSourceDirKey),
		TestsDir:  viper.GetString(projectTestsDirKey),
	})
	analyzer = domain.NewAnalyzer(coverageEngine, testRunner, inventory)
	generator = domain.NewGenerator(
		inventory,
		domain.NewSynthesizer(llmClient, secondsSetting(llmTimeoutKey)),
		domain.NewNormalizer(fsAdapter, inventory.Language()),
	)
	workflow = domain.NewWorkflow(
		inventory,
		analyzer,
		generator,
		llmClient,
		installer,
		reportStore,
		ui,
	)
}

const rootLongDescription = `Autocov raises the line coverage of a Python project by generating pytest
tests for its least covered files with a language model, then re-measuring
until a target coverage is met or the round budget runs out.

The project is expected to keep its code under src/ and its tests under tests/.`

const runLongDescription = `Run the coverage loop on a project (default: current directory).

Each round measures coverage, asks for tests covering the uncovered functions
of every source file, appends them to the matching tests/test_<name>.py and
runs the suite again.`

const listLongDescription = `List the source files of a project with their line count and the
functions they declare.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autocov",
		Short: "LLM-driven test coverage tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd builds a detached root command with the persistent flags, used
// by tests to execute subcommands in isolation.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for session reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "path of the rotating log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the running command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePath(args []string) m.Path {
	if len(args) == 0 || args[0] == "" {
		return m.Path(".")
	}

	return m.Path(args[0])
}
