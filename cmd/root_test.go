package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainmocks "autocov.dev/pkg/autocov/internal/domain/mocks"
	m "autocov.dev/pkg/autocov/internal/model"
)

// executeCommand runs cmd with args, logging into a temporary file.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "autocov.log")}, args...))

	err := cmd.Execute()

	return output.String(), err
}

func useMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	originalWorkflow := workflow
	workflow = mockWorkflow
	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want m.Path
	}{
		{"no args", nil, m.Path(".")},
		{"empty arg", []string{""}, m.Path(".")},
		{"project dir", []string{"./calculator"}, m.Path("./calculator")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePath(tt.args))
		})
	}
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "autocov", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)

	assert.NotNil(t, cmd.PersistentFlags().Lookup(outputFlagName))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(verboseFlagName))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(logFileFlagName))
}

func TestRootCmd_HelpOutput(t *testing.T) {
	output, err := executeCommand(t, newRootCmd())

	require.NoError(t, err)
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "src/")
}

func TestInit(t *testing.T) {
	assert.NotNil(t, ui)
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, testRunner)
	assert.NotNil(t, coverageEngine)
	assert.NotNil(t, llmClient)
	assert.NotNil(t, installer)
	assert.NotNil(t, reportStore)
	assert.NotNil(t, inventory)
	assert.NotNil(t, analyzer)
	assert.NotNil(t, generator)
	assert.NotNil(t, workflow)
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"run", "list", "models", "view", "init", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd
	defer func() { rootCmd = originalRootCmd }()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Context() == nil {
				return fmt.Errorf("missing context")
			}

			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})
	mockCmd.SetArgs([]string{})

	rootCmd = mockCmd

	// A failure would exit the test binary.
	Execute()
}

func TestExecute_WithError(t *testing.T) {
	originalRootCmd := rootCmd
	defer func() { rootCmd = originalRootCmd }()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(_ *cobra.Command, _ []string) error {
			return fmt.Errorf("command failed")
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})
	mockCmd.SetArgs([]string{})

	rootCmd = mockCmd

	err := rootCmd.Execute()
	require.Error(t, err)
}

func TestExecute_ProcessLevel_Success(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(_ *cobra.Command, _ []string) error {
				fmt.Println("success")
				return nil
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		mockCmd.SetArgs([]string{})
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Success")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS=1")
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "success")
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(_ *cobra.Command, _ []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		mockCmd.SetArgs([]string{})
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	if exitErr, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitErr.ExitCode())
	} else {
		assert.Fail(t, "expected exec.ExitError", "got %T", err)
	}

	assert.Contains(t, string(output), "error occurred")
}
