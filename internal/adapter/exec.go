package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	m "autocov.dev/pkg/autocov/internal/model"
)

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// runCommand executes name with args inside workDir. A non-zero exit is
// reported through the returned TestRun, not as an error; only failing to
// start (or a cancelled context) yields an error.
func runCommand(ctx context.Context, timeout time.Duration, workDir m.Path, name string, args ...string) (m.TestRun, error) {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// #nosec G204 - the interpreter and arguments come from local configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = string(workDir)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running command", "dir", workDir, "name", name, "args", args)

	err := cmd.Run()
	output := stdout.String() + stderr.String()

	if err == nil {
		return m.TestRun{ExitCode: 0, Output: output}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.TestRun{ExitCode: -1, Output: output}, fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return m.TestRun{ExitCode: exitErr.ExitCode(), Output: output}, nil
	}

	return m.TestRun{ExitCode: -1, Output: output}, fmt.Errorf("failed to start %s: %w", name, err)
}
