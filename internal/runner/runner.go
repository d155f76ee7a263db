package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"dubboard/internal/services"
)

// Command describes a single external tool invocation. A zero Timeout means
// the call is bounded only by the caller's context.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// String renders the invocation for log output.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// CommandRunner executes external commands. The production implementation
// shells out; tests substitute fakes so pipeline logic runs without ffmpeg,
// yt-dlp, or whisper installed.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands via os/exec with combined output capture.
type ExecRunner struct{}

// NewExecRunner returns the production command runner.
func NewExecRunner() ExecRunner {
	return ExecRunner{}
}

// Run executes the command and returns its combined output. Non-zero exit and
// timeout both surface as errors; timeouts are tagged with services.ErrTimeout.
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, errors.New("runner: empty command name")
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if cmd.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(runCtx, cmd.Name, cmd.Args...) //nolint:gosec
	output, err := execCmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return output, fmt.Errorf("%w: %s after %s", services.ErrTimeout, cmd.Name, cmd.Timeout)
		}
		return output, fmt.Errorf("%s: %w: %s", cmd.Name, err, firstLine(output))
	}
	return output, nil
}

func firstLine(output []byte) string {
	trimmed := strings.TrimSpace(string(output))
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
