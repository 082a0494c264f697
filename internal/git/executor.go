package git

import (
	"bytes"
	"io"
	"os/exec"

	"github.com/slig-dev/slig/internal/errors"
)

// CommandExecutor defines an interface for executing commands
type CommandExecutor interface {
	// Execute runs a command and returns its exit code
	Execute(cmd *exec.Cmd) error

	// ExecuteWithOutput runs a command and returns its stdout and exit code
	ExecuteWithOutput(cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package.
//
// The command's stderr is always captured for error reporting. When the
// caller pre-set cmd.Stderr, output is mirrored there as well, which is how
// git diagnostics reach the user's terminal verbatim.
type ExecExecutor struct{}

// Execute implements CommandExecutor.Execute
func (e *ExecExecutor) Execute(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	wireStderr(cmd, &stderr)

	err := cmd.Run()
	if err != nil {
		operation, args := splitArgs(cmd)
		wrappedErr := errors.Wrap(errors.ErrGitOperationFailed, err.Error())
		return errors.NewGitError(operation, args, wrappedErr, stderr.String())
	}
	return nil
}

// ExecuteWithOutput implements CommandExecutor.ExecuteWithOutput
func (e *ExecExecutor) ExecuteWithOutput(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	wireStderr(cmd, &stderr)

	err := cmd.Run()
	if err != nil {
		operation, args := splitArgs(cmd)
		wrappedErr := errors.Wrap(errors.ErrGitOperationFailed, err.Error())
		return stdout.String(), errors.NewGitError(operation, args, wrappedErr, stderr.String())
	}

	return stdout.String(), nil
}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// wireStderr captures stderr into buf, mirroring to any writer the caller
// already attached.
func wireStderr(cmd *exec.Cmd, buf *bytes.Buffer) {
	if cmd.Stderr != nil {
		cmd.Stderr = io.MultiWriter(cmd.Stderr, buf)
	} else {
		cmd.Stderr = buf
	}
}

// splitArgs extracts the executable and its arguments from a command
func splitArgs(cmd *exec.Cmd) (string, []string) {
	operation := ""
	if len(cmd.Args) > 0 {
		operation = cmd.Args[0]
	}

	var args []string
	if len(cmd.Args) > 1 {
		args = cmd.Args[1:]
	}

	return operation, args
}
