package shell

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// Run executes name with args in dir and returns its trimmed standard output.
// A non-zero exit fails with a ShellCommandError carrying the captured stderr.
func Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	logger.Debugf("[shell] %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &entities.ShellCommandError{
			Command: name,
			Args:    args,
			Stderr:  stderr.String(),
			Err:     err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
