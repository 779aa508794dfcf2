package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Exec runs commands on the host.
type Exec struct{}

// Output runs command, a program followed by space separated arguments, and
// returns what it wrote to stdout. Stderr is discarded. The process is killed
// when ctx is done.
func (Exec) Output(ctx context.Context, command string) ([]byte, error) {
	args := splitArgs(command)
	if len(args) == 0 {
		return nil, fmt.Errorf("command is empty")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = io.Discard

	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Available reports whether the program of command can be found in PATH.
func Available(command string) bool {
	args := splitArgs(command)
	if len(args) == 0 {
		return false
	}
	_, err := exec.LookPath(args[0])
	return err == nil
}

func splitArgs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}
