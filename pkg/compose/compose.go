// Package compose drives the external compose orchestrator. The stack
// definition is streamed over stdin so no compose file ever touches disk.
package compose

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"composeclean/pkg/ui"
	"golang.org/x/sync/errgroup"
)

// TearDowner stops and removes a compose project described by definition.
// Consumers should accept this interface to enable testing with mocks.
type TearDowner interface {
	TearDown(ctx context.Context, definition string, project string) (int, error)
}

// Runner runs "<Command> -p <project> -f - down" with the definition on stdin.
type Runner struct {
	// Command is the orchestrator invocation, e.g. ["docker-compose"] or ["docker", "compose"].
	Command []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Compile-time check that Runner implements TearDowner.
var _ TearDowner = (*Runner)(nil)

// NewRunner returns a Runner that mirrors orchestrator output to the process console.
func NewRunner(command []string) *Runner {
	return &Runner{
		Command: append([]string(nil), command...),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// DownArgs returns the orchestrator arguments that tear project down while
// reading the stack definition from stdin. "down" removes containers, the
// default network and anonymous volumes.
func DownArgs(project string) []string {
	return []string{"-p", project, "-f", "-", "down"}
}

// TearDown launches the orchestrator and blocks until it exits. A non-zero
// exit code is returned without an error; only launch, stdin and context
// failures are errors.
func (r *Runner) TearDown(ctx context.Context, definition string, project string) (int, error) {
	if len(r.Command) == 0 {
		return -1, errors.New("compose command is empty")
	}

	args := append(append([]string(nil), r.Command[1:]...), DownArgs(project)...)
	cmd := exec.CommandContext(ctx, r.Command[0], args...) // #nosec G204 -- command is validated configuration

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to open compose stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to open compose stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to open compose stderr: %w", err)
	}

	ui.Log.Debug("Launching compose orchestrator", ui.Log.Args("command", strings.Join(cmd.Args, " "), "project", project))
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", r.Command[0], err)
	}

	// All three streams must be finished before Wait closes the pipes.
	var g errgroup.Group
	g.Go(func() error { return writeDefinition(stdin, definition) })
	g.Go(func() error { return forwardLines(stdout, writerOrDiscard(r.Stdout)) })
	g.Go(func() error { return forwardLines(stderr, writerOrDiscard(r.Stderr)) })
	streamErr := g.Wait()

	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("compose down interrupted: %w", ctxErr)
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return -1, fmt.Errorf("failed waiting for %s: %w", r.Command[0], waitErr)
		}
		exitCode = exitErr.ExitCode()
	}
	ui.Log.Debug("Compose orchestrator exited", ui.Log.Args("exitCode", exitCode))

	if streamErr != nil {
		return exitCode, streamErr
	}
	return exitCode, nil
}

func writeDefinition(stdin io.WriteCloser, definition string) error {
	_, writeErr := io.WriteString(stdin, definition)
	closeErr := stdin.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to write stack definition to compose stdin: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close compose stdin: %w", closeErr)
	}
	return nil
}

// forwardLines copies r to w one line at a time. If w fails, r is still
// drained so the child never blocks on a full pipe.
func forwardLines(r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if _, werr := io.WriteString(w, line+"\n"); werr != nil {
				_, _ = io.Copy(io.Discard, reader)
				return fmt.Errorf("failed to forward compose output: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("failed to read compose output: %w", err)
		}
	}
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
