package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// PausePrompt is shown before the process exits.
const PausePrompt = "Press any key to close this window..."

// WaitForKey prints the exit prompt and blocks until a key is pressed.
// A terminal is switched to raw mode so a single key is enough; any other
// reader is consumed up to the next newline. EOF counts as acknowledgment.
func WaitForKey(in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, pterm.FgYellow.Sprint(PausePrompt))

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { // #nosec G115 -- file descriptors fit in int
		return readRawKey(f)
	}

	_, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func readRawKey(f *os.File) error {
	fd := int(f.Fd()) // #nosec G115
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, state)
	}()

	var buf [1]byte
	if _, err := f.Read(buf[:]); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
