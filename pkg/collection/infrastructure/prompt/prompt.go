package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Confirmer asks a yes/no question and reads the answer line from in. The
// reader is shared with whatever else consumes the same input, so callers
// must not wrap the underlying stream twice.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConfirmer(in *bufio.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out}
}

// Confirm treats only y and yes as consent. End of input declines.
func (c *Confirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	if err == io.EOF && line == "" {
		fmt.Fprintln(c.out)
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

type AssumeYes struct{}

func (AssumeYes) Confirm(string) (bool, error) { return true, nil }

// IsInteractive reports whether fd is attached to a terminal.
func IsInteractive(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
