package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var kindPrefix = map[Kind]string{
	Success: "OK ",
	Error:   "ERROR ",
	Warning: "WARNING ",
	Info:    "",
}

// Terminal renders notices to a writer and reads confirmations from a
// reader. Navigation prints the subcommand to run next, since a CLI has no
// real page transitions.
type Terminal struct {
	In  *bufio.Reader
	Out io.Writer
	// AssumeYes answers every confirmation positively, for -y style flags.
	AssumeYes bool
}

// NewTerminal creates a Terminal over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{In: bufio.NewReader(in), Out: out}
}

func (t *Terminal) Notify(kind Kind, message string) {
	fmt.Fprintf(t.Out, "%s%s\n", kindPrefix[kind], message)
}

func (t *Terminal) Confirm(message string) bool {
	if t.AssumeYes {
		return true
	}
	fmt.Fprintf(t.Out, "%s [y/N]: ", message)
	line, err := t.In.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (t *Terminal) Navigate(page Page, args ...string) {
	if len(args) > 0 {
		fmt.Fprintf(t.Out, "-> next: %s %s\n", page, strings.Join(args, " "))
		return
	}
	fmt.Fprintf(t.Out, "-> next: %s\n", page)
}
