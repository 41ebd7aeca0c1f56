// repl.go - Interactive command shell with a live status line

/*
mnomer - a sine based metronome for the command line

https://github.com/thfr/mnomer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// CommandFunc runs one command with its argument string (empty when none
// was given) and returns a message for the user.
type CommandFunc func(args string) (string, error)

// CommandDefinition binds a command name to its handler and help text. The
// empty name binds the bare ENTER key.
type CommandDefinition struct {
	Name string
	Run  CommandFunc
	Help string
}

// StatusSource fills the inverse-video status line at the bottom row.
type StatusSource interface {
	Status() string
}

// Repl reads keys from a raw-mode terminal, edits a command line with
// history, and dispatches entered commands. It implements the built-ins
// "help" and "quit"/"exit" and leaves on Ctrl-C or Ctrl-D.
type Repl struct {
	prompt   string
	status   StatusSource
	commands map[string]*CommandDefinition
	history  inputHistory
	exit     atomic.Bool
	in       *os.File
	out      *os.File
}

func NewRepl(prompt string, status StatusSource) *Repl {
	return &Repl{
		prompt:   prompt,
		status:   status,
		commands: make(map[string]*CommandDefinition),
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetCommand adds or replaces a command definition.
func (r *Repl) SetCommand(def CommandDefinition) {
	d := def
	r.commands[d.Name] = &d
}

// Run switches the terminal to raw mode and processes keys until quit.
// The terminal state is restored on return.
func (r *Repl) Run() error {
	fd := int(r.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(r.out, "\r\n")
	}()

	r.exit.Store(false)
	r.refresh("")

	buf := make([]byte, 1)
	for !r.exit.Load() {
		n, err := r.in.Read(buf)
		if err != nil {
			return nil
		}
		if n == 0 {
			continue
		}
		switch b := buf[0]; b {
		case 0x03, 0x04: // Ctrl-C, Ctrl-D
			return nil
		case '\r', '\n':
			r.onEnter()
		case 0x7F, 0x08: // DEL from modern terminals, BS
			r.history.backspace()
			r.refresh("")
		case 0x1B:
			r.onEscapeSequence()
		default:
			if b >= 0x20 && b < 0x7F {
				r.history.addRune(rune(b))
				r.refresh("")
			}
		}
	}
	return nil
}

// onEscapeSequence decodes the CSI sequences the editor reacts to: arrow
// keys and the delete key. Unknown sequences are dropped.
func (r *Repl) onEscapeSequence() {
	var seq [2]byte
	if n, err := r.in.Read(seq[:1]); err != nil || n == 0 || seq[0] != '[' {
		return
	}
	if n, err := r.in.Read(seq[1:]); err != nil || n == 0 {
		return
	}

	switch seq[1] {
	case 'A':
		r.history.up()
	case 'B':
		r.history.down()
	case 'C':
		r.history.right()
	case 'D':
		r.history.left()
	case '3': // delete key: ESC [ 3 ~
		var tilde [1]byte
		if n, err := r.in.Read(tilde[:]); err != nil || n == 0 || tilde[0] != '~' {
			return
		}
		r.history.deleteKey()
	default:
		return
	}
	r.refresh("")
}

func (r *Repl) onEnter() {
	line := r.history.line()
	r.history.commitLine()

	message, err := r.dispatch(line)
	if err != nil {
		message = "Error: " + err.Error()
	}
	fmt.Fprint(r.out, "\r\n")
	r.refresh(message)
}

// dispatch matches the input against built-ins first, then the command
// table.
func (r *Repl) dispatch(input string) (string, error) {
	name, args := parseCommand(input)

	switch name {
	case "quit", "exit":
		r.exit.Store(true)
		return "Exiting", nil
	case "help":
		return r.helpMessage(args)
	}

	def, ok := r.commands[name]
	if !ok {
		return "", fmt.Errorf("command %q is unknown, known commands: %s", name, r.listCommands())
	}
	message, err := def.Run(args)
	if err != nil {
		if def.Help != "" {
			return "", fmt.Errorf("%s: %w, usage: %s", displayName(def.Name), err, def.Help)
		}
		return "", fmt.Errorf("%s: %w", displayName(def.Name), err)
	}
	return message, nil
}

func (r *Repl) helpMessage(args string) (string, error) {
	if args == "" {
		return fmt.Sprintf("Known commands: %s. Use \"help <COMMAND>\" for details.", r.listCommands()), nil
	}
	def, ok := r.commands[args]
	if !ok {
		return "", fmt.Errorf("command %q is unknown", args)
	}
	if def.Help == "" {
		return "No help message", nil
	}
	return def.Help, nil
}

func (r *Repl) listCommands() string {
	names := make([]string, 0, len(r.commands)+2)
	for name := range r.commands {
		names = append(names, displayName(name))
	}
	names = append(names, "help", "quit")
	sort.Strings(names)
	return strings.Join(names, " ")
}

func displayName(name string) string {
	if name == "" {
		return "<ENTER>"
	}
	return name
}

// refresh repaints the message (if any), the prompt row, and the
// inverse-video status line on the bottom row of the terminal.
func (r *Repl) refresh(message string) {
	rows := 24
	if _, h, err := term.GetSize(int(r.in.Fd())); err == nil && h > 1 {
		rows = h
	}

	var sb strings.Builder
	if message != "" {
		sb.WriteString("\x1b[2K\r")
		sb.WriteString(message)
		sb.WriteString("\x1b[1S\r\n")
	}
	fmt.Fprintf(&sb, "\x1b[%d;1H\x1b[2K", rows)
	fmt.Fprintf(&sb, "\x1b[7m%s\x1b[0m", r.status.Status())
	sb.WriteString("\x1b[1A\x1b[2K\r")
	sb.WriteString(r.prompt)
	sb.WriteString(r.history.line())
	fmt.Fprintf(&sb, "\x1b[%dG", len(r.prompt)+r.history.column+1)

	fmt.Fprint(r.out, sb.String())
}

// parseCommand splits the first line of input into the command word and the
// remaining argument string, both trimmed.
func parseCommand(input string) (name, args string) {
	trimmed := strings.TrimLeft(input, " \t")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, " \t")
	if trimmed == "" {
		return "", ""
	}
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		return trimmed[:i], strings.TrimLeft(trimmed[i+1:], " \t")
	}
	return trimmed, ""
}
