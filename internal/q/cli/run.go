package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExitCoder is an error with an explicit process exit code.
type ExitCoder interface {
	error
	ExitCode() int
}

// UsageError indicates a user-facing mistake (exit code 2). Run prints it followed by the command's help.
type UsageError struct {
	Message string
}

func (e UsageError) Error() string { return e.Message }
func (e UsageError) ExitCode() int { return 2 }

// Usagef returns a UsageError, for handlers that find a usage mistake Args could not check.
func Usagef(format string, args ...any) UsageError {
	return usageErrorf(format, args...)
}

func usageErrorf(format string, args ...any) UsageError {
	return UsageError{Message: fmt.Sprintf(format, args...)}
}

// ExitError wraps an error with a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error { return e.Err }
func (e ExitError) ExitCode() int { return e.Code }

type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// In/Out/Err override standard I/O. If nil, defaults are used.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Context is passed to a command handler. Flag values are read through the pointers returned when the flags were defined.
type Context struct {
	context.Context

	Command *Command
	Args    []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

var errHelpPrinted = errors.New("help printed")

// Run executes a command tree as a CLI program and returns a process exit code.
func Run(ctx context.Context, root *Command, opts Options) int {
	if root == nil || root.Name == "" {
		panic("cli: Run called with a nil or unnamed root")
	}

	c := &Context{Context: ctx, In: opts.In, Out: opts.Out, Err: opts.Err}
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Err == nil {
		c.Err = os.Stderr
	}

	cmd, args, err := parseArgv(root, opts.Args, c.Out)
	if errors.Is(err, errHelpPrinted) {
		return 0
	}
	if err == nil && cmd.Run == nil {
		if len(args) == 0 {
			err = usageErrorf("missing required subcommand")
		} else {
			err = usageErrorf("unknown subcommand: %s", args[0])
		}
	}
	if err == nil && cmd.Args != nil {
		if argsErr := cmd.Args(args); argsErr != nil {
			err = argsErr
			var ec ExitCoder
			if !errors.As(err, &ec) {
				err = UsageError{Message: err.Error()}
			}
		}
	}
	if err == nil {
		c.Command, c.Args = cmd, args
		err = cmd.Run(c)
	}
	return exitCode(cmd, err, c.Err)
}

// parseArgv selects the deepest command named by leading tokens and parses its flags, which may be interspersed with positional args. Everything after "--"
// is positional.
func parseArgv(root *Command, argv []string, out io.Writer) (*Command, []string, error) {
	cmd := root
	selecting := true
	var positional []string

	for i := 0; i < len(argv); i++ {
		token := argv[i]
		switch {
		case token == "--":
			return cmd, append(positional, argv[i+1:]...), nil
		case token == "-h" || token == "--help":
			writeHelp(out, cmd)
			return cmd, nil, errHelpPrinted
		case strings.HasPrefix(token, "-") && token != "-":
			consumed, err := cmd.flags.parseFlag(argv, i)
			if err != nil {
				return cmd, nil, err
			}
			if consumed {
				i++
			}
			continue
		}

		if selecting {
			if child := cmd.child(token); child != nil {
				cmd = child
				continue
			}
			selecting = false
		}
		positional = append(positional, token)
	}
	return cmd, positional, nil
}

func exitCode(cmd *Command, err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	code := 1
	var ec ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	switch code {
	case 0:
	case 2:
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(errOut, "%s\n\n", msg)
		}
		writeHelp(errOut, cmd)
	default:
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
	}
	return code
}
