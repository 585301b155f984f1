// Package cli is a small command-tree runner: subcommand selection, typed flags, positional-arg validation, generated help, and exit codes (0 success, 1
// runtime error, 2 usage error).
package cli

import "fmt"

// RunFunc is a command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. Errors are reported as usage errors (exit code 2) unless they carry another code via ExitCoder.
type ArgsFunc func(args []string) error

// Command is one node of a command tree.
type Command struct {
	Name    string   // Token that invokes the command (ex: "show" in "plans show").
	Aliases []string // Additional tokens that invoke the command.

	Short   string
	Long    string
	Example string

	Args ArgsFunc // optional
	Run  RunFunc  // optional; a command without Run requires a subcommand.

	parent   *Command
	children []*Command
	flags    *FlagSet
}

// AddCommand adds child commands under c.
func (c *Command) AddCommand(children ...*Command) {
	for _, child := range children {
		switch {
		case child == nil:
			panic("cli: AddCommand called with nil child")
		case child.parent != nil:
			panic("cli: AddCommand called with a child already attached to a parent")
		case child.Name == "":
			panic("cli: AddCommand called with a child with empty Name")
		}
		c.children = append(c.children, child)
		child.parent = c
	}
}

// Flags returns c's flags. Flags belong to a single command and are not inherited by subcommands.
func (c *Command) Flags() *FlagSet {
	if c.flags == nil {
		c.flags = newFlagSet()
	}
	return c.flags
}

func (c *Command) child(token string) *Command {
	for _, child := range c.children {
		if child.Name == token {
			return child
		}
		for _, alias := range child.Aliases {
			if alias == token {
				return child
			}
		}
	}
	return nil
}

// path returns the command names from the root to c, inclusive.
func (c *Command) path() []string {
	var names []string
	for cur := c; cur != nil; cur = cur.parent {
		names = append([]string{cur.Name}, names...)
	}
	return names
}

// NoArgs validates that there are no positional args.
func NoArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	return usageErrorf("expected no args, got %d", len(args))
}

// ExactArgs returns an ArgsFunc that validates that exactly n args are provided.
func ExactArgs(n int) ArgsFunc {
	return func(args []string) error {
		if len(args) == n {
			return nil
		}
		return usageErrorf("expected %s, got %d", pluralArgs(n), len(args))
	}
}

// RangeArgs returns an ArgsFunc that validates that between min and max args are provided (inclusive).
func RangeArgs(min, max int) ArgsFunc {
	return func(args []string) error {
		if len(args) >= min && len(args) <= max {
			return nil
		}
		return usageErrorf("expected %d-%d args, got %d", min, max, len(args))
	}
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 arg"
	}
	return fmt.Sprintf("%d args", n)
}
