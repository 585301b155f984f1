package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

func writeHelp(w io.Writer, cmd *Command) {
	full := strings.Join(cmd.path(), " ")
	if cmd.Short != "" {
		fmt.Fprintf(w, "%s - %s\n", full, cmd.Short)
	} else {
		fmt.Fprintf(w, "%s\n", full)
	}
	if cmd.Long != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimRight(cmd.Long, "\n"))
	}

	fmt.Fprintf(w, "\nUsage:\n  %s\n", usageLine(cmd))

	if len(cmd.children) > 0 {
		fmt.Fprintln(w, "\nCommands:")
		children := append([]*Command(nil), cmd.children...)
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		for _, child := range children {
			if child.Short != "" {
				fmt.Fprintf(w, "  %s\t%s\n", child.Name, child.Short)
			} else {
				fmt.Fprintf(w, "  %s\n", child.Name)
			}
		}
	}

	if defs := cmd.flags.sorted(); len(defs) > 0 {
		fmt.Fprintln(w, "\nFlags:")
		for _, def := range defs {
			fmt.Fprintln(w, def.helpLine())
		}
	}

	if cmd.Example != "" {
		fmt.Fprintln(w, "\nExample:")
		for _, line := range strings.Split(strings.TrimRight(cmd.Example, "\n"), "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func usageLine(cmd *Command) string {
	segments := cmd.path()
	if len(cmd.flags.sorted()) > 0 {
		segments = append(segments, "[flags]")
	}
	if len(cmd.children) > 0 {
		if cmd.Run == nil {
			segments = append(segments, "<command>")
		} else {
			segments = append(segments, "[command]")
		}
	}
	if cmd.Run != nil && (cmd.Args == nil || cmd.Args(nil) != nil) {
		segments = append(segments, "[args]")
	}
	return strings.Join(segments, " ")
}
