package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/codalotl/artifactview/internal/artifacts"
	"github.com/codalotl/artifactview/internal/config"
	"github.com/codalotl/artifactview/internal/diff"
	"github.com/codalotl/artifactview/internal/markdown"
	qcli "github.com/codalotl/artifactview/internal/q/cli"
	"github.com/codalotl/artifactview/internal/q/uni"
	"github.com/codalotl/artifactview/internal/server"
)

func newRootCommand(a *app) *qcli.Command {
	root := &qcli.Command{
		Name:  "artifactview",
		Short: "artifactview shows the diffs, plans, and file history recorded by coding-agent sessions.",
	}
	root.AddCommand(
		newDiffCommand(a),
		newMarkdownCommand(a),
		newPlansCommand(a),
		newSessionsCommand(a),
		newChangesCommand(a),
		newServeCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

var diffFormats = []string{"unified", "pretty", "split", "json"}

func newDiffCommand(a *app) *qcli.Command {
	cmd := &qcli.Command{
		Name:  "diff",
		Short: "Show a line diff of two files",
		Long: `Compares OLD and NEW as a single block of changed lines between their common prefix and suffix.
Either file may be "-" to read stdin.`,
		Example: "artifactview diff before.go after.go\nartifactview diff -f split --context 1 a.txt b.txt",
		Args:    qcli.ExactArgs(2),
	}
	format := cmd.Flags().Enum("format", 'f', "unified", diffFormats, "Output format")
	contextLines := cmd.Flags().Int("context", 'C', -1, "Unchanged lines to show around changes (default: config context)")
	normalize := cmd.Flags().Bool("normalize", 'n', false, "Treat CRLF and CR line endings as LF")

	cmd.Run = func(c *qcli.Context) error {
		if c.Args[0] == "-" && c.Args[1] == "-" {
			return qcli.Usagef("only one of OLD and NEW may be -")
		}
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		oldText, err := readInput(c, c.Args[0])
		if err != nil {
			return err
		}
		newText, err := readInput(c, c.Args[1])
		if err != nil {
			return err
		}
		if *normalize {
			oldText, newText = diff.NormalizeEOL(oldText), diff.NormalizeEOL(newText)
		}
		r := diff.DiffLines(oldText, newText)
		a.logger().Debug("diff", "old", c.Args[0], "new", c.Args[1], "stats", r.Stats())
		return writeDiff(c.Out, r, *format, c.Args[0], c.Args[1], contextSize(*contextLines, cfg), cfg.Width)
	}
	return cmd
}

func newMarkdownCommand(a *app) *qcli.Command {
	cmd := &qcli.Command{
		Name:    "md",
		Short:   "Render a markdown file for the terminal or as HTML",
		Example: "artifactview md plan.md\nartifactview md --html --sanitize plan.md > plan.html",
		Args:    qcli.ExactArgs(1),
	}
	asHTML := cmd.Flags().Bool("html", 0, false, "Write an HTML fragment instead of terminal text")
	sanitize := cmd.Flags().Bool("sanitize", 0, false, "Sanitize the HTML fragment (implies --html)")
	languageClass := cmd.Flags().Bool("language-class", 0, false, `Add class="language-<lang>" to fenced code (implies --html)`)

	cmd.Run = func(c *qcli.Context) error {
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		source, err := readInput(c, c.Args[0])
		if err != nil {
			return err
		}
		doc := markdown.Parse(source)
		if *asHTML || *sanitize || *languageClass {
			html := markdown.RenderHTML(doc, markdown.RenderOptions{LegacyOrderedLists: cfg.LegacyOrderedLists, LanguageClass: *languageClass})
			if *sanitize {
				html = markdown.Sanitize(html)
			}
			return writeBlock(c.Out, html)
		}
		return writeBlock(c.Out, renderText(c.Out, doc, cfg))
	}
	return cmd
}

func newPlansCommand(a *app) *qcli.Command {
	list := func(c *qcli.Context) error {
		store, err := a.plans()
		if err != nil {
			return err
		}
		infos, err := store.List(c.Context)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(c.Err, "no plans found")
			return nil
		}
		nameWidth := 0
		for _, p := range infos {
			nameWidth = max(nameWidth, uni.TextWidth(p.Name, nil))
		}
		for _, p := range infos {
			fmt.Fprintf(c.Out, "%s  %s  %s\n", uni.PadRight(p.Name, nameWidth, nil), formatTime(p.LastModified), p.Title)
		}
		return nil
	}

	cmd := &qcli.Command{
		Name:  "plans",
		Short: "List plans, or show one",
		Args:  qcli.NoArgs,
		Run:   list,
	}
	ls := &qcli.Command{
		Name:    "ls",
		Aliases: []string{"list"},
		Short:   "List plans, newest first",
		Args:    qcli.NoArgs,
		Run:     list,
	}
	show := &qcli.Command{
		Name:  "show",
		Short: "Render a plan",
		Args:  qcli.ExactArgs(1),
	}
	asHTML := show.Flags().Bool("html", 0, false, "Write sanitized HTML instead of terminal text")
	show.Run = func(c *qcli.Context) error {
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		store, err := a.plans()
		if err != nil {
			return err
		}
		plan, err := store.Get(c.Context, c.Args[0])
		if err != nil {
			return err
		}
		doc := markdown.Parse(plan.Content)
		if *asHTML {
			return writeBlock(c.Out, markdown.Sanitize(markdown.RenderHTML(doc, markdown.RenderOptions{LegacyOrderedLists: cfg.LegacyOrderedLists})))
		}
		return writeBlock(c.Out, renderText(c.Out, doc, cfg))
	}
	cmd.AddCommand(ls, show)
	return cmd
}

func newSessionsCommand(a *app) *qcli.Command {
	return &qcli.Command{
		Name:  "sessions",
		Short: "List recorded sessions, most recent first",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			store, err := a.history()
			if err != nil {
				return err
			}
			sessions, err := store.Sessions(c.Context)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(c.Err, "no sessions found")
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintf(c.Out, "%s  %s  %s\n", s.ID, formatTime(s.LastModified), s.Project)
			}
			return nil
		},
	}
}

func newChangesCommand(a *app) *qcli.Command {
	cmd := &qcli.Command{
		Name:  "changes",
		Short: "List a session's file backups, or diff one",
		Long: `With only SESSION, lists the file backups recorded by the session. With BACKUP (ex: 3f9a0c1d2e4b5a6c@v2), diffs that backup
against the previous version of the same file. With --edits, diffs every Write/Edit/MultiEdit tool call instead.`,
		Args: qcli.RangeArgs(1, 2),
	}
	format := cmd.Flags().Enum("format", 'f', "unified", diffFormats, "Output format for diffs")
	contextLines := cmd.Flags().Int("context", 'C', -1, "Unchanged lines to show around changes (default: config context)")
	normalize := cmd.Flags().Bool("normalize", 'n', false, "Treat CRLF and CR line endings as LF")
	edits := cmd.Flags().Bool("edits", 'e', false, "Diff the session's edit tool calls")

	cmd.Run = func(c *qcli.Context) error {
		if *edits && len(c.Args) == 2 {
			return qcli.Usagef("--edits does not take a BACKUP")
		}
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		store, err := a.history()
		if err != nil {
			return err
		}
		sessionID := c.Args[0]
		ctxSize := contextSize(*contextLines, cfg)

		switch {
		case *edits:
			changes, err := store.ToolEdits(c.Context, sessionID)
			if err != nil {
				return err
			}
			for i, fc := range changes {
				if i > 0 && *format != "json" {
					fmt.Fprintln(c.Out)
				}
				if err := writeDiff(c.Out, fc.Diff(*normalize), *format, fc.FilePath, fc.FilePath, ctxSize, cfg.Width); err != nil {
					return err
				}
			}
			return nil
		case len(c.Args) == 2:
			fc, err := store.FileChange(c.Context, sessionID, c.Args[1])
			if err != nil {
				return err
			}
			from := fc.FilePath
			if fc.Type == artifacts.TypeWrite {
				from = ""
			}
			return writeDiff(c.Out, fc.Diff(*normalize), *format, from, fc.FilePath, ctxSize, cfg.Width)
		default:
			refs, err := store.Changes(c.Context, sessionID)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				fmt.Fprintln(c.Err, "no file backups recorded")
				return nil
			}
			nameWidth := 0
			for _, ref := range refs {
				nameWidth = max(nameWidth, len(ref.BackupFileName))
			}
			for _, ref := range refs {
				fmt.Fprintf(c.Out, "%s  %s  %s\n", formatTime(ref.Timestamp), uni.PadRight(ref.BackupFileName, nameWidth, nil), ref.FilePath)
			}
			return nil
		}
	}
	return cmd
}

func newServeCommand(a *app) *qcli.Command {
	cmd := &qcli.Command{
		Name:  "serve",
		Short: "Serve the JSON API used by the dashboard's web view",
		Args:  qcli.NoArgs,
	}
	addr := cmd.Flags().String("addr", 0, "", "Listen address (default: config addr)")

	cmd.Run = func(c *qcli.Context) error {
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		if *addr != "" {
			cfg.Addr = *addr
		}
		history, err := a.history()
		if err != nil {
			return err
		}
		plans, err := a.plans()
		if err != nil {
			return err
		}
		srv := server.New(history, plans, server.Options{
			Addr:               cfg.Addr,
			AllowOrigins:       cfg.AllowOrigins,
			CacheSize:          cfg.CacheSize,
			LegacyOrderedLists: cfg.LegacyOrderedLists,
			Logger:             a.logger(),
		})

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(c.Err, "serving on http://%s\n", cfg.Addr)
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
	return cmd
}

func newConfigCommand(a *app) *qcli.Command {
	return &qcli.Command{
		Name:  "config",
		Short: "Print the effective configuration and the files it came from",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := config.WriteJSON(c.Out, cfg); err != nil {
				return err
			}
			for _, src := range cfg.Sources {
				fmt.Fprintf(c.Err, "read %s\n", src)
			}
			return nil
		},
	}
}

func newVersionCommand() *qcli.Command {
	return &qcli.Command{
		Name:  "version",
		Short: "Print the version",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			_, err := fmt.Fprintln(c.Out, Version)
			return err
		},
	}
}

// readInput reads the file at path as text, or stdin if path is "-".
func readInput(c *qcli.Context, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(c.In)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	return artifacts.ReadText(path)
}

// contextSize returns flagValue if it was set (>= 0), else the configured context.
func contextSize(flagValue int, cfg config.Config) int {
	if flagValue >= 0 {
		return flagValue
	}
	return cfg.Context
}

type diffJSON struct {
	Entries diff.Result `json:"entries"`
	Stats   diff.Stats  `json:"stats"`
}

func writeDiff(w io.Writer, r diff.Result, format string, from, to string, ctxSize int, width int) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(diffJSON{Entries: r, Stats: r.Stats()})
	case "pretty":
		return writeBlock(w, r.RenderPretty(from, to, ctxSize))
	case "split":
		return writeBlock(w, r.RenderSplit(layoutWidth(w, width), ctxSize))
	default:
		return writeBlock(w, r.RenderUnified(useColor(w), from, to, ctxSize))
	}
}

func renderText(w io.Writer, doc *markdown.Document, cfg config.Config) string {
	return markdown.RenderText(doc, markdown.TextOptions{Color: useColor(w), Width: layoutWidth(w, cfg.Width)})
}

// writeBlock writes s followed by a newline, or nothing if s is empty.
func writeBlock(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, strings.TrimSuffix(s, "\n")+"\n")
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "----------------"
	}
	return t.Local().Format("2006-01-02 15:04")
}
