package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/codalotl/artifactview/internal/artifacts"
	"github.com/codalotl/artifactview/internal/config"
	qcli "github.com/codalotl/artifactview/internal/q/cli"
	"github.com/codalotl/artifactview/internal/simplelogger"
	"golang.org/x/term"
)

// app holds state shared by the commands of one Run: configuration (loaded on first use) and the logger it configures.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	closeFn func() error
}

// loadConfig loads configuration once. A load failure is a runtime error (exit code 1).
func (a *app) loadConfig() (config.Config, error) {
	if a.cfg != nil {
		return *a.cfg, nil
	}
	cfg, err := config.Load("")
	if err != nil {
		return config.Config{}, qcli.ExitError{Code: 1, Err: err}
	}
	a.cfg = &cfg
	if a.closeFn != nil {
		_ = a.closeFn()
	}
	a.log, a.closeFn = simplelogger.New(cfg.LogFile, slog.LevelDebug)
	a.log.Debug("config loaded", "sources", cfg.Sources, "datadir", cfg.DataDir)
	return cfg, nil
}

// logger returns the configured logger, or one from the environment if configuration hasn't been loaded.
func (a *app) logger() *slog.Logger {
	if a.log == nil {
		a.log, a.closeFn = simplelogger.FromEnv()
	}
	return a.log
}

func (a *app) close() {
	if a.closeFn != nil {
		_ = a.closeFn()
	}
}

func (a *app) history() (*artifacts.HistoryStore, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return artifacts.NewHistoryStore(cfg.DataDir, a.logger()), nil
}

func (a *app) plans() (*artifacts.PlanStore, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return artifacts.NewPlanStore(cfg.PlansDir, a.logger()), nil
}

// defaultWidth is used for layout when stdout is not a terminal and no width is configured.
const defaultWidth = 120

// terminal reports whether w is a terminal, and its width if so.
func terminal(w io.Writer) (width int, ok bool) {
	f, isFile := w.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth, true
	}
	return width, true
}

// useColor reports whether output to w should be styled: only for terminals, and never when NO_COLOR is set.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	_, ok := terminal(w)
	return ok
}

// layoutWidth picks the width for wrapped or side-by-side output: configured, else the terminal's, else defaultWidth.
func layoutWidth(w io.Writer, configured int) int {
	if configured > 0 {
		return configured
	}
	if width, ok := terminal(w); ok {
		return width
	}
	return defaultWidth
}
