// Package config loads artifactview's configuration from layered sources. From lowest to highest precedence: built-in defaults, the user's
// ~/.artifactview/config.json, the nearest .artifactview/config.json found walking up from the working directory, and ARTIFACTVIEW_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable that overrides a config key (ex: ARTIFACTVIEW_DATADIR).
const EnvPrefix = "ARTIFACTVIEW"

// LogFileEnv names the log file. It is also read by simplelogger before configuration is loaded.
const LogFileEnv = "ARTIFACTVIEW_LOG_FILE"

// Config is artifactview's configuration.
//
// Keys are matched case-insensitively. The json tags are for `artifactview config` output.
type Config struct {
	// DataDir holds session transcripts (projects/) and file backups (file-history/). Defaults to ~/.claude.
	DataDir string `mapstructure:"datadir" json:"datadir"`

	// PlansDir holds markdown plans. Defaults to DataDir/plans.
	PlansDir string `mapstructure:"plansdir" json:"plansdir"`

	// Addr is the listen address of `artifactview serve`.
	Addr string `mapstructure:"addr" json:"addr"`

	// AllowOrigins are the browser origins allowed to call the HTTP API.
	AllowOrigins []string `mapstructure:"alloworigins" json:"alloworigins"`

	// Context is the number of unchanged lines shown around changes in rendered diffs.
	Context int `mapstructure:"context" json:"context"`

	// Width is the width of split-view diffs. 0 means the terminal width (or 120 if stdout is not a terminal).
	Width int `mapstructure:"width" json:"width"`

	// CacheSize bounds the diff and markdown render caches of the HTTP server. Negative disables caching.
	CacheSize int `mapstructure:"cachesize" json:"cachesize"`

	LegacyOrderedLists bool `mapstructure:"legacyorderedlists" json:"legacyorderedlists,omitempty"`

	LogFile string `mapstructure:"logfile" json:"logfile,omitempty"`

	// Sources are the config files that were read, lowest precedence first.
	Sources []string `mapstructure:"-" json:"-"`
}

var defaults = map[string]any{
	"datadir":            "~/.claude",
	"plansdir":           "",
	"addr":               "127.0.0.1:7345",
	"alloworigins":       []string{"http://localhost:5173", "http://127.0.0.1:5173"},
	"context":            3,
	"width":              0,
	"cachesize":          128,
	"legacyorderedlists": false,
	"logfile":            "",
}

// Load reads configuration. startDir is where the search for a project .artifactview/config.json begins; "" means the working directory.
func Load(startDir string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var sources []string
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		sources = appendIfPresent(sources, filepath.Join(home, ".artifactview", "config.json"))
	}
	if nearest := nearestFile(filepath.Join(".artifactview", "config.json"), startDir); nearest != "" && (len(sources) == 0 || sources[0] != nearest) {
		sources = append(sources, nearest)
	}

	v.SetConfigType("json")
	for _, path := range sources {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("load configuration: %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("logfile", LogFileEnv, EnvPrefix+"_LOGFILE"); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	cfg.Sources = sources

	cfg.DataDir = ExpandPath(cfg.DataDir)
	if cfg.PlansDir == "" {
		cfg.PlansDir = filepath.Join(cfg.DataDir, "plans")
	} else {
		cfg.PlansDir = ExpandPath(cfg.PlansDir)
	}
	if cfg.LogFile != "" {
		cfg.LogFile = ExpandPath(cfg.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DataDir) == "":
		return fmt.Errorf("invalid configuration: datadir must be set")
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("invalid configuration: addr must be set")
	case c.Context < 0:
		return fmt.Errorf("invalid configuration: context must be >= 0 (got %d)", c.Context)
	case c.Width < 0:
		return fmt.Errorf("invalid configuration: width must be >= 0 (got %d)", c.Width)
	}
	for _, o := range c.AllowOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("invalid configuration: alloworigins entry %q must be \"*\" or start with http:// or https://", o)
		}
	}
	return nil
}

// WriteJSON writes cfg as indented JSON.
func WriteJSON(w io.Writer, cfg Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(cfg)
}

// appendIfPresent appends path if it names a file with non-whitespace content.
func appendIfPresent(paths []string, path string) []string {
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return paths
	}
	return append(paths, path)
}

// nearestFile walks up from startDir (a directory or file; "" for the working directory) and returns the first fileName with non-whitespace content, or "".
func nearestFile(fileName string, startDir string) string {
	start := startDir
	if start == "" {
		if wd, err := os.Getwd(); err == nil {
			start = wd
		}
	}
	if start == "" {
		return ""
	}
	if abs, err := filepath.Abs(start); err == nil {
		start = abs
	}
	if fi, err := os.Stat(start); err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		if found := appendIfPresent(nil, filepath.Join(dir, fileName)); len(found) > 0 {
			return found[0]
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}
