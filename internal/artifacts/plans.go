package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/codalotl/artifactview/internal/markdown"
	"gopkg.in/yaml.v3"
)

const planExt = ".md"

// PlanStore reads markdown plans and reports from a single directory (ex: `~/.claude/plans`). Subdirectories are ignored.
type PlanStore struct {
	dir    string
	logger *slog.Logger
}

// NewPlanStore returns a store over dir. If logger is nil, nothing is logged.
func NewPlanStore(dir string, logger *slog.Logger) *PlanStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PlanStore{dir: dir, logger: logger}
}

// PlanInfo summarizes a plan for listings.
type PlanInfo struct {
	Name         string    `json:"name"` // File name without the .md extension.
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"` // Size of the file in bytes, front matter included.
}

// Plan is a plan's summary and its markdown, without front matter.
type Plan struct {
	PlanInfo
	Content string `json:"content"`
}

// List returns all plans, most recently modified first. Plans that cannot be read are logged and skipped. A missing directory has no plans.
func (s *PlanStore) List(ctx context.Context) ([]PlanInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list plans: %w", err)
	}

	var infos []PlanInfo
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), planExt)
		if !ok || e.IsDir() || validatePlanName(name) != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := s.load(name)
		if err != nil {
			s.logger.Warn("skipping plan", "name", name, "err", err)
			continue
		}
		infos = append(infos, p.PlanInfo)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].LastModified.Equal(infos[j].LastModified) {
			return infos[i].LastModified.After(infos[j].LastModified)
		}
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Get returns the plan called name. A trailing ".md" on name is accepted.
func (s *PlanStore) Get(ctx context.Context, name string) (Plan, error) {
	name = strings.TrimSuffix(name, planExt)
	if err := validatePlanName(name); err != nil {
		return Plan{}, err
	}
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}
	return s.load(name)
}

func (s *PlanStore) load(name string) (Plan, error) {
	path := filepath.Join(s.dir, name+planExt)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Plan{}, fmt.Errorf("plan %s: %w", name, ErrNotFound)
		}
		return Plan{}, err
	}
	if !info.Mode().IsRegular() {
		return Plan{}, fmt.Errorf("plan %s: %w", name, ErrNotFound)
	}

	text, err := ReadText(path)
	if err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", name, err)
	}

	fm, body, ok := splitFrontMatter(text)
	if !ok {
		body = text
	}
	outline := markdown.ParseOutline([]byte(body))

	return Plan{
		PlanInfo: PlanInfo{
			Name:         name,
			Title:        firstNonEmpty(fm.Title, outline.Title, name),
			Overview:     firstNonEmpty(fm.Overview, fm.Description, outline.Overview),
			LastModified: info.ModTime(),
			Size:         info.Size(),
		},
		Content: body,
	}, nil
}

// validatePlanName rejects names that could address a file outside the store's directory.
func validatePlanName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("plan %q: %w", name, ErrInvalidID)
	}
	return nil
}

// planFrontMatter holds the front matter keys a plan may set. Other keys are ignored, as are values that are not strings.
type planFrontMatter struct {
	Title       string
	Overview    string
	Description string
}

// splitFrontMatter separates YAML front matter, fenced by "---" lines starting on the first line, from the body. ok is false if content has no front matter, or
// if the fenced text is not a YAML mapping (a leading "---" is also a markdown rule).
func splitFrontMatter(content string) (fm planFrontMatter, body string, ok bool) {
	lines := strings.Split(content, "\n")
	if strings.TrimRight(lines[0], "\r") != "---" {
		return planFrontMatter{}, "", false
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return planFrontMatter{}, "", false
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &raw); err != nil || raw == nil {
		return planFrontMatter{}, "", false
	}
	fm = planFrontMatter{
		Title:       stringField(raw, "title"),
		Overview:    stringField(raw, "overview"),
		Description: stringField(raw, "description"),
	}

	body = strings.Join(lines[end+1:], "\n")
	return fm, strings.TrimLeft(body, "\r\n"), true
}

// stringField returns m[key] if it is a string (trimmed), otherwise "".
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
