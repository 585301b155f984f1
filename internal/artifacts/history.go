package artifacts

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// maxTranscriptLine bounds a single JSONL record. Records embedding whole files can be several megabytes.
const maxTranscriptLine = 64 << 20

// HistoryStore reads session transcripts and file backups from a data directory laid out as:
//
//	<dir>/projects/<project>/<sessionID>.jsonl
//	<dir>/file-history/<sessionID>/<hash>@v<N>
//
// A HistoryStore only reads; it is safe for concurrent use.
type HistoryStore struct {
	dir    string
	logger *slog.Logger
}

// NewHistoryStore returns a store rooted at dir. If logger is nil, nothing is logged.
func NewHistoryStore(dir string, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HistoryStore{dir: dir, logger: logger}
}

// Session is a transcript found in the data directory.
type Session struct {
	ID             string    `json:"id"`
	Project        string    `json:"project"` // Name of the project directory holding the transcript.
	TranscriptPath string    `json:"transcriptPath"`
	LastModified   time.Time `json:"lastModified"`
}

// ChangeRef identifies a file backup recorded by a session.
type ChangeRef struct {
	FilePath       string    `json:"filePath"`
	BackupFileName string    `json:"backupFileName"`
	Version        int       `json:"version"`
	Timestamp      time.Time `json:"timestamp"`
}

// Sessions lists transcripts whose names are session UUIDs, most recently modified first. A data directory without a projects directory has no sessions.
func (s *HistoryStore) Sessions(ctx context.Context) ([]Session, error) {
	projectsDir := filepath.Join(s.dir, "projects")
	projects, err := os.ReadDir(projectsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var sessions []Session
	seen := make(map[string]bool)
	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(filepath.Join(projectsDir, p.Name()))
		if err != nil {
			s.logger.Warn("skipping project", "project", p.Name(), "err", err)
			continue
		}
		for _, e := range entries {
			id, ok := strings.CutSuffix(e.Name(), ".jsonl")
			if !ok || e.IsDir() || validateSessionID(id) != nil || seen[id] {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue // removed while listing
			}
			seen[id] = true
			sessions = append(sessions, Session{
				ID:             id,
				Project:        p.Name(),
				TranscriptPath: filepath.Join(projectsDir, p.Name(), e.Name()),
				LastModified:   info.ModTime(),
			})
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].LastModified.Equal(sessions[j].LastModified) {
			return sessions[i].LastModified.After(sessions[j].LastModified)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

// Changes lists the file backups recorded in a session's file-history snapshots, ordered by time, then path. Each backup appears once, with the first time it
// was recorded.
func (s *HistoryStore) Changes(ctx context.Context, sessionID string) ([]ChangeRef, error) {
	path, err := s.transcriptPath(sessionID)
	if err != nil {
		return nil, err
	}

	var refs []ChangeRef
	seen := make(map[string]bool)
	err = s.scanTranscript(ctx, path, func(line gjson.Result) {
		if line.Get("type").String() != "file-history-snapshot" {
			return
		}
		snapshotTime := parseTime(line.Get("snapshot.timestamp").String())
		line.Get("snapshot.trackedFileBackups").ForEach(func(filePath, backup gjson.Result) bool {
			name := backup.Get("backupFileName").String()
			if name == "" || seen[name] {
				return true
			}
			_, version, err := parseBackupName(name)
			if err != nil {
				s.logger.Debug("skipping backup", "session", sessionID, "backup", name, "err", err)
				return true
			}
			ts := parseTime(backup.Get("backupTime").String())
			if ts.IsZero() {
				ts = snapshotTime
			}
			seen[name] = true
			refs = append(refs, ChangeRef{FilePath: filePath.String(), BackupFileName: name, Version: version, Timestamp: ts})
			return true
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if !refs[i].Timestamp.Equal(refs[j].Timestamp) {
			return refs[i].Timestamp.Before(refs[j].Timestamp)
		}
		if refs[i].FilePath != refs[j].FilePath {
			return refs[i].FilePath < refs[j].FilePath
		}
		return refs[i].Version < refs[j].Version
	})
	return refs, nil
}

// FileChange loads a backup as Content. If the previous version of the same file was also backed up, it becomes PreviousContent and the change is an edit;
// otherwise the change is a write. FilePath and Timestamp are filled in from the transcript when it records the backup.
func (s *HistoryStore) FileChange(ctx context.Context, sessionID, backupFileName string) (FileChange, error) {
	if err := validateSessionID(sessionID); err != nil {
		return FileChange{}, err
	}
	hash, version, err := parseBackupName(backupFileName)
	if err != nil {
		return FileChange{}, err
	}

	dir := filepath.Join(s.dir, "file-history", sessionID)
	content, err := ReadText(filepath.Join(dir, backupFileName))
	if err != nil {
		return FileChange{}, fmt.Errorf("backup %s of session %s: %w", backupFileName, sessionID, err)
	}
	fc := FileChange{Content: content, Type: TypeWrite}

	if version > 1 {
		prevName := backupName(hash, version-1)
		prev, err := ReadText(filepath.Join(dir, prevName))
		switch {
		case err == nil:
			fc.PreviousContent = prev
			fc.PreviousHash = prevName
			fc.Type = TypeEdit
		case !errors.Is(err, ErrNotFound):
			return FileChange{}, fmt.Errorf("backup %s of session %s: %w", prevName, sessionID, err)
		}
	}

	refs, err := s.Changes(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return FileChange{}, err
	}
	for _, ref := range refs {
		if ref.BackupFileName == backupFileName {
			fc.FilePath = ref.FilePath
			fc.Timestamp = ref.Timestamp
			break
		}
	}
	return fc, nil
}

// ToolEdits returns the Write, Edit, and MultiEdit tool calls in a session's assistant messages, in transcript order. Edits carry the replaced fragment as
// OldContent; a MultiEdit yields one FileChange per edit.
func (s *HistoryStore) ToolEdits(ctx context.Context, sessionID string) ([]FileChange, error) {
	path, err := s.transcriptPath(sessionID)
	if err != nil {
		return nil, err
	}

	var changes []FileChange
	err = s.scanTranscript(ctx, path, func(line gjson.Result) {
		if line.Get("type").String() != "assistant" {
			return
		}
		ts := parseTime(line.Get("timestamp").String())
		line.Get("message.content").ForEach(func(_, item gjson.Result) bool {
			if item.Get("type").String() != "tool_use" {
				return true
			}
			input := item.Get("input")
			filePath := input.Get("file_path").String()
			edit := func(e gjson.Result) {
				changes = append(changes, FileChange{
					OldContent: e.Get("old_string").String(),
					Content:    e.Get("new_string").String(),
					Type:       TypeEdit,
					Timestamp:  ts,
					FilePath:   filePath,
				})
			}
			switch item.Get("name").String() {
			case "Write":
				changes = append(changes, FileChange{Content: input.Get("content").String(), Type: TypeWrite, Timestamp: ts, FilePath: filePath})
			case "Edit":
				edit(input)
			case "MultiEdit":
				input.Get("edits").ForEach(func(_, e gjson.Result) bool {
					edit(e)
					return true
				})
			}
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// transcriptPath finds the transcript of sessionID in any project.
func (s *HistoryStore) transcriptPath(sessionID string) (string, error) {
	if err := validateSessionID(sessionID); err != nil {
		return "", err
	}
	projectsDir := filepath.Join(s.dir, "projects")
	projects, err := os.ReadDir(projectsDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("list projects: %w", err)
	}
	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		path := filepath.Join(projectsDir, p.Name(), sessionID+".jsonl")
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
}

// scanTranscript calls fn for each well-formed JSON line of the transcript at path. Malformed lines are logged and skipped.
func (s *HistoryStore) scanTranscript(ctx context.Context, path string, fn func(line gjson.Result)) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxTranscriptLine)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if n == 1 {
			line = bytes.TrimPrefix(line, utf8BOM)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			s.logger.Debug("skipping malformed transcript line", "path", path, "line", n)
			continue
		}
		fn(gjson.ParseBytes(line))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func validateSessionID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return fmt.Errorf("session %q: %w", id, ErrInvalidID)
	}
	return nil
}

var backupNameRE = regexp.MustCompile(`^([A-Za-z0-9]+)@v([1-9][0-9]{0,8})$`)

// parseBackupName splits "<hash>@v<N>".
func parseBackupName(name string) (hash string, version int, err error) {
	m := backupNameRE.FindStringSubmatch(name)
	if m == nil {
		return "", 0, fmt.Errorf("backup %q: %w", name, ErrInvalidID)
	}
	version, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, fmt.Errorf("backup %q: %w", name, ErrInvalidID)
	}
	return m[1], version, nil
}

func backupName(hash string, version int) string {
	return hash + "@v" + strconv.Itoa(version)
}

// parseTime parses an RFC 3339 timestamp, returning the zero time if s is empty or malformed.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
