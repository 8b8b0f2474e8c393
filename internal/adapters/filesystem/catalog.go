package filesystem

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

const (
	sessionLogExt    = ".jsonl"
	excerptMaxRunes  = 150
	maxLogLineSize   = 64 * 1024 * 1024
	noPromptExcerpt  = "(no prompt)"
	subagentLogStart = "agent-"
)

// catalogPath is the catalog file inside a storage folder
func catalogPath(folder string) string {
	return filepath.Join(folder, domain.CatalogFileName)
}

// ReadCatalogFile loads a catalog. A missing file yields ports.ErrNotFound; an
// unreadable or malformed one yields *ports.ReadError.
func ReadCatalogFile(path string) (*domain.SessionCatalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("catalog %s: %w", path, ports.ErrNotFound)
	}
	if err != nil {
		return nil, &ports.ReadError{Path: path, Err: err}
	}
	var cat domain.SessionCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, &ports.ReadError{Path: path, Err: err}
	}
	return &cat, nil
}

// WriteCatalogFile writes a catalog atomically
func WriteCatalogFile(path string, cat *domain.SessionCatalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'), 0o644)
}

// authoritativePath pulls the recorded project path straight out of the
// catalog bytes without decoding the whole document.
func authoritativePath(folder string) (string, bool) {
	data, err := os.ReadFile(catalogPath(folder))
	if err != nil || !gjson.ValidBytes(data) {
		return "", false
	}
	if p := gjson.GetBytes(data, "originalPath").String(); p != "" {
		return p, true
	}
	if p := gjson.GetBytes(data, "entries.0.projectPath").String(); p != "" {
		return p, true
	}
	return "", false
}

// sessionLog is a raw session log file in a storage folder
type sessionLog struct {
	ID      string
	Path    string
	ModTime time.Time
}

// listSessionLogs returns the session logs directly inside folder, sorted by
// name. Subagent logs are not sessions of their own and are skipped.
func listSessionLogs(folder string) []sessionLog {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil
	}

	var logs []sessionLog
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, sessionLogExt) {
			continue
		}
		stem := strings.TrimSuffix(name, sessionLogExt)
		if strings.HasPrefix(stem, subagentLogStart) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, sessionLog{
			ID:      stem,
			Path:    filepath.Join(folder, name),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID < logs[j].ID })
	return logs
}

// scanLog calls fn for every non-blank line until fn returns false
func scanLog(path string, fn func(line string) bool) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), maxLogLineSize)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if !fn(line) {
			return
		}
	}
}

// firstPromptExcerpt returns the start of the first user-authored record
func firstPromptExcerpt(path string) string {
	excerpt := domain.RecoveredSummary
	scanLog(path, func(line string) bool {
		if !gjson.Valid(line) {
			return true
		}
		switch gjson.Get(line, "type").String() {
		case "user", "human":
		default:
			return true
		}
		text := messageText(gjson.Get(line, "message.content"))
		if text == "" {
			excerpt = noPromptExcerpt
		} else {
			excerpt = truncateRunes(text, excerptMaxRunes)
		}
		return false
	})
	return excerpt
}

// messageText extracts plain text from a string or content-block array
func messageText(content gjson.Result) string {
	if content.Type == gjson.String {
		return strings.TrimSpace(content.String())
	}
	if !content.IsArray() {
		return ""
	}
	for _, block := range content.Array() {
		if block.Get("type").String() == "text" {
			if t := strings.TrimSpace(block.Get("text").String()); t != "" {
				return t
			}
		}
	}
	return ""
}

// firstRecordFacts reads the cwd and timestamp of a log's first record
func firstRecordFacts(path string) (cwd, timestamp string) {
	scanLog(path, func(line string) bool {
		if gjson.Valid(line) {
			cwd = gjson.Get(line, "cwd").String()
			timestamp = gjson.Get(line, "timestamp").String()
		}
		return false
	})
	return cwd, timestamp
}

// rebuildCatalog synthesizes a catalog from the raw logs in folder
func rebuildCatalog(folder, projectPath string) *domain.SessionCatalog {
	cat := &domain.SessionCatalog{Version: domain.CatalogVersion, OriginalPath: projectPath}
	for _, log := range listSessionLogs(folder) {
		cat.Entries = append(cat.Entries, recoveredEntry(log, projectPath))
	}
	sort.SliceStable(cat.Entries, func(i, j int) bool {
		return cat.Entries[i].Created < cat.Entries[j].Created
	})
	return cat
}

func recoveredEntry(log sessionLog, projectPath string) domain.CatalogEntry {
	ts := domain.FormatTimestamp(log.ModTime)
	e := domain.CatalogEntry{
		SessionID:   log.ID,
		FullPath:    log.Path,
		Created:     ts,
		Modified:    ts,
		ProjectPath: projectPath,
	}
	// values are plain scalars; encoding cannot fail
	_ = e.SetExtra("fileMtime", log.ModTime.UnixMilli())
	_ = e.SetExtra("firstPrompt", firstPromptExcerpt(log.Path))
	_ = e.SetExtra("summary", domain.RecoveredSummary)
	_ = e.SetExtra("messageCount", 0)
	_ = e.SetExtra("gitBranch", "")
	_ = e.SetExtra("isSidechain", false)
	return e
}

// discoverFolder derives the project path and working days a storage folder
// records, from its catalog first and its raw logs second.
func discoverFolder(folder string) domain.FolderFacts {
	facts := domain.FolderFacts{FolderID: filepath.Base(folder)}

	if cat, err := ReadCatalogFile(catalogPath(folder)); err == nil {
		facts.Path = cat.AuthoritativePath()
		facts.WorkDays = cat.WorkDays()
	}

	var days []string
	for _, log := range listSessionLogs(folder) {
		cwd, ts := firstRecordFacts(log.Path)
		if facts.Path == "" && cwd != "" {
			facts.Path = cwd
		}
		if d, ok := domain.WorkDayFromTimestamp(ts); ok {
			days = append(days, d)
		}
	}
	facts.WorkDays = domain.UnionDays(facts.WorkDays, days)
	return facts
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
