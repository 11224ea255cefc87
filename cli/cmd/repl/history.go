package repl

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"
)

const (
	baseHistory = "history.yaml"
	maxHistory  = 1000
)

// HistoryEntry is one line of input together with the mode it was entered
// in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// historyRecord is the persisted form of a HistoryEntry.
type historyRecord struct {
	Mode string `yaml:"mode"`
	Line string `yaml:"line"`
}

func (e HistoryEntry) record() historyRecord {
	mode := "render"
	if e.Mode == modeCtrl {
		mode = "ctrl"
	}

	return historyRecord{Mode: mode, Line: e.Line}
}

func (r historyRecord) entry() HistoryEntry {
	if r.Mode == "ctrl" {
		return HistoryEntry{Line: r.Line, Mode: modeCtrl}
	}

	return HistoryEntry{Line: r.Line, Mode: modeRender}
}

// History is the input history of the REPL, oldest entry first.
//
// The file is a YAML sequence of records. New entries are appended as
// one-element sequences, which concatenate into a valid document. The file
// is rewritten whole when an entry moves or the oldest entries are dropped.
// An empty path keeps the history in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []HistoryEntry
}

// NewHistory returns an empty history persisted at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the content of the history file. A missing
// file is an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	var records []historyRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return err
	}

	entries := make([]HistoryEntry, 0, len(records))

	for _, r := range records {
		if strings.TrimSpace(r.Line) != "" {
			entries = append(entries, r.entry())
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = entries[max(0, len(entries)-maxHistory):]

	return nil
}

// Add records line as the newest entry in mode. An earlier identical entry
// is moved rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	e := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	rewrite := false

	if i := slices.Index(h.entries, e); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		rewrite = true
	}

	h.entries = append(h.entries, e)

	if over := len(h.entries) - maxHistory; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
		rewrite = true
	}

	switch {
	case h.path == "":
		return nil
	case rewrite:
		return h.save()
	default:
		return h.appendEntry(e)
	}
}

// Entry returns entry i, where 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

func (h *History) appendEntry(e HistoryEntry) error {
	data, err := yaml.Marshal([]historyRecord{e.record()})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// save replaces the history file. The caller holds h.mu.
func (h *History) save() error {
	records := make([]historyRecord, len(h.entries))
	for i, e := range h.entries {
		records[i] = e.record()
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return err
	}

	return atomic.WriteFile(h.path, bytes.NewReader(data))
}
