// Package journal records dispatched counter actions to an append-only JSONL
// file, one file per session, and rebuilds state from those files.
package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
)

// Ext is the file extension of journal session files.
const Ext = ".jsonl"

// Record is one line of a journal: the action and the state it produced.
type Record struct {
	Seq       int            `json:"seq"`
	Timestamp time.Time      `json:"ts"`
	Action    counter.Action `json:"action"`
	State     int            `json:"state"`
}

// Journal is an append-only JSONL session file. The file is synced after
// every Append so a crash loses at most the record being written.
//
// Session identity is a ULID, so file names sort chronologically.
type Journal struct {
	file      *os.File
	path      string
	sessionID string

	mu  sync.Mutex
	idx sessionIndex
	seq int
}

// Open creates a new session file in dir, creating dir if needed.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("journal: mkdir %q: %w", dir, err)
	}
	id := ulid.Make().String()
	path := filepath.Join(dir, id+Ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	return &Journal{
		file:      f,
		path:      path,
		sessionID: id,
	}, nil
}

// Path returns the session file path.
func (j *Journal) Path() string { return j.path }

// SessionID returns the session's ULID.
func (j *Journal) SessionID() string { return j.sessionID }

// Append writes one record for action and the state it produced. It is safe
// to call from multiple goroutines; records are numbered in call order.
func (j *Journal) Append(action counter.Action, state int) (Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec := Record{
		Seq:       j.seq + 1,
		Timestamp: time.Now(),
		Action:    action,
		State:     state,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("journal: marshal: %w", err)
	}
	data = append(data, '\n')

	if _, err := j.file.Write(data); err != nil {
		return Record{}, fmt.Errorf("journal: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return Record{}, fmt.Errorf("journal: sync: %w", err)
	}
	j.seq = rec.Seq
	j.idx.onAppend(rec)
	return rec, nil
}

// Summary returns the running summary of this session.
func (j *Journal) Summary() Summary {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Summary{
		SessionID:  j.sessionID,
		Path:       j.path,
		Records:    j.idx.records,
		FirstAt:    j.idx.firstAt,
		LastAt:     j.idx.lastAt,
		LastState:  j.idx.lastState,
		LastAction: j.idx.lastAction,
	}
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Read returns every well-formed record in the file at path. Malformed lines
// are logged and skipped.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	defer f.Close()
	return decode(f, path)
}

// decode parses JSONL records from r. name is only used in log messages.
func decode(r io.Reader, name string) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Printf("journal: skipping malformed line %d in %s: %v", line, name, err)
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return records, fmt.Errorf("journal: read %s: %w", name, err)
	}
	return records, nil
}

// Replay reduces the actions of records, in order, starting from initial.
// The recorded states are ignored; the result is recomputed.
func Replay(records []Record, initial int) int {
	state := initial
	for _, rec := range records {
		state = counter.Reduce(state, rec.Action)
	}
	return state
}

// ErrNoSessions is returned by Latest when dir holds no session files.
var ErrNoSessions = errors.New("journal: no sessions")

// sessions returns the session file names in dir, oldest first.
func sessions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), Ext) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // ULID names sort chronologically
	return files, nil
}

// Latest returns the path of the newest session file in dir.
func Latest(dir string) (string, error) {
	files, err := sessions(dir)
	if os.IsNotExist(err) || (err == nil && len(files) == 0) {
		return "", fmt.Errorf("%w in %s", ErrNoSessions, dir)
	}
	if err != nil {
		return "", fmt.Errorf("journal: read dir %q: %w", dir, err)
	}
	return filepath.Join(dir, files[len(files)-1]), nil
}

// EnforceRetention removes the oldest session files in dir, keeping at most
// maxKeep. maxKeep 0 keeps everything. A missing dir is not an error.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := sessions(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("journal: read dir %q: %w", dir, err)
	}

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("journal: remove %q: %w", path, err)
		}
	}
	return nil
}
