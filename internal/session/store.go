package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
)

// record is the on-disk shape of a turn.
type record struct {
	TS      string `json:"ts"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func toRecord(t Turn) record {
	ts := t.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return record{TS: ts.UTC().Format(time.RFC3339Nano), Role: t.Role, Content: t.Content}
}

func (r record) turn() Turn {
	t := Turn{Role: r.Role, Content: r.Content}
	if t.Role == "" {
		t.Role = RoleAssistant
	}
	if ts, err := time.Parse(time.RFC3339Nano, r.TS); err == nil {
		t.Timestamp = ts.UTC()
	}
	return t
}

// Log is the result of reading one session's file.
type Log struct {
	Turns   []Turn
	Skipped []error // one entry per undecodable line
}

// Store reads and writes session logs in a single directory.
// Appends are serialized; each one is flushed to disk before returning.
type Store struct {
	dir string
	mu  sync.Mutex
	log *slog.Logger
}

// NewStore opens the history directory, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, apperrors.ConfigInvalid("history directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.HistoryIO("session.NewStore", dir, err)
	}
	return &Store{dir: dir, log: logger.WithComponent("store")}, nil
}

// Dir returns the history directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the log path for id.
func (s *Store) Path(id ID) string {
	return filepath.Join(s.dir, id.FileName())
}

// Exists reports whether a log file exists for id.
func (s *Store) Exists(id ID) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Create makes an empty log for id. An existing log is left untouched.
func (s *Store) Create(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.Path(id), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return apperrors.HistoryIO("session.Create", s.Path(id), err)
	}
	s.log.Debug("created log", "session", id.String())
	return f.Close()
}

// Append writes one turn to the end of the log for id, creating the file if
// it does not exist yet.
func (s *Store) Append(id ID, turn Turn) error {
	if !turn.Role.Persistable() {
		return apperrors.E(apperrors.Op("session.Append"), apperrors.KindInvalid,
			fmt.Sprintf("role %q is not persisted", turn.Role))
	}
	line, err := json.Marshal(toRecord(turn))
	if err != nil {
		return apperrors.E(apperrors.Op("session.Append"), apperrors.KindInvalid, err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(id)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return apperrors.HistoryIO("session.Append", path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return apperrors.HistoryIO("session.Append", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return apperrors.HistoryIO("session.Append", path, err)
	}
	if err := f.Close(); err != nil {
		return apperrors.HistoryIO("session.Append", path, err)
	}
	s.log.Debug("appended turn", "session", id.String(), "role", turn.Role, "bytes", len(line))
	return nil
}

// Load reads every decodable turn for id in file order. A missing log is an
// empty conversation, not an error.
func (s *Store) Load(id ID) (Log, error) {
	path := s.Path(id)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Log{}, nil
	}
	if err != nil {
		return Log{}, apperrors.HistoryIO("session.Load", path, err)
	}
	defer f.Close()

	var out Log
	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if line != "" {
			lineNo++
			s.decodeLine(path, lineNo, line, &out)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return out, apperrors.HistoryIO("session.Load", path, readErr)
		}
	}
	if len(out.Skipped) > 0 {
		s.log.Warn("skipped malformed records", "session", id.String(), "count", len(out.Skipped))
	}
	return out, nil
}

func (s *Store) decodeLine(path string, lineNo int, line string, out *Log) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	var rec record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		out.Skipped = append(out.Skipped, apperrors.RecordMalformed(path, lineNo, err))
		return
	}
	// null and {} decode cleanly but carry no turn.
	if rec.Role == "" && rec.Content == "" {
		out.Skipped = append(out.Skipped, apperrors.RecordMalformed(path, lineNo,
			fmt.Errorf("record has no role or content")))
		return
	}
	turn := rec.turn()
	if !turn.Role.Persistable() {
		out.Skipped = append(out.Skipped, apperrors.RecordMalformed(path, lineNo,
			fmt.Errorf("unexpected role %q", turn.Role)))
		return
	}
	out.Turns = append(out.Turns, turn)
}

// LoadAll returns the turns for id. When some lines were skipped the turns are
// still returned, along with a KindMalformed error the caller may surface as
// a warning.
func (s *Store) LoadAll(id ID) ([]Turn, error) {
	l, err := s.Load(id)
	if err != nil {
		return l.Turns, err
	}
	if n := len(l.Skipped); n > 0 {
		return l.Turns, apperrors.E(apperrors.Op("session.LoadAll"), apperrors.KindMalformed,
			fmt.Sprintf("skipped %d malformed record(s) in %s", n, id.FileName()))
	}
	return l.Turns, nil
}

// Delete removes the log for id. Deleting a missing log succeeds.
func (s *Store) Delete(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.HistoryIO("session.Delete", path, err)
	}
	s.log.Info("deleted log", "session", id.String())
	return nil
}

// List returns the IDs of all logs in the directory, ascending.
func (s *Store) List() ([]ID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.HistoryIO("session.List", s.dir, err)
	}
	var ids []ID
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := ParseFileName(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	// chat_007 and chat_0007 name the same ordinal
	out := ids[:0]
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// MaxID returns the largest ID on disk, or zero when there are none.
func (s *Store) MaxID() (ID, error) {
	ids, err := s.List()
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[len(ids)-1], nil
}
