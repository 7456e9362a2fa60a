package task

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"taskcal/internal/storage"
)

// DefaultKey is the storage key the collection lives under.
const DefaultKey = "tasks"

var ErrEmptyText = errors.New("task text is empty")

// Store is the single owner of the task collection. Every mutation is written
// through to the backend before it becomes visible; a failed write leaves the
// in-memory collection untouched.
//
// Store is not safe for concurrent use. The UI drives it from its event loop.
type Store struct {
	backend storage.Backend
	key     string
	tasks   []Task
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open loads the collection stored under key. Missing or malformed data is
// treated as an empty collection; only backend read failures are returned.
func Open(backend storage.Backend, key string, opts ...Option) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		backend: backend,
		key:     key,
		now:     time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := backend.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	tasks, err := decode(data)
	if err != nil {
		s.log.Warn("discarding unreadable task data", "key", key, "bytes", len(data), "err", err)
	}
	s.tasks = tasks
	s.log.Info("tasks loaded", "key", key, "count", len(tasks), "saved_at", s.savedAt())
	return s, nil
}

// savedAt is the backend's last write time for the key, empty when the backend
// does not track it or the key was never stamped.
func (s *Store) savedAt() string {
	st, ok := s.backend.(storage.Stamped)
	if !ok {
		return ""
	}
	at, err := st.UpdatedAt(s.key)
	if err != nil {
		s.log.Warn("read last save time", "key", s.key, "err", err)
		return ""
	}
	if at.IsZero() {
		return ""
	}
	return at.Format(time.RFC3339)
}

// All returns a snapshot of the collection, newest first.
func (s *Store) All() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Get(id int64) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Add prepends a new task. Text is trimmed; empty text returns ErrEmptyText
// and leaves the collection unchanged.
func (s *Store) Add(text, dueDate string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	t := Task{ID: s.nextID(), Text: text, DueDate: dueDate}

	next := make([]Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	s.log.Info("task added", "id", t.ID, "due", t.DueDate)
	return t, nil
}

// Toggle flips the completion flag of id. Unknown ids are ignored.
func (s *Store) Toggle(id int64) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	next := s.All()
	next[i].Completed = !next[i].Completed
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Info("task toggled", "id", id, "completed", next[i].Completed)
	return nil
}

// Edit replaces the text and due date of id. An empty (after trimming) text
// abandons the edit; an empty due date clears it. Unknown ids are ignored.
func (s *Store) Edit(id int64, text, dueDate string) error {
	text = strings.TrimSpace(text)
	i := s.index(id)
	if text == "" || i < 0 {
		return nil
	}
	next := s.All()
	next[i].Text = text
	next[i].DueDate = dueDate
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Info("task edited", "id", id, "due", dueDate)
	return nil
}

// Delete removes id. Unknown ids are ignored.
func (s *Store) Delete(id int64) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Info("task deleted", "id", id)
	return nil
}

// ClearCompleted removes every completed task and reports how many went.
func (s *Store) ClearCompleted() (int, error) {
	next := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			next = append(next, t)
		}
	}
	removed := len(s.tasks) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commit(next); err != nil {
		return 0, err
	}
	s.log.Info("completed tasks cleared", "count", removed)
	return removed, nil
}

func (s *Store) commit(next []Task) error {
	data, err := encode(next)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.backend.Put(s.key, data); err != nil {
		s.log.Error("task write failed", "key", s.key, "err", err)
		return fmt.Errorf("save %q: %w", s.key, err)
	}
	s.tasks = next
	return nil
}

func (s *Store) index(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the creation time in milliseconds, bumped past the largest
// existing id so ids stay unique and increasing.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, t := range s.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}
