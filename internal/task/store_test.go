package task

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcal/internal/storage"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	s, err := Open(mem, DefaultKey, WithClock(fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	return s, mem
}

func TestStore_AddPrependsAndPersists(t *testing.T) {
	s, mem := newTestStore(t)

	first, err := s.Add("  Buy milk ", "2024-03-01")
	require.NoError(t, err)
	second, err := s.Add("Walk dog", "")
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", first.Text)
	assert.False(t, first.Completed)
	assert.Equal(t, "2024-03-01", first.DueDate)
	assert.Greater(t, second.ID, first.ID)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	reloaded, err := Open(mem, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, all, reloaded.All())
}

func TestStore_AddEmptyText(t *testing.T) {
	s, mem := newTestStore(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := s.Add(text, "2024-03-02")
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Empty(t, s.All())

	data, err := mem.Get(DefaultKey)
	require.NoError(t, err)
	assert.Nil(t, data, "nothing should have been written")
}

func TestStore_IDsAreUniqueWithinOneMillisecond(t *testing.T) {
	s, _ := newTestStore(t)
	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		task, err := s.Add("same instant", "")
		require.NoError(t, err)
		assert.False(t, seen[task.ID], "duplicate id %d", task.ID)
		seen[task.ID] = true
	}
}

func TestStore_ToggleTwiceRestores(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.Add("Flip me", "")
	require.NoError(t, err)

	require.NoError(t, s.Toggle(task.ID))
	got, ok := s.Get(task.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)

	require.NoError(t, s.Toggle(task.ID))
	got, _ = s.Get(task.ID)
	assert.False(t, got.Completed)
}

func TestStore_UnknownIDsAreIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("Keep", "")
	require.NoError(t, err)
	before := s.All()

	assert.NoError(t, s.Toggle(42))
	assert.NoError(t, s.Edit(42, "new", ""))
	assert.NoError(t, s.Delete(42))
	assert.Equal(t, before, s.All())
}

func TestStore_Edit(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.Add("Draft", "2024-03-05")
	require.NoError(t, err)

	t.Run("empty text abandons", func(t *testing.T) {
		require.NoError(t, s.Edit(task.ID, "  ", "2024-04-01"))
		got, _ := s.Get(task.ID)
		assert.Equal(t, "Draft", got.Text)
		assert.Equal(t, "2024-03-05", got.DueDate)
	})

	t.Run("replaces text and due date", func(t *testing.T) {
		require.NoError(t, s.Edit(task.ID, " Final ", "2024-04-01"))
		got, _ := s.Get(task.ID)
		assert.Equal(t, "Final", got.Text)
		assert.Equal(t, "2024-04-01", got.DueDate)
	})

	t.Run("clears due date", func(t *testing.T) {
		require.NoError(t, s.Edit(task.ID, "Final", ""))
		got, _ := s.Get(task.ID)
		assert.Empty(t, got.DueDate)
	})
}

func TestStore_DeleteRemovesOnlyThatTask(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a", "")
	b, _ := s.Add("b", "")
	c, _ := s.Add("c", "")

	require.NoError(t, s.Delete(b.ID))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, c.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)
}

func TestStore_ClearCompleted(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a", "")
	b, _ := s.Add("b", "")
	c, _ := s.Add("c", "")
	require.NoError(t, s.Toggle(a.ID))
	require.NoError(t, s.Toggle(c.ID))

	n, err := s.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)

	n, err = s.ClearCompleted()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_FailedWriteLeavesCollection(t *testing.T) {
	s, mem := newTestStore(t)
	task, err := s.Add("Stable", "")
	require.NoError(t, err)

	mem.FailPut = errors.New("disk full")

	_, err = s.Add("Lost", "")
	assert.ErrorIs(t, err, mem.FailPut)
	assert.ErrorIs(t, s.Toggle(task.ID), mem.FailPut)
	assert.ErrorIs(t, s.Delete(task.ID), mem.FailPut)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, task, all[0])
}

func TestOpen_MalformedDataIsEmpty(t *testing.T) {
	for name, blob := range map[string]string{
		"garbage":   `not json`,
		"object":    `{"id":1}`,
		"null":      `null`,
		"truncated": `[{"id":1,"text":"a"`,
	} {
		t.Run(name, func(t *testing.T) {
			mem := storage.NewMemory()
			require.NoError(t, mem.Put(DefaultKey, []byte(blob)))

			s, err := Open(mem, DefaultKey)
			require.NoError(t, err)
			assert.Empty(t, s.All())
		})
	}
}

func TestOpen_UsesDefaultKey(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Put("tasks", []byte(`[{"id":7,"text":"x","completed":true,"dueDate":null}]`)))

	s, err := Open(mem, "")
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: 7, Text: "x", Completed: true}}, s.All())
}

func TestOpen_LogsLastSave(t *testing.T) {
	backend, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	defer backend.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err = Open(backend, DefaultKey, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `saved_at=""`, "nothing written yet")

	s, err := Open(backend, DefaultKey)
	require.NoError(t, err)
	_, err = s.Add("write once", "")
	require.NoError(t, err)

	buf.Reset()
	_, err = Open(backend, DefaultKey, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "count=1")
	assert.Regexp(t, `saved_at=\d{4}-\d{2}-\d{2}T`, buf.String())
}
