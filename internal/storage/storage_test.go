package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "agenda.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadWithoutPriorDataReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.Load())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	due := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
	group := "errands"
	saved := []task.Task{
		{ID: "id-1", Title: "Buy milk", DueDate: &due, IsCompleted: false, GroupID: &group},
		{ID: "id-2", Title: "Laundry", IsCompleted: true},
		{ID: "id-3", Title: "Call mom"},
	}
	s.Save(saved)

	loaded := s.Load()
	require.Len(t, loaded, len(saved))
	for i, want := range saved {
		got := loaded[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.IsCompleted, got.IsCompleted)
		if want.DueDate == nil {
			assert.Nil(t, got.DueDate)
		} else {
			require.NotNil(t, got.DueDate)
			assert.True(t, got.DueDate.Equal(*want.DueDate))
		}
		assert.Equal(t, want.GroupID, got.GroupID)
	}
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	s := newTestStore(t)

	s.Save([]task.Task{{ID: "id-1", Title: "old"}})
	s.Save([]task.Task{{ID: "id-2", Title: "new"}})

	loaded := s.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, "id-2", loaded[0].ID)
}

func TestLoadSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.db")

	s1, err := Open(path)
	require.NoError(t, err)
	s1.Save([]task.Task{{ID: "id-1", Title: "persisted"}})
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	loaded := s2.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, "persisted", loaded[0].Title)
}

func TestCorruptBlobLoadsEmpty(t *testing.T) {
	s := newTestStore(t)
	s.Save([]task.Task{{ID: "id-1", Title: "fine"}})

	_, err := s.db.Exec(`UPDATE kv SET value = ? WHERE key = ?;`, []byte("{not json"), tasksKey)
	require.NoError(t, err)

	assert.Empty(t, s.Load())
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
