package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) *BoltStorage {
	t.Helper()
	s, err := NewBoltStorage(StorageConfig{
		DBPath: filepath.Join(t.TempDir(), "history.db"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRecordFillsIDAndTimestamp(t *testing.T) {
	s := newTestStorage(t)

	rec := &Record{Action: "hold", Text: "こんにちは", SourcePath: "/tmp/a.png"}
	require.NoError(t, s.SaveRecord(rec))

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.RecognizedAt.IsZero())
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	s := newTestStorage(t)

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.SaveRecord(&Record{
			Action:       "recognize",
			Text:         text,
			RecognizedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "three", records[0].Text)
	assert.Equal(t, "two", records[1].Text)

	all, err := s.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordsSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	s, err := NewBoltStorage(StorageConfig{DBPath: dbPath, Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NoError(t, s.SaveRecord(&Record{Action: "hold", Text: "persisted"}))
	require.NoError(t, s.Close())

	s, err = NewBoltStorage(StorageConfig{DBPath: dbPath, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer s.Close()

	records, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].Text)
}
