// Package storage persists recognition history using BoltDB. History is an
// audit log of successful engine calls; it is deliberately separate from the
// session's hold buffer, which is in-memory only and lost on restart.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const historyBucket = "history"

// Record is one recognition event.
type Record struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	Text         string    `json:"text"`
	SourcePath   string    `json:"source_path"`
	RecognizedAt time.Time `json:"recognized_at"`
}

// StorageConfig holds configuration for BoltStorage initialization.
type StorageConfig struct {
	DBPath string
	Logger *zap.Logger
}

// BoltStorage implements persistent recognition history using BoltDB.
type BoltStorage struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// NewBoltStorage opens (creating if needed) the history database.
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bbolt.Open(config.DBPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltStorage{db: db, logger: config.Logger}, nil
}

// SaveRecord appends one recognition event. Missing ID and timestamp are
// filled in. Keys are timestamp-prefixed so a cursor walks history in time
// order.
func (s *BoltStorage) SaveRecord(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.RecognizedAt.IsZero() {
		rec.RecognizedAt = time.Now()
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	key := []byte(rec.RecognizedAt.UTC().Format(time.RFC3339Nano) + ":" + rec.ID)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	s.logger.Debug("saved history record",
		zap.String("id", rec.ID),
		zap.String("action", rec.Action))
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (s *BoltStorage) Recent(limit int) ([]*Record, error) {
	var records []*Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(historyBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", k, err)
			}
			records = append(records, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the underlying database.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
