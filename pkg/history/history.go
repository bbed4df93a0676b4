// Package history persists the trace of scrub runs in an embedded
// bbolt database so operators can audit what was issued and when.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/scrubd/pkg/types"
)

var (
	// Bucket names
	bucketRuns     = []byte("runs")
	bucketCommands = []byte("commands")
)

// Store is a bbolt-backed run history. It implements the scheduler's
// Recorder interface.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRuns, bucketCommands} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordCommand stores one issued command. Keys are ordered by issue
// time so listing comes back chronological.
func (s *Store) RecordCommand(rec types.CommandRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCommands)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		key := rec.IssuedAt.UTC().Format(time.RFC3339Nano) + "/" + rec.PGID
		return b.Put([]byte(key), data)
	})
}

// RecordRun stores one completed run summary keyed by start time.
func (s *Store) RecordRun(sum types.RunSummary) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data, err := json.Marshal(sum)
		if err != nil {
			return err
		}
		key := sum.StartedAt.UTC().Format(time.RFC3339Nano) + "/" + sum.ID
		return b.Put([]byte(key), data)
	})
}

// ListRuns returns all recorded run summaries in chronological order.
func (s *Store) ListRuns() ([]types.RunSummary, error) {
	var runs []types.RunSummary
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.ForEach(func(_, v []byte) error {
			var sum types.RunSummary
			if err := json.Unmarshal(v, &sum); err != nil {
				return err
			}
			runs = append(runs, sum)
			return nil
		})
	})
	return runs, err
}

// ListCommands returns recorded commands in chronological order,
// optionally filtered to one run.
func (s *Store) ListCommands(runID string) ([]types.CommandRecord, error) {
	var recs []types.CommandRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCommands)
		return b.ForEach(func(_, v []byte) error {
			var rec types.CommandRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if runID != "" && rec.RunID != runID {
				return nil
			}
			recs = append(recs, rec)
			return nil
		})
	})
	return recs, err
}
