package policy

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	recordBucketName  = "records"
	failureBucketName = "failures"
)

// ArchivedRecord is a successful outcome kept in the archive for the
// status API.
type ArchivedRecord struct {
	ID         string            `json:"id"`
	SourceFile string            `json:"source_file"`
	Company    Company           `json:"company"`
	Values     map[string]string `json:"values"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ArchivedFailure is a failed outcome kept in the archive.
type ArchivedFailure struct {
	ID         string    `json:"id"`
	SourceFile string    `json:"source_file"`
	Company    Company   `json:"company"`
	Reason     string    `json:"reason"`
	Missing    []string  `json:"missing,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DB defines the interface for archive operations
type DB interface {
	// SaveRecord stores a successful outcome
	SaveRecord(rec *ArchivedRecord) error

	// GetRecord retrieves a record by ID
	GetRecord(id string) (*ArchivedRecord, error)

	// ListRecords returns all archived records
	ListRecords() ([]*ArchivedRecord, error)

	// SaveFailure stores a failed outcome
	SaveFailure(f *ArchivedFailure) error

	// ListFailures returns all archived failures
	ListFailures() ([]*ArchivedFailure, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(recordBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(failureBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveRecord stores a successful outcome
func (b *BoltDB) SaveRecord(rec *ArchivedRecord) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucketName))
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return bucket.Put([]byte(rec.ID), data)
	})
}

// GetRecord retrieves a record by ID
func (b *BoltDB) GetRecord(id string) (*ArchivedRecord, error) {
	var rec *ArchivedRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("record not found: %s", id)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns all archived records
func (b *BoltDB) ListRecords() ([]*ArchivedRecord, error) {
	records := make([]*ArchivedRecord, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var rec ArchivedRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SaveFailure stores a failed outcome
func (b *BoltDB) SaveFailure(f *ArchivedFailure) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(failureBucketName))
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshaling failure: %w", err)
		}
		return bucket.Put([]byte(f.ID), data)
	})
}

// ListFailures returns all archived failures
func (b *BoltDB) ListFailures() ([]*ArchivedFailure, error) {
	failures := make([]*ArchivedFailure, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(failureBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var f ArchivedFailure
			if err := json.Unmarshal(v, &f); err != nil {
				return fmt.Errorf("unmarshaling failure: %w", err)
			}
			failures = append(failures, &f)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return failures, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
