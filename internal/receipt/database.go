package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketName         = "receipts"
	questionBucketName = "questions"
)

// ErrNotFound is returned when a receipt does not exist
var ErrNotFound = errors.New("receipt not found")

// DB defines the interface for database operations
type DB interface {
	// SaveReceipt saves a receipt to the database
	SaveReceipt(receipt *Receipt) error

	// GetReceipt retrieves a receipt by ID
	GetReceipt(id string) (*Receipt, error)

	// ListReceipts returns all receipts, newest first
	ListReceipts() ([]*Receipt, error)

	// DeleteReceipt removes a receipt from the database
	DeleteReceipt(id string) error

	// ClearReceipts removes every receipt
	ClearReceipts() error

	// SaveQuestion appends a question to the question log
	SaveQuestion(question *Question) error

	// ListQuestions returns the question log, newest first
	ListQuestions() ([]*Question, error)

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

	// Create buckets if they don't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketName, questionBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveReceipt saves a receipt to the database
func (b *BoltDB) SaveReceipt(receipt *Receipt) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(receipt)
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(receipt.ID), data)
	})
}

// GetReceipt retrieves a receipt by ID
func (b *BoltDB) GetReceipt(id string) (*Receipt, error) {
	var receipt *Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceipts returns all receipts ordered by creation time, newest first
func (b *BoltDB) ListReceipts() ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			var receipt Receipt
			if err := json.Unmarshal(v, &receipt); err != nil {
				return fmt.Errorf("unmarshaling receipt: %w", err)
			}
			receipts = append(receipts, &receipt)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].CreatedAt.After(receipts[j].CreatedAt)
	})
	return receipts, nil
}

// DeleteReceipt removes a receipt from the database
func (b *BoltDB) DeleteReceipt(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(id))
	})
}

// ClearReceipts drops and recreates the receipts bucket
func (b *BoltDB) ClearReceipts() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("deleting bucket: %w", err)
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// SaveQuestion saves a question to the database
func (b *BoltDB) SaveQuestion(question *Question) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(question)
		if err != nil {
			return fmt.Errorf("marshaling question: %w", err)
		}
		return tx.Bucket([]byte(questionBucketName)).Put([]byte(question.ID), data)
	})
}

// ListQuestions returns all questions ordered by time asked, newest first
func (b *BoltDB) ListQuestions() ([]*Question, error) {
	questions := make([]*Question, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(questionBucketName)).ForEach(func(k, v []byte) error {
			var question Question
			if err := json.Unmarshal(v, &question); err != nil {
				return fmt.Errorf("unmarshaling question: %w", err)
			}
			questions = append(questions, &question)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].AskedAt.After(questions[j].AskedAt)
	})
	return questions, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
