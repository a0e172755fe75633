package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	expenseBucketName = "expenses"
	receiptBucketName = "receipts"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DB defines the interface for database operations
type DB interface {
	// SaveDraft stores an expense and its receipt together
	SaveDraft(expense *Expense, receipt *Receipt) error

	// GetExpense retrieves an expense by ID
	GetExpense(id string) (*Expense, error)

	// ListExpenses returns all expenses
	ListExpenses() ([]*Expense, error)

	// DeleteExpense removes an expense and every receipt that references it
	DeleteExpense(id string) error

	// GetReceipt retrieves a receipt by ID
	GetReceipt(id string) (*Receipt, error)

	// ListReceipts returns all receipts
	ListReceipts() ([]*Receipt, error)

	// ListReceiptsForExpense returns the receipts referencing an expense
	ListReceiptsForExpense(expenseID string) ([]*Receipt, error)

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
		for _, name := range []string{expenseBucketName, receiptBucketName} {
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

func put(tx *bbolt.Tx, bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", bucket, err)
	}
	return tx.Bucket([]byte(bucket)).Put([]byte(id), data)
}

func get(tx *bbolt.Tx, bucket, id string, v any) error {
	data := tx.Bucket([]byte(bucket)).Get([]byte(id))
	if data == nil {
		return fmt.Errorf("%s %s: %w", bucket, id, ErrNotFound)
	}
	return json.Unmarshal(data, v)
}

// SaveDraft writes both records in one transaction so a receipt never points
// at a missing expense.
func (b *BoltDB) SaveDraft(expense *Expense, receipt *Receipt) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := put(tx, expenseBucketName, expense.ID, expense); err != nil {
			return err
		}
		return put(tx, receiptBucketName, receipt.ID, receipt)
	})
}

// GetExpense retrieves an expense by ID
func (b *BoltDB) GetExpense(id string) (*Expense, error) {
	var expense Expense
	err := b.db.View(func(tx *bbolt.Tx) error {
		return get(tx, expenseBucketName, id, &expense)
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses returns all expenses
func (b *BoltDB) ListExpenses() ([]*Expense, error) {
	expenses := make([]*Expense, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(expenseBucketName)).ForEach(func(k, v []byte) error {
			var expense Expense
			if err := json.Unmarshal(v, &expense); err != nil {
				return fmt.Errorf("unmarshaling expense: %w", err)
			}
			expenses = append(expenses, &expense)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

// DeleteExpense removes an expense and its receipts
func (b *BoltDB) DeleteExpense(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		expenses := tx.Bucket([]byte(expenseBucketName))
		if expenses.Get([]byte(id)) == nil {
			return fmt.Errorf("%s %s: %w", expenseBucketName, id, ErrNotFound)
		}
		receipts, err := filterReceipts(tx, func(r *Receipt) bool { return r.ExpenseID == id })
		if err != nil {
			return err
		}
		bucket := tx.Bucket([]byte(receiptBucketName))
		for _, r := range receipts {
			if err := bucket.Delete([]byte(r.ID)); err != nil {
				return err
			}
		}
		return expenses.Delete([]byte(id))
	})
}

// GetReceipt retrieves a receipt by ID
func (b *BoltDB) GetReceipt(id string) (*Receipt, error) {
	var receipt Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		return get(tx, receiptBucketName, id, &receipt)
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListReceipts returns all receipts
func (b *BoltDB) ListReceipts() ([]*Receipt, error) {
	return b.listReceipts(func(*Receipt) bool { return true })
}

// ListReceiptsForExpense returns the receipts referencing an expense
func (b *BoltDB) ListReceiptsForExpense(expenseID string) ([]*Receipt, error) {
	return b.listReceipts(func(r *Receipt) bool { return r.ExpenseID == expenseID })
}

func (b *BoltDB) listReceipts(keep func(*Receipt) bool) ([]*Receipt, error) {
	var receipts []*Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		receipts, err = filterReceipts(tx, keep)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func filterReceipts(tx *bbolt.Tx, keep func(*Receipt) bool) ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := tx.Bucket([]byte(receiptBucketName)).ForEach(func(k, v []byte) error {
		var receipt Receipt
		if err := json.Unmarshal(v, &receipt); err != nil {
			return fmt.Errorf("unmarshaling receipt: %w", err)
		}
		if keep(&receipt) {
			receipts = append(receipts, &receipt)
		}
		return nil
	})
	return receipts, err
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
