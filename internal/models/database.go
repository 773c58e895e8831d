package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// ErrDuplicateItem is returned when creating an item whose ExternalID and
// MediaType pair is already tracked
var ErrDuplicateItem = errors.New("item already tracked")

// ErrNotFound is returned when a lookup matches no item
var ErrNotFound = bolthold.ErrNotFound

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// CreateItem creates a new tracked item. An item with the same ExternalID and
// MediaType may be tracked at most once; duplicates are rejected.
func (db *Database) CreateItem(item *TrackedItem) error {
	if _, err := db.GetItemByExternalID(item.ExternalID, item.MediaType); err == nil {
		return ErrDuplicateItem
	}

	now := time.Now()
	if item.DateAdded.IsZero() {
		item.DateAdded = now
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return db.store.Insert(bolthold.NextSequence(), item)
}

// UpdateItem updates an existing tracked item
func (db *Database) UpdateItem(item *TrackedItem) error {
	item.UpdatedAt = time.Now()
	return db.store.Update(item.ID, item)
}

// GetItemByID retrieves a tracked item by ID
func (db *Database) GetItemByID(id uint64) (*TrackedItem, error) {
	var item TrackedItem
	err := db.store.Get(id, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByExternalID retrieves a tracked item by external content ID and type
func (db *Database) GetItemByExternalID(externalID int64, mediaType MediaType) (*TrackedItem, error) {
	var item TrackedItem
	err := db.store.FindOne(&item,
		bolthold.Where("ExternalID").Eq(externalID).And("MediaType").Eq(mediaType))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetAllItems retrieves all tracked items
func (db *Database) GetAllItems() ([]*TrackedItem, error) {
	var items []*TrackedItem
	err := db.store.Find(&items, nil)
	return items, err
}

// GetItemsByMediaType retrieves all tracked items of a given media type
func (db *Database) GetItemsByMediaType(mediaType MediaType) ([]*TrackedItem, error) {
	var items []*TrackedItem
	err := db.store.Find(&items, bolthold.Where("MediaType").Eq(mediaType))
	return items, err
}

// GetItemsByStatus retrieves all tracked items with a specific status
func (db *Database) GetItemsByStatus(status Status) ([]*TrackedItem, error) {
	var items []*TrackedItem
	err := db.store.Find(&items, bolthold.Where("Status").Eq(status))
	return items, err
}

// DeleteItem deletes a tracked item by ID
func (db *Database) DeleteItem(id uint64) error {
	return db.store.Delete(id, &TrackedItem{})
}

// DeleteAllItems removes every tracked item (bulk clear)
func (db *Database) DeleteAllItems() error {
	return db.store.DeleteMatching(&TrackedItem{}, nil)
}
