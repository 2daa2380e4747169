package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

// Record is a stored scan.
type Record struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Format    string    `json:"format,omitempty"`
	ScannedAt time.Time `json:"scannedAt"`
}

type DB struct {
	instance *buntdb.DB
}

// Open opens the history at path. ":memory:" keeps it in memory only.
func Open(path string) (*DB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &DB{instance: db}, nil
}

func (db *DB) Close() error {
	return db.instance.Close()
}

// Store saves r. An empty ID is the scan time followed by a random suffix,
// so IDs sort chronologically and scans sharing a timestamp all survive.
// The scan time is set to now when missing.
func (db *DB) Store(r Record) (Record, error) {
	if r.ScannedAt.IsZero() {
		r.ScannedAt = time.Now()
	}
	if r.ID == "" {
		r.ID = fmt.Sprintf("%020d-%v", r.ScannedAt.UnixNano(), uuid.New())
	}

	err := db.instance.Update(func(tx *buntdb.Tx) error {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, _, err := tx.Set(getScanKey(r.ID), string(data), nil); err != nil {
			return err
		}
		return nil
	})
	return r, err
}

func (db *DB) ReadScan(id string) (Record, error) {
	var r Record
	err := db.instance.View(func(tx *buntdb.Tx) error {
		s, err := tx.Get(getScanKey(id))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(s), &r)
	})
	return r, err
}

// ReadAll returns every record, oldest first.
func (db *DB) ReadAll() ([]Record, error) {
	var records []Record
	err := db.instance.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.AscendKeys(getScanKey("*"), func(key, value string) bool {
			var r Record
			if decodeErr = json.Unmarshal([]byte(value), &r); decodeErr != nil {
				decodeErr = fmt.Errorf("decoding %v: %w", key, decodeErr)
				return false
			}
			records = append(records, r)
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	return records, err
}

func (db *DB) DeleteScan(id string) error {
	return db.instance.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(getScanKey(id))
		return err
	})
}

// Clear removes every record and returns how many were removed.
func (db *DB) Clear() (int, error) {
	var keys []string
	err := db.instance.Update(func(tx *buntdb.Tx) error {
		err := tx.AscendKeys(getScanKey("*"), func(key, _ string) bool {
			keys = append(keys, key)
			return true
		})
		if err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := tx.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func getScanKey(id string) string {
	return fmt.Sprintf("scan:%v", id)
}
