package app

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/generator"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var runsBucket = []byte("runs")

// ErrRunNotFound is returned when the ledger has no run with the given id.
var ErrRunNotFound = errors.New("run not found")

const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// RunRecord is one pipeline execution. Params and Digest are enough to
// reproduce and verify the dataset later.
type RunRecord struct {
	ID         string           `json:"id"`
	Command    string           `json:"command"`
	Status     string           `json:"status"`
	Error      string           `json:"error,omitempty"`
	Params     generator.Params `json:"params"`
	Counts     map[string]int   `json:"counts,omitempty"`
	Digest     string           `json:"digest,omitempty"`
	Database   string           `json:"database,omitempty"`
	Files      []string         `json:"files,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Ledger is the append-only run history kept in a bbolt file. Keys are
// UUIDv7 strings, so cursor order is chronological.
type Ledger struct {
	db *bolt.DB
}

func OpenLedger(file string) (*Ledger, error) {
	db, err := bolt.Open(file, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger %s", file)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init ledger")
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores rec, assigning an id when it has none.
func (l *Ledger) Record(rec *RunRecord) error {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "new run id")
		}
		rec.ID = id.String()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode run")
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(rec.ID), data)
	})
}

func (l *Ledger) Get(id string) (*RunRecord, error) {
	var rec *RunRecord
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(runsBucket).Get([]byte(id))
		if data == nil {
			return errors.Wrap(ErrRunNotFound, id)
		}
		rec = &RunRecord{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (l *Ledger) List(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec RunRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.Wrapf(err, "decode run %s", k)
			}
			runs = append(runs, rec)
			if limit > 0 && len(runs) >= limit {
				break
			}
		}
		return nil
	})
	return runs, err
}

// Latest returns the most recent successful run.
func (l *Ledger) Latest() (*RunRecord, error) {
	runs, err := l.List(0)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].Status == RunStatusOK && runs[i].Digest != "" {
			return &runs[i], nil
		}
	}
	return nil, ErrRunNotFound
}
