package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/grid2go/grid2go/internal/loop"
	"github.com/grid2go/grid2go/internal/util"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketTraces = "traces"
)

type Persistence interface {
	Init() error

	SaveLoopTrace(loopId string, snapshots []loop.Snapshot) error
	LoadLoopTrace(loopId string) ([]loop.Snapshot, error)
	DeleteLoopTrace(loopId string) error

	ExportLoopTraceCsv(loopId string, path string) error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	return util.EnsureParentDir(p.dbPath)
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveLoopTrace saves the recorded tick snapshots of the given loop.
func (p persistence) SaveLoopTrace(loopId string, snapshots []loop.Snapshot) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(snapshots)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketTraces))
		if err != nil {
			return err
		}
		return b.Put([]byte(loopId), data)
	})
}

// LoadLoopTrace loads the most recently saved trace of the given loop.
func (p persistence) LoadLoopTrace(loopId string) ([]loop.Snapshot, error) {
	if _, err := os.Stat(p.dbPath); err != nil {
		return nil, fmt.Errorf("no trace data found for loop %s", loopId)
	}

	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var snapshots []loop.Snapshot
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketTraces))
		if b == nil {
			return fmt.Errorf("no trace data found for loop %s", loopId)
		}
		data := b.Get([]byte(loopId))
		if data == nil {
			return fmt.Errorf("no trace data found for loop %s", loopId)
		}
		return json.Unmarshal(data, &snapshots)
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (p persistence) DeleteLoopTrace(loopId string) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketTraces))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(loopId))
	})
}

// ExportLoopTraceCsv writes the saved trace of the given loop to a CSV
// file at the given path.
func (p persistence) ExportLoopTraceCsv(loopId string, path string) error {
	snapshots, err := p.LoadLoopTrace(loopId)
	if err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("tick,theta,frequency,d,q,vd,vq,dutyA,dutyB,dutyC,sector\n")
	for _, s := range snapshots {
		builder.WriteString(fmt.Sprintf("%d,%f,%f,%f,%f,%f,%f,%f,%f,%f,%d\n",
			s.Tick, s.Theta, s.Frequency,
			s.Measured.D, s.Measured.Q,
			s.Voltage.D, s.Voltage.Q,
			s.Duties.A, s.Duties.B, s.Duties.C,
			s.Sector))
	}

	return util.WriteStringToFileAtomic(builder.String(), path)
}
