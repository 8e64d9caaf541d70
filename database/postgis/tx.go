package postgis

import (
	"database/sql"
	"sync"

	pq "github.com/lib/pq"
	"github.com/pkg/errors"
)

// tableTx bulk-loads rows into a single table with COPY FROM STDIN.
// Rows are sent through a channel so callers never block on the
// database round trip; the first error is kept and returned on End.
type tableTx struct {
	pg   *PostGIS
	tx   *sql.Tx
	Spec *TableSpec
	stmt *sql.Stmt
	rows chan []interface{}
	wg   *sync.WaitGroup
	mu   sync.Mutex
	err  error

	// closeMu guards rows against sends after Commit/Rollback closed
	// the channel. Inserts can still arrive from writer goroutines
	// when an import is aborted mid-parse.
	closeMu sync.RWMutex
	closed  bool
}

func newTableTx(pg *PostGIS, spec *TableSpec) *tableTx {
	return &tableTx{
		pg:   pg,
		Spec: spec,
		rows: make(chan []interface{}, 64),
		wg:   &sync.WaitGroup{},
	}
}

func (tt *tableTx) Begin(tx *sql.Tx) error {
	var err error
	if tx == nil {
		tx, err = tt.pg.Db.Begin()
		if err != nil {
			return err
		}
	}
	tt.tx = tx

	stmt, err := tt.tx.Prepare(pq.CopyInSchema(tt.Spec.Schema, tt.Spec.FullName, columnNames(tt.Spec)...))
	if err != nil {
		return errors.Wrapf(err, "preparing COPY into %s", tt.Spec.FullName)
	}
	tt.stmt = stmt

	tt.wg.Add(1)
	go tt.loop()
	return nil
}

func columnNames(spec *TableSpec) []string {
	names := make([]string, 0, len(spec.Columns))
	for _, col := range spec.Columns {
		names = append(names, col.Name)
	}
	return names
}

// Insert queues a row for the COPY. Rows arriving after Commit or
// Rollback are dropped.
func (tt *tableTx) Insert(args []interface{}) {
	tt.closeMu.RLock()
	if !tt.closed {
		tt.rows <- args
	}
	tt.closeMu.RUnlock()
}

// closeRows stops accepting new rows and lets the COPY loop drain.
// Safe to call more than once.
func (tt *tableTx) closeRows() {
	tt.closeMu.Lock()
	if !tt.closed {
		tt.closed = true
		close(tt.rows)
	}
	tt.closeMu.Unlock()
}

func (tt *tableTx) loop() {
	defer tt.wg.Done()
	for args := range tt.rows {
		if tt.getErr() != nil {
			continue // drain remaining rows after failure
		}
		if _, err := tt.stmt.Exec(args...); err != nil {
			tt.setErr(errors.Wrapf(err, "copying into %s", tt.Spec.FullName))
		}
	}
}

func (tt *tableTx) setErr(err error) {
	tt.mu.Lock()
	if tt.err == nil {
		tt.err = err
	}
	tt.mu.Unlock()
}

func (tt *tableTx) getErr() error {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return tt.err
}

func (tt *tableTx) Commit() error {
	tt.closeRows()
	tt.wg.Wait()
	if err := tt.getErr(); err != nil {
		tt.tx.Rollback()
		return err
	}
	if _, err := tt.stmt.Exec(); err != nil {
		tt.tx.Rollback()
		return errors.Wrapf(err, "flushing COPY into %s", tt.Spec.FullName)
	}
	if err := tt.stmt.Close(); err != nil {
		tt.tx.Rollback()
		return err
	}
	if err := tt.tx.Commit(); err != nil {
		return err
	}
	tt.tx = nil
	return nil
}

func (tt *tableTx) Rollback() {
	tt.closeRows()
	tt.wg.Wait()
	if tt.tx != nil {
		tt.tx.Rollback()
		tt.tx = nil
	}
}
