package postgis

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

func tableExists(tx *sql.Tx, schema, table string) (bool, error) {
	var exists bool
	err := tx.QueryRow(
		`SELECT EXISTS(SELECT * FROM information_schema.tables WHERE table_name = $1 AND table_schema = $2)`,
		table, schema,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func dropTableIfExists(tx *sql.Tx, schema, table string) error {
	exists, err := tableExists(tx, schema, table)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	sqlStmt := fmt.Sprintf(`SELECT DropGeometryTable('%s', '%s')`, schema, table)
	_, err = tx.Exec(sqlStmt)
	if err != nil {
		// plain tables without a geometry column
		sqlStmt = fmt.Sprintf(`DROP TABLE "%s"."%s"`, schema, table)
		if _, err := tx.Exec(sqlStmt); err != nil {
			return errors.Wrapf(err, "dropping table %s.%s", schema, table)
		}
	}
	return nil
}

// rollbackIfTx rolls back the transaction if tx is not nil.
func rollbackIfTx(tx **sql.Tx) {
	if *tx != nil {
		(*tx).Rollback()
	}
}

// disableDefaultSslOnLocalhost adds sslmode=disable to params
// when host is localhost/127.0.0.1 and the user did not set
// sslmode (in params or PGSSLMODE env).
func disableDefaultSslOnLocalhost(params string) string {
	parts := strings.Fields(params)
	isLocalHost := false
	for _, p := range parts {
		if strings.HasPrefix(p, "sslmode=") {
			return params
		}
		if p == "host=localhost" || p == "host=127.0.0.1" {
			isLocalHost = true
		}
	}
	if !isLocalHost {
		return params
	}
	if os.Getenv("PGSSLMODE") != "" {
		return params
	}
	return params + " sslmode=disable"
}

// prefixFromConnectionParams removes the prefix option from params
// and returns it. Default prefix is osm_, a trailing underscore is
// added if missing.
func prefixFromConnectionParams(params *string) string {
	parts := strings.Fields(*params)
	var prefix string
	for i, p := range parts {
		if strings.HasPrefix(p, "prefix=") {
			prefix = strings.Replace(p, "prefix=", "", 1)
			parts = append(parts[:i], parts[i+1:]...)
			break
		}
	}
	*params = strings.Join(parts, " ")
	if prefix == "" {
		return "osm_"
	}
	if prefix == "NONE" {
		return ""
	}
	if !strings.HasSuffix(prefix, "_") {
		prefix = prefix + "_"
	}
	return prefix
}

type workerPool struct {
	in  chan func() error
	out chan error
	wg  *sync.WaitGroup
}

func newWorkerPool(worker, tasks int) *workerPool {
	p := &workerPool{
		make(chan func() error, tasks),
		make(chan error, tasks),
		&sync.WaitGroup{},
	}
	for i := 0; i < worker; i++ {
		p.wg.Add(1)
		go p.workerLoop()
	}
	return p
}

func (p *workerPool) workerLoop() {
	for f := range p.in {
		p.out <- f()
	}
	p.wg.Done()
}

// wait closes the task channel and returns the first error.
func (p *workerPool) wait() error {
	close(p.in)
	go func() {
		p.wg.Wait()
		close(p.out)
	}()

	for err := range p.out {
		if err != nil {
			return err
		}
	}
	return nil
}
