// Package writer feeds parsed OSM elements through the classification
// pipeline and into the database.
package writer

import (
	"runtime"
	"sync"

	"github.com/osmflex/osmflex/classify"
	"github.com/osmflex/osmflex/stats"
)

// Inserter queues classified rows for bulk import. Implementations must
// be safe for concurrent use.
type Inserter interface {
	InsertPoint(row classify.Row)
	InsertPolygon(row classify.Row)
}

type osmElemWriter struct {
	pipeline    *classify.Pipeline
	progress    *stats.Progress
	concurrency int
	wg          *sync.WaitGroup
}

func (writer *osmElemWriter) SetConcurrency(concurrency int) {
	writer.concurrency = concurrency
}

func (writer *osmElemWriter) Wait() {
	writer.wg.Wait()
}

func defaultConcurrency() int {
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	return n
}
