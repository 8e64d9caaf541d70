package writer

import (
	"sync"

	osm "github.com/omniscale/go-osm"

	"github.com/osmflex/osmflex/classify"
	"github.com/osmflex/osmflex/stats"
)

type NodeWriter struct {
	osmElemWriter
	nodes chan []osm.Node
}

func NewNodeWriter(
	nodes chan []osm.Node,
	pipeline *classify.Pipeline,
	progress *stats.Progress,
) *NodeWriter {
	nw := NodeWriter{
		osmElemWriter: osmElemWriter{
			pipeline:    pipeline,
			progress:    progress,
			concurrency: defaultConcurrency(),
			wg:          &sync.WaitGroup{},
		},
		nodes: nodes,
	}
	return &nw
}

func (nw *NodeWriter) Start() {
	for i := 0; i < nw.concurrency; i++ {
		nw.wg.Add(1)
		go nw.loop()
	}
}

func (nw *NodeWriter) loop() {
	defer nw.wg.Done()
	for batch := range nw.nodes {
		for i := range batch {
			nw.pipeline.Node(&batch[i])
		}
		if nw.progress != nil {
			nw.progress.AddNodes(len(batch))
		}
	}
}
