package writer

import (
	"sync"

	osm "github.com/omniscale/go-osm"

	"github.com/osmflex/osmflex/cache"
	"github.com/osmflex/osmflex/classify"
	"github.com/osmflex/osmflex/log"
	"github.com/osmflex/osmflex/stats"
)

type WayWriter struct {
	osmElemWriter
	coordsCache *cache.CoordsCache
	ways        chan []osm.Way
}

func NewWayWriter(
	ways chan []osm.Way,
	coordsCache *cache.CoordsCache,
	pipeline *classify.Pipeline,
	progress *stats.Progress,
) *WayWriter {
	ww := WayWriter{
		osmElemWriter: osmElemWriter{
			pipeline:    pipeline,
			progress:    progress,
			concurrency: defaultConcurrency(),
			wg:          &sync.WaitGroup{},
		},
		coordsCache: coordsCache,
		ways:        ways,
	}
	return &ww
}

func (ww *WayWriter) Start() {
	for i := 0; i < ww.concurrency; i++ {
		ww.wg.Add(1)
		go ww.loop()
	}
}

func (ww *WayWriter) loop() {
	defer ww.wg.Done()
	for batch := range ww.ways {
		for i := range batch {
			way := &batch[i]
			err := ww.coordsCache.FillWay(way)
			if err == cache.NotFound {
				// extracts cropped at the bbox drop coords of
				// boundary-crossing ways
				continue
			}
			if err != nil {
				log.Printf("[warn] filling way %d: %s", way.ID, err)
				continue
			}
			ww.pipeline.Way(way)
		}
		if ww.progress != nil {
			ww.progress.AddWays(len(batch))
		}
	}
}
