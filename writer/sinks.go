package writer

import (
	osm "github.com/omniscale/go-osm"

	"github.com/osmflex/osmflex/classify"
	"github.com/osmflex/osmflex/geom"
	"github.com/osmflex/osmflex/log"
	"github.com/osmflex/osmflex/proj"
	"github.com/osmflex/osmflex/stats"
)

// PointSink classifies nodes and inserts matches as point rows.
type PointSink struct {
	Classifier *classify.Classifier
	Srid       int
	Inserter   Inserter
	Progress   *stats.Progress
}

func (s *PointSink) Node(nd *osm.Node) {
	row, ok := s.Classifier.ClassifyNode(nd)
	if !ok {
		return
	}
	node := *nd
	proj.NodeToMerc(&node, s.Srid)
	row.Geom = geom.PointAsEWKBHex(node, s.Srid)
	s.Inserter.InsertPoint(row)
	if s.Progress != nil {
		s.Progress.AddRows(1)
	}
}

// PolygonSink classifies closed ways and inserts matches as polygon
// rows. Ways with degenerate rings are skipped, not reported as errors.
type PolygonSink struct {
	Classifier *classify.Classifier
	Srid       int
	Inserter   Inserter
	Progress   *stats.Progress
}

func (s *PolygonSink) Way(way *osm.Way) {
	row, ok := s.Classifier.ClassifyWay(way)
	if !ok {
		return
	}
	proj.NodesToMerc(way.Nodes, s.Srid)
	wkb, err := geom.PolygonAsEWKBHex(way.Nodes, s.Srid)
	if err != nil {
		log.Printf("[debug] way %d: %s", way.ID, err)
		return
	}
	row.Geom = wkb
	s.Inserter.InsertPolygon(row)
	if s.Progress != nil {
		s.Progress.AddRows(1)
	}
}
