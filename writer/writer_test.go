package writer

import (
	"strings"
	"sync"
	"testing"

	osm "github.com/omniscale/go-osm"

	"github.com/osmflex/osmflex/classify"
)

type recordingInserter struct {
	mu       sync.Mutex
	points   []classify.Row
	polygons []classify.Row
}

func (r *recordingInserter) InsertPoint(row classify.Row) {
	r.mu.Lock()
	r.points = append(r.points, row)
	r.mu.Unlock()
}

func (r *recordingInserter) InsertPolygon(row classify.Row) {
	r.mu.Lock()
	r.polygons = append(r.polygons, row)
	r.mu.Unlock()
}

func TestPointSink(t *testing.T) {
	inserter := &recordingInserter{}
	sink := &PointSink{
		Classifier: &classify.Classifier{},
		Srid:       3857,
		Inserter:   inserter,
	}

	sink.Node(&osm.Node{
		Element: osm.Element{ID: 1, Tags: osm.Tags{"building": "yes"}},
		Long:    8, Lat: 53,
	})
	sink.Node(&osm.Node{
		Element: osm.Element{ID: 2, Tags: osm.Tags{"highway": "bus_stop"}},
		Long:    8, Lat: 53,
	})

	if len(inserter.points) != 1 {
		t.Fatalf("got %d point rows, want 1", len(inserter.points))
	}
	row := inserter.points[0]
	if row.OSMID != 1 || row.Category != classify.Building {
		t.Error("unexpected row:", row)
	}
	if !strings.HasPrefix(string(row.Geom), "0101000020110f0000") {
		t.Error("expected EWKB point with SRID 3857, got:", string(row.Geom))
	}
}

func TestPolygonSink(t *testing.T) {
	inserter := &recordingInserter{}
	sink := &PolygonSink{
		Classifier: &classify.Classifier{},
		Srid:       3857,
		Inserter:   inserter,
	}

	way := &osm.Way{
		Element: osm.Element{ID: 10, Tags: osm.Tags{"building": "retail"}},
		Refs:    []int64{1, 2, 3, 1},
		Nodes: []osm.Node{
			{Long: 8.0, Lat: 53.0},
			{Long: 8.001, Lat: 53.0},
			{Long: 8.001, Lat: 53.001},
			{Long: 8.0, Lat: 53.0},
		},
	}
	sink.Way(way)

	// open way, same tags
	sink.Way(&osm.Way{
		Element: osm.Element{ID: 11, Tags: osm.Tags{"building": "retail"}},
		Refs:    []int64{1, 2, 3},
		Nodes: []osm.Node{
			{Long: 8.0, Lat: 53.0},
			{Long: 8.001, Lat: 53.0},
			{Long: 8.001, Lat: 53.001},
		},
	})

	if len(inserter.polygons) != 1 {
		t.Fatalf("got %d polygon rows, want 1", len(inserter.polygons))
	}
	row := inserter.polygons[0]
	if row.OSMID != 10 || row.Category != classify.Building {
		t.Error("unexpected row:", row)
	}
	if !strings.HasPrefix(string(row.Geom), "0103000020110f0000") {
		t.Error("expected EWKB polygon with SRID 3857, got:", string(row.Geom))
	}
}

func TestNodeWriter(t *testing.T) {
	inserter := &recordingInserter{}
	pipeline := &classify.Pipeline{}
	pipeline.AppendNodeHandler(&PointSink{
		Classifier: &classify.Classifier{},
		Srid:       3857,
		Inserter:   inserter,
	})

	nodes := make(chan []osm.Node)
	nw := NewNodeWriter(nodes, pipeline, nil)
	nw.SetConcurrency(2)
	nw.Start()

	nodes <- []osm.Node{
		{Element: osm.Element{ID: 1, Tags: osm.Tags{"building": "yes"}}, Long: 8, Lat: 53},
		{Element: osm.Element{ID: 2, Tags: osm.Tags{"addr:housenumber": "12"}}, Long: 8, Lat: 53},
		{Element: osm.Element{ID: 3, Tags: osm.Tags{"natural": "tree"}}, Long: 8, Lat: 53},
	}
	close(nodes)
	nw.Wait()

	if len(inserter.points) != 2 {
		t.Fatalf("got %d point rows, want 2", len(inserter.points))
	}
}
