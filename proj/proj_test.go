package proj

import (
	"math"
	"testing"

	osm "github.com/omniscale/go-osm"
)

func TestWgsToMerc(t *testing.T) {
	x, y := WgsToMerc(0, 0)
	if x != 0 || y != 0 {
		t.Fatalf("%v %v", x, y)
	}

	x, y = WgsToMerc(8, 53)
	if math.Abs(x-890555.9263461898) > 1e-6 || math.Abs(y-6982997.920389788) > 1e-6 {
		t.Fatalf("%v %v", x, y)
	}
}

func TestMercToWgsRoundTrip(t *testing.T) {
	for _, coord := range [][2]float64{
		{0, 0},
		{8, 53},
		{-122.4, 37.8},
		{179.9, -85},
	} {
		x, y := WgsToMerc(coord[0], coord[1])
		long, lat := MercToWgs(x, y)
		if math.Abs(long-coord[0]) > 1e-9 || math.Abs(lat-coord[1]) > 1e-9 {
			t.Fatalf("%v: %v %v", coord, long, lat)
		}
	}
}

func TestNodesToMerc(t *testing.T) {
	nodes := []osm.Node{{Long: 8, Lat: 53}, {Long: 0, Lat: 0}}
	NodesToMerc(nodes, 4326)
	if nodes[0].Long != 8 || nodes[0].Lat != 53 {
		t.Fatal(nodes)
	}
	NodesToMerc(nodes, 3857)
	if math.Abs(nodes[0].Long-890555.9263461898) > 1e-6 {
		t.Fatal(nodes)
	}
	if nodes[1].Long != 0 || nodes[1].Lat != 0 {
		t.Fatal(nodes)
	}
}

func TestNodeToMerc(t *testing.T) {
	nd := osm.Node{Long: 8, Lat: 53}
	NodeToMerc(&nd, 3857)
	if math.Abs(nd.Long-890555.9263461898) > 1e-6 || math.Abs(nd.Lat-6982997.920389788) > 1e-6 {
		t.Fatal(nd)
	}
}
