// Package proj converts between WGS84 and web-mercator coordinates.
package proj

import (
	"math"

	osm "github.com/omniscale/go-osm"
)

const pole = 6378137 * math.Pi // 20037508.342789244

func WgsToMerc(long, lat float64) (x, y float64) {
	x = long * pole / 180.0
	y = math.Log(math.Tan((90.0+lat)*math.Pi/360.0)) / math.Pi * pole
	return x, y
}

func MercToWgs(x, y float64) (long, lat float64) {
	long = 180.0 * x / pole
	lat = 180.0 / math.Pi * (2*math.Atan(math.Exp((y/pole)*math.Pi)) - math.Pi/2)
	return long, lat
}

// NodesToMerc reprojects all nodes to srid, in place.
// Only 4326 (no-op) and 3857 are supported.
func NodesToMerc(nodes []osm.Node, srid int) {
	if srid == 4326 {
		return
	}
	if srid != 3857 {
		panic("invalid srid. only 4326 and 3857 are supported")
	}
	for i, nd := range nodes {
		nodes[i].Long, nodes[i].Lat = WgsToMerc(nd.Long, nd.Lat)
	}
}

func NodeToMerc(node *osm.Node, srid int) {
	if srid == 4326 {
		return
	}
	if srid != 3857 {
		panic("invalid srid. only 4326 and 3857 are supported")
	}
	node.Long, node.Lat = WgsToMerc(node.Long, node.Lat)
}
