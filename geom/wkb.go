// Package geom encodes node coordinates as EWKB geometries for PostGIS.
package geom

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"

	osm "github.com/omniscale/go-osm"
)

const (
	wkbSridFlag    = 0x20000000
	wkbPointType   = 1
	wkbPolygonType = 3
)

var (
	ErrRingNotClosed = errors.New("way is not a closed ring")
	ErrTooFewNodes   = errors.New("not enough distinct nodes")
)

// PointAsEWKBHex returns the node location as hex-encoded EWKB point.
func PointAsEWKBHex(node osm.Node, srid int) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint8(1)) // little endian
	if srid != 0 {
		binary.Write(buf, binary.LittleEndian, uint32(wkbPointType|wkbSridFlag))
		binary.Write(buf, binary.LittleEndian, uint32(srid))
	} else {
		binary.Write(buf, binary.LittleEndian, uint32(wkbPointType))
	}
	binary.Write(buf, binary.LittleEndian, node.Long)
	binary.Write(buf, binary.LittleEndian, node.Lat)

	return hexEncode(buf.Bytes())
}

// PolygonAsEWKBHex returns the nodes as hex-encoded EWKB polygon with a
// single exterior ring. The first and last node must be identical,
// duplicate intermediate nodes are removed.
func PolygonAsEWKBHex(nodes []osm.Node, srid int) ([]byte, error) {
	nodes = unduplicateNodes(nodes)
	if len(nodes) < 4 { // 3 distinct nodes plus the closing node
		return nil, ErrTooFewNodes
	}
	if nodes[0].Long != nodes[len(nodes)-1].Long || nodes[0].Lat != nodes[len(nodes)-1].Lat {
		return nil, ErrRingNotClosed
	}
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint8(1)) // little endian
	if srid != 0 {
		binary.Write(buf, binary.LittleEndian, uint32(wkbPolygonType|wkbSridFlag))
		binary.Write(buf, binary.LittleEndian, uint32(srid))
	} else {
		binary.Write(buf, binary.LittleEndian, uint32(wkbPolygonType))
	}
	binary.Write(buf, binary.LittleEndian, uint32(1)) // one ring
	binary.Write(buf, binary.LittleEndian, uint32(len(nodes)))

	for _, nd := range nodes {
		binary.Write(buf, binary.LittleEndian, nd.Long)
		binary.Write(buf, binary.LittleEndian, nd.Lat)
	}

	return hexEncode(buf.Bytes()), nil
}

// unduplicateNodes removes consecutive nodes with identical coordinates.
func unduplicateNodes(nodes []osm.Node) []osm.Node {
	result := make([]osm.Node, 0, len(nodes))
	for i, nd := range nodes {
		if i > 0 && nd.Long == result[len(result)-1].Long && nd.Lat == result[len(result)-1].Lat {
			continue
		}
		result = append(result, nd)
	}
	return result
}

func hexEncode(src []byte) []byte {
	dst := make([]byte, hex.EncodedLen(len(src)))
	hex.Encode(dst, src)
	return dst
}
