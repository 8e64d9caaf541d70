// Package cache stores node coordinates on disk while ways are resolved.
package cache

import (
	bin "encoding/binary"
	"errors"
	"os"

	"github.com/dgraph-io/badger"
	osm "github.com/omniscale/go-osm"

	"github.com/osmflex/osmflex/log"
)

var NotFound = errors.New("not found")

// coordFactor maps the -180..180 degree range to uint32.
const coordFactor float64 = 11930464.7083 // ((2<<31)-1)/360.0

// CoordsCache is a badger-backed node coordinate store. Keys are
// big-endian node IDs, values are two fixed-point uint32 coordinates.
type CoordsCache struct {
	db *badger.DB
}

func NewCoordsCache(dir string) (*CoordsCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &CoordsCache{db: db}, nil
}

// PutCoords stores the locations of all nodes. Oversized batches are
// split into multiple transactions.
func (c *CoordsCache) PutCoords(nodes []osm.Node) error {
	txn := c.db.NewTransaction(true)
	for _, nd := range nodes {
		err := txn.Set(idToKeyBuf(nd.ID), coordToBuf(nd.Long, nd.Lat))
		if err == badger.ErrTxnTooBig {
			if err := txn.Commit(); err != nil {
				return err
			}
			txn = c.db.NewTransaction(true)
			err = txn.Set(idToKeyBuf(nd.ID), coordToBuf(nd.Long, nd.Lat))
		}
		if err != nil {
			txn.Discard()
			return err
		}
	}
	return txn.Commit()
}

// GetCoord returns the location of a single node, NotFound if the node
// was never stored.
func (c *CoordsCache) GetCoord(id int64) (osm.Node, error) {
	nd := osm.Node{}
	nd.ID = id
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idToKeyBuf(id))
		if err == badger.ErrKeyNotFound {
			return NotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			nd.Long, nd.Lat = coordFromBuf(val)
			return nil
		})
	})
	return nd, err
}

// FillWay resolves all referenced coordinates of the way into way.Nodes.
// Returns NotFound if any referenced node is missing.
func (c *CoordsCache) FillWay(way *osm.Way) error {
	way.Nodes = make([]osm.Node, len(way.Refs))
	return c.db.View(func(txn *badger.Txn) error {
		for i, ref := range way.Refs {
			item, err := txn.Get(idToKeyBuf(ref))
			if err == badger.ErrKeyNotFound {
				return NotFound
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				way.Nodes[i].ID = ref
				way.Nodes[i].Long, way.Nodes[i].Lat = coordFromBuf(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *CoordsCache) Close() {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			log.Println("[error] closing coords cache:", err)
		}
		c.db = nil
	}
}

func idToKeyBuf(id int64) []byte {
	b := make([]byte, 8)
	bin.BigEndian.PutUint64(b, uint64(id))
	return b
}

func coordToBuf(long, lat float64) []byte {
	b := make([]byte, 8)
	bin.LittleEndian.PutUint32(b[:4], coordToInt(long))
	bin.LittleEndian.PutUint32(b[4:], coordToInt(lat))
	return b
}

func coordFromBuf(buf []byte) (long, lat float64) {
	long = intToCoord(bin.LittleEndian.Uint32(buf[:4]))
	lat = intToCoord(bin.LittleEndian.Uint32(buf[4:]))
	return long, lat
}

func coordToInt(coord float64) uint32 {
	return uint32((coord + 180.0) * coordFactor)
}

func intToCoord(coord uint32) float64 {
	return float64(coord)/coordFactor - 180.0
}
