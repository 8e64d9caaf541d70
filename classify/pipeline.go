package classify

import (
	osm "github.com/omniscale/go-osm"
)

// NodeHandler processes a single tagged node. Handlers may modify the
// element they receive, including consuming tags.
type NodeHandler interface {
	Node(*osm.Node)
}

// WayHandler processes a single way.
type WayHandler interface {
	Way(*osm.Way)
}

// Pipeline dispatches each element to an ordered list of independent
// handlers. Every handler gets its own copy of the element, so one
// handler consuming a tag does not affect the others. This replaces the
// wrap-the-previous-callback chaining where handlers shared a single
// mutable element.
type Pipeline struct {
	nodeHandlers []NodeHandler
	wayHandlers  []WayHandler
}

// AppendNodeHandler registers h after all previously registered node
// handlers.
func (p *Pipeline) AppendNodeHandler(h NodeHandler) {
	p.nodeHandlers = append(p.nodeHandlers, h)
}

// AppendWayHandler registers h after all previously registered way
// handlers.
func (p *Pipeline) AppendWayHandler(h WayHandler) {
	p.wayHandlers = append(p.wayHandlers, h)
}

// Node invokes all node handlers in registration order.
func (p *Pipeline) Node(nd *osm.Node) {
	for _, h := range p.nodeHandlers {
		n := *nd
		n.Tags = copyTags(nd.Tags)
		h.Node(&n)
	}
}

// Way invokes all way handlers in registration order.
func (p *Pipeline) Way(way *osm.Way) {
	for _, h := range p.wayHandlers {
		w := *way
		w.Tags = copyTags(way.Tags)
		w.Refs = append([]int64(nil), way.Refs...)
		w.Nodes = append([]osm.Node(nil), way.Nodes...)
		h.Way(&w)
	}
}

func copyTags(tags osm.Tags) osm.Tags {
	result := make(osm.Tags, len(tags))
	for k, v := range tags {
		result[k] = v
	}
	return result
}

// NodeHandlerFunc adapts a func to the NodeHandler interface.
type NodeHandlerFunc func(*osm.Node)

func (f NodeHandlerFunc) Node(nd *osm.Node) { f(nd) }

// WayHandlerFunc adapts a func to the WayHandler interface.
type WayHandlerFunc func(*osm.Way)

func (f WayHandlerFunc) Way(w *osm.Way) { f(w) }
