package systems

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDanglingLink means a teleporter links to an id that does not exist.
	ErrDanglingLink = errors.New("teleporter links to unknown id")
	// ErrDuplicateTeleport means two teleporters share an id.
	ErrDuplicateTeleport = errors.New("duplicate teleporter id")
)

// TeleportLink is a teleporter's static link as authored in the level.
// Link == ID means the teleporter is unlinked and is its own default target.
type TeleportLink struct {
	ID   int
	Link int
}

// TeleportNode is the runtime state of one teleporter.
type TeleportNode struct {
	ID     int
	Link   int  // authored link
	Target int  // current destination
	Active bool // touched at least once
}

// Linked reports whether the node was authored with a link to another teleporter.
func (n TeleportNode) Linked() bool { return n.Link != n.ID }

// TeleportNetwork is the graph of teleporters in one level, keyed by id.
// Activation never mutates a network in place; it returns the next graph.
type TeleportNetwork struct {
	nodes  map[int]TeleportNode
	newest int
	chain  bool
}

// NewTeleportNetwork builds a network from authored links. Every link must
// resolve to a teleporter in the same set.
func NewTeleportNetwork(links []TeleportLink) (*TeleportNetwork, error) {
	n := &TeleportNetwork{nodes: make(map[int]TeleportNode, len(links))}
	for _, l := range links {
		if _, dup := n.nodes[l.ID]; dup {
			return nil, fmt.Errorf("teleporter %d: %w", l.ID, ErrDuplicateTeleport)
		}
		n.nodes[l.ID] = TeleportNode{ID: l.ID, Link: l.Link, Target: l.Link}
	}
	for _, node := range n.nodes {
		if _, ok := n.nodes[node.Link]; !ok {
			return nil, fmt.Errorf("teleporter %d -> %d: %w", node.ID, node.Link, ErrDanglingLink)
		}
	}
	return n, nil
}

// Len returns the number of teleporters.
func (n *TeleportNetwork) Len() int {
	if n == nil {
		return 0
	}
	return len(n.nodes)
}

// Node returns the state of a teleporter.
func (n *TeleportNetwork) Node(id int) (TeleportNode, bool) {
	if n == nil {
		return TeleportNode{}, false
	}
	node, ok := n.nodes[id]
	return node, ok
}

// Newest returns the most recently activated teleporter.
func (n *TeleportNetwork) Newest() (int, bool) {
	if n == nil {
		return 0, false
	}
	return n.newest, n.chain
}

// IDs returns every teleporter id in ascending order.
func (n *TeleportNetwork) IDs() []int {
	if n == nil {
		return nil
	}
	ids := make([]int, 0, len(n.nodes))
	for id := range n.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TeleportResult is what touching a teleporter does.
type TeleportResult uint8

const (
	TeleportIgnore   TeleportResult = iota // unknown id or already a destination
	TeleportActivate                       // first touch: joins the chain
	TeleportRelocate                       // active with a foreign target: move
)

// Resolve reports what touching the teleporter would do and, for a
// relocation, the destination id.
func (n *TeleportNetwork) Resolve(id int) (TeleportResult, int) {
	node, ok := n.Node(id)
	switch {
	case !ok:
		return TeleportIgnore, id
	case !node.Active:
		return TeleportActivate, id
	case node.Target != id:
		return TeleportRelocate, node.Target
	default:
		return TeleportIgnore, id
	}
}

// Activate returns the network after the teleporter is touched for the first
// time. It becomes the newest link of the chain and every teleporter that is
// still inactive and unlinked is retargeted to it.
func (n *TeleportNetwork) Activate(id int) *TeleportNetwork {
	node, ok := n.Node(id)
	if !ok || node.Active {
		return n
	}
	next := &TeleportNetwork{
		nodes:  make(map[int]TeleportNode, len(n.nodes)),
		newest: id,
		chain:  true,
	}
	for k, v := range n.nodes {
		if k != id && !v.Active && !v.Linked() {
			v.Target = id
		}
		next.nodes[k] = v
	}
	node.Active = true
	next.nodes[id] = node
	return next
}
