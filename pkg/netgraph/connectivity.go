package netgraph

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Subgraph is one connected part of a segment.
type Subgraph struct {
	Points []uuid.UUID
	Lines  []uuid.UUID
	Pins   []uuid.UUID
}

// Subgraphs partitions the points and lines of a segment into connected
// parts, ignoring the lines listed in skip. A pin joins the part of every
// line anchored at it and of the point attached to it.
//
// Parts are ordered by their first point or line in segment order, so the
// result is deterministic.
func (s *Sheet) Subgraphs(segment uuid.UUID, skip map[uuid.UUID]bool) []Subgraph {
	seg := s.mustSegment(segment)

	g := simple.NewUndirectedGraph()
	nodes := make(map[Anchor]int64)
	var order []Anchor
	node := func(a Anchor) simple.Node {
		id, ok := nodes[a]
		if !ok {
			id = int64(len(order))
			nodes[a] = id
			order = append(order, a)
			g.AddNode(simple.Node(id))
		}
		return simple.Node(id)
	}
	connect := func(a, b Anchor) {
		na, nb := node(a), node(b)
		if na != nb {
			g.SetEdge(g.NewEdge(na, nb))
		}
	}

	for _, id := range seg.points {
		pt := PointAnchor(id)
		node(pt)
		if pin := s.points[id].Pin; pin != uuid.Nil {
			connect(pt, PinAnchor(pin))
		}
	}
	var lines []*NetLine
	for _, id := range seg.lines {
		if skip[id] {
			continue
		}
		l := s.lines[id]
		connect(l.A, l.B)
		lines = append(lines, l)
	}

	components := topo.ConnectedComponents(g)
	slices.SortFunc(components, func(a, b []graph.Node) int {
		return cmp.Compare(minID(a), minID(b))
	})

	part := make(map[int64]int)
	out := make([]Subgraph, len(components))
	for i, comp := range components {
		ids := make([]int64, 0, len(comp))
		for _, n := range comp {
			ids = append(ids, n.ID())
		}
		slices.Sort(ids)
		for _, id := range ids {
			part[id] = i
			a := order[id]
			if a.IsPin() {
				out[i].Pins = append(out[i].Pins, a.ID)
			} else {
				out[i].Points = append(out[i].Points, a.ID)
			}
		}
	}
	for _, l := range lines {
		i := part[nodes[l.A]]
		out[i].Lines = append(out[i].Lines, l.ID)
	}
	return out
}

// IsConnected reports whether the points and lines of a segment form a
// single connected graph. Empty segments are connected.
func (s *Sheet) IsConnected(segment uuid.UUID) bool {
	return len(s.Subgraphs(segment, nil)) <= 1
}

func minID(nodes []graph.Node) int64 {
	m := nodes[0].ID()
	for _, n := range nodes[1:] {
		m = min(m, n.ID())
	}
	return m
}
