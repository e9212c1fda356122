package topology

import (
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
	"github.com/matzehuels/netedit/pkg/undo"
)

// part is one connected piece of a segment being split.
type part struct {
	netgraph.Subgraph
	labels []*netgraph.NetLabel
	signal uuid.UUID
}

// SplitSegment removes lines and points from a segment and rebuilds every
// remaining connected piece as a segment of its own. Lines touching a removed
// point are removed as well.
//
// Labels move to the piece with the nearest point or line, the first piece
// winning ties. A piece takes the forced name of its labels and terminals;
// without one it keeps the original signal if it holds a label and gets a
// fresh auto-named signal of the original net class otherwise. Pieces with
// conflicting forced names fail with [errors.ErrCodeNameConflict].
//
// It returns the new segments in piece order. The original signal may end
// up unused; callers run [RemoveUnusedNetSignals] afterwards.
func SplitSegment(g *undo.Group, sess *session.Session, sheet *netgraph.Sheet,
	segment uuid.UUID, removedLines, removedPoints []uuid.UUID) ([]uuid.UUID, error) {
	seg := sheet.Segment(segment)
	if seg == nil {
		errors.Logic("net segment %s does not exist", segment)
	}
	original := seg.Signal

	skip := make(map[uuid.UUID]bool)
	for _, id := range removedLines {
		skip[id] = true
	}
	dropped := make(map[uuid.UUID]bool)
	for _, id := range removedPoints {
		dropped[id] = true
		for _, l := range sheet.LinesOf(netgraph.PointAnchor(id)) {
			skip[l.ID] = true
		}
	}

	var parts []*part
	for _, sg := range sheet.Subgraphs(segment, skip) {
		sg.Points = slices.DeleteFunc(sg.Points, func(id uuid.UUID) bool { return dropped[id] })
		if len(sg.Points) == 0 && len(sg.Lines) == 0 {
			continue
		}
		parts = append(parts, &part{Subgraph: sg})
	}

	for _, l := range sheet.SegmentLabels(segment) {
		if i := nearestPart(sheet, parts, l.Position); i >= 0 {
			parts[i].labels = append(parts[i].labels, l)
		}
	}

	for _, p := range parts {
		var forced []string
		for _, l := range p.labels {
			forced = append(forced, l.ForcedName)
		}
		for _, pin := range p.Pins {
			forced = append(forced, sess.Circuit.ForcedNetName(sheet.Pin(pin).Signal))
		}
		sig, err := signalForPart(g, sess, original, uniqueNames(forced), len(p.labels) > 0)
		if err != nil {
			return nil, err
		}
		p.signal = sig
	}

	// Capture geometry before the original segment disappears.
	points := make(map[uuid.UUID]netgraph.NetPoint)
	for _, p := range sheet.SegmentPoints(segment) {
		points[p.ID] = *p
	}
	lines := make(map[uuid.UUID]netgraph.NetLine)
	for _, l := range sheet.SegmentLines(segment) {
		lines[l.ID] = *l
	}

	out := make([]uuid.UUID, len(parts))
	for i, p := range parts {
		add := netgraph.NewCmdSegmentAdd(sheet, p.signal)
		if err := g.Exec(add); err != nil {
			return nil, err
		}
		out[i] = add.Segment().ID
		for _, l := range p.labels {
			if err := g.Exec(netgraph.NewCmdLabelEdit(sheet, l.ID).SetSegment(out[i])); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Exec(netgraph.NewCmdSegmentRemove(sheet, segment)); err != nil {
		return nil, err
	}

	for i, p := range parts {
		add := netgraph.NewCmdSegmentAddElements(sheet, out[i])
		mapped := make(map[uuid.UUID]netgraph.Anchor, len(p.Points))
		for _, id := range p.Points {
			old := points[id]
			var np *netgraph.NetPoint
			if old.Pin != uuid.Nil {
				np = add.AddPinPoint(old.Position, old.Pin)
			} else {
				np = add.AddPoint(old.Position)
			}
			mapped[id] = netgraph.PointAnchor(np.ID)
		}
		resolve := func(a netgraph.Anchor) netgraph.Anchor {
			if a.IsPoint() {
				return mapped[a.ID]
			}
			return a
		}
		for _, id := range p.Lines {
			old := lines[id]
			add.AddLine(resolve(old.A), resolve(old.B))
		}
		if err := g.Exec(add); err != nil {
			return nil, err
		}
		if err := AssignSignal(g, sess, sheet, []uuid.UUID{out[i]}, p.signal); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func signalForPart(g *undo.Group, sess *session.Session, original uuid.UUID, forced []string, labeled bool) (uuid.UUID, error) {
	switch {
	case len(forced) > 1:
		return uuid.Nil, errors.New(errors.ErrCodeNameConflict,
			"net segment would join nets with different forced names: %v", forced)
	case len(forced) == 1:
		if sess.Circuit.SignalName(original) == forced[0] {
			return original, nil
		}
		return sess.SignalByNameOrNew(g, forced[0])
	case labeled:
		return original, nil
	}
	sig, err := sess.NewSignalLike(g, original)
	if err != nil {
		return uuid.Nil, err
	}
	return sig.ID, nil
}

// nearestPart returns the index of the part closest to pos, or -1.
func nearestPart(sheet *netgraph.Sheet, parts []*part, pos geom.Point) int {
	best, bestDist := -1, math.Inf(1)
	for i, p := range parts {
		d := math.Inf(1)
		for _, id := range p.Points {
			d = min(d, pos.DistanceTo(sheet.Point(id).Position))
		}
		for _, id := range p.Lines {
			l := sheet.Line(id)
			d = min(d, geom.DistanceToSegment(pos, sheet.AnchorPosition(l.A), sheet.AnchorPosition(l.B)))
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
