package topology

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/undo"
)

// SimplifySegment cleans up the geometry of a segment without changing its
// connectivity:
//   - points at the same position are merged unless they carry different pins
//   - duplicate lines between the same two anchors are removed
//   - a free point joining exactly two collinear lines is replaced by one line
//
// It repeats until nothing changes and reports whether anything did.
func SimplifySegment(g *undo.Group, sheet *netgraph.Sheet, segment uuid.UUID) (bool, error) {
	changed := false
	for {
		step, err := simplifyStep(g, sheet, segment)
		if err != nil || !step {
			return changed, err
		}
		changed = true
	}
}

func simplifyStep(g *undo.Group, sheet *netgraph.Sheet, segment uuid.UUID) (bool, error) {
	points := sheet.SegmentPoints(segment)
	for i, p := range points {
		for _, q := range points[i+1:] {
			if p.Position != q.Position {
				continue
			}
			if p.Pin != uuid.Nil && q.Pin != uuid.Nil && p.Pin != q.Pin {
				continue
			}
			return true, CombinePoints(g, sheet, q.ID, p.ID)
		}
	}

	seen := make(pairSet)
	for _, l := range sheet.SegmentLines(segment) {
		if !seen.has(l.A, l.B) {
			seen.add(l.A, l.B)
			continue
		}
		rm := netgraph.NewCmdSegmentRemoveElements(sheet, segment)
		rm.RemoveLine(l.ID)
		return true, g.Exec(rm)
	}

	if len(points) < 2 {
		return false, nil
	}
	for _, p := range points {
		if p.Pin != uuid.Nil {
			continue
		}
		at := netgraph.PointAnchor(p.ID)
		lines := sheet.LinesOf(at)
		if len(lines) != 2 {
			continue
		}
		a, b := lines[0].Other(at), lines[1].Other(at)
		if a == b || !geom.OnSegment(p.Position, sheet.AnchorPosition(a), sheet.AnchorPosition(b), 0) {
			continue
		}
		rm := netgraph.NewCmdSegmentRemoveElements(sheet, segment)
		rm.RemoveLine(lines[0].ID)
		rm.RemoveLine(lines[1].ID)
		rm.RemovePoint(p.ID)
		if err := g.Exec(rm); err != nil {
			return false, err
		}
		if seen.has(a, b) {
			return true, nil
		}
		add := netgraph.NewCmdSegmentAddElements(sheet, segment)
		add.AddLine(a, b)
		return true, g.Exec(add)
	}
	return false, nil
}
