package topology

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
	"github.com/matzehuels/netedit/pkg/undo"
)

// CombineAllItemsUnderPoint connects everything located exactly at a point:
// other points, lines passing through it, and a pin. Touched segments are
// moved to one net signal chosen by [ResolveNetName] and merged into the
// point's segment, lines passing through are split at the point, and a free
// pin is attached to it.
//
// More than one pin at the position is not supported and fails with
// [errors.ErrCodeUnsupported]. The result reports whether anything changed.
func CombineAllItemsUnderPoint(g *undo.Group, sess *session.Session, sheet *netgraph.Sheet, point uuid.UUID) (bool, error) {
	p := sheet.Point(point)
	if p == nil {
		errors.Logic("net point %s does not exist", point)
	}
	pos, own := p.Position, p.Segment

	pins := sheet.PinsAt(pos, 0)
	if len(pins) > 1 {
		return false, errors.New(errors.ErrCodeUnsupported,
			"more than one pin at %s, connecting them is not supported", pos)
	}
	var pin *netgraph.Pin
	if len(pins) == 1 {
		pin = pins[0]
	}

	segments := []uuid.UUID{own}
	addSegment := func(id uuid.UUID) {
		if id != uuid.Nil && !slices.Contains(segments, id) {
			segments = append(segments, id)
		}
	}
	coincident := false
	for _, q := range sheet.PointsAt(pos, 0) {
		if q.ID != point {
			coincident = true
			addSegment(q.Segment)
		}
	}
	var through []uuid.UUID
	for _, l := range sheet.LinesAt(pos, 0) {
		if sheet.AnchorPosition(l.A) == pos || sheet.AnchorPosition(l.B) == pos {
			continue
		}
		through = append(through, l.ID)
		addSegment(l.Segment)
	}
	attach := false
	if pin != nil {
		if seg := sheet.PinSegment(pin.ID); seg != uuid.Nil {
			addSegment(seg)
		}
		attach = p.Pin == uuid.Nil && sheet.PinPoint(pin.ID) == nil
	}
	if len(segments) == 1 && !coincident && len(through) == 0 && !attach {
		return false, nil
	}

	var candidates []uuid.UUID
	var forced []string
	for _, id := range segments {
		candidates = append(candidates, sheet.Segment(id).Signal)
		forced = append(forced, sheet.ForcedNetNames(id, sess.Circuit)...)
	}
	if pin != nil {
		si := sess.Circuit.SignalInstance(pin.Signal)
		if si.IsConnected() {
			candidates = append(candidates, si.NetSignal)
		}
		forced = append(forced, si.ForcedNetName)
	}
	signal, err := ResolveNetName(g, sess, candidates, forced)
	if err != nil {
		return false, err
	}
	sess.Highlight(signal)
	if err := AssignSignal(g, sess, sheet, segments, signal); err != nil {
		return false, err
	}

	for _, id := range through {
		if _, err := InsertPointOnLine(g, sheet, id, pos); err != nil {
			return false, err
		}
	}

	keep := netgraph.PointAnchor(point)
	for _, id := range segments[1:] {
		if err := CombineSegments(g, sess, sheet, own, keep, id, anchorAt(sheet, id, pos, pin)); err != nil {
			return false, err
		}
	}
	for _, q := range sheet.PointsAt(pos, 0) {
		if q.ID != point && q.Segment == own {
			if err := CombinePoints(g, sheet, q.ID, point); err != nil {
				return false, err
			}
		}
	}

	if pin != nil && sheet.Point(point).Pin == uuid.Nil && sheet.PinPoint(pin.ID) == nil {
		edit := netgraph.NewCmdPointEdit(sheet, point)
		edit.AttachPin(pin.ID)
		if err := g.Exec(edit); err != nil {
			return false, err
		}
	}
	if err := AssignSignal(g, sess, sheet, []uuid.UUID{own}, signal); err != nil {
		return false, err
	}
	return true, nil
}

// anchorAt finds the anchor of segment seg located at pos: a point, or the
// pin when the segment reaches it only through lines.
func anchorAt(sheet *netgraph.Sheet, seg uuid.UUID, pos geom.Point, pin *netgraph.Pin) netgraph.Anchor {
	for _, q := range sheet.PointsAt(pos, 0) {
		if q.Segment == seg {
			return netgraph.PointAnchor(q.ID)
		}
	}
	if pin != nil && sheet.PinSegment(pin.ID) == seg {
		return netgraph.PinAnchor(pin.ID)
	}
	errors.Logic("net segment %s has no anchor at %s", seg, pos)
	return netgraph.Anchor{}
}
