package topology

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
	"github.com/matzehuels/netedit/pkg/undo"
)

// CombineSegments merges segment remove into segment keep. removeAnchor, an
// anchor of remove, is identified with keepAnchor, an anchor of keep: lines
// of remove ending at removeAnchor end at keepAnchor afterwards. Points,
// lines and labels of remove are recreated in keep and its labels move over; lines collapsing to a
// single anchor or duplicating an existing line are dropped.
//
// Both segments must already use the same net signal; callers resolve the
// name with [ResolveNetName] and [AssignSignal] first.
func CombineSegments(g *undo.Group, sess *session.Session, sheet *netgraph.Sheet,
	keep uuid.UUID, keepAnchor netgraph.Anchor, remove uuid.UUID, removeAnchor netgraph.Anchor) error {
	a, b := sheet.Segment(keep), sheet.Segment(remove)
	if a == nil || b == nil || keep == remove {
		errors.Logic("cannot combine segments %s and %s", keep, remove)
	}
	if a.Signal != b.Signal {
		errors.Logic("cannot combine segments of nets %s and %s",
			sess.Circuit.SignalName(a.Signal), sess.Circuit.SignalName(b.Signal))
	}
	keepAnchor = preferPoint(sheet, keepAnchor, keep)
	removeAnchor = preferPoint(sheet, removeAnchor, remove)

	keepPin, removePin := anchorPin(sheet, keepAnchor), anchorPin(sheet, removeAnchor)
	var transferPin uuid.UUID
	if removePin != uuid.Nil && removePin != keepPin {
		if keepPin != uuid.Nil {
			return errors.New(errors.ErrCodePinAttached, "cannot combine two points each attached to a pin")
		}
		transferPin = removePin
	}

	for _, l := range sheet.SegmentLabels(remove) {
		if err := g.Exec(netgraph.NewCmdLabelEdit(sheet, l.ID).SetSegment(keep)); err != nil {
			return err
		}
	}
	points := sheet.SegmentPoints(remove)
	lines := sheet.SegmentLines(remove)
	if err := g.Exec(netgraph.NewCmdSegmentRemove(sheet, remove)); err != nil {
		return err
	}

	add := netgraph.NewCmdSegmentAddElements(sheet, keep)
	mapped := map[netgraph.Anchor]netgraph.Anchor{removeAnchor: keepAnchor}
	for _, p := range points {
		from := netgraph.PointAnchor(p.ID)
		if from == removeAnchor {
			continue
		}
		var np *netgraph.NetPoint
		if p.Pin != uuid.Nil && p.Pin != transferPin {
			np = add.AddPinPoint(p.Position, p.Pin)
		} else {
			np = add.AddPoint(p.Position)
		}
		mapped[from] = netgraph.PointAnchor(np.ID)
	}
	resolve := func(x netgraph.Anchor) netgraph.Anchor {
		if m, ok := mapped[x]; ok {
			return m
		}
		return x
	}
	existing := lineSet(sheet, keep)
	for _, l := range lines {
		x, y := resolve(l.A), resolve(l.B)
		if x == y || existing.has(x, y) {
			continue
		}
		existing.add(x, y)
		add.AddLine(x, y)
	}
	if err := g.Exec(add); err != nil {
		return err
	}

	if transferPin != uuid.Nil {
		edit := netgraph.NewCmdPointEdit(sheet, keepAnchor.ID)
		edit.AttachPin(transferPin)
		return g.Exec(edit)
	}
	return nil
}

// CombinePoints fuses toRemove into keep. Both must belong to one segment.
// Lines of toRemove are re-routed to keep; lines that would become loops or
// duplicates are dropped. A pin attachment of toRemove moves to keep.
func CombinePoints(g *undo.Group, sheet *netgraph.Sheet, toRemove, keep uuid.UUID) error {
	rp, kp := sheet.Point(toRemove), sheet.Point(keep)
	if rp == nil || kp == nil || toRemove == keep {
		errors.Logic("cannot combine points %s and %s", toRemove, keep)
	}
	if rp.Segment != kp.Segment {
		errors.Logic("cannot combine points of different segments")
	}
	if rp.Pin != uuid.Nil && kp.Pin != uuid.Nil && rp.Pin != kp.Pin {
		return errors.New(errors.ErrCodePinAttached, "cannot combine two points each attached to a pin")
	}
	transferPin := uuid.Nil
	if rp.Pin != uuid.Nil && kp.Pin == uuid.Nil {
		transferPin = rp.Pin
	}

	from, to := netgraph.PointAnchor(toRemove), netgraph.PointAnchor(keep)
	touching := sheet.LinesOf(from)
	rm := netgraph.NewCmdSegmentRemoveElements(sheet, rp.Segment)
	for _, l := range touching {
		rm.RemoveLine(l.ID)
	}
	rm.RemovePoint(toRemove)

	existing := lineSet(sheet, rp.Segment)
	for _, l := range touching {
		existing.del(l.A, l.B)
	}
	add := netgraph.NewCmdSegmentAddElements(sheet, rp.Segment)
	keepPin := kp.Pin
	if keepPin == uuid.Nil {
		keepPin = transferPin
	}
	for _, l := range touching {
		other := l.Other(from)
		if other == to || (other.IsPin() && other.ID == keepPin) || existing.has(to, other) {
			continue
		}
		existing.add(to, other)
		add.AddLine(to, other)
	}

	if err := g.Exec(rm); err != nil {
		return err
	}
	if err := g.Exec(add); err != nil {
		return err
	}
	if transferPin != uuid.Nil {
		edit := netgraph.NewCmdPointEdit(sheet, keep)
		edit.AttachPin(transferPin)
		return g.Exec(edit)
	}
	return nil
}

// InsertPointOnLine splits a line at pos with a new point and returns it.
func InsertPointOnLine(g *undo.Group, sheet *netgraph.Sheet, line uuid.UUID, pos geom.Point) (*netgraph.NetPoint, error) {
	l := sheet.Line(line)
	if l == nil {
		errors.Logic("net line %s does not exist", line)
	}
	rm := netgraph.NewCmdSegmentRemoveElements(sheet, l.Segment)
	rm.RemoveLine(line)
	add := netgraph.NewCmdSegmentAddElements(sheet, l.Segment)
	p := add.AddPoint(pos)
	add.AddLine(l.A, netgraph.PointAnchor(p.ID))
	add.AddLine(netgraph.PointAnchor(p.ID), l.B)
	if err := g.Exec(rm); err != nil {
		return nil, err
	}
	if err := g.Exec(add); err != nil {
		return nil, err
	}
	return p, nil
}

// preferPoint replaces a pin anchor by the point of seg attached to that pin.
func preferPoint(sheet *netgraph.Sheet, a netgraph.Anchor, seg uuid.UUID) netgraph.Anchor {
	if a.IsPin() {
		if p := sheet.PinPoint(a.ID); p != nil && p.Segment == seg {
			return netgraph.PointAnchor(p.ID)
		}
	}
	return a
}

// anchorPin returns the pin an anchor stands for, if any.
func anchorPin(sheet *netgraph.Sheet, a netgraph.Anchor) uuid.UUID {
	if a.IsPin() {
		return a.ID
	}
	return sheet.Point(a.ID).Pin
}

type anchorPair struct{ lo, hi netgraph.Anchor }

type pairSet map[anchorPair]bool

func pairOf(a, b netgraph.Anchor) anchorPair {
	if b.String() < a.String() {
		a, b = b, a
	}
	return anchorPair{a, b}
}

func (s pairSet) has(a, b netgraph.Anchor) bool { return s[pairOf(a, b)] }
func (s pairSet) add(a, b netgraph.Anchor)      { s[pairOf(a, b)] = true }
func (s pairSet) del(a, b netgraph.Anchor)      { delete(s, pairOf(a, b)) }

func lineSet(sheet *netgraph.Sheet, seg uuid.UUID) pairSet {
	s := make(pairSet)
	for _, l := range sheet.SegmentLines(seg) {
		s.add(l.A, l.B)
	}
	return s
}
