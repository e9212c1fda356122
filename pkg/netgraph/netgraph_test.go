package netgraph

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
)

type command interface {
	Execute() (bool, error)
	Undo()
}

func exec(t *testing.T, c command) {
	t.Helper()
	if _, err := c.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func expectLogic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if errors.AsLogic(recover()) == nil {
			t.Error("expected logic panic")
		}
	}()
	fn()
}

func marshal(t *testing.T, s *Sheet) string {
	t.Helper()
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// chain builds a segment of points at xs along y=0 connected in order.
func chain(t *testing.T, s *Sheet, xs ...geom.Length) (*NetSegment, []*NetPoint, []*NetLine) {
	t.Helper()
	add := NewCmdSegmentAdd(s, uuid.New())
	exec(t, add)
	elems := NewCmdSegmentAddElements(s, add.Segment().ID)
	var pts []*NetPoint
	var lines []*NetLine
	for i, x := range xs {
		pts = append(pts, elems.AddPoint(geom.Pt(x, 0)))
		if i > 0 {
			lines = append(lines, elems.AddLine(PointAnchor(pts[i-1].ID), PointAnchor(pts[i].ID)))
		}
	}
	exec(t, elems)
	return add.Segment(), pts, lines
}

func symbol(t *testing.T, s *Sheet, pins ...geom.Point) []*Pin {
	t.Helper()
	add := NewCmdSymbolAdd(s, uuid.New(), "U1")
	var out []*Pin
	for i, pos := range pins {
		out = append(out, add.AddPin(uuid.New(), string(rune('A'+i)), pos))
	}
	exec(t, add)
	return out
}

func TestAddElementsRoundTrip(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	before := marshal(t, s)

	add := NewCmdSegmentAdd(s, uuid.New())
	exec(t, add)
	elems := NewCmdSegmentAddElements(s, add.Segment().ID)
	a := elems.AddPoint(geom.Pt(0, 0))
	b := elems.AddPoint(geom.Pt(10, 0))
	elems.AddLine(PointAnchor(a.ID), PointAnchor(b.ID))
	exec(t, elems)

	if got := s.Stats(); got != (Stats{Segments: 1, Points: 2, Lines: 1}) {
		t.Fatalf("Stats() = %+v", got)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	elems.Undo()
	add.Undo()
	if after := marshal(t, s); after != before {
		t.Errorf("undo did not restore sheet:\n%s\n%s", before, after)
	}
}

func TestSnapshotLabelRoundTrip(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	seg, _, _ := chain(t, s, 0, 10)
	before := marshal(t, s)
	if !strings.Contains(before, `"labels":[]`) {
		t.Errorf("empty labels should marshal as []: %s", before)
	}

	add := NewCmdLabelAdd(s, seg.ID, geom.Pt(0, 0), geom.Deg0, "")
	exec(t, add)
	add.Undo()

	if after := marshal(t, s); after != before {
		t.Errorf("label add+undo changed snapshot:\n%s\n%s", before, after)
	}
}

func TestRemovePointWithLinesPanics(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	seg, pts, _ := chain(t, s, 0, 10)

	rm := NewCmdSegmentRemoveElements(s, seg.ID)
	rm.RemovePoint(pts[0].ID)
	expectLogic(t, func() { rm.Execute() })
	if s.Stats().Points != 2 {
		t.Error("failed removal must not change the sheet")
	}
}

func TestRemoveElements(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	seg, pts, lines := chain(t, s, 0, 10, 20)
	before := marshal(t, s)

	rm := NewCmdSegmentRemoveElements(s, seg.ID)
	rm.RemoveLine(lines[1].ID)
	rm.RemovePoint(pts[2].ID)
	exec(t, rm)
	if got := len(s.SegmentPoints(seg.ID)); got != 2 {
		t.Fatalf("points = %d, want 2", got)
	}
	rm.Undo()
	if after := marshal(t, s); after != before {
		t.Error("undo did not restore sheet")
	}
}

func TestPinAttachConflicts(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	pins := symbol(t, s, geom.Pt(0, 0))
	seg1, pts1, _ := chain(t, s, 0, 10)
	seg2, pts2, _ := chain(t, s, 0, 20)

	edit := NewCmdPointEdit(s, pts1[0].ID)
	edit.AttachPin(pins[0].ID)
	exec(t, edit)
	if s.PinSegment(pins[0].ID) != seg1.ID {
		t.Fatal("pin should serve seg1")
	}

	// a second point attached to the same pin is refused
	edit2 := NewCmdPointEdit(s, pts2[0].ID)
	edit2.AttachPin(pins[0].ID)
	if _, err := edit2.Execute(); !errors.Is(err, errors.ErrCodePinAttached) {
		t.Errorf("Execute() error = %v, want pin attached", err)
	}

	// a line of another segment cannot anchor the pin either
	elems := NewCmdSegmentAddElements(s, seg2.ID)
	elems.AddLine(PointAnchor(pts2[1].ID), PinAnchor(pins[0].ID))
	if _, err := elems.Execute(); !errors.Is(err, errors.ErrCodePinAttached) {
		t.Errorf("Execute() error = %v, want pin attached", err)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestPointEditImmediate(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	_, pts, _ := chain(t, s, 0, 10)

	edit := NewCmdPointEdit(s, pts[1].ID)
	edit.SetPosition(geom.Pt(30, 30), true)
	if pts[1].Position != geom.Pt(30, 30) {
		t.Fatal("immediate position not applied")
	}
	edit.Discard()
	if pts[1].Position != geom.Pt(10, 0) {
		t.Fatal("Discard() did not restore the position")
	}

	edit = NewCmdPointEdit(s, pts[1].ID)
	edit.SetPosition(geom.Pt(40, 0), false)
	if pts[1].Position != geom.Pt(10, 0) {
		t.Fatal("deferred position applied early")
	}
	exec(t, edit)
	edit.Undo()
	if pts[1].Position != geom.Pt(10, 0) {
		t.Error("undo did not restore the position")
	}
}

func TestSubgraphs(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	seg, pts, lines := chain(t, s, 0, 10, 20, 30)

	if !s.IsConnected(seg.ID) {
		t.Fatal("chain should be connected")
	}

	parts := s.Subgraphs(seg.ID, map[uuid.UUID]bool{lines[1].ID: true})
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	if parts[0].Points[0] != pts[0].ID || len(parts[0].Points) != 2 || len(parts[0].Lines) != 1 {
		t.Errorf("first part = %+v", parts[0])
	}
	if parts[1].Points[0] != pts[2].ID || len(parts[1].Lines) != 1 {
		t.Errorf("second part = %+v", parts[1])
	}
}

func TestSubgraphsThroughPin(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	pins := symbol(t, s, geom.Pt(5, 5))

	add := NewCmdSegmentAdd(s, uuid.New())
	exec(t, add)
	elems := NewCmdSegmentAddElements(s, add.Segment().ID)
	a := elems.AddPoint(geom.Pt(0, 5))
	b := elems.AddPoint(geom.Pt(10, 5))
	elems.AddLine(PointAnchor(a.ID), PinAnchor(pins[0].ID))
	elems.AddLine(PinAnchor(pins[0].ID), PointAnchor(b.ID))
	exec(t, elems)

	parts := s.Subgraphs(add.Segment().ID, nil)
	if len(parts) != 1 || len(parts[0].Pins) != 1 {
		t.Fatalf("parts = %+v, want one part with the pin", parts)
	}
	if got := s.SegmentPins(add.Segment().ID); len(got) != 1 || got[0] != pins[0] {
		t.Errorf("SegmentPins() = %v", got)
	}
}

func TestHitTests(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	_, pts, lines := chain(t, s, 0, 10, 20)

	if got := s.PointsAt(geom.Pt(10, 0), 0); len(got) != 1 || got[0] != pts[1] {
		t.Errorf("PointsAt() = %v", got)
	}
	if got := s.PointsAt(geom.Pt(11, 0), 0); len(got) != 0 {
		t.Errorf("PointsAt() exact = %v", got)
	}
	if got := s.PointsAt(geom.Pt(11, 0), 2); len(got) != 1 {
		t.Errorf("PointsAt() with tolerance = %v", got)
	}
	if got := s.LinesAt(geom.Pt(15, 0), 0); len(got) != 1 || got[0] != lines[1] {
		t.Errorf("LinesAt() = %v", got)
	}
	if got := s.LinesAt(geom.Pt(10, 0), 0); len(got) != 2 {
		t.Errorf("LinesAt() at junction = %d lines, want 2", len(got))
	}
}

func TestValidateDetectsIslands(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	add := NewCmdSegmentAdd(s, uuid.New())
	exec(t, add)
	elems := NewCmdSegmentAddElements(s, add.Segment().ID)
	elems.AddPoint(geom.Pt(0, 0))
	elems.AddPoint(geom.Pt(10, 0))
	exec(t, elems)

	if err := s.Validate(); !errors.Is(err, errors.ErrCodeLogic) {
		t.Errorf("Validate() = %v, want logic error", err)
	}
}

func TestLabelEditMovesSegment(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	seg1, _, _ := chain(t, s, 0, 10)
	seg2, _, _ := chain(t, s, 100, 110)

	lbl := NewCmdLabelAdd(s, seg1.ID, geom.Pt(0, 0), geom.Deg90, "")
	exec(t, lbl)
	edit := NewCmdLabelEdit(s, lbl.Label().ID).SetSegment(seg2.ID)
	exec(t, edit)
	if len(s.SegmentLabels(seg1.ID)) != 0 || len(s.SegmentLabels(seg2.ID)) != 1 {
		t.Fatal("label not moved")
	}
	edit.Undo()
	if len(s.SegmentLabels(seg1.ID)) != 1 {
		t.Error("undo did not move the label back")
	}

	bad := NewCmdLabelAdd(s, seg1.ID, geom.Pt(0, 0), 0, "not valid")
	if _, err := bad.Execute(); !errors.Is(err, errors.ErrCodeInvalidNetName) {
		t.Errorf("Execute() error = %v, want invalid net name", err)
	}
}

func TestPlaneRequiresBoard(t *testing.T) {
	sch := NewSheet("Main", SheetSchematic)
	if _, err := NewCmdPlaneAdd(sch, uuid.New(), "GND").Execute(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Execute() error = %v, want unsupported", err)
	}
	brd := NewSheet("Board", SheetBoard)
	exec(t, NewCmdPlaneAdd(brd, uuid.New(), "GND"))
	if len(brd.Planes()) != 1 {
		t.Error("plane not added")
	}
}

func TestForcedNetNames(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	seg, _, _ := chain(t, s, 0, 10)
	exec(t, NewCmdLabelAdd(s, seg.ID, geom.Pt(0, 0), 0, "SDA"))
	exec(t, NewCmdLabelAdd(s, seg.ID, geom.Pt(10, 0), 0, "SDA"))
	exec(t, NewCmdLabelAdd(s, seg.ID, geom.Pt(5, 0), 0, ""))

	if got := s.ForcedNetNames(seg.ID, nil); len(got) != 1 || got[0] != "SDA" {
		t.Errorf("ForcedNetNames() = %v", got)
	}
}

func TestToDOT(t *testing.T) {
	s := NewSheet("Main", SheetSchematic)
	pins := symbol(t, s, geom.Pt(0, 0))
	seg, pts, _ := chain(t, s, 0, 10)
	edit := NewCmdPointEdit(s, pts[0].ID)
	edit.AttachPin(pins[0].ID)
	exec(t, edit)

	dot := ToDOT(s, nil, DOTOptions{Detailed: true})
	for _, want := range []string{
		`graph "Main" {`,
		seg.Signal.String(),
		`label="(10, 0)"`,
		`[style=dotted]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}
