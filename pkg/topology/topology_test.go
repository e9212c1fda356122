package topology

import (
	"bytes"
	"fmt"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/circuit"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
	"github.com/matzehuels/netedit/pkg/undo"
)

func setup(t *testing.T) (*session.Session, *netgraph.Sheet) {
	t.Helper()
	sess := session.New(session.Options{})
	return sess, sess.AddSheet("Main", netgraph.SheetSchematic)
}

// run executes fn as one transaction on the session's undo stack.
func run(sess *session.Session, fn func(g *undo.Group) error) (bool, error) {
	return sess.Stack.Execute(undo.NewCompound("test", fn))
}

func mustRun(t *testing.T, sess *session.Session, fn func(g *undo.Group) error) {
	t.Helper()
	if _, err := run(sess, fn); err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

// wire adds a straight chain of points on a new segment. An empty name
// selects an auto-named signal.
func wire(t *testing.T, sess *session.Session, sheet *netgraph.Sheet, name string, pts ...geom.Point) (uuid.UUID, []*netgraph.NetPoint) {
	t.Helper()
	var seg uuid.UUID
	var points []*netgraph.NetPoint
	mustRun(t, sess, func(g *undo.Group) error {
		var sig uuid.UUID
		if name == "" {
			s, err := sess.NewSignal(g, "")
			if err != nil {
				return err
			}
			sig = s.ID
		} else {
			s, err := sess.SignalByNameOrNew(g, name)
			if err != nil {
				return err
			}
			sig = s
		}
		add := netgraph.NewCmdSegmentAdd(sheet, sig)
		if err := g.Exec(add); err != nil {
			return err
		}
		seg = add.Segment().ID
		elems := netgraph.NewCmdSegmentAddElements(sheet, seg)
		for i, pos := range pts {
			points = append(points, elems.AddPoint(pos))
			if i > 0 {
				elems.AddLine(netgraph.PointAnchor(points[i-1].ID), netgraph.PointAnchor(points[i].ID))
			}
		}
		return g.Exec(elems)
	})
	return seg, points
}

func pinAt(t *testing.T, sess *session.Session, sheet *netgraph.Sheet, component string, pos geom.Point, forced string) *netgraph.Pin {
	t.Helper()
	sym, err := sess.PlaceComponent(sheet, component, []session.PinSpec{{Name: "1", Position: pos, ForcedNetName: forced}})
	if err != nil {
		t.Fatalf("PlaceComponent(%s) error = %v", component, err)
	}
	return sheet.Pin(sym.Pins[0])
}

func pointAt(t *testing.T, sheet *netgraph.Sheet, pos geom.Point) *netgraph.NetPoint {
	t.Helper()
	pts := sheet.PointsAt(pos, 0)
	if len(pts) != 1 {
		t.Fatalf("found %d points at %s, want 1", len(pts), pos)
	}
	return pts[0]
}

// shape describes a segment by positions only.
func shape(sheet *netgraph.Sheet, seg uuid.UUID) []string {
	var out []string
	for _, p := range sheet.SegmentPoints(seg) {
		out = append(out, "p"+p.Position.String())
	}
	for _, l := range sheet.SegmentLines(seg) {
		a, b := sheet.AnchorPosition(l.A), sheet.AnchorPosition(l.B)
		if b.Less(a) {
			a, b = b, a
		}
		out = append(out, fmt.Sprintf("l%s-%s", a, b))
	}
	slices.Sort(out)
	return out
}

func validate(t *testing.T, sess *session.Session) {
	t.Helper()
	if err := sess.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestResolveNetName(t *testing.T) {
	sess, sheet := setup(t)
	autoSeg, _ := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))
	namedSeg, _ := wire(t, sess, sheet, "SDA", geom.Pt(0, 20), geom.Pt(10, 20))
	auto, named := sheet.Segment(autoSeg).Signal, sheet.Segment(namedSeg).Signal

	tests := []struct {
		name       string
		candidates []uuid.UUID
		forced     []string
		want       func(got uuid.UUID) bool
		wantCode   errors.Code
	}{
		{
			name:       "manual name dominates",
			candidates: []uuid.UUID{auto, named},
			want:       func(got uuid.UUID) bool { return got == named },
		},
		{
			name:       "existing forced name reused",
			candidates: []uuid.UUID{auto},
			forced:     []string{"SDA", "SDA"},
			want:       func(got uuid.UUID) bool { return got == named },
		},
		{
			name:       "forced name renames dominant",
			candidates: []uuid.UUID{auto},
			forced:     []string{"SCL"},
			want: func(got uuid.UUID) bool {
				return got == auto && sess.Circuit.SignalName(auto) == "SCL"
			},
		},
		{
			name:   "new auto signal without candidates",
			forced: []string{""},
			want: func(got uuid.UUID) bool {
				s := sess.Circuit.NetSignal(got)
				return s != nil && s.AutoName && got != auto && got != named
			},
		},
		{
			name:       "conflicting forced names",
			candidates: []uuid.UUID{auto, named},
			forced:     []string{"GND", "VCC"},
			wantCode:   errors.ErrCodeNameConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sess.SnapshotJSON()
			var got uuid.UUID
			g := undo.NewCompound(tt.name, func(g *undo.Group) error {
				var err error
				got, err = ResolveNetName(g, sess, tt.candidates, tt.forced)
				return err
			})
			_, err := g.Execute()
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				if !bytes.Equal(before, sess.SnapshotJSON()) {
					t.Error("failed resolution changed the model")
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveNetName() error = %v", err)
			}
			if !tt.want(got) {
				t.Errorf("ResolveNetName() = %s (%q)", got, sess.Circuit.SignalName(got))
			}
			g.Undo()
			if !bytes.Equal(before, sess.SnapshotJSON()) {
				t.Error("undo did not restore the model")
			}
		})
	}
}

func TestCombineAllThenSplitIsInverse(t *testing.T) {
	sess, sheet := setup(t)
	a, _ := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))
	b, _ := wire(t, sess, sheet, "", geom.Pt(20, 0), geom.Pt(30, 0))
	wantA, wantB := shape(sheet, a), shape(sheet, b)

	_, pts := wire(t, sess, sheet, "", geom.Pt(10, 0), geom.Pt(20, 0))
	mustRun(t, sess, func(g *undo.Group) error {
		for _, p := range pts {
			if _, err := CombineAllItemsUnderPoint(g, sess, sheet, p.ID); err != nil {
				return err
			}
		}
		return RemoveUnusedNetSignals(g, sess)
	})
	validate(t, sess)

	segs := sheet.Segments()
	if len(segs) != 1 {
		t.Fatalf("got %d segments after combine, want 1", len(segs))
	}
	merged := segs[0].ID
	if got := len(sheet.SegmentPoints(merged)); got != 4 {
		t.Fatalf("merged segment has %d points, want 4", got)
	}

	var added []uuid.UUID
	for _, l := range sheet.SegmentLines(merged) {
		if sheet.AnchorPosition(l.A).X+sheet.AnchorPosition(l.B).X == 30 {
			added = append(added, l.ID)
		}
	}
	if len(added) != 1 {
		t.Fatalf("found %d bridge lines, want 1", len(added))
	}

	var parts []uuid.UUID
	mustRun(t, sess, func(g *undo.Group) error {
		var err error
		parts, err = SplitSegment(g, sess, sheet, merged, added, nil)
		if err != nil {
			return err
		}
		return RemoveUnusedNetSignals(g, sess)
	})
	validate(t, sess)

	if len(parts) != 2 {
		t.Fatalf("split into %d segments, want 2", len(parts))
	}
	got := [][]string{shape(sheet, parts[0]), shape(sheet, parts[1])}
	if !slices.Equal(got[0], wantA) || !slices.Equal(got[1], wantB) {
		t.Errorf("split shapes = %v, want %v and %v", got, wantA, wantB)
	}
	if sheet.Segment(parts[0]).Signal == sheet.Segment(parts[1]).Signal {
		t.Error("unlabeled pieces should get distinct signals")
	}
}

func TestSplitKeepsLabeledSignal(t *testing.T) {
	sess, sheet := setup(t)
	seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0))
	signal := sheet.Segment(seg).Signal
	mustRun(t, sess, func(g *undo.Group) error {
		return g.Exec(netgraph.NewCmdLabelAdd(sheet, seg, geom.Pt(0, 0), geom.Deg0, ""))
	})
	before := sess.SnapshotJSON()

	var p1p2 uuid.UUID
	for _, l := range sheet.LinesOf(netgraph.PointAnchor(pts[0].ID)) {
		p1p2 = l.ID
	}
	var parts []uuid.UUID
	mustRun(t, sess, func(g *undo.Group) error {
		var err error
		parts, err = SplitSegment(g, sess, sheet, seg, []uuid.UUID{p1p2}, nil)
		if err != nil {
			return err
		}
		return RemoveUnusedNetSignals(g, sess)
	})
	validate(t, sess)

	if len(parts) != 2 {
		t.Fatalf("split into %d segments, want 2", len(parts))
	}
	first, second := sheet.Segment(parts[0]), sheet.Segment(parts[1])
	if got := shape(sheet, first.ID); !slices.Equal(got, []string{"p(0, 0)"}) {
		t.Errorf("first piece = %v", got)
	}
	if len(first.LabelIDs()) != 1 || len(second.LabelIDs()) != 0 {
		t.Errorf("labels = %d/%d, want 1/0", len(first.LabelIDs()), len(second.LabelIDs()))
	}
	if first.Signal != signal {
		t.Error("labeled piece should keep the original signal")
	}
	if s := sess.Circuit.NetSignal(second.Signal); second.Signal == signal || !s.AutoName {
		t.Errorf("second piece signal = %q, want a fresh auto name", s.Name)
	}

	if err := sess.Stack.Undo(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, sess.SnapshotJSON()) {
		t.Error("undo did not restore the segment")
	}
}

func TestSplitKeepsNetClass(t *testing.T) {
	sess, sheet := setup(t)
	seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0))
	var power uuid.UUID
	mustRun(t, sess, func(g *undo.Group) error {
		add := circuit.NewCmdNetClassAdd(sess.Circuit, "power")
		if err := g.Exec(add); err != nil {
			return err
		}
		power = add.Class().ID
		return g.Exec(circuit.NewCmdNetSignalEdit(sess.Circuit, sheet.Segment(seg).Signal).SetClass(power))
	})

	var cut uuid.UUID
	for _, l := range sheet.LinesOf(netgraph.PointAnchor(pts[0].ID)) {
		cut = l.ID
	}
	var parts []uuid.UUID
	mustRun(t, sess, func(g *undo.Group) error {
		var err error
		parts, err = SplitSegment(g, sess, sheet, seg, []uuid.UUID{cut}, nil)
		if err != nil {
			return err
		}
		return RemoveUnusedNetSignals(g, sess)
	})
	validate(t, sess)

	if len(parts) != 2 {
		t.Fatalf("split into %d segments, want 2", len(parts))
	}
	for _, id := range parts {
		if got := sess.Circuit.NetSignal(sheet.Segment(id).Signal).Class; got != power {
			t.Errorf("segment %s net class = %s, want %s", id, got, power)
		}
	}
}

func TestSplitForcedNameFromLabel(t *testing.T) {
	sess, sheet := setup(t)
	seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0))
	mustRun(t, sess, func(g *undo.Group) error {
		return g.Exec(netgraph.NewCmdLabelAdd(sheet, seg, geom.Pt(20, 0), geom.Deg0, "CLK"))
	})
	var parts []uuid.UUID
	mustRun(t, sess, func(g *undo.Group) error {
		var err error
		parts, err = SplitSegment(g, sess, sheet, seg, nil, []uuid.UUID{pts[1].ID})
		return err
	})
	if len(parts) != 2 {
		t.Fatalf("split into %d segments, want 2", len(parts))
	}
	if got := sess.Circuit.SignalName(sheet.Segment(parts[1]).Signal); got != "CLK" {
		t.Errorf("forced piece net = %q, want CLK", got)
	}
	if sheet.Point(pts[1].ID) != nil || len(sheet.PointsAt(geom.Pt(10, 0), 0)) != 0 {
		t.Error("removed point still present")
	}
}

func TestForcedNameAbsorption(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		sess, sheet := setup(t)
		seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))
		oldName := sess.Circuit.SignalName(sheet.Segment(seg).Signal)
		pin := pinAt(t, sess, sheet, "U1", geom.Pt(10, 0), "GND")

		mustRun(t, sess, func(g *undo.Group) error {
			if _, err := CombineAllItemsUnderPoint(g, sess, sheet, pts[1].ID); err != nil {
				return err
			}
			return RemoveUnusedNetSignals(g, sess)
		})
		validate(t, sess)

		if got := sess.Circuit.SignalName(sheet.Segment(seg).Signal); got != "GND" {
			t.Errorf("net = %q, want GND", got)
		}
		if sess.Circuit.NetSignalByName(oldName) != nil {
			t.Errorf("net %q still exists", oldName)
		}
		if sheet.Point(pts[1].ID).Pin != pin.ID {
			t.Error("pin not attached")
		}
	})

	t.Run("merge into existing", func(t *testing.T) {
		sess, sheet := setup(t)
		wire(t, sess, sheet, "GND", geom.Pt(0, 50), geom.Pt(10, 50))
		seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))
		x := sheet.Segment(seg).Signal
		pinAt(t, sess, sheet, "U1", geom.Pt(10, 0), "GND")

		mustRun(t, sess, func(g *undo.Group) error {
			if _, err := CombineAllItemsUnderPoint(g, sess, sheet, pts[1].ID); err != nil {
				return err
			}
			return RemoveUnusedNetSignals(g, sess)
		})
		validate(t, sess)

		if got := sess.Circuit.SignalName(sheet.Segment(seg).Signal); got != "GND" {
			t.Errorf("net = %q, want GND", got)
		}
		if sess.Circuit.NetSignal(x) != nil {
			t.Error("absorbed auto net was not removed")
		}
	})
}

func TestForcedNameConflictLeavesModelUnchanged(t *testing.T) {
	sess, sheet := setup(t)
	gnd := pinAt(t, sess, sheet, "U1", geom.Pt(0, 0), "GND")
	pinAt(t, sess, sheet, "U2", geom.Pt(20, 0), "VCC")
	before := sess.SnapshotJSON()
	depth := len(sess.Stack.Titles())

	_, err := run(sess, func(g *undo.Group) error {
		sig, err := SegmentSignalFor(g, sess, gnd)
		if err != nil {
			return err
		}
		add := netgraph.NewCmdSegmentAdd(sheet, sig)
		if err := g.Exec(add); err != nil {
			return err
		}
		elems := netgraph.NewCmdSegmentAddElements(sheet, add.Segment().ID)
		start := elems.AddPinPoint(gnd.Position, gnd.ID)
		end := elems.AddPoint(geom.Pt(20, 0))
		elems.AddLine(netgraph.PointAnchor(start.ID), netgraph.PointAnchor(end.ID))
		if err := g.Exec(elems); err != nil {
			return err
		}
		if err := AssignSignal(g, sess, sheet, []uuid.UUID{add.Segment().ID}, sig); err != nil {
			return err
		}
		_, err = CombineAllItemsUnderPoint(g, sess, sheet, end.ID)
		return err
	})
	if !errors.Is(err, errors.ErrCodeNameConflict) {
		t.Fatalf("error = %v, want name conflict", err)
	}
	if !errors.IsUserActionable(err) {
		t.Error("conflict should be user actionable")
	}
	if !bytes.Equal(before, sess.SnapshotJSON()) {
		t.Error("failed transaction changed the model")
	}
	if len(sess.Stack.Titles()) != depth {
		t.Error("failed transaction was pushed")
	}
}

func TestCombineAllRejectsTwoPins(t *testing.T) {
	sess, sheet := setup(t)
	pinAt(t, sess, sheet, "U1", geom.Pt(10, 0), "")
	pinAt(t, sess, sheet, "U2", geom.Pt(10, 0), "")
	_, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))

	_, err := run(sess, func(g *undo.Group) error {
		_, err := CombineAllItemsUnderPoint(g, sess, sheet, pts[1].ID)
		return err
	})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want unsupported", err)
	}
}

func TestCombineAllSplitsCrossedLine(t *testing.T) {
	sess, sheet := setup(t)
	wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(20, 0))
	_, pts := wire(t, sess, sheet, "", geom.Pt(10, 10), geom.Pt(10, 0))

	var combined bool
	mustRun(t, sess, func(g *undo.Group) error {
		var err error
		combined, err = CombineAllItemsUnderPoint(g, sess, sheet, pts[1].ID)
		if err != nil {
			return err
		}
		return RemoveUnusedNetSignals(g, sess)
	})
	validate(t, sess)

	if !combined {
		t.Error("combined = false")
	}
	if n := len(sheet.Segments()); n != 1 {
		t.Fatalf("got %d segments, want 1", n)
	}
	st := sheet.Stats()
	if st.Points != 4 || st.Lines != 3 {
		t.Errorf("stats = %+v, want 4 points and 3 lines", st)
	}
	if got := len(sheet.LinesOf(netgraph.PointAnchor(pts[1].ID))); got != 3 {
		t.Errorf("junction has %d lines, want 3", got)
	}
	if n := len(sess.Circuit.NetSignals()); n != 1 {
		t.Errorf("got %d nets, want 1", n)
	}
}

func TestCombineAllNothingToDo(t *testing.T) {
	sess, sheet := setup(t)
	_, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))
	changed, err := run(sess, func(g *undo.Group) error {
		_, err := CombineAllItemsUnderPoint(g, sess, sheet, pts[1].ID)
		return err
	})
	if err != nil || changed {
		t.Errorf("changed = %v, err = %v; want no-op", changed, err)
	}
}

func TestCombinePoints(t *testing.T) {
	sess, sheet := setup(t)
	pin := pinAt(t, sess, sheet, "U1", geom.Pt(0, 0), "")
	seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(0, 0))
	mustRun(t, sess, func(g *undo.Group) error {
		edit := netgraph.NewCmdPointEdit(sheet, pts[2].ID)
		edit.AttachPin(pin.ID)
		if err := g.Exec(edit); err != nil {
			return err
		}
		return AssignSignal(g, sess, sheet, []uuid.UUID{seg}, sheet.Segment(seg).Signal)
	})

	mustRun(t, sess, func(g *undo.Group) error {
		return CombinePoints(g, sheet, pts[2].ID, pts[0].ID)
	})
	validate(t, sess)

	if sheet.Point(pts[0].ID).Pin != pin.ID {
		t.Error("pin attachment did not transfer")
	}
	if got := sheet.Stats(); got.Points != 2 || got.Lines != 1 {
		t.Errorf("stats = %+v, want 2 points and 1 line", got)
	}
}

func TestCombinePointsWithTwoPinsFails(t *testing.T) {
	sess, sheet := setup(t)
	p1 := pinAt(t, sess, sheet, "U1", geom.Pt(0, 0), "")
	p2 := pinAt(t, sess, sheet, "U2", geom.Pt(20, 0), "")
	var a, b uuid.UUID
	mustRun(t, sess, func(g *undo.Group) error {
		add := netgraph.NewCmdSegmentAdd(sheet, mustSignal(t, sess, g))
		if err := g.Exec(add); err != nil {
			return err
		}
		elems := netgraph.NewCmdSegmentAddElements(sheet, add.Segment().ID)
		pa, pb := elems.AddPinPoint(p1.Position, p1.ID), elems.AddPinPoint(p2.Position, p2.ID)
		elems.AddLine(netgraph.PointAnchor(pa.ID), netgraph.PointAnchor(pb.ID))
		a, b = pa.ID, pb.ID
		return g.Exec(elems)
	})

	_, err := run(sess, func(g *undo.Group) error { return CombinePoints(g, sheet, a, b) })
	if !errors.Is(err, errors.ErrCodePinAttached) {
		t.Errorf("error = %v, want pin attached", err)
	}
}

func mustSignal(t *testing.T, sess *session.Session, g *undo.Group) uuid.UUID {
	t.Helper()
	sig, err := sess.NewSignal(g, "")
	if err != nil {
		t.Fatal(err)
	}
	return sig.ID
}

func TestCombineSegmentsRequiresSameSignal(t *testing.T) {
	sess, sheet := setup(t)
	a, pa := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))
	b, pb := wire(t, sess, sheet, "", geom.Pt(10, 0), geom.Pt(20, 0))

	defer func() {
		if e := errors.AsLogic(recover()); e == nil {
			t.Error("expected logic error")
		}
		if n := len(sheet.Segments()); n != 2 {
			t.Errorf("rollback left %d segments", n)
		}
	}()
	run(sess, func(g *undo.Group) error {
		return CombineSegments(g, sess, sheet, a, netgraph.PointAnchor(pa[1].ID), b, netgraph.PointAnchor(pb[0].ID))
	})
}

func TestRemoveUnusedNetSignalsIdempotent(t *testing.T) {
	sess, sheet := setup(t)
	brd := sess.AddSheet("Board", netgraph.SheetBoard)
	wire(t, sess, sheet, "KEEP", geom.Pt(0, 0), geom.Pt(10, 0))
	mustRun(t, sess, func(g *undo.Group) error {
		for _, name := range []string{"GONE", "PLANE"} {
			if _, err := sess.NewSignal(g, name); err != nil {
				return err
			}
		}
		if err := g.Exec(netgraph.NewCmdSegmentAdd(sheet, sess.Circuit.NetSignalByName("GONE").ID)); err != nil {
			return err
		}
		return g.Exec(netgraph.NewCmdPlaneAdd(brd, sess.Circuit.NetSignalByName("PLANE").ID, "PLANE"))
	})

	changed, err := run(sess, func(g *undo.Group) error { return RemoveUnusedNetSignals(g, sess) })
	if err != nil || !changed {
		t.Fatalf("first pass changed = %v, err = %v", changed, err)
	}
	validate(t, sess)
	var names []string
	for _, s := range sess.Circuit.NetSignals() {
		names = append(names, s.Name)
	}
	if !slices.Equal(names, []string{"KEEP"}) {
		t.Errorf("nets = %v, want [KEEP]", names)
	}
	if len(brd.Planes()) != 0 {
		t.Error("plane of removed net survived")
	}

	snap := sess.SnapshotJSON()
	changed, err = run(sess, func(g *undo.Group) error { return RemoveUnusedNetSignals(g, sess) })
	if err != nil || changed {
		t.Errorf("second pass changed = %v, err = %v", changed, err)
	}
	if !bytes.Equal(snap, sess.SnapshotJSON()) {
		t.Error("second pass changed the model")
	}
}

func TestDisconnectOrphanedPins(t *testing.T) {
	sess, sheet := setup(t)
	pin := pinAt(t, sess, sheet, "U1", geom.Pt(10, 0), "")
	seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0))
	mustRun(t, sess, func(g *undo.Group) error {
		_, err := CombineAllItemsUnderPoint(g, sess, sheet, pts[1].ID)
		return err
	})
	si := sess.Circuit.SignalInstance(pin.Signal)
	if si.NetSignal != sheet.Segment(seg).Signal {
		t.Fatal("terminal not connected")
	}

	mustRun(t, sess, func(g *undo.Group) error {
		if err := g.Exec(netgraph.NewCmdSegmentRemove(sheet, seg)); err != nil {
			return err
		}
		if err := DisconnectOrphanedPins(g, sess); err != nil {
			return err
		}
		return RemoveUnusedNetSignals(g, sess)
	})
	validate(t, sess)
	if si.IsConnected() {
		t.Error("terminal still connected")
	}
	if n := len(sess.Circuit.NetSignals()); n != 0 {
		t.Errorf("%d nets left", n)
	}
}

func TestAssignSignalFollowsTerminalsAcrossSheets(t *testing.T) {
	sess, sch := setup(t)
	brd := sess.AddSheet("Board", netgraph.SheetBoard)
	sym, err := sess.PlaceComponent(sch, "R1", []session.PinSpec{{Name: "1", Position: geom.Pt(10, 0)}})
	if err != nil {
		t.Fatal(err)
	}
	fp, err := sess.PlaceComponent(brd, "R1", []session.PinSpec{{Name: "1", Position: geom.Pt(10, 0)}})
	if err != nil {
		t.Fatal(err)
	}
	schSeg, schPts := wire(t, sess, sch, "", geom.Pt(0, 0), geom.Pt(10, 0))
	brdSeg, brdPts := wire(t, sess, brd, "", geom.Pt(0, 0), geom.Pt(10, 0))
	mustRun(t, sess, func(g *undo.Group) error {
		if _, err := CombineAllItemsUnderPoint(g, sess, sch, schPts[1].ID); err != nil {
			return err
		}
		if _, err := CombineAllItemsUnderPoint(g, sess, brd, brdPts[1].ID); err != nil {
			return err
		}
		return RemoveUnusedNetSignals(g, sess)
	})
	validate(t, sess)

	if sch.Segment(schSeg).Signal != brd.Segment(brdSeg).Signal {
		t.Error("board trace did not follow the schematic net")
	}
	if sch.Pin(sym.Pins[0]).Signal != brd.Pin(fp.Pins[0]).Signal {
		t.Error("pins should share a terminal")
	}
}

func TestSimplifySegment(t *testing.T) {
	sess, sheet := setup(t)
	seg, pts := wire(t, sess, sheet, "", geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0), geom.Pt(20, 10))
	mustRun(t, sess, func(g *undo.Group) error {
		add := netgraph.NewCmdSegmentAddElements(sheet, seg)
		dup := add.AddPoint(geom.Pt(20, 10))
		add.AddLine(netgraph.PointAnchor(pts[2].ID), netgraph.PointAnchor(dup.ID))
		return g.Exec(add)
	})

	var changed bool
	mustRun(t, sess, func(g *undo.Group) error {
		var err error
		changed, err = SimplifySegment(g, sheet, seg)
		return err
	})
	validate(t, sess)

	if !changed {
		t.Error("changed = false")
	}
	want := []string{"l(0, 0)-(20, 0)", "l(20, 0)-(20, 10)", "p(0, 0)", "p(20, 0)", "p(20, 10)"}
	if got := shape(sheet, seg); !slices.Equal(got, want) {
		t.Errorf("shape = %v, want %v", got, want)
	}

	again, err := run(sess, func(g *undo.Group) error {
		_, err := SimplifySegment(g, sheet, seg)
		return err
	})
	if err != nil || again {
		t.Errorf("second pass changed = %v, err = %v", again, err)
	}
}
