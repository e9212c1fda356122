package editor

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/topology"
	"github.com/matzehuels/netedit/pkg/undo"
)

// State is the state of the wire drawing tool.
type State int

const (
	StateIdle State = iota
	StatePositioning
)

func (s State) String() string {
	if s == StatePositioning {
		return "positioning"
	}
	return "idle"
}

// DrawWire is the wire drawing state machine of one sheet.
//
// A left click in [StateIdle] opens a transaction and places a provisional
// two-line chain from a fixed start anchor over a bend point to the cursor.
// Mouse moves update the chain live. The next left click commits it and
// connects the end to whatever lies under it; if nothing was there, a new
// chain starts at the end point.
type DrawWire struct {
	ed    *Editor
	sheet *netgraph.Sheet
	mode  WireMode
	state State

	cursor   geom.Point
	fixed    netgraph.Anchor
	fixedPos geom.Point
	segment  uuid.UUID
	middle   *netgraph.CmdPointEdit
	end      *netgraph.CmdPointEdit
	lines    [2]uuid.UUID
}

func newDrawWire(ed *Editor, sheet *netgraph.Sheet) *DrawWire {
	return &DrawWire{ed: ed, sheet: sheet, mode: ed.opts.WireMode}
}

// State returns the current state.
func (w *DrawWire) State() State { return w.state }

// Mode returns the current bend mode.
func (w *DrawWire) Mode() WireMode { return w.mode }

// Sheet returns the sheet the tool draws on.
func (w *DrawWire) Sheet() *netgraph.Sheet { return w.sheet }

// Click handles a left click at pos. free disables snapping.
func (w *DrawWire) Click(pos geom.Point, free bool) error {
	pos = w.ed.Snap(w.sheet, pos, free, w.provisional()...)
	w.cursor = pos
	if w.state == StateIdle {
		w.ed.sess.Stack.BeginGroup("Draw Wire")
		return w.start(pos)
	}
	return w.commit(pos)
}

// Move handles a cursor move to pos. While positioning, the bend point and
// the end point follow the cursor.
func (w *DrawWire) Move(pos geom.Point, free bool) {
	w.cursor = w.ed.Snap(w.sheet, pos, free, w.provisional()...)
	w.update()
}

// provisional returns the points that follow the cursor.
func (w *DrawWire) provisional() []uuid.UUID {
	if w.state != StatePositioning {
		return nil
	}
	return []uuid.UUID{w.middle.Point().ID, w.end.Point().ID}
}

// RightClick cycles the bend mode.
func (w *DrawWire) RightClick() {
	w.mode = w.mode.Next()
	w.update()
}

// SetMode selects the bend mode.
func (w *DrawWire) SetMode(m WireMode) {
	w.mode = m
	w.update()
}

// Abort drops the wire in progress and returns to [StateIdle].
func (w *DrawWire) Abort() {
	if w.state != StatePositioning {
		return
	}
	w.middle.Discard()
	w.end.Discard()
	w.ed.sess.Stack.AbortGroup()
	w.reset()
}

// Exit leaves the tool. An open transaction is aborted.
func (w *DrawWire) Exit() {
	w.Abort()
	if w.ed.sess.Stack.IsGroupActive() {
		w.ed.sess.Stack.AbortGroup()
	}
}

func (w *DrawWire) reset() {
	w.state = StateIdle
	w.middle, w.end = nil, nil
	w.segment = uuid.Nil
	w.ed.sess.Highlight()
}

func (w *DrawWire) update() {
	if w.state != StatePositioning {
		return
	}
	w.middle.SetPosition(w.mode.MiddlePoint(w.fixedPos, w.cursor), true)
	w.end.SetPosition(w.cursor, true)
}

// start adds the provisional chain to the open group.
func (w *DrawWire) start(pos geom.Point) error {
	var mid, end *netgraph.NetPoint
	cmd := undo.NewCompound("Start Wire", func(g *undo.Group) error {
		fixed, seg, err := w.startAnchor(g, pos)
		if err != nil {
			return err
		}
		add := netgraph.NewCmdSegmentAddElements(w.sheet, seg)
		mid = add.AddPoint(pos)
		end = add.AddPoint(pos)
		la := add.AddLine(fixed, netgraph.PointAnchor(mid.ID))
		lb := add.AddLine(netgraph.PointAnchor(mid.ID), netgraph.PointAnchor(end.ID))
		if err := g.Exec(add); err != nil {
			return err
		}
		signal := w.sheet.Segment(seg).Signal
		if err := topology.AssignSignal(g, w.ed.sess, w.sheet, []uuid.UUID{seg}, signal); err != nil {
			return err
		}
		w.fixed, w.segment, w.lines = fixed, seg, [2]uuid.UUID{la.ID, lb.ID}
		return nil
	})
	if err := w.ed.sess.Stack.AppendToGroup(cmd); err != nil {
		w.ed.sess.Stack.AbortGroup()
		w.reset()
		return err
	}

	w.fixedPos = pos
	w.middle = netgraph.NewCmdPointEdit(w.sheet, mid.ID)
	w.end = netgraph.NewCmdPointEdit(w.sheet, end.ID)
	w.state = StatePositioning
	w.ed.sess.Highlight(w.sheet.Segment(w.segment).Signal)
	return nil
}

// startAnchor finds or creates the anchor a new chain starts at: an existing
// point, a pin, a point splitting a line, or a fresh point on a new net.
func (w *DrawWire) startAnchor(g *undo.Group, pos geom.Point) (netgraph.Anchor, uuid.UUID, error) {
	sess, sheet := w.ed.sess, w.sheet
	if pts := sheet.PointsAt(pos, 0); len(pts) > 0 {
		return netgraph.PointAnchor(pts[0].ID), pts[0].Segment, nil
	}

	if pins := sheet.PinsAt(pos, 0); len(pins) > 0 {
		if len(pins) > 1 {
			return netgraph.Anchor{}, uuid.Nil, errors.New(errors.ErrCodeUnsupported,
				"more than one pin at %s, connecting them is not supported", pos)
		}
		pin := pins[0]
		if p := sheet.PinPoint(pin.ID); p != nil {
			return netgraph.PointAnchor(p.ID), p.Segment, nil
		}
		if seg := sheet.PinSegment(pin.ID); seg != uuid.Nil {
			return netgraph.PinAnchor(pin.ID), seg, nil
		}
		signal, err := topology.SegmentSignalFor(g, sess, pin)
		if err != nil {
			return netgraph.Anchor{}, uuid.Nil, err
		}
		add := netgraph.NewCmdSegmentAdd(sheet, signal)
		if err := g.Exec(add); err != nil {
			return netgraph.Anchor{}, uuid.Nil, err
		}
		return netgraph.PinAnchor(pin.ID), add.Segment().ID, nil
	}

	if lines := sheet.LinesAt(pos, 0); len(lines) > 0 {
		p, err := topology.InsertPointOnLine(g, sheet, lines[0].ID, pos)
		if err != nil {
			return netgraph.Anchor{}, uuid.Nil, err
		}
		return netgraph.PointAnchor(p.ID), p.Segment, nil
	}

	sig, err := sess.NewSignal(g, "")
	if err != nil {
		return netgraph.Anchor{}, uuid.Nil, err
	}
	add := netgraph.NewCmdSegmentAdd(sheet, sig.ID)
	if err := g.Exec(add); err != nil {
		return netgraph.Anchor{}, uuid.Nil, err
	}
	elems := netgraph.NewCmdSegmentAddElements(sheet, add.Segment().ID)
	p := elems.AddPoint(pos)
	if err := g.Exec(elems); err != nil {
		return netgraph.Anchor{}, uuid.Nil, err
	}
	return netgraph.PointAnchor(p.ID), add.Segment().ID, nil
}

// commit finishes the chain at pos and connects its end.
func (w *DrawWire) commit(pos geom.Point) error {
	if pos == w.fixedPos {
		w.Abort()
		return nil
	}
	w.update()
	stack := w.ed.sess.Stack
	fail := func(err error) error {
		w.middle.Discard()
		w.end.Discard()
		stack.AbortGroup()
		w.reset()
		return err
	}

	for _, edit := range []*netgraph.CmdPointEdit{w.middle, w.end} {
		if err := stack.AppendToGroup(edit); err != nil {
			return fail(err)
		}
	}

	mid, end := w.middle.Point(), w.end.Point()
	var combined bool
	finish := undo.NewCompound("Finish Wire", func(g *undo.Group) error {
		if mid.Position == w.fixedPos || mid.Position == end.Position {
			rm := netgraph.NewCmdSegmentRemoveElements(w.sheet, w.segment)
			rm.RemoveLine(w.lines[0])
			rm.RemoveLine(w.lines[1])
			rm.RemovePoint(mid.ID)
			if err := g.Exec(rm); err != nil {
				return err
			}
			add := netgraph.NewCmdSegmentAddElements(w.sheet, w.segment)
			add.AddLine(w.fixed, netgraph.PointAnchor(end.ID))
			if err := g.Exec(add); err != nil {
				return err
			}
		}
		var err error
		combined, err = topology.CombineAllItemsUnderPoint(g, w.ed.sess, w.sheet, end.ID)
		if err != nil {
			return err
		}
		return topology.RemoveUnusedNetSignals(g, w.ed.sess)
	})
	if err := stack.AppendToGroup(finish); err != nil {
		return fail(err)
	}
	stack.CommitGroup()
	w.reset()

	if combined {
		return nil
	}
	stack.BeginGroup("Draw Wire")
	return w.start(end.Position)
}
