package editor

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/topology"
	"github.com/matzehuels/netedit/pkg/undo"
)

// execute runs perform as one transaction after leaving the active tool.
func (e *Editor) execute(title string, perform func(g *undo.Group) error) (bool, error) {
	e.ExitTool()
	return e.sess.Stack.Execute(undo.NewCompound(title, perform))
}

// PlaceJunction places a junction at pos: an existing point is reused, a
// line under the cursor is split. Everything at the junction gets connected.
func (e *Editor) PlaceJunction(sheet *netgraph.Sheet, pos geom.Point) error {
	_, err := e.execute("Place Junction", func(g *undo.Group) error {
		var point uuid.UUID
		if pts := sheet.PointsAt(pos, 0); len(pts) > 0 {
			point = pts[0].ID
		} else if lines := sheet.LinesAt(pos, 0); len(lines) > 0 {
			p, err := topology.InsertPointOnLine(g, sheet, lines[0].ID, pos)
			if err != nil {
				return err
			}
			point = p.ID
		} else {
			return errors.New(errors.ErrCodeNothingHere, "no net line at %s", pos)
		}
		if _, err := topology.CombineAllItemsUnderPoint(g, e.sess, sheet, point); err != nil {
			return err
		}
		return topology.RemoveUnusedNetSignals(g, e.sess)
	})
	return err
}

// AddNetLabel attaches a label to the segment under pos. A non-empty forced
// name renames the net or merges it into an existing net of that name.
func (e *Editor) AddNetLabel(sheet *netgraph.Sheet, pos geom.Point, forced string) (*netgraph.NetLabel, error) {
	var label *netgraph.NetLabel
	_, err := e.execute("Add Net Label", func(g *undo.Group) error {
		seg := segmentAt(sheet, pos, e.opts.SnapTolerance)
		if seg == uuid.Nil {
			return errors.New(errors.ErrCodeNothingHere, "no net segment at %s", pos)
		}
		add := netgraph.NewCmdLabelAdd(sheet, seg, pos, geom.Deg0, forced)
		if err := g.Exec(add); err != nil {
			return err
		}
		label = add.Label()
		if forced == "" {
			return nil
		}
		current := sheet.Segment(seg).Signal
		signal, err := topology.ResolveNetName(g, e.sess, []uuid.UUID{current},
			sheet.ForcedNetNames(seg, e.sess.Circuit))
		if err != nil {
			return err
		}
		e.sess.Highlight(signal)
		if err := topology.AssignSignal(g, e.sess, sheet, []uuid.UUID{seg}, signal); err != nil {
			return err
		}
		return topology.RemoveUnusedNetSignals(g, e.sess)
	})
	if err != nil {
		return nil, err
	}
	return label, nil
}

// Simplify cleans up every segment of sheet with [topology.SimplifySegment].
// It reports whether anything changed.
func (e *Editor) Simplify(sheet *netgraph.Sheet) (bool, error) {
	return e.execute("Simplify Net Segments", func(g *undo.Group) error {
		for _, seg := range sheet.Segments() {
			if _, err := topology.SimplifySegment(g, sheet, seg.ID); err != nil {
				return err
			}
		}
		return topology.RemoveUnusedNetSignals(g, e.sess)
	})
}
