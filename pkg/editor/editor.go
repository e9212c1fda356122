// Package editor implements the interactive net editing operations: the
// wire drawing state machine, junction and label placement, removal of a
// selection and segment cleanup.
//
// Every operation is one transaction on the session's undo stack. A failing
// operation leaves the model exactly as it was and returns the error; user
// actionable failures are reported with codes from the errors package.
package editor

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/config"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
)

// Options configures cursor handling.
type Options struct {
	// GridInterval is the snapping grid. Zero disables grid snapping.
	GridInterval geom.Length

	// SnapTolerance is the radius in which the cursor snaps onto existing
	// points and pins after grid mapping.
	SnapTolerance geom.Length

	// WireMode is the initial bend mode of the wire tool.
	WireMode WireMode
}

// OptionsFromConfig converts the editor section of a configuration.
func OptionsFromConfig(cfg config.EditorConfig) (Options, error) {
	mode, err := ParseWireMode(cfg.WireMode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		GridInterval:  geom.Length(cfg.GridInterval),
		SnapTolerance: geom.Length(cfg.SnapTolerance),
		WireMode:      mode,
	}, nil
}

// Editor runs interactive operations against one session.
type Editor struct {
	sess *session.Session
	opts Options
	wire *DrawWire
}

// New creates an editor for sess.
func New(sess *session.Session, opts Options) *Editor {
	return &Editor{sess: sess, opts: opts}
}

// Session returns the edited session.
func (e *Editor) Session() *session.Session { return e.sess }

// Options returns the cursor options.
func (e *Editor) Options() Options { return e.opts }

// DrawWire activates the wire tool on sheet, leaving any other active tool.
func (e *Editor) DrawWire(sheet *netgraph.Sheet) *DrawWire {
	if e.wire != nil && e.wire.sheet == sheet {
		return e.wire
	}
	e.ExitTool()
	e.wire = newDrawWire(e, sheet)
	return e.wire
}

// ExitTool leaves the active tool, aborting its open transaction.
func (e *Editor) ExitTool() {
	if e.wire != nil {
		e.wire.Exit()
		e.wire = nil
	}
}

// Undo leaves the active tool and reverts the last transaction.
func (e *Editor) Undo() error {
	e.ExitTool()
	return e.sess.Stack.Undo()
}

// Redo leaves the active tool and re-applies the last undone transaction.
func (e *Editor) Redo() error {
	e.ExitTool()
	return e.sess.Stack.Redo()
}

// Snap maps a cursor position to the grid and then onto the nearest point
// or pin within the snap tolerance. free disables snapping. Points listed in
// exclude are never snap targets.
func (e *Editor) Snap(sheet *netgraph.Sheet, pos geom.Point, free bool, exclude ...uuid.UUID) geom.Point {
	if free {
		return pos
	}
	pos = pos.MappedToGrid(e.opts.GridInterval)
	if e.opts.SnapTolerance <= 0 {
		return pos
	}
	best, found := pos, false
	bestDist := float64(e.opts.SnapTolerance) + 1
	consider := func(p geom.Point) {
		if d := pos.DistanceTo(p); d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	for _, p := range sheet.PointsAt(pos, e.opts.SnapTolerance) {
		if !slices.Contains(exclude, p.ID) {
			consider(p.Position)
		}
	}
	for _, p := range sheet.PinsAt(pos, e.opts.SnapTolerance) {
		consider(p.Position)
	}
	if !found {
		return pos
	}
	return best
}

// segmentAt returns the segment with a point or line within tol of pos.
func segmentAt(sheet *netgraph.Sheet, pos geom.Point, tol geom.Length) uuid.UUID {
	if pts := sheet.PointsAt(pos, tol); len(pts) > 0 {
		return pts[0].Segment
	}
	if lines := sheet.LinesAt(pos, tol); len(lines) > 0 {
		return lines[0].Segment
	}
	return uuid.Nil
}
