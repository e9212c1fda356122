package editor

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/circuit"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/topology"
	"github.com/matzehuels/netedit/pkg/undo"
)

// Selection lists items of one sheet to remove.
type Selection struct {
	Points  []uuid.UUID
	Lines   []uuid.UUID
	Labels  []uuid.UUID
	Symbols []uuid.UUID
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Points) == 0 && len(s.Lines) == 0 && len(s.Labels) == 0 && len(s.Symbols) == 0
}

// RemoveSelection removes the selected items as one transaction.
//
// Removing a point removes its lines; removing a symbol removes the lines at
// its pins and detaches points from them. Per segment, selecting every line
// removes the segment, selecting only labels removes them and re-evaluates
// the net name, anything else splits the segment into its remaining pieces.
// A component losing its last schematic symbol is removed from the circuit
// together with its footprints. Unused nets are removed at the end.
func (e *Editor) RemoveSelection(sheet *netgraph.Sheet, sel Selection) error {
	if sel.IsEmpty() {
		return nil
	}
	_, err := e.execute("Remove Selection", func(g *undo.Group) error {
		r := &remover{ed: e, g: g, sheet: sheet}
		return r.run(sel)
	})
	return err
}

type remover struct {
	ed    *Editor
	g     *undo.Group
	sheet *netgraph.Sheet
}

func (r *remover) run(sel Selection) error {
	sheet := r.sheet
	lines := make(map[uuid.UUID]bool)
	points := make(map[uuid.UUID]bool)
	labels := make(map[uuid.UUID]bool)
	var order []uuid.UUID
	touch := func(seg uuid.UUID) {
		if !slices.Contains(order, seg) {
			order = append(order, seg)
		}
	}

	for _, id := range sel.Lines {
		if l := sheet.Line(id); l != nil {
			lines[id] = true
			touch(l.Segment)
		}
	}
	for _, id := range sel.Points {
		p := sheet.Point(id)
		if p == nil {
			continue
		}
		points[id] = true
		touch(p.Segment)
		for _, l := range sheet.LinesOf(netgraph.PointAnchor(id)) {
			lines[l.ID] = true
		}
	}
	for _, id := range sel.Labels {
		if l := sheet.Label(id); l != nil {
			labels[id] = true
			touch(l.Segment)
		}
	}

	var symbols []*netgraph.Symbol
	for _, id := range sel.Symbols {
		sym := sheet.Symbol(id)
		if sym == nil {
			continue
		}
		symbols = append(symbols, sym)
		for _, pin := range sym.Pins {
			for _, l := range sheet.LinesOf(netgraph.PinAnchor(pin)) {
				lines[l.ID] = true
				touch(l.Segment)
			}
			if p := sheet.PinPoint(pin); p != nil && !points[p.ID] {
				edit := netgraph.NewCmdPointEdit(sheet, p.ID)
				edit.DetachPin()
				if err := r.g.Exec(edit); err != nil {
					return err
				}
			}
		}
	}

	for _, seg := range order {
		if err := r.segment(seg, lines, points, labels); err != nil {
			return err
		}
	}
	for _, sym := range symbols {
		if err := r.symbol(sym); err != nil {
			return err
		}
	}

	if err := topology.DisconnectOrphanedPins(r.g, r.ed.sess); err != nil {
		return err
	}
	return topology.RemoveUnusedNetSignals(r.g, r.ed.sess)
}

func (r *remover) segment(id uuid.UUID, lines, points, labels map[uuid.UUID]bool) error {
	seg := r.sheet.Segment(id)
	var selLines, selPoints, selLabels []uuid.UUID
	for _, l := range seg.LineIDs() {
		if lines[l] {
			selLines = append(selLines, l)
		}
	}
	for _, p := range seg.PointIDs() {
		if points[p] {
			selPoints = append(selPoints, p)
		}
	}
	for _, l := range seg.LabelIDs() {
		if labels[l] {
			selLabels = append(selLabels, l)
		}
	}

	all := len(seg.LineIDs())
	switch {
	case all > 0 && len(selLines) == all, all == 0 && len(selPoints) > 0:
		return r.g.Exec(netgraph.NewCmdSegmentRemove(r.sheet, id))
	case len(selLines) == 0 && len(selPoints) == 0:
		return r.labels(id, selLabels)
	}
	for _, l := range selLabels {
		if err := r.g.Exec(netgraph.NewCmdLabelRemove(r.sheet, l)); err != nil {
			return err
		}
	}
	_, err := topology.SplitSegment(r.g, r.ed.sess, r.sheet, id, selLines, selPoints)
	return err
}

// labels removes labels of a segment. Once the last label is gone the net
// name is re-evaluated: a name that only the labels imposed is dropped.
func (r *remover) labels(id uuid.UUID, selected []uuid.UUID) error {
	for _, l := range selected {
		if err := r.g.Exec(netgraph.NewCmdLabelRemove(r.sheet, l)); err != nil {
			return err
		}
	}
	seg := r.sheet.Segment(id)
	if len(seg.LabelIDs()) > 0 {
		return nil
	}

	sess := r.ed.sess
	current := sess.Circuit.NetSignal(seg.Signal)
	forced := r.sheet.ForcedNetNames(id, sess.Circuit)
	signal := current.ID
	switch {
	case len(forced) > 1:
		return errors.New(errors.ErrCodeNameConflict,
			"net segment would join nets with different forced names: %v", forced)
	case len(forced) == 1:
		if current.Name != forced[0] {
			var err error
			if signal, err = sess.SignalByNameOrNew(r.g, forced[0]); err != nil {
				return err
			}
		}
	case !current.AutoName || len(r.sheet.SegmentsOfSignal(current.ID)) > 1:
		sig, err := sess.NewSignalLike(r.g, current.ID)
		if err != nil {
			return err
		}
		signal = sig.ID
	}
	return topology.AssignSignal(r.g, sess, r.sheet, []uuid.UUID{id}, signal)
}

// symbol removes a symbol whose pins are already disconnected. A component
// without schematic symbols left loses its footprints and is removed.
func (r *remover) symbol(sym *netgraph.Symbol) error {
	if err := r.g.Exec(netgraph.NewCmdSymbolRemove(r.sheet, sym.ID)); err != nil {
		return err
	}
	sess := r.ed.sess
	for _, sh := range sess.Sheets() {
		if sh.Kind == netgraph.SheetSchematic && len(sh.SymbolsOfComponent(sym.Component)) > 0 {
			return nil
		}
	}

	for _, sh := range sess.Sheets() {
		if sh.Kind != netgraph.SheetBoard {
			continue
		}
		for _, fp := range sh.SymbolsOfComponent(sym.Component) {
			if err := r.footprint(sh, fp); err != nil {
				return err
			}
		}
	}

	ci := sess.Circuit.Component(sym.Component)
	if ci == nil {
		return nil
	}
	for _, id := range ci.Signals {
		if err := r.g.Exec(circuit.NewCmdSignalInstanceSetNet(sess.Circuit, id, uuid.Nil)); err != nil {
			return err
		}
	}
	return r.g.Exec(circuit.NewCmdComponentRemove(sess.Circuit, ci.ID))
}

// footprint disconnects the pads of a board footprint and removes it.
func (r *remover) footprint(sh *netgraph.Sheet, fp *netgraph.Symbol) error {
	bySegment := make(map[uuid.UUID][]uuid.UUID)
	var order []uuid.UUID
	for _, pad := range fp.Pins {
		if p := sh.PinPoint(pad); p != nil {
			edit := netgraph.NewCmdPointEdit(sh, p.ID)
			edit.DetachPin()
			if err := r.g.Exec(edit); err != nil {
				return err
			}
		}
		for _, l := range sh.LinesOf(netgraph.PinAnchor(pad)) {
			if _, ok := bySegment[l.Segment]; !ok {
				order = append(order, l.Segment)
			}
			bySegment[l.Segment] = append(bySegment[l.Segment], l.ID)
		}
	}
	for _, seg := range order {
		lines := bySegment[seg]
		var err error
		if len(lines) == len(sh.Segment(seg).LineIDs()) {
			err = r.g.Exec(netgraph.NewCmdSegmentRemove(sh, seg))
		} else {
			_, err = topology.SplitSegment(r.g, r.ed.sess, sh, seg, lines, nil)
		}
		if err != nil {
			return err
		}
	}
	return r.g.Exec(netgraph.NewCmdSymbolRemove(sh, fp.ID))
}
