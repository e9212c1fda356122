package topology

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/circuit"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
	"github.com/matzehuels/netedit/pkg/undo"
)

// RemoveUnusedNetSignals deletes segments without points and lines on every
// sheet, then every net signal no terminal and no segment references,
// together with the planes filled with it. A second call without edits in
// between changes nothing.
func RemoveUnusedNetSignals(g *undo.Group, sess *session.Session) error {
	for _, sheet := range sess.Sheets() {
		for _, seg := range sheet.Segments() {
			if seg.IsEmpty() {
				if err := g.Exec(netgraph.NewCmdSegmentRemove(sheet, seg.ID)); err != nil {
					return err
				}
			}
		}
	}

	for _, sig := range sess.Circuit.NetSignals() {
		if sess.IsSignalUsed(sig.ID) {
			continue
		}
		for _, sheet := range sess.Sheets() {
			for _, pl := range sheet.Planes() {
				if pl.Signal != sig.ID {
					continue
				}
				if err := g.Exec(netgraph.NewCmdPlaneRemove(sheet, pl.ID)); err != nil {
					return err
				}
			}
		}
		if err := g.Exec(circuit.NewCmdNetSignalRemove(sess.Circuit, sig.ID)); err != nil {
			return err
		}
	}
	return nil
}

// DisconnectOrphanedPins clears the net of every component terminal whose
// pins are no longer wired on any sheet.
func DisconnectOrphanedPins(g *undo.Group, sess *session.Session) error {
	for _, ci := range sess.Circuit.Components() {
		for _, id := range ci.Signals {
			if !sess.Circuit.SignalInstance(id).IsConnected() || sess.IsTerminalWired(id) {
				continue
			}
			if err := g.Exec(circuit.NewCmdSignalInstanceSetNet(sess.Circuit, id, uuid.Nil)); err != nil {
				return err
			}
		}
	}
	return nil
}
