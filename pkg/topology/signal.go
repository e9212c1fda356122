package topology

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/circuit"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
	"github.com/matzehuels/netedit/pkg/undo"
)

// ResolveNetName decides which net signal a set of merged items ends up on.
//
// candidates are the signals currently used by the items, forced the names
// demanded by their labels and component terminals:
//   - no forced name: the dominant candidate wins; without candidates a new
//     auto-named signal is created
//   - one forced name: an existing signal of that name is reused, otherwise
//     the dominant candidate is renamed, otherwise a signal is created
//   - several distinct forced names: a name conflict error
func ResolveNetName(g *undo.Group, sess *session.Session, candidates []uuid.UUID, forced []string) (uuid.UUID, error) {
	forced = uniqueNames(forced)
	if len(forced) > 1 {
		return uuid.Nil, errors.New(errors.ErrCodeNameConflict,
			"cannot merge nets with different forced names: %s", strings.Join(forced, ", "))
	}

	dominant := DominantSignal(sess, candidates)
	if len(forced) == 0 {
		if dominant != uuid.Nil {
			return dominant, nil
		}
		sig, err := sess.NewSignal(g, "")
		if err != nil {
			return uuid.Nil, err
		}
		return sig.ID, nil
	}

	name := forced[0]
	if sig := sess.Circuit.NetSignalByName(name); sig != nil {
		return sig.ID, nil
	}
	if dominant != uuid.Nil {
		edit := circuit.NewCmdNetSignalEdit(sess.Circuit, dominant).SetName(name, false)
		if err := g.Exec(edit); err != nil {
			return uuid.Nil, err
		}
		return dominant, nil
	}
	sig, err := sess.NewSignal(g, name)
	if err != nil {
		return uuid.Nil, err
	}
	return sig.ID, nil
}

// DominantSignal picks the signal that survives a merge: the first manually
// named candidate, otherwise the one with the most references, otherwise the
// first. It returns uuid.Nil when no candidate exists.
func DominantSignal(sess *session.Session, candidates []uuid.UUID) uuid.UUID {
	var best uuid.UUID
	bestRefs := -1
	var seen []uuid.UUID
	for _, id := range candidates {
		sig := sess.Circuit.NetSignal(id)
		if sig == nil || slices.Contains(seen, id) {
			continue
		}
		seen = append(seen, id)
		if !sig.AutoName {
			return id
		}
		if refs := sess.SignalReferences(id); refs > bestRefs {
			best, bestRefs = id, refs
		}
	}
	return best
}

// AssignSignal moves segments to a net signal and keeps component terminals
// consistent: every pin of the moved segments gets its terminal switched to
// the signal, and segments on other sheets wired to other pins of those
// terminals follow.
func AssignSignal(g *undo.Group, sess *session.Session, sheet *netgraph.Sheet, segments []uuid.UUID, signal uuid.UUID) error {
	type item struct {
		sheet   *netgraph.Sheet
		segment uuid.UUID
	}
	queue := make([]item, 0, len(segments))
	for _, id := range segments {
		queue = append(queue, item{sheet, id})
	}
	terminals := make(map[uuid.UUID]bool)

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if it.sheet.Segment(it.segment) == nil {
			continue
		}
		if err := g.Exec(netgraph.NewCmdSegmentSetSignal(it.sheet, it.segment, signal)); err != nil {
			return err
		}
		for _, pin := range it.sheet.SegmentPins(it.segment) {
			if terminals[pin.Signal] {
				continue
			}
			terminals[pin.Signal] = true
			if err := g.Exec(circuit.NewCmdSignalInstanceSetNet(sess.Circuit, pin.Signal, signal)); err != nil {
				return err
			}
			for _, sp := range sess.PinsOf(pin.Signal) {
				other := sp.Sheet.PinSegment(sp.Pin.ID)
				if other != uuid.Nil && sp.Sheet.Segment(other).Signal != signal {
					queue = append(queue, item{sp.Sheet, other})
				}
			}
		}
	}
	return nil
}

// SegmentSignalFor returns the signal a freshly drawn segment starting at pin
// should use: the forced name of the pin's terminal, else the terminal's
// current net, else a new auto-named signal.
func SegmentSignalFor(g *undo.Group, sess *session.Session, pin *netgraph.Pin) (uuid.UUID, error) {
	si := sess.Circuit.SignalInstance(pin.Signal)
	if si.ForcedNetName != "" {
		return sess.SignalByNameOrNew(g, si.ForcedNetName)
	}
	if si.IsConnected() {
		return si.NetSignal, nil
	}
	sig, err := sess.NewSignal(g, "")
	if err != nil {
		return uuid.Nil, err
	}
	return sig.ID, nil
}

func uniqueNames(names []string) []string {
	out := slices.DeleteFunc(slices.Clone(names), func(n string) bool { return n == "" })
	slices.Sort(out)
	return slices.Compact(out)
}
