package session

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/circuit"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/netgraph"
)

// Validate checks the invariants that must hold after every committed
// top-level operation:
//   - the structural invariants of every sheet
//   - every referenced net signal exists and names are unique
//   - each connected pin's terminal uses the net of the pin's segment
//   - no net signal is left without segments and terminals
func (s *Session) Validate() error {
	names := make(map[string]bool)
	for _, sig := range s.Circuit.NetSignals() {
		if names[sig.Name] {
			return errors.New(errors.ErrCodeLogic, "net name %q is used twice", sig.Name)
		}
		names[sig.Name] = true
		if !s.IsSignalUsed(sig.ID) {
			return errors.New(errors.ErrCodeLogic, "net signal %q is not referenced", sig.Name)
		}
	}

	for _, sh := range s.sheets {
		if err := sh.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeLogic, err, "sheet %q", sh.Name)
		}
		for _, seg := range sh.Segments() {
			if s.Circuit.NetSignal(seg.Signal) == nil {
				return errors.New(errors.ErrCodeLogic, "segment %s references unknown net %s", seg.ID, seg.Signal)
			}
		}
		for _, p := range sh.Pins() {
			si := s.Circuit.SignalInstance(p.Signal)
			if si == nil {
				return errors.New(errors.ErrCodeLogic, "pin %s references unknown terminal %s", p.Name, p.Signal)
			}
			seg := sh.PinSegment(p.ID)
			if seg == uuid.Nil {
				continue
			}
			if want := sh.Segment(seg).Signal; si.NetSignal != want {
				return errors.New(errors.ErrCodeLogic, "terminal %s is on net %s but its pin is wired to net %s",
					s.Circuit.TerminalName(si.ID), s.Circuit.SignalName(si.NetSignal), s.Circuit.SignalName(want))
			}
		}
	}

	for _, ci := range s.Circuit.Components() {
		for _, id := range ci.Signals {
			si := s.Circuit.SignalInstance(id)
			if si.IsConnected() && !s.IsTerminalWired(id) {
				return errors.New(errors.ErrCodeLogic, "terminal %s is on net %s without any wired pin",
					s.Circuit.TerminalName(id), s.Circuit.SignalName(si.NetSignal))
			}
		}
	}
	return nil
}

// IsTerminalWired reports whether any pin of a component terminal is
// connected to a net segment on any sheet.
func (s *Session) IsTerminalWired(signalInstance uuid.UUID) bool {
	for _, sp := range s.PinsOf(signalInstance) {
		if sp.Sheet.IsPinConnected(sp.Pin.ID) {
			return true
		}
	}
	return false
}

// Snapshot is a deterministic copy of the whole session model.
type Snapshot struct {
	Circuit circuit.Snapshot    `json:"circuit"`
	Sheets  []netgraph.Snapshot `json:"sheets"`
}

// Snapshot copies the circuit and every sheet.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Circuit: s.Circuit.Snapshot(),
		Sheets:  make([]netgraph.Snapshot, 0, len(s.sheets)),
	}
	for _, sh := range s.sheets {
		snap.Sheets = append(snap.Sheets, sh.Snapshot())
	}
	return snap
}

// SnapshotJSON returns the snapshot as JSON. Equal models produce equal bytes.
func (s *Session) SnapshotJSON() []byte {
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		errors.Logic("marshal snapshot: %v", err)
	}
	return b
}
