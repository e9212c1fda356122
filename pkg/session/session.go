// Package session provides the editing session that owns a net graph.
//
// A [Session] bundles everything one user edits at a time:
//   - the circuit registry (net classes, net signals, components)
//   - the sheets (schematic pages and boards) with their net segments
//   - the undo stack through which every change flows
//
// The session is single-threaded. Operations run synchronously on the
// caller's goroutine and no two operations ever overlap.
//
// # Usage
//
//	sess := session.New(session.Options{})
//	sheet := sess.AddSheet("Main", netgraph.SheetSchematic)
//	_, err := sess.PlaceComponent(sheet, "U1", []session.PinSpec{
//	    {Name: "VCC", Position: geom.Pt(0, 0), ForcedNetName: "VCC"},
//	})
//
// Interactive tools then build command groups against sess.Stack.
package session

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/circuit"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/observability"
	"github.com/matzehuels/netedit/pkg/undo"
)

// DefaultNetClass is the class of implicitly created net signals.
const DefaultNetClass = "default"

// Options configures a new session.
type Options struct {
	// DefaultNetClass names the class of implicitly created signals.
	// Empty selects [DefaultNetClass].
	DefaultNetClass string

	// AutoNamePrefix is the prefix of auto-generated net names.
	// Empty selects circuit.DefaultAutoPrefix.
	AutoNamePrefix string
}

// Session is one editing session.
type Session struct {
	Circuit *circuit.Circuit
	Stack   *undo.Stack

	sheets       []*netgraph.Sheet
	defaultClass string
}

// New creates an empty session.
func New(opts Options) *Session {
	class := opts.DefaultNetClass
	if class == "" {
		class = DefaultNetClass
	}
	return &Session{
		Circuit:      circuit.New(opts.AutoNamePrefix),
		Stack:        undo.NewStack(),
		defaultClass: class,
	}
}

// AddSheet adds an editing surface. Sheets are not part of the undo history.
func (s *Session) AddSheet(name string, kind netgraph.SheetKind) *netgraph.Sheet {
	sh := netgraph.NewSheet(name, kind)
	s.sheets = append(s.sheets, sh)
	return sh
}

// Sheets returns all sheets in creation order.
func (s *Session) Sheets() []*netgraph.Sheet { return slices.Clone(s.sheets) }

// Sheet returns the sheet with the given name, or nil.
func (s *Session) Sheet(name string) *netgraph.Sheet {
	for _, sh := range s.sheets {
		if sh.Name == name {
			return sh
		}
	}
	return nil
}

// =============================================================================
// Signal helpers used inside command groups
// =============================================================================

// DefaultClass returns the default net class, adding it to g when missing.
func (s *Session) DefaultClass(g *undo.Group) (uuid.UUID, error) {
	if nc := s.Circuit.NetClassByName(s.defaultClass); nc != nil {
		return nc.ID, nil
	}
	add := circuit.NewCmdNetClassAdd(s.Circuit, s.defaultClass)
	if err := g.Exec(add); err != nil {
		return uuid.Nil, err
	}
	return add.Class().ID, nil
}

// NewSignal adds a net signal of the default class to g. An empty name
// requests an auto-generated one.
func (s *Session) NewSignal(g *undo.Group, name string) (*circuit.NetSignal, error) {
	class, err := s.DefaultClass(g)
	if err != nil {
		return nil, err
	}
	add := circuit.NewCmdNetSignalAdd(s.Circuit, class, name)
	if err := g.Exec(add); err != nil {
		return nil, err
	}
	return add.Signal(), nil
}

// NewSignalLike adds an auto-named net signal to g that belongs to the net
// class of the signal like. An unknown like falls back to the default class.
func (s *Session) NewSignalLike(g *undo.Group, like uuid.UUID) (*circuit.NetSignal, error) {
	old := s.Circuit.NetSignal(like)
	if old == nil {
		return s.NewSignal(g, "")
	}
	add := circuit.NewCmdNetSignalAdd(s.Circuit, old.Class, "")
	if err := g.Exec(add); err != nil {
		return nil, err
	}
	return add.Signal(), nil
}

// SignalByNameOrNew returns the signal with the given name, adding it to g
// when it does not exist yet.
func (s *Session) SignalByNameOrNew(g *undo.Group, name string) (uuid.UUID, error) {
	if sig := s.Circuit.NetSignalByName(name); sig != nil {
		return sig.ID, nil
	}
	sig, err := s.NewSignal(g, name)
	if err != nil {
		return uuid.Nil, err
	}
	return sig.ID, nil
}

// =============================================================================
// Queries across sheets
// =============================================================================

// IsSignalUsed reports whether a component terminal or a non-empty segment
// on any sheet references the signal.
func (s *Session) IsSignalUsed(signal uuid.UUID) bool {
	if s.Circuit.IsUsedByComponents(signal) {
		return true
	}
	for _, sh := range s.sheets {
		for _, seg := range sh.SegmentsOfSignal(signal) {
			if !seg.IsEmpty() {
				return true
			}
		}
	}
	return false
}

// SignalReferences counts the segments on all sheets and the component
// terminals that reference a signal.
func (s *Session) SignalReferences(signal uuid.UUID) int {
	n := len(s.Circuit.SignalInstancesOf(signal))
	for _, sh := range s.sheets {
		n += len(sh.SegmentsOfSignal(signal))
	}
	return n
}

// PinsOf returns the pins of a component terminal on every sheet.
func (s *Session) PinsOf(signalInstance uuid.UUID) []SheetPin {
	var out []SheetPin
	for _, sh := range s.sheets {
		for _, p := range sh.Pins() {
			if p.Signal == signalInstance {
				out = append(out, SheetPin{Sheet: sh, Pin: p})
			}
		}
	}
	return out
}

// SheetPin is a pin together with the sheet it is placed on.
type SheetPin struct {
	Sheet *netgraph.Sheet
	Pin   *netgraph.Pin
}

// Highlight reports the signals touched by an in-progress operation.
func (s *Session) Highlight(signals ...uuid.UUID) {
	observability.Highlight().OnHighlight(signals)
}

// =============================================================================
// Components
// =============================================================================

// PinSpec declares one pin of a placed symbol.
type PinSpec struct {
	Name          string
	Position      geom.Point
	ForcedNetName string
}

// PlaceComponent places a symbol of the named component on sheet as one
// undoable transaction. The component is created on first placement; later
// placements, typically footprints on a board, reuse its terminals by name.
func (s *Session) PlaceComponent(sheet *netgraph.Sheet, name string, pins []PinSpec) (*netgraph.Symbol, error) {
	var sym *netgraph.Symbol
	g := undo.NewCompound("Add Component "+name, func(g *undo.Group) error {
		ci := s.Circuit.ComponentByName(name)
		if ci == nil {
			terminals := make([]string, 0, len(pins))
			forced := make(map[string]string)
			for _, p := range pins {
				terminals = append(terminals, p.Name)
				if p.ForcedNetName != "" {
					forced[p.Name] = p.ForcedNetName
				}
			}
			add := circuit.NewCmdComponentAdd(s.Circuit, name, terminals, forced)
			if err := g.Exec(add); err != nil {
				return err
			}
			ci = add.Component()
		}

		byName := make(map[string]uuid.UUID, len(ci.Signals))
		for _, id := range ci.Signals {
			byName[s.Circuit.SignalInstance(id).Name] = id
		}
		add := netgraph.NewCmdSymbolAdd(sheet, ci.ID, name)
		for _, p := range pins {
			id, ok := byName[p.Name]
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "component %s has no signal %q", name, p.Name)
			}
			add.AddPin(id, p.Name, p.Position)
		}
		sym = add.Symbol()
		return g.Exec(add)
	})
	if _, err := s.Stack.Execute(g); err != nil {
		return nil, err
	}
	return sym, nil
}

// AddPlane adds a plane filled with an existing net to a board sheet as one
// undoable transaction. Planes do not keep their net alive: once nothing
// else references the net, garbage collection removes both.
func (s *Session) AddPlane(sheet *netgraph.Sheet, net string) (*netgraph.Plane, error) {
	var plane *netgraph.Plane
	g := undo.NewCompound("Add Plane", func(g *undo.Group) error {
		sig := s.Circuit.NetSignalByName(net)
		if sig == nil {
			return errors.New(errors.ErrCodeInvalidInput, "net %q does not exist", net)
		}
		add := netgraph.NewCmdPlaneAdd(sheet, sig.ID, net)
		plane = add.Plane()
		return g.Exec(add)
	})
	if _, err := s.Stack.Execute(g); err != nil {
		return nil, err
	}
	return plane, nil
}
