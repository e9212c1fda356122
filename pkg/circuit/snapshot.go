package circuit

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Snapshot is a deterministic, JSON-marshalable copy of the registry.
type Snapshot struct {
	Classes    []NetClass          `json:"classes"`
	Signals    []NetSignal         `json:"signals"`
	Components []ComponentInstance `json:"components"`
	Terminals  []SignalInstance    `json:"terminals"`
}

// Snapshot copies the registry, sorted by ID. Empty collections are empty
// slices, never nil.
func (c *Circuit) Snapshot() Snapshot {
	s := Snapshot{
		Classes:    make([]NetClass, 0, len(c.classes)),
		Signals:    make([]NetSignal, 0, len(c.signals)),
		Components: make([]ComponentInstance, 0, len(c.components)),
		Terminals:  make([]SignalInstance, 0, len(c.instances)),
	}
	for _, nc := range c.classes {
		s.Classes = append(s.Classes, *nc)
	}
	for _, ns := range c.signals {
		s.Signals = append(s.Signals, *ns)
	}
	for _, ci := range c.components {
		cp := *ci
		cp.Signals = append(make([]uuid.UUID, 0, len(ci.Signals)), ci.Signals...)
		s.Components = append(s.Components, cp)
	}
	for _, si := range c.instances {
		s.Terminals = append(s.Terminals, *si)
	}
	slices.SortFunc(s.Classes, func(a, b NetClass) int { return cmp.Compare(a.ID.String(), b.ID.String()) })
	slices.SortFunc(s.Signals, func(a, b NetSignal) int { return cmp.Compare(a.ID.String(), b.ID.String()) })
	slices.SortFunc(s.Components, func(a, b ComponentInstance) int { return cmp.Compare(a.ID.String(), b.ID.String()) })
	slices.SortFunc(s.Terminals, func(a, b SignalInstance) int { return cmp.Compare(a.ID.String(), b.ID.String()) })
	return s
}
