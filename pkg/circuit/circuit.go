// Package circuit is the net signal registry of an editing session.
//
// It owns the electrical identities that outlive any single sheet:
//   - [NetClass]: a named policy bucket for signals
//   - [NetSignal]: a named net; names are unique across the circuit
//   - [ComponentInstance] and its [SignalInstance] terminals, which may
//     reference a net signal and may force the name of the net they join
//
// The registry is mutated only through the commands in commands.go so that
// every change is undoable. Lookups are plain methods.
package circuit

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// DefaultAutoPrefix is the prefix of auto-generated net names.
const DefaultAutoPrefix = "N"

// NetClass is a named grouping of net signals.
type NetClass struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NetSignal is a named electrical net.
type NetSignal struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	AutoName bool      `json:"auto_name"`
	Class    uuid.UUID `json:"class"`
}

// ComponentInstance is a placed component of the circuit.
type ComponentInstance struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Signals []uuid.UUID `json:"signals"`
}

// SignalInstance is one electrical terminal of a component instance.
// NetSignal is uuid.Nil while the terminal is unconnected.
type SignalInstance struct {
	ID            uuid.UUID `json:"id"`
	Component     uuid.UUID `json:"component"`
	Name          string    `json:"name"`
	ForcedNetName string    `json:"forced_net_name,omitempty"`
	NetSignal     uuid.UUID `json:"net_signal"`
}

// IsConnected reports whether the terminal references a net signal.
func (s *SignalInstance) IsConnected() bool { return s.NetSignal != uuid.Nil }

// Circuit holds all net classes, net signals and component instances.
type Circuit struct {
	classes    map[uuid.UUID]*NetClass
	signals    map[uuid.UUID]*NetSignal
	components map[uuid.UUID]*ComponentInstance
	instances  map[uuid.UUID]*SignalInstance
	autoPrefix string
}

// New creates an empty circuit. An empty prefix selects [DefaultAutoPrefix].
func New(autoPrefix string) *Circuit {
	if autoPrefix == "" {
		autoPrefix = DefaultAutoPrefix
	}
	return &Circuit{
		classes:    make(map[uuid.UUID]*NetClass),
		signals:    make(map[uuid.UUID]*NetSignal),
		components: make(map[uuid.UUID]*ComponentInstance),
		instances:  make(map[uuid.UUID]*SignalInstance),
		autoPrefix: autoPrefix,
	}
}

// NetClass returns the class with the given ID, or nil.
func (c *Circuit) NetClass(id uuid.UUID) *NetClass { return c.classes[id] }

// NetClassByName returns the class with the given name, or nil.
func (c *Circuit) NetClassByName(name string) *NetClass {
	for _, nc := range c.classes {
		if nc.Name == name {
			return nc
		}
	}
	return nil
}

// NetSignal returns the signal with the given ID, or nil.
func (c *Circuit) NetSignal(id uuid.UUID) *NetSignal { return c.signals[id] }

// NetSignalByName returns the signal with the given name, or nil.
func (c *Circuit) NetSignalByName(name string) *NetSignal {
	for _, s := range c.signals {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// NetSignals returns all signals sorted by name.
func (c *Circuit) NetSignals() []*NetSignal {
	out := make([]*NetSignal, 0, len(c.signals))
	for _, s := range c.signals {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *NetSignal) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// SignalsOfClass returns the signals of a net class sorted by name.
func (c *Circuit) SignalsOfClass(class uuid.UUID) []*NetSignal {
	var out []*NetSignal
	for _, s := range c.NetSignals() {
		if s.Class == class {
			out = append(out, s)
		}
	}
	return out
}

// Component returns the component instance with the given ID, or nil.
func (c *Circuit) Component(id uuid.UUID) *ComponentInstance { return c.components[id] }

// ComponentByName returns the component instance with the given name, or nil.
func (c *Circuit) ComponentByName(name string) *ComponentInstance {
	for _, ci := range c.components {
		if ci.Name == name {
			return ci
		}
	}
	return nil
}

// Components returns all component instances sorted by name.
func (c *Circuit) Components() []*ComponentInstance {
	out := make([]*ComponentInstance, 0, len(c.components))
	for _, ci := range c.components {
		out = append(out, ci)
	}
	slices.SortFunc(out, func(a, b *ComponentInstance) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// SignalInstance returns the component terminal with the given ID, or nil.
func (c *Circuit) SignalInstance(id uuid.UUID) *SignalInstance { return c.instances[id] }

// SignalInstancesOf returns all component terminals connected to a net signal.
func (c *Circuit) SignalInstancesOf(net uuid.UUID) []*SignalInstance {
	var out []*SignalInstance
	for _, si := range c.instances {
		if si.NetSignal == net {
			out = append(out, si)
		}
	}
	slices.SortFunc(out, func(a, b *SignalInstance) int {
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

// IsUsedByComponents reports whether any component terminal references net.
func (c *Circuit) IsUsedByComponents(net uuid.UUID) bool {
	for _, si := range c.instances {
		if si.NetSignal == net {
			return true
		}
	}
	return false
}

// AutoNetName returns the first free "<prefix><n>" name, counting from 1.
func (c *Circuit) AutoNetName() string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", c.autoPrefix, i)
		if c.NetSignalByName(name) == nil {
			return name
		}
	}
}

// SignalName returns the name of a net signal, or "?" if it does not exist.
func (c *Circuit) SignalName(net uuid.UUID) string {
	if s := c.signals[net]; s != nil {
		return s.Name
	}
	return "?"
}

// TerminalName returns "<component>.<signal>" for a component terminal.
func (c *Circuit) TerminalName(instance uuid.UUID) string {
	si := c.instances[instance]
	if si == nil {
		return "?"
	}
	if ci := c.components[si.Component]; ci != nil {
		return ci.Name + "." + si.Name
	}
	return si.Name
}

// ForcedNetName returns the net name forced by a component terminal, if any.
func (c *Circuit) ForcedNetName(instance uuid.UUID) string {
	if si := c.instances[instance]; si != nil {
		return si.ForcedNetName
	}
	return ""
}
