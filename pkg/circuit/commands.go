package circuit

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
)

// =============================================================================
// Net classes
// =============================================================================

// CmdNetClassAdd adds a net class.
type CmdNetClassAdd struct {
	c     *Circuit
	class *NetClass
}

// NewCmdNetClassAdd creates a command adding a class with a fresh ID.
func NewCmdNetClassAdd(c *Circuit, name string) *CmdNetClassAdd {
	return &CmdNetClassAdd{c: c, class: &NetClass{ID: uuid.New(), Name: name}}
}

func (cmd *CmdNetClassAdd) Title() string { return "Add Net Class" }

// Class returns the class added by the command.
func (cmd *CmdNetClassAdd) Class() *NetClass { return cmd.class }

func (cmd *CmdNetClassAdd) Execute() (bool, error) {
	if cmd.c.NetClassByName(cmd.class.Name) != nil {
		return false, errors.New(errors.ErrCodeDuplicateName, "net class %q already exists", cmd.class.Name)
	}
	cmd.Redo()
	return true, nil
}

func (cmd *CmdNetClassAdd) Undo() { delete(cmd.c.classes, cmd.class.ID) }
func (cmd *CmdNetClassAdd) Redo() { cmd.c.classes[cmd.class.ID] = cmd.class }

// =============================================================================
// Net signals
// =============================================================================

// CmdNetSignalAdd adds a net signal. An empty name requests an auto-generated
// name, which is chosen when the command executes.
type CmdNetSignalAdd struct {
	c      *Circuit
	signal *NetSignal
}

// NewCmdNetSignalAdd creates a command adding a signal to class.
func NewCmdNetSignalAdd(c *Circuit, class uuid.UUID, name string) *CmdNetSignalAdd {
	return &CmdNetSignalAdd{c: c, signal: &NetSignal{
		ID:       uuid.New(),
		Name:     name,
		AutoName: name == "",
		Class:    class,
	}}
}

func (cmd *CmdNetSignalAdd) Title() string { return "Add Net Signal" }

// Signal returns the signal added by the command.
func (cmd *CmdNetSignalAdd) Signal() *NetSignal { return cmd.signal }

func (cmd *CmdNetSignalAdd) Execute() (bool, error) {
	if cmd.c.NetClass(cmd.signal.Class) == nil {
		errors.Logic("net class %s does not exist", cmd.signal.Class)
	}
	if cmd.signal.AutoName {
		cmd.signal.Name = cmd.c.AutoNetName()
	}
	if err := errors.ValidateNetName(cmd.signal.Name); err != nil {
		return false, err
	}
	if cmd.c.NetSignalByName(cmd.signal.Name) != nil {
		return false, errors.New(errors.ErrCodeDuplicateName, "net signal %q already exists", cmd.signal.Name)
	}
	cmd.Redo()
	return true, nil
}

func (cmd *CmdNetSignalAdd) Undo() { delete(cmd.c.signals, cmd.signal.ID) }
func (cmd *CmdNetSignalAdd) Redo() { cmd.c.signals[cmd.signal.ID] = cmd.signal }

// CmdNetSignalRemove removes a net signal that no component terminal uses.
type CmdNetSignalRemove struct {
	c      *Circuit
	signal *NetSignal
}

// NewCmdNetSignalRemove creates a command removing the signal with the given ID.
func NewCmdNetSignalRemove(c *Circuit, id uuid.UUID) *CmdNetSignalRemove {
	s := c.NetSignal(id)
	if s == nil {
		errors.Logic("net signal %s does not exist", id)
	}
	return &CmdNetSignalRemove{c: c, signal: s}
}

func (cmd *CmdNetSignalRemove) Title() string { return "Remove Net Signal" }

func (cmd *CmdNetSignalRemove) Execute() (bool, error) {
	if cmd.c.IsUsedByComponents(cmd.signal.ID) {
		errors.Logic("net signal %q is still used by component signals", cmd.signal.Name)
	}
	cmd.Redo()
	return true, nil
}

func (cmd *CmdNetSignalRemove) Undo() { cmd.c.signals[cmd.signal.ID] = cmd.signal }
func (cmd *CmdNetSignalRemove) Redo() { delete(cmd.c.signals, cmd.signal.ID) }

// CmdNetSignalEdit changes the name or class of a net signal.
type CmdNetSignalEdit struct {
	c      *Circuit
	signal *NetSignal

	oldName, newName   string
	oldAuto, newAuto   bool
	oldClass, newClass uuid.UUID
}

// NewCmdNetSignalEdit creates an edit command that initially changes nothing.
func NewCmdNetSignalEdit(c *Circuit, id uuid.UUID) *CmdNetSignalEdit {
	s := c.NetSignal(id)
	if s == nil {
		errors.Logic("net signal %s does not exist", id)
	}
	return &CmdNetSignalEdit{
		c: c, signal: s,
		oldName: s.Name, newName: s.Name,
		oldAuto: s.AutoName, newAuto: s.AutoName,
		oldClass: s.Class, newClass: s.Class,
	}
}

// SetName sets the new name and whether it counts as auto-generated.
func (cmd *CmdNetSignalEdit) SetName(name string, auto bool) *CmdNetSignalEdit {
	cmd.newName, cmd.newAuto = name, auto
	return cmd
}

// SetClass moves the signal to another net class.
func (cmd *CmdNetSignalEdit) SetClass(class uuid.UUID) *CmdNetSignalEdit {
	cmd.newClass = class
	return cmd
}

func (cmd *CmdNetSignalEdit) Title() string { return "Edit Net Signal" }

func (cmd *CmdNetSignalEdit) Execute() (bool, error) {
	if cmd.newName != cmd.oldName {
		if err := errors.ValidateNetName(cmd.newName); err != nil {
			return false, err
		}
		if cmd.c.NetSignalByName(cmd.newName) != nil {
			return false, errors.New(errors.ErrCodeDuplicateName, "net signal %q already exists", cmd.newName)
		}
	}
	if cmd.c.NetClass(cmd.newClass) == nil {
		errors.Logic("net class %s does not exist", cmd.newClass)
	}
	if cmd.newName == cmd.oldName && cmd.newAuto == cmd.oldAuto && cmd.newClass == cmd.oldClass {
		return false, nil
	}
	cmd.Redo()
	return true, nil
}

func (cmd *CmdNetSignalEdit) Undo() {
	cmd.signal.Name, cmd.signal.AutoName, cmd.signal.Class = cmd.oldName, cmd.oldAuto, cmd.oldClass
}

func (cmd *CmdNetSignalEdit) Redo() {
	cmd.signal.Name, cmd.signal.AutoName, cmd.signal.Class = cmd.newName, cmd.newAuto, cmd.newClass
}

// =============================================================================
// Component instances
// =============================================================================

// CmdSignalInstanceSetNet connects a component terminal to a net signal.
// uuid.Nil disconnects it.
type CmdSignalInstanceSetNet struct {
	c        *Circuit
	instance *SignalInstance
	from, to uuid.UUID
}

// NewCmdSignalInstanceSetNet creates a command changing the net of a terminal.
func NewCmdSignalInstanceSetNet(c *Circuit, instance, net uuid.UUID) *CmdSignalInstanceSetNet {
	si := c.SignalInstance(instance)
	if si == nil {
		errors.Logic("signal instance %s does not exist", instance)
	}
	return &CmdSignalInstanceSetNet{c: c, instance: si, from: si.NetSignal, to: net}
}

func (cmd *CmdSignalInstanceSetNet) Title() string { return "Change Component Signal Net" }

func (cmd *CmdSignalInstanceSetNet) Execute() (bool, error) {
	if cmd.to != uuid.Nil && cmd.c.NetSignal(cmd.to) == nil {
		errors.Logic("net signal %s does not exist", cmd.to)
	}
	if cmd.from == cmd.to {
		return false, nil
	}
	cmd.Redo()
	return true, nil
}

func (cmd *CmdSignalInstanceSetNet) Undo() { cmd.instance.NetSignal = cmd.from }
func (cmd *CmdSignalInstanceSetNet) Redo() { cmd.instance.NetSignal = cmd.to }

// CmdComponentAdd adds a component instance with its terminals.
type CmdComponentAdd struct {
	c         *Circuit
	component *ComponentInstance
	instances []*SignalInstance
}

// NewCmdComponentAdd creates a component named name with one unconnected
// terminal per entry of terminals. forced maps terminal names to forced net
// names; it may be nil.
func NewCmdComponentAdd(c *Circuit, name string, terminals []string, forced map[string]string) *CmdComponentAdd {
	ci := &ComponentInstance{ID: uuid.New(), Name: name}
	cmd := &CmdComponentAdd{c: c, component: ci}
	for _, t := range terminals {
		si := &SignalInstance{ID: uuid.New(), Component: ci.ID, Name: t, ForcedNetName: forced[t]}
		ci.Signals = append(ci.Signals, si.ID)
		cmd.instances = append(cmd.instances, si)
	}
	return cmd
}

func (cmd *CmdComponentAdd) Title() string { return "Add Component" }

// Component returns the component added by the command.
func (cmd *CmdComponentAdd) Component() *ComponentInstance { return cmd.component }

// SignalInstances returns the terminals in declaration order.
func (cmd *CmdComponentAdd) SignalInstances() []*SignalInstance { return cmd.instances }

func (cmd *CmdComponentAdd) Execute() (bool, error) {
	if cmd.c.ComponentByName(cmd.component.Name) != nil {
		return false, errors.New(errors.ErrCodeDuplicateName, "component %q already exists", cmd.component.Name)
	}
	for _, si := range cmd.instances {
		if si.ForcedNetName == "" {
			continue
		}
		if err := errors.ValidateNetName(si.ForcedNetName); err != nil {
			return false, errors.Wrap(errors.ErrCodeInvalidNetName, err, "forced net name of %s.%s", cmd.component.Name, si.Name)
		}
	}
	cmd.Redo()
	return true, nil
}

func (cmd *CmdComponentAdd) Undo() {
	for _, si := range cmd.instances {
		delete(cmd.c.instances, si.ID)
	}
	delete(cmd.c.components, cmd.component.ID)
}

func (cmd *CmdComponentAdd) Redo() {
	cmd.c.components[cmd.component.ID] = cmd.component
	for _, si := range cmd.instances {
		cmd.c.instances[si.ID] = si
	}
}

// CmdComponentRemove removes a component instance. All of its terminals must
// be disconnected first.
type CmdComponentRemove struct {
	c         *Circuit
	component *ComponentInstance
	instances []*SignalInstance
}

// NewCmdComponentRemove creates a command removing the component with the given ID.
func NewCmdComponentRemove(c *Circuit, id uuid.UUID) *CmdComponentRemove {
	ci := c.Component(id)
	if ci == nil {
		errors.Logic("component %s does not exist", id)
	}
	cmd := &CmdComponentRemove{c: c, component: ci}
	for _, sid := range ci.Signals {
		cmd.instances = append(cmd.instances, c.SignalInstance(sid))
	}
	return cmd
}

func (cmd *CmdComponentRemove) Title() string { return "Remove Component" }

func (cmd *CmdComponentRemove) Execute() (bool, error) {
	for _, si := range cmd.instances {
		if si.IsConnected() {
			errors.Logic("component signal %s.%s is still connected", cmd.component.Name, si.Name)
		}
	}
	cmd.Redo()
	return true, nil
}

func (cmd *CmdComponentRemove) Undo() {
	cmd.c.components[cmd.component.ID] = cmd.component
	for _, si := range cmd.instances {
		cmd.c.instances[si.ID] = si
	}
}

func (cmd *CmdComponentRemove) Redo() {
	for _, si := range cmd.instances {
		delete(cmd.c.instances, si.ID)
	}
	delete(cmd.c.components, cmd.component.ID)
}
