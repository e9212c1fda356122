package netgraph

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
)

// =============================================================================
// Points
// =============================================================================

// CmdPointEdit moves a net point or changes its pin attachment.
//
// Positions set with immediate=true are written to the model right away so a
// live preview follows the cursor. If such a command is never executed, the
// owner must call [CmdPointEdit.Discard] to restore the original position.
type CmdPointEdit struct {
	sheet *Sheet
	point *NetPoint

	oldPos, newPos geom.Point
	oldPin, newPin uuid.UUID
	executed       bool
}

// NewCmdPointEdit creates an edit command that initially changes nothing.
func NewCmdPointEdit(sheet *Sheet, id uuid.UUID) *CmdPointEdit {
	p := sheet.mustPoint(id)
	return &CmdPointEdit{
		sheet: sheet, point: p,
		oldPos: p.Position, newPos: p.Position,
		oldPin: p.Pin, newPin: p.Pin,
	}
}

func (c *CmdPointEdit) Title() string { return "Edit Net Point" }

// Point returns the edited point.
func (c *CmdPointEdit) Point() *NetPoint { return c.point }

// SetPosition sets the new position, applying it at once when immediate is set.
func (c *CmdPointEdit) SetPosition(pos geom.Point, immediate bool) {
	if c.executed {
		logicf("net point edit already executed")
	}
	c.newPos = pos
	if immediate {
		c.point.Position = pos
	}
}

// AttachPin attaches the point to pin when executed.
func (c *CmdPointEdit) AttachPin(pin uuid.UUID) { c.newPin = pin }

// DetachPin detaches the point from its pin when executed.
func (c *CmdPointEdit) DetachPin() { c.newPin = uuid.Nil }

// Discard reverts immediate changes of a command that was never executed.
func (c *CmdPointEdit) Discard() {
	if !c.executed {
		c.point.Position = c.oldPos
	}
}

func (c *CmdPointEdit) Execute() (bool, error) {
	if c.executed {
		logicf("net point edit executed twice")
	}
	if c.newPin != c.oldPin && c.newPin != uuid.Nil {
		if err := c.sheet.checkPinAvailable(c.newPin, c.point.Segment, c.point.ID); err != nil {
			return false, err
		}
	}
	c.executed = true
	if c.newPos == c.oldPos && c.newPin == c.oldPin {
		return false, nil
	}
	c.Redo()
	return true, nil
}

func (c *CmdPointEdit) Undo() { c.point.Position, c.point.Pin = c.oldPos, c.oldPin }
func (c *CmdPointEdit) Redo() { c.point.Position, c.point.Pin = c.newPos, c.newPin }

// =============================================================================
// Labels
// =============================================================================

// CmdLabelAdd attaches a new label to a segment.
type CmdLabelAdd struct {
	sheet *Sheet
	label *NetLabel
}

// NewCmdLabelAdd creates a command adding a label. forced may be empty.
func NewCmdLabelAdd(sheet *Sheet, segment uuid.UUID, pos geom.Point, rot geom.Angle, forced string) *CmdLabelAdd {
	return &CmdLabelAdd{sheet: sheet, label: &NetLabel{
		ID: uuid.New(), Segment: segment, Position: pos, Rotation: rot.Normalized(), ForcedName: forced,
	}}
}

func (c *CmdLabelAdd) Title() string { return "Add Net Label" }

// Label returns the label added by the command.
func (c *CmdLabelAdd) Label() *NetLabel { return c.label }

func (c *CmdLabelAdd) Execute() (bool, error) {
	c.sheet.mustSegment(c.label.Segment)
	if c.label.ForcedName != "" {
		if err := errors.ValidateNetName(c.label.ForcedName); err != nil {
			return false, err
		}
	}
	c.Redo()
	return true, nil
}

func (c *CmdLabelAdd) Undo() { c.sheet.deleteLabel(c.label) }
func (c *CmdLabelAdd) Redo() { c.sheet.insertLabel(c.label) }

// CmdLabelRemove removes a label.
type CmdLabelRemove struct {
	sheet *Sheet
	label *NetLabel
}

// NewCmdLabelRemove creates a command removing the label with the given ID.
func NewCmdLabelRemove(sheet *Sheet, id uuid.UUID) *CmdLabelRemove {
	l := sheet.labels[id]
	if l == nil {
		logicf("net label %s does not exist", id)
	}
	return &CmdLabelRemove{sheet: sheet, label: l}
}

func (c *CmdLabelRemove) Title() string { return "Remove Net Label" }

func (c *CmdLabelRemove) Execute() (bool, error) {
	c.Redo()
	return true, nil
}

func (c *CmdLabelRemove) Undo() { c.sheet.insertLabel(c.label) }
func (c *CmdLabelRemove) Redo() { c.sheet.deleteLabel(c.label) }

// CmdLabelEdit moves a label, changes its text or assigns it to another segment.
type CmdLabelEdit struct {
	sheet *Sheet
	label *NetLabel
	old   NetLabel
	new   NetLabel
}

// NewCmdLabelEdit creates an edit command that initially changes nothing.
func NewCmdLabelEdit(sheet *Sheet, id uuid.UUID) *CmdLabelEdit {
	l := sheet.labels[id]
	if l == nil {
		logicf("net label %s does not exist", id)
	}
	return &CmdLabelEdit{sheet: sheet, label: l, old: *l, new: *l}
}

func (c *CmdLabelEdit) Title() string { return "Edit Net Label" }

// SetSegment moves the label to another segment.
func (c *CmdLabelEdit) SetSegment(seg uuid.UUID) *CmdLabelEdit { c.new.Segment = seg; return c }

// SetPosition moves the label.
func (c *CmdLabelEdit) SetPosition(pos geom.Point) *CmdLabelEdit { c.new.Position = pos; return c }

// SetRotation rotates the label.
func (c *CmdLabelEdit) SetRotation(rot geom.Angle) *CmdLabelEdit {
	c.new.Rotation = rot.Normalized()
	return c
}

// SetForcedName changes the forced net name. Empty clears it.
func (c *CmdLabelEdit) SetForcedName(name string) *CmdLabelEdit { c.new.ForcedName = name; return c }

func (c *CmdLabelEdit) Execute() (bool, error) {
	c.sheet.mustSegment(c.new.Segment)
	if c.new.ForcedName != "" && c.new.ForcedName != c.old.ForcedName {
		if err := errors.ValidateNetName(c.new.ForcedName); err != nil {
			return false, err
		}
	}
	if c.new == c.old {
		return false, nil
	}
	c.Redo()
	return true, nil
}

func (c *CmdLabelEdit) Undo() { c.apply(c.old) }
func (c *CmdLabelEdit) Redo() { c.apply(c.new) }

func (c *CmdLabelEdit) apply(v NetLabel) {
	if v.Segment != c.label.Segment {
		c.sheet.deleteLabel(c.label)
		*c.label = v
		c.sheet.insertLabel(c.label)
		return
	}
	*c.label = v
}

// =============================================================================
// Symbols
// =============================================================================

// CmdSymbolAdd places a symbol with its pins.
type CmdSymbolAdd struct {
	sheet  *Sheet
	symbol *Symbol
	pins   []*Pin
}

// NewCmdSymbolAdd creates a command placing a symbol of component. Pins are
// declared with [CmdSymbolAdd.AddPin].
func NewCmdSymbolAdd(sheet *Sheet, component uuid.UUID, name string) *CmdSymbolAdd {
	return &CmdSymbolAdd{sheet: sheet, symbol: &Symbol{ID: uuid.New(), Component: component, Name: name}}
}

func (c *CmdSymbolAdd) Title() string { return "Add Symbol" }

// Symbol returns the symbol added by the command.
func (c *CmdSymbolAdd) Symbol() *Symbol { return c.symbol }

// AddPin declares a pin for the component signal instance signal.
func (c *CmdSymbolAdd) AddPin(signal uuid.UUID, name string, pos geom.Point) *Pin {
	p := &Pin{ID: uuid.New(), Symbol: c.symbol.ID, Component: c.symbol.Component, Signal: signal, Name: name, Position: pos}
	c.symbol.Pins = append(c.symbol.Pins, p.ID)
	c.pins = append(c.pins, p)
	return p
}

func (c *CmdSymbolAdd) Execute() (bool, error) {
	c.symbol.seq = c.sheet.nextSeq()
	c.Redo()
	return true, nil
}

func (c *CmdSymbolAdd) Undo() {
	for _, p := range c.pins {
		delete(c.sheet.pins, p.ID)
	}
	delete(c.sheet.symbols, c.symbol.ID)
}

func (c *CmdSymbolAdd) Redo() {
	c.sheet.symbols[c.symbol.ID] = c.symbol
	for _, p := range c.pins {
		c.sheet.pins[p.ID] = p
	}
}

// CmdSymbolRemove removes a symbol. None of its pins may be connected.
type CmdSymbolRemove struct {
	sheet  *Sheet
	symbol *Symbol
	pins   []*Pin
}

// NewCmdSymbolRemove creates a command removing the symbol with the given ID.
func NewCmdSymbolRemove(sheet *Sheet, id uuid.UUID) *CmdSymbolRemove {
	sym := sheet.symbols[id]
	if sym == nil {
		logicf("symbol %s does not exist", id)
	}
	c := &CmdSymbolRemove{sheet: sheet, symbol: sym}
	for _, pid := range sym.Pins {
		c.pins = append(c.pins, sheet.pins[pid])
	}
	return c
}

func (c *CmdSymbolRemove) Title() string { return "Remove Symbol" }

func (c *CmdSymbolRemove) Execute() (bool, error) {
	for _, p := range c.pins {
		if c.sheet.IsPinConnected(p.ID) {
			logicf("pin %s of symbol %s is still connected", p.Name, c.symbol.Name)
		}
	}
	c.Redo()
	return true, nil
}

func (c *CmdSymbolRemove) Undo() {
	c.sheet.symbols[c.symbol.ID] = c.symbol
	for _, p := range c.pins {
		c.sheet.pins[p.ID] = p
	}
}

func (c *CmdSymbolRemove) Redo() {
	for _, p := range c.pins {
		delete(c.sheet.pins, p.ID)
	}
	delete(c.sheet.symbols, c.symbol.ID)
}

// =============================================================================
// Planes
// =============================================================================

// CmdPlaneAdd adds a plane to a board sheet.
type CmdPlaneAdd struct {
	sheet *Sheet
	plane *Plane
}

// NewCmdPlaneAdd creates a command adding a plane filled with signal.
func NewCmdPlaneAdd(sheet *Sheet, signal uuid.UUID, name string) *CmdPlaneAdd {
	return &CmdPlaneAdd{sheet: sheet, plane: &Plane{ID: uuid.New(), Signal: signal, Name: name}}
}

func (c *CmdPlaneAdd) Title() string { return "Add Plane" }

// Plane returns the plane added by the command.
func (c *CmdPlaneAdd) Plane() *Plane { return c.plane }

func (c *CmdPlaneAdd) Execute() (bool, error) {
	if c.sheet.Kind != SheetBoard {
		return false, errors.New(errors.ErrCodeUnsupported, "planes can only be added to boards")
	}
	c.Redo()
	return true, nil
}

func (c *CmdPlaneAdd) Undo() { delete(c.sheet.planes, c.plane.ID) }
func (c *CmdPlaneAdd) Redo() { c.sheet.planes[c.plane.ID] = c.plane }

// CmdPlaneRemove removes a plane.
type CmdPlaneRemove struct {
	sheet *Sheet
	plane *Plane
}

// NewCmdPlaneRemove creates a command removing the plane with the given ID.
func NewCmdPlaneRemove(sheet *Sheet, id uuid.UUID) *CmdPlaneRemove {
	p := sheet.planes[id]
	if p == nil {
		logicf("plane %s does not exist", id)
	}
	return &CmdPlaneRemove{sheet: sheet, plane: p}
}

func (c *CmdPlaneRemove) Title() string { return "Remove Plane" }

func (c *CmdPlaneRemove) Execute() (bool, error) {
	c.Redo()
	return true, nil
}

func (c *CmdPlaneRemove) Undo() { c.sheet.planes[c.plane.ID] = c.plane }
func (c *CmdPlaneRemove) Redo() { delete(c.sheet.planes, c.plane.ID) }
