package undo

import (
	"github.com/matzehuels/netedit/pkg/errors"
)

// Group is an ordered list of child commands executed as one transaction.
//
// Children run in append order on Execute and Redo and in reverse order on
// Undo. Only children that reported a change are kept, so a group whose
// children were all no-ops is itself a no-op.
type Group struct {
	title    string
	pending  []Command
	children []Command
	perform  func(g *Group) error
	started  bool
}

// NewGroup creates a group from a fixed list of children.
func NewGroup(title string, children ...Command) *Group {
	return &Group{title: title, pending: children}
}

// NewCompound creates a group whose children are produced while it executes.
// perform inspects the model and calls [Group.Exec] for each step; later steps
// may depend on the state produced by earlier ones. perform runs once. Redo
// replays the recorded children.
func NewCompound(title string, perform func(g *Group) error) *Group {
	return &Group{title: title, perform: perform}
}

// Title returns the group title.
func (g *Group) Title() string { return g.title }

// Len returns the number of children that changed the model.
func (g *Group) Len() int { return len(g.children) }

// Exec executes cmd immediately as a child of g. Commands that report no
// change are dropped. A failed child is expected to have rolled itself back;
// the children executed before it stay applied until the group fails.
func (g *Group) Exec(cmd Command) error {
	changed, err := cmd.Execute()
	if err != nil {
		return err
	}
	if changed {
		g.children = append(g.children, cmd)
	}
	return nil
}

// Execute runs the pending children followed by the perform function. On
// error or panic all executed children are undone in reverse order.
func (g *Group) Execute() (changed bool, err error) {
	if g.started {
		errors.Logic("group %q executed twice", g.title)
	}
	g.started = true

	defer func() {
		if r := recover(); r != nil {
			g.rollback()
			panic(r)
		}
		if err != nil {
			g.rollback()
			changed = false
		}
	}()

	pending := g.pending
	g.pending = nil
	for _, cmd := range pending {
		if err = g.Exec(cmd); err != nil {
			return false, err
		}
	}
	if g.perform != nil {
		if err = g.perform(g); err != nil {
			return false, err
		}
	}
	return len(g.children) > 0, nil
}

// Undo reverts all children in reverse order.
func (g *Group) Undo() {
	for i := len(g.children) - 1; i >= 0; i-- {
		g.children[i].Undo()
	}
}

// Redo re-applies all children in order.
func (g *Group) Redo() {
	for _, cmd := range g.children {
		cmd.Redo()
	}
}

func (g *Group) rollback() {
	g.Undo()
	g.children = nil
}
