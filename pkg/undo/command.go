// Package undo implements atomic, reversible model changes.
//
// A [Command] is the smallest reversible unit. A [Group] owns an ordered list
// of child commands and applies them as one transaction: when any child fails
// or panics, every child that already ran is undone in reverse order before
// the failure reaches the caller. The [Stack] keeps the undo history and at
// most one open group that is being built interactively.
//
// # Error Channels
//
// Execute returns user-actionable failures as errors. Invariant breaches are
// raised as panics through [errors.Logic]; groups recover such panics only to
// roll back and then re-panic, so the model is never left half applied.
//
// # Example
//
//	g := undo.NewCompound("Draw Wire", func(g *undo.Group) error {
//	    if err := g.Exec(addSegment); err != nil {
//	        return err
//	    }
//	    return g.Exec(addElements)
//	})
//	changed, err := stack.Execute(g)
//
// [errors.Logic]: github.com/matzehuels/netedit/pkg/errors.Logic
package undo

import "fmt"

// Command is an atomic, reversible change.
//
// Execute applies the change for the first time and reports whether the model
// actually changed. A command that reports no change is never undone. After a
// successful Execute the command alternates between Undo and Redo.
//
// A failing Execute must leave the model exactly as it found it.
type Command interface {
	Execute() (changed bool, err error)
	Undo()
	Redo()
}

// Titled is implemented by commands that carry a user-visible title.
type Titled interface {
	Title() string
}

// TitleOf returns the title of cmd, falling back to its type name.
func TitleOf(cmd Command) string {
	if t, ok := cmd.(Titled); ok {
		return t.Title()
	}
	return fmt.Sprintf("%T", cmd)
}

// Func adapts a pair of closures into a [Command]. Do is used for both
// Execute and Redo, so it must be repeatable.
type Func struct {
	Name string
	Do   func()
	Back func()
}

// Title returns the name of the command.
func (f *Func) Title() string { return f.Name }

// Execute runs Do and always reports a change.
func (f *Func) Execute() (bool, error) {
	f.Do()
	return true, nil
}

// Undo runs Back.
func (f *Func) Undo() { f.Back() }

// Redo runs Do again.
func (f *Func) Redo() { f.Do() }
