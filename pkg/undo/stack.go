package undo

import (
	"time"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/observability"
)

// Stack is the undo history of one editing session.
//
// Besides executing finished commands, a stack can hold one open group that
// is built step by step while the user interacts. Children appended to the
// open group are applied immediately, so the model always shows the current
// preview. Committing pushes the group as a single history entry; aborting
// reverts it.
type Stack struct {
	history []Command
	current int

	open      *Group
	openSince time.Time
}

// NewStack creates an empty undo stack.
func NewStack() *Stack {
	return &Stack{}
}

// Execute runs cmd and pushes it onto the history if it changed the model.
// Entries that could be redone are discarded.
func (s *Stack) Execute(cmd Command) (bool, error) {
	if s.open != nil {
		errors.Logic("cannot execute %q while group %q is open", TitleOf(cmd), s.open.title)
	}
	start := time.Now()
	changed, err := cmd.Execute()
	if err != nil {
		observability.Transaction().OnFailure(TitleOf(cmd), err)
		return false, err
	}
	if !changed {
		return false, nil
	}
	s.push(cmd)
	observability.Transaction().OnExecute(TitleOf(cmd), time.Since(start))
	return true, nil
}

// BeginGroup opens a new group. Only one group can be open at a time.
func (s *Stack) BeginGroup(title string) {
	if s.open != nil {
		errors.Logic("group %q is already open", s.open.title)
	}
	s.open = &Group{title: title, started: true}
	s.openSince = time.Now()
}

// AppendToGroup executes cmd as the next child of the open group.
// On error the group stays open with its previous children applied; the
// caller decides whether to abort it. A panic aborts the group.
func (s *Stack) AppendToGroup(cmd Command) error {
	if s.open == nil {
		errors.Logic("no open group to append %q to", TitleOf(cmd))
	}
	defer func() {
		if r := recover(); r != nil {
			s.AbortGroup()
			panic(r)
		}
	}()
	return s.open.Exec(cmd)
}

// CommitGroup closes the open group and pushes it onto the history. A group
// without effective children is discarded and reported as unchanged.
func (s *Stack) CommitGroup() bool {
	if s.open == nil {
		errors.Logic("no open group to commit")
	}
	g := s.open
	s.open = nil
	if g.Len() == 0 {
		return false
	}
	s.push(g)
	observability.Transaction().OnExecute(g.title, time.Since(s.openSince))
	return true
}

// AbortGroup reverts all children of the open group in reverse order and
// closes it. Aborting without an open group does nothing.
func (s *Stack) AbortGroup() {
	if s.open == nil {
		return
	}
	g := s.open
	s.open = nil
	g.rollback()
	observability.Transaction().OnAbort(g.title)
}

// Undo reverts the most recent history entry.
func (s *Stack) Undo() error {
	if s.open != nil {
		return errors.Runtime("cannot undo while %q is in progress", s.open.title)
	}
	if !s.CanUndo() {
		return errors.Runtime("nothing to undo")
	}
	s.current--
	cmd := s.history[s.current]
	cmd.Undo()
	observability.Transaction().OnUndo(TitleOf(cmd))
	return nil
}

// Redo re-applies the most recently undone entry.
func (s *Stack) Redo() error {
	if s.open != nil {
		return errors.Runtime("cannot redo while %q is in progress", s.open.title)
	}
	if !s.CanRedo() {
		return errors.Runtime("nothing to redo")
	}
	cmd := s.history[s.current]
	cmd.Redo()
	s.current++
	observability.Transaction().OnRedo(TitleOf(cmd))
	return nil
}

// CanUndo reports whether there is an entry to undo.
func (s *Stack) CanUndo() bool { return s.current > 0 }

// CanRedo reports whether there is an entry to redo.
func (s *Stack) CanRedo() bool { return s.current < len(s.history) }

// IsGroupActive reports whether a group is open.
func (s *Stack) IsGroupActive() bool { return s.open != nil }

// Titles returns the titles of the applied history entries, oldest first.
func (s *Stack) Titles() []string {
	titles := make([]string, 0, s.current)
	for _, cmd := range s.history[:s.current] {
		titles = append(titles, TitleOf(cmd))
	}
	return titles
}

func (s *Stack) push(cmd Command) {
	s.history = append(s.history[:s.current], cmd)
	s.current++
}
