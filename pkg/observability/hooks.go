// Package observability provides hooks for transaction and highlight events.
//
// The editing core stays passive: it never draws, logs to a terminal or
// talks to a UI. Instead it reports what happened through the hook
// interfaces below, and the application registers implementations at startup.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTransactionHooks(&logHooks{logger})
//	    observability.SetHighlightHooks(&viewHighlighter{})
//	    // ... run application
//	}
//
// The undo stack and the editor emit events:
//
//	observability.Transaction().OnExecute("Draw Wire", elapsed)
//	observability.Highlight().OnHighlight(signalIDs)
package observability

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Transaction Hooks
// =============================================================================

// TransactionHooks receives events from the undo stack.
type TransactionHooks interface {
	// OnExecute records a transaction that changed the model and was pushed
	// onto the undo history.
	OnExecute(title string, duration time.Duration)

	// OnUndo and OnRedo record history navigation.
	OnUndo(title string)
	OnRedo(title string)

	// OnAbort records an open group that was rolled back by the user.
	OnAbort(title string)

	// OnFailure records a transaction that was rolled back because of an error.
	OnFailure(title string, err error)
}

// =============================================================================
// Highlight Hooks
// =============================================================================

// HighlightHooks receives the net signals touched by an in-progress operation.
type HighlightHooks interface {
	// OnHighlight replaces the highlighted signal set. An empty slice clears it.
	OnHighlight(signals []uuid.UUID)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTransactionHooks is a no-op implementation of TransactionHooks.
type NoopTransactionHooks struct{}

func (NoopTransactionHooks) OnExecute(string, time.Duration) {}
func (NoopTransactionHooks) OnUndo(string)                   {}
func (NoopTransactionHooks) OnRedo(string)                   {}
func (NoopTransactionHooks) OnAbort(string)                  {}
func (NoopTransactionHooks) OnFailure(string, error)         {}

// NoopHighlightHooks is a no-op implementation of HighlightHooks.
type NoopHighlightHooks struct{}

func (NoopHighlightHooks) OnHighlight([]uuid.UUID) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	transactionHooks TransactionHooks = NoopTransactionHooks{}
	highlightHooks   HighlightHooks   = NoopHighlightHooks{}
	hooksMu          sync.RWMutex
)

// SetTransactionHooks registers custom transaction hooks.
func SetTransactionHooks(h TransactionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transactionHooks = h
	}
}

// SetHighlightHooks registers custom highlight hooks.
func SetHighlightHooks(h HighlightHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		highlightHooks = h
	}
}

// Transaction returns the registered transaction hooks.
func Transaction() TransactionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transactionHooks
}

// Highlight returns the registered highlight hooks.
func Highlight() HighlightHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return highlightHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	transactionHooks = NoopTransactionHooks{}
	highlightHooks = NoopHighlightHooks{}
}
