package collab

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/inamate/board/engine-go/internal/document"
)

// historyEntry is one undo step: the operations as applied plus an
// optional selection change.
type historyEntry struct {
	ops             []Operation
	selectionBefore []string
	selectionAfter  []string
	hasSelection    bool
}

func (h *historyEntry) empty() bool {
	return len(h.ops) == 0 && !h.hasSelection
}

// LocalBridge applies engine requests directly to a DocumentState, in the
// order they are made, and keeps an undo history of them. Requests naming
// layers that no longer exist are logged and dropped.
type LocalBridge struct {
	doc *DocumentState
	log *slog.Logger

	// OnOperation is called with every applied operation, including
	// undo and redo. OnPresence is called whenever the local selection
	// changes. Both run on the caller's goroutine after the bridge lock
	// is released.
	OnOperation func(op Operation, serverSeq int64)
	OnPresence  func(selection []string)

	mu        sync.Mutex
	selection []string
	undo      []historyEntry
	redo      []historyEntry
	batch     *historyEntry
	depth     int
}

func NewLocalBridge(doc *DocumentState, logger *slog.Logger) *LocalBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalBridge{doc: doc, log: logger, selection: []string{}}
}

// Document returns the state the bridge writes to.
func (b *LocalBridge) Document() *DocumentState {
	return b.doc
}

// Selection returns the local presence selection.
func (b *LocalBridge) Selection() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.selection)
}

func (b *LocalBridge) SetPresence(selection []string, addToHistory bool) {
	b.mu.Lock()
	before := b.selection
	b.selection = slices.Clone(selection)
	if addToHistory {
		b.recordLocked(historyEntry{
			selectionBefore: before,
			selectionAfter:  slices.Clone(selection),
			hasSelection:    true,
		})
	}
	b.mu.Unlock()

	b.notifyPresence(selection)
}

func (b *LocalBridge) CreateLayer(id string, layer document.Layer) {
	b.submit(NewCreateOperation(id, layer))
}

func (b *LocalBridge) UpdateLayerBounds(id string, bounds document.XYWH) {
	b.submit(NewBoundsOperation(id, bounds))
}

func (b *LocalBridge) DeleteLayer(id string) {
	b.submit(NewDeleteOperation(id))
}

// Batch groups every request made inside fn into a single undo step.
func (b *LocalBridge) Batch(fn func()) {
	b.mu.Lock()
	if b.depth == 0 {
		b.batch = &historyEntry{}
	}
	b.depth++
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.depth--
		if b.depth > 0 {
			return
		}
		entry := b.batch
		b.batch = nil
		if !entry.empty() {
			b.pushUndoLocked(*entry)
		}
	}()

	fn()
}

func (b *LocalBridge) submit(op Operation) {
	applied, seq, err := b.doc.apply(op)
	if err != nil {
		b.log.Warn("dropping operation", "op", op.Type, "layer", op.LayerID, "error", err)
		return
	}

	b.mu.Lock()
	b.recordLocked(historyEntry{ops: []Operation{applied}})
	b.mu.Unlock()

	b.notifyOperation(applied, seq)
}

func (b *LocalBridge) recordLocked(e historyEntry) {
	if b.batch != nil {
		b.batch.ops = append(b.batch.ops, e.ops...)
		if e.hasSelection {
			if !b.batch.hasSelection {
				b.batch.selectionBefore = e.selectionBefore
			}
			b.batch.selectionAfter = e.selectionAfter
			b.batch.hasSelection = true
		}
		return
	}
	b.pushUndoLocked(e)
}

func (b *LocalBridge) pushUndoLocked(e historyEntry) {
	b.undo = append(b.undo, e)
	b.redo = nil
}

func (b *LocalBridge) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.undo) > 0
}

func (b *LocalBridge) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.redo) > 0
}

// Undo reverts the latest history entry. Operations that can no longer be
// reverted (their layer is gone) are skipped.
func (b *LocalBridge) Undo() bool {
	b.mu.Lock()
	if len(b.undo) == 0 {
		b.mu.Unlock()
		return false
	}
	entry := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.mu.Unlock()

	redone := historyEntry{
		selectionBefore: entry.selectionBefore,
		selectionAfter:  entry.selectionAfter,
		hasSelection:    entry.hasSelection,
	}
	for _, op := range slices.Backward(entry.ops) {
		inv, err := Inverse(op)
		if err != nil {
			b.log.Warn("cannot undo operation", "op", op.ID, "error", err)
			continue
		}
		if _, ok := b.replay(inv); ok {
			redone.ops = append([]Operation{op}, redone.ops...)
		}
	}

	b.mu.Lock()
	b.redo = append(b.redo, redone)
	if entry.hasSelection {
		b.selection = slices.Clone(entry.selectionBefore)
	}
	b.mu.Unlock()

	if entry.hasSelection {
		b.notifyPresence(entry.selectionBefore)
	}
	return true
}

// Redo reapplies the latest undone entry.
func (b *LocalBridge) Redo() bool {
	b.mu.Lock()
	if len(b.redo) == 0 {
		b.mu.Unlock()
		return false
	}
	entry := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.mu.Unlock()

	undone := historyEntry{
		selectionBefore: entry.selectionBefore,
		selectionAfter:  entry.selectionAfter,
		hasSelection:    entry.hasSelection,
	}
	for _, op := range entry.ops {
		again := op
		again.ID = newOperation(op.Type, op.LayerID).ID
		again.Previous, again.PreviousPoints = nil, nil
		again.PreviousLayer, again.PreviousIndex = nil, nil
		if applied, ok := b.replay(again); ok {
			undone.ops = append(undone.ops, applied)
		}
	}

	b.mu.Lock()
	b.undo = append(b.undo, undone)
	if entry.hasSelection {
		b.selection = slices.Clone(entry.selectionAfter)
	}
	b.mu.Unlock()

	if entry.hasSelection {
		b.notifyPresence(entry.selectionAfter)
	}
	return true
}

func (b *LocalBridge) replay(op Operation) (Operation, bool) {
	applied, seq, err := b.doc.apply(op)
	if err != nil {
		b.log.Warn("history operation failed", "op", op.Type, "layer", op.LayerID, "error", err)
		return op, false
	}
	b.notifyOperation(applied, seq)
	return applied, true
}

func (b *LocalBridge) notifyOperation(op Operation, seq int64) {
	if b.OnOperation != nil {
		b.OnOperation(op, seq)
	}
}

func (b *LocalBridge) notifyPresence(selection []string) {
	if b.OnPresence != nil {
		b.OnPresence(slices.Clone(selection))
	}
}
