package collab

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/typeid"
)

var ErrUnknownOperation = errors.New("unknown operation type")

// DocumentState holds the authoritative board for a room. It is shared
// between the engine (reads) and whoever applies operations.
type DocumentState struct {
	mu        sync.RWMutex
	board     *document.Board
	serverSeq int64
	opLog     []Operation // applied operations, in order
}

// NewDocumentState creates a new document state from an initial board.
func NewDocumentState(board *document.Board) *DocumentState {
	if board == nil {
		board = document.NewBoard()
	}
	return &DocumentState{
		board: board,
		opLog: make([]Operation, 0),
	}
}

func (ds *DocumentState) Layer(id string) (document.Layer, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	l, ok := ds.board.Layer(id)
	return l.Clone(), ok
}

// IDs returns a copy of the paint order.
func (ds *DocumentState) IDs() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return slices.Clone(ds.board.IDs())
}

func (ds *DocumentState) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.board.Len()
}

// Snapshot returns a deep copy of the board and the sequence it reflects.
func (ds *DocumentState) Snapshot() (*document.Board, int64) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.board.Clone(), ds.serverSeq
}

func (ds *DocumentState) ServerSeq() int64 {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.serverSeq
}

// Reset replaces the board with a synced copy. The op log is cleared.
func (ds *DocumentState) Reset(board *document.Board, serverSeq int64) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.board = board
	ds.serverSeq = serverSeq
	ds.opLog = ds.opLog[:0]
}

// OpLog returns the operations applied so far.
func (ds *DocumentState) OpLog() []Operation {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return slices.Clone(ds.opLog)
}

// ApplyOperation applies an operation to the board and returns the server sequence
func (ds *DocumentState) ApplyOperation(op Operation) (int64, error) {
	_, seq, err := ds.apply(op)
	return seq, err
}

// apply returns the operation as applied, with its Previous fields filled.
func (ds *DocumentState) apply(op Operation) (Operation, int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyOperationLocked(&op); err != nil {
		return op, 0, err
	}

	ds.serverSeq++
	ds.opLog = append(ds.opLog, op)

	return op, ds.serverSeq, nil
}

// applyOperationLocked applies the operation without locking (caller must hold lock)
func (ds *DocumentState) applyOperationLocked(op *Operation) error {
	switch op.Type {
	case OpLayerCreate:
		return ds.applyCreate(op)
	case OpLayerBounds:
		return ds.applyBounds(op)
	case OpLayerDelete:
		return ds.applyDelete(op)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOperation, op.Type)
	}
}

func (ds *DocumentState) applyCreate(op *Operation) error {
	if op.Layer == nil {
		return fmt.Errorf("%w: create %s without layer", document.ErrInvalidLayer, op.LayerID)
	}
	if op.Index != nil {
		return ds.board.InsertAt(op.LayerID, op.Layer.Clone(), *op.Index)
	}
	return ds.board.Insert(op.LayerID, op.Layer.Clone())
}

func (ds *DocumentState) applyBounds(op *Operation) error {
	if op.Bounds == nil {
		return fmt.Errorf("%w: bounds update %s without bounds", document.ErrInvalidLayer, op.LayerID)
	}
	if op.Bounds.Width < 0 || op.Bounds.Height < 0 {
		return fmt.Errorf("%w: negative size", document.ErrInvalidLayer)
	}
	before, ok := ds.board.Layer(op.LayerID)
	if !ok {
		return fmt.Errorf("%w: %s", document.ErrLayerNotFound, op.LayerID)
	}
	if op.Points != nil && before.Type != document.LayerTypePath {
		return fmt.Errorf("%w: points on %s layer", document.ErrInvalidLayer, before.Type)
	}

	prev, err := ds.board.SetBounds(op.LayerID, *op.Bounds)
	if err != nil {
		return err
	}
	if op.Points != nil {
		if _, err := ds.board.SetPoints(op.LayerID, op.Points); err != nil {
			return err
		}
	}

	op.Previous = &prev
	if before.Type == document.LayerTypePath {
		// rescaling to a zero extent is lossy, so undo restores the samples
		op.PreviousPoints = slices.Clone(before.Points)
	}
	return nil
}

func (ds *DocumentState) applyDelete(op *Operation) error {
	l, index, err := ds.board.Delete(op.LayerID)
	if err != nil {
		return err
	}
	op.PreviousLayer = &l
	op.PreviousIndex = &index
	return nil
}

// --- Operation constructors ---

func newOperation(typ, layerID string) Operation {
	return Operation{
		ID:        typeid.NewOpID(),
		Type:      typ,
		Timestamp: GetServerTimestamp(),
		LayerID:   layerID,
	}
}

func NewCreateOperation(id string, layer document.Layer) Operation {
	op := newOperation(OpLayerCreate, id)
	l := layer.Clone()
	op.Layer = &l
	return op
}

func NewBoundsOperation(id string, bounds document.XYWH) Operation {
	op := newOperation(OpLayerBounds, id)
	op.Bounds = &bounds
	return op
}

func NewDeleteOperation(id string) Operation {
	return newOperation(OpLayerDelete, id)
}

// Inverse returns the operation that undoes an applied operation. The
// Previous fields must have been filled by DocumentState.
func Inverse(op Operation) (Operation, error) {
	switch op.Type {
	case OpLayerCreate:
		return NewDeleteOperation(op.LayerID), nil
	case OpLayerBounds:
		if op.Previous == nil {
			return Operation{}, fmt.Errorf("invert %s: no previous bounds", op.ID)
		}
		inv := NewBoundsOperation(op.LayerID, *op.Previous)
		inv.Points = slices.Clone(op.PreviousPoints)
		return inv, nil
	case OpLayerDelete:
		if op.PreviousLayer == nil {
			return Operation{}, fmt.Errorf("invert %s: no previous layer", op.ID)
		}
		inv := NewCreateOperation(op.LayerID, *op.PreviousLayer)
		if op.PreviousIndex != nil {
			index := *op.PreviousIndex
			inv.Index = &index
		}
		return inv, nil
	default:
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, op.Type)
	}
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
