package engine

import (
	"log/slog"
	"slices"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
	"github.com/inamate/board/engine-go/internal/typeid"
)

// Mutator is the presence/mutation service the engine writes to. Calls are
// fire-and-forget and must be applied in the order they are made.
type Mutator interface {
	SetPresence(selection []string, addToHistory bool)
	CreateLayer(id string, layer document.Layer)
	UpdateLayerBounds(id string, bounds document.XYWH)
	DeleteLayer(id string)
}

// History is implemented by mutators that can undo their own writes.
type History interface {
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool
}

// Board is read access to the shared layer collection. Layers may appear
// or disappear between calls.
type Board interface {
	Layer(id string) (document.Layer, bool)
	IDs() []string
	Len() int
}

// PresenceSource is implemented by mutators that own the local
// selection, so undo and redo can restore it.
type PresenceSource interface {
	Selection() []string
}

// Batcher is implemented by mutators that can group several requests
// into one undo step.
type Batcher interface {
	Batch(fn func())
}

// CameraSource supplies the current camera.
type CameraSource interface {
	Camera() document.Camera
}

// Panner is implemented by camera sources the engine may move.
type Panner interface {
	Pan(dx, dy float64)
}

type Options struct {
	PencilColor    document.Color
	InsertColor    document.Color
	MaxLayers      int     // 0 means unlimited
	PressThreshold float64 // canvas distance before a press becomes a selection net
	InsertSize     float64
	Stroke         geometry.StrokeOptions
	NewID          func() string
	Logger         *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		PencilColor:    document.Color{R: 0, G: 0, B: 0},
		InsertColor:    document.Color{R: 217, G: 217, B: 217},
		MaxLayers:      100,
		PressThreshold: 5,
		InsertSize:     100,
		Stroke:         geometry.DefaultStrokeOptions,
		NewID:          typeid.NewLayerID,
	}
}

// Engine is the tool-mode state machine. It is driven from a single
// goroutine (the UI event loop) and holds no locks.
type Engine struct {
	opts    Options
	board   Board
	mutator Mutator
	camera  CameraSource
	log     *slog.Logger

	state     CanvasState
	selection []string

	// gesture buffers, discarded on every transition back to None
	draft   [][]float64
	overlay map[string]document.XYWH
	net     *document.XYWH
	netIDs  []string
}

// NewEngine creates an engine in the None state.
func NewEngine(board Board, mutator Mutator, camera CameraSource, opts Options) *Engine {
	def := DefaultOptions()
	if opts.NewID == nil {
		opts.NewID = def.NewID
	}
	if opts.PressThreshold <= 0 {
		opts.PressThreshold = def.PressThreshold
	}
	if opts.InsertSize <= 0 {
		opts.InsertSize = def.InsertSize
	}
	if opts.Stroke.Size <= 0 {
		opts.Stroke = def.Stroke
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if camera == nil {
		camera = NewViewport()
	}

	return &Engine{
		opts:    opts,
		board:   board,
		mutator: mutator,
		camera:  camera,
		log:     logger,
		state:   NoneState{},
		overlay: make(map[string]document.XYWH),
	}
}

// --- Queries ---

// State returns the current tool mode.
func (e *Engine) State() CanvasState {
	return e.state
}

// Camera returns the current camera.
func (e *Engine) Camera() document.Camera {
	return e.camera.Camera()
}

// Selection returns the selected ids that still exist on the board.
func (e *Engine) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for _, id := range e.selection {
		if _, ok := e.board.Layer(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsLayerSelected reports whether a layer button should be highlighted.
func (e *Engine) IsLayerSelected(id string) bool {
	return IsLayerSelected(e.selection, id)
}

// Preview is the in-flight gesture state for rendering feedback. Nothing
// in it has been sent to the mutator yet.
type Preview struct {
	Overlay      map[string]document.XYWH `json:"overlay"`
	SelectionNet *document.XYWH           `json:"selectionNet,omitempty"`
	NetIDs       []string                 `json:"netIds,omitempty"`
	PencilDraft  [][]float64              `json:"pencilDraft,omitempty"`
}

func (e *Engine) Preview() Preview {
	p := Preview{
		Overlay: make(map[string]document.XYWH, len(e.overlay)),
		NetIDs:  slices.Clone(e.netIDs),
	}
	for id, b := range e.overlay {
		p.Overlay[id] = b
	}
	if e.net != nil {
		r := *e.net
		p.SelectionNet = &r
	}
	if len(e.draft) > 0 {
		p.PencilDraft = make([][]float64, len(e.draft))
		for i, s := range e.draft {
			p.PencilDraft[i] = slices.Clone(s)
		}
	}
	return p
}

// SelectionBounds returns the union of the selected layers' bounds,
// including any uncommitted move or resize.
func (e *Engine) SelectionBounds() document.XYWH {
	return SelectionBounds(e.board, e.selection, e.overlay)
}

// ScreenSelectionBounds is SelectionBounds mapped to client coordinates,
// for drawing the selection box over the canvas.
func (e *Engine) ScreenSelectionBounds() document.XYWH {
	b := e.SelectionBounds()
	if b.IsEmpty() {
		return b
	}
	return geometry.ViewMatrix(e.Camera()).ApplyRect(b)
}

// ViewMatrix returns the canvas to screen transform as [a b c d e f].
func (e *Engine) ViewMatrix() []float64 {
	return geometry.ViewMatrix(e.Camera()).ToSlice()
}

// CanvasToScreen maps a canvas point to client coordinates, e.g. to place
// a remote cursor.
func (e *Engine) CanvasToScreen(p document.Point) document.Point {
	return geometry.CanvasToScreen(p, e.Camera())
}

// HitTest returns the topmost layer under a pointer, or "".
func (e *Engine) HitTest(p geometry.PointerEvent) string {
	return HitTest(e.board, e.toCanvas(p), e.overlay)
}

// Render compiles the board plus gesture preview into draw commands JSON.
func (e *Engine) Render() string {
	commands := CompileDrawCommands(e.board, e.overlay, e.opts.Stroke)
	result, _ := DrawCommandsToJSON(commands)
	return result
}

// --- Commands ---

// SetSelection adopts a selection that changed elsewhere (remote presence
// or undo) without echoing it to the mutator.
func (e *Engine) SetSelection(ids []string) {
	e.selection = slices.Clone(ids)
}

// SelectLayer selects a single layer from the layers sidebar and records
// it in history. It reports false for an id not on the board.
func (e *Engine) SelectLayer(id string) bool {
	if _, ok := e.board.Layer(id); !ok {
		return false
	}
	e.setSelection([]string{id}, true)
	return true
}

func (e *Engine) Undo() bool {
	h, ok := e.mutator.(History)
	if !ok {
		return false
	}
	e.cancel()
	ok = h.Undo()
	e.syncSelection()
	return ok
}

func (e *Engine) Redo() bool {
	h, ok := e.mutator.(History)
	if !ok {
		return false
	}
	e.cancel()
	ok = h.Redo()
	e.syncSelection()
	return ok
}

func (e *Engine) CanUndo() bool {
	h, ok := e.mutator.(History)
	return ok && h.CanUndo()
}

func (e *Engine) CanRedo() bool {
	h, ok := e.mutator.(History)
	return ok && h.CanRedo()
}

func (e *Engine) toCanvas(p geometry.PointerEvent) document.Point {
	return geometry.PointerEventToCanvasPoint(p, e.camera.Camera())
}

// transition replaces the whole state value.
func (e *Engine) transition(next CanvasState) {
	if prev := e.state.Mode(); prev != next.Mode() {
		e.log.Debug("canvas mode", "from", prev, "to", next.Mode())
	}
	e.state = next
}

func (e *Engine) resetGesture() {
	e.draft = nil
	e.net = nil
	e.netIDs = nil
	clear(e.overlay)
}

func (e *Engine) syncSelection() {
	if p, ok := e.mutator.(PresenceSource); ok {
		e.selection = p.Selection()
	}
}

// batch runs fn as one undo step when the mutator supports it.
func (e *Engine) batch(fn func()) {
	if b, ok := e.mutator.(Batcher); ok {
		b.Batch(fn)
		return
	}
	fn()
}

func (e *Engine) setSelection(ids []string, addToHistory bool) {
	e.selection = slices.Clone(ids)
	e.mutator.SetPresence(slices.Clone(ids), addToHistory)
}
