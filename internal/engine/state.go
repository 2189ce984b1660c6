package engine

import (
	"encoding/json"

	"github.com/inamate/board/engine-go/internal/document"
)

// CanvasMode names what a pointer gesture currently means.
type CanvasMode int

const (
	ModeNone CanvasMode = iota
	ModePressing
	ModeSelectionNet
	ModeTranslating
	ModeInserting
	ModeResizing
	ModePencil
	ModeDragging
)

var modeNames = [...]string{
	ModeNone:         "None",
	ModePressing:     "Pressing",
	ModeSelectionNet: "SelectionNet",
	ModeTranslating:  "Translating",
	ModeInserting:    "Inserting",
	ModeResizing:     "Resizing",
	ModePencil:       "Pencil",
	ModeDragging:     "Dragging",
}

func (m CanvasMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Unknown"
	}
	return modeNames[m]
}

func (m CanvasMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// CanvasState is the closed set of tool modes. Each variant carries only
// the fields its mode needs; the engine replaces the whole value on every
// transition.
type CanvasState interface {
	Mode() CanvasMode
	canvasState()
}

type NoneState struct{}

type PressingState struct {
	Origin document.Point `json:"origin"`
}

type SelectionNetState struct {
	Origin  document.Point  `json:"origin"`
	Current *document.Point `json:"current,omitempty"`
}

type TranslatingState struct {
	Current document.Point `json:"current"`
}

type InsertingState struct {
	LayerType document.LayerType `json:"layerType"`
}

type ResizingState struct {
	InitialBounds document.XYWH `json:"initialBounds"`
	Corner        document.Side `json:"corner"`
}

type PencilState struct{}

// DraggingState pans the canvas. Origin is the last screen position while
// the pointer is held, nil otherwise.
type DraggingState struct {
	Origin *document.Point `json:"origin"`
}

func (NoneState) Mode() CanvasMode         { return ModeNone }
func (PressingState) Mode() CanvasMode     { return ModePressing }
func (SelectionNetState) Mode() CanvasMode { return ModeSelectionNet }
func (TranslatingState) Mode() CanvasMode  { return ModeTranslating }
func (InsertingState) Mode() CanvasMode    { return ModeInserting }
func (ResizingState) Mode() CanvasMode     { return ModeResizing }
func (PencilState) Mode() CanvasMode       { return ModePencil }
func (DraggingState) Mode() CanvasMode     { return ModeDragging }

func (NoneState) canvasState()         {}
func (PressingState) canvasState()     {}
func (SelectionNetState) canvasState() {}
func (TranslatingState) canvasState()  {}
func (InsertingState) canvasState()    {}
func (ResizingState) canvasState()     {}
func (PencilState) canvasState()       {}
func (DraggingState) canvasState()     {}

// MarshalState encodes a state as {"mode": ..., "payload": {...}}.
func MarshalState(s CanvasState) ([]byte, error) {
	return json.Marshal(struct {
		Mode    CanvasMode  `json:"mode"`
		Payload CanvasState `json:"payload"`
	}{s.Mode(), s})
}
