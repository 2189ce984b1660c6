package engine

import (
	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

// Event is an input routed into the engine by the host UI.
type Event interface {
	event()
}

// ToolSelected comes from the toolbar.
type ToolSelected struct {
	State CanvasState
}

type PointerDown struct {
	Pointer geometry.PointerEvent
}

type PointerMove struct {
	Pointer geometry.PointerEvent
}

type PointerUp struct {
	Pointer geometry.PointerEvent
}

type PointerCancel struct{}

// LayerPointerDown is a press that landed on a rendered layer.
type LayerPointerDown struct {
	LayerID string
	Pointer geometry.PointerEvent
}

// ResizeHandleDown is a press on one of the selection box handles.
type ResizeHandleDown struct {
	Corner        document.Side
	InitialBounds document.XYWH
}

type KeyDown struct {
	Key   string
	Ctrl  bool
	Shift bool
}

type Wheel struct {
	DeltaX float64
	DeltaY float64
}

func (ToolSelected) event()     {}
func (PointerDown) event()      {}
func (PointerMove) event()      {}
func (PointerUp) event()        {}
func (PointerCancel) event()    {}
func (LayerPointerDown) event() {}
func (ResizeHandleDown) event() {}
func (KeyDown) event()          {}
func (Wheel) event()            {}
