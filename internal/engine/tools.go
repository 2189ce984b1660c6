package engine

import (
	"slices"

	"github.com/inamate/board/engine-go/internal/document"
)

// Tool is a toolbar button.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolHand      Tool = "hand"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolShapes    Tool = "shapes"
	ToolText      Tool = "text"
	ToolPencil    Tool = "pencil"
)

// Tools lists every toolbar button in display order.
var Tools = []Tool{ToolSelect, ToolHand, ToolShapes, ToolRectangle, ToolEllipse, ToolText, ToolPencil}

// IsToolActive reports whether a toolbar button should be highlighted for
// the given state.
func IsToolActive(s CanvasState, t Tool) bool {
	switch t {
	case ToolSelect:
		switch s.(type) {
		case NoneState, PressingState, SelectionNetState, TranslatingState, ResizingState:
			return true
		}
	case ToolHand:
		_, ok := s.(DraggingState)
		return ok
	case ToolRectangle:
		return isInserting(s, document.LayerTypeRectangle)
	case ToolEllipse:
		return isInserting(s, document.LayerTypeEllipse)
	case ToolShapes:
		return isInserting(s, document.LayerTypeRectangle) || isInserting(s, document.LayerTypeEllipse)
	case ToolText:
		return isInserting(s, document.LayerTypeText)
	case ToolPencil:
		_, ok := s.(PencilState)
		return ok
	}
	return false
}

func isInserting(s CanvasState, t document.LayerType) bool {
	ins, ok := s.(InsertingState)
	return ok && ins.LayerType == t
}

// ToolState returns the state a toolbar button switches to.
func ToolState(t Tool) (CanvasState, bool) {
	switch t {
	case ToolSelect:
		return NoneState{}, true
	case ToolHand:
		return DraggingState{}, true
	case ToolRectangle, ToolShapes:
		return InsertingState{LayerType: document.LayerTypeRectangle}, true
	case ToolEllipse:
		return InsertingState{LayerType: document.LayerTypeEllipse}, true
	case ToolText:
		return InsertingState{LayerType: document.LayerTypeText}, true
	case ToolPencil:
		return PencilState{}, true
	}
	return nil, false
}

// IsLayerSelected reports whether id is part of the selection.
func IsLayerSelected(selection []string, id string) bool {
	return slices.Contains(selection, id)
}

// ActiveTools returns the highlighted toolbar buttons for the current
// state.
func (e *Engine) ActiveTools() []Tool {
	active := make([]Tool, 0, 2)
	for _, t := range Tools {
		if IsToolActive(e.state, t) {
			active = append(active, t)
		}
	}
	return active
}
