package engine

import (
	"math"
	"slices"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

// Handle routes one input event through the current mode. Mutations are
// only emitted when a gesture completes.
func (e *Engine) Handle(ev Event) {
	switch ev := ev.(type) {
	case ToolSelected:
		e.selectTool(ev.State)
	case PointerDown:
		e.pointerDown(ev.Pointer)
	case PointerMove:
		e.pointerMove(ev.Pointer)
	case PointerUp:
		e.pointerUp(ev.Pointer)
	case PointerCancel:
		e.cancel()
	case LayerPointerDown:
		e.layerPointerDown(ev.LayerID, ev.Pointer)
	case ResizeHandleDown:
		e.resizeHandleDown(ev.Corner, ev.InitialBounds)
	case KeyDown:
		e.keyDown(ev)
	case Wheel:
		e.pan(-ev.DeltaX, -ev.DeltaY)
	}
}

func (e *Engine) selectTool(s CanvasState) {
	e.resetGesture()
	switch s := s.(type) {
	case nil:
		e.transition(NoneState{})
	case InsertingState:
		if s.LayerType == document.LayerTypePath || !s.LayerType.Valid() {
			e.log.Warn("cannot insert layer type", "type", s.LayerType)
			return
		}
		e.transition(s)
	case DraggingState:
		e.transition(DraggingState{})
	default:
		e.transition(s)
	}
}

// cancel abandons the gesture in progress without emitting anything.
func (e *Engine) cancel() {
	e.resetGesture()
	e.transition(NoneState{})
}

func (e *Engine) pointerDown(p geometry.PointerEvent) {
	pt := e.toCanvas(p)

	switch e.state.(type) {
	case NoneState:
		e.transition(PressingState{Origin: pt})
	case PencilState:
		e.draft = [][]float64{{pt.X, pt.Y, p.Pressure}}
	case DraggingState:
		screen := screenPoint(p)
		e.transition(DraggingState{Origin: &screen})
	}
}

func (e *Engine) pointerMove(p geometry.PointerEvent) {
	pt := e.toCanvas(p)

	switch s := e.state.(type) {
	case PressingState:
		if math.Hypot(pt.X-s.Origin.X, pt.Y-s.Origin.Y) > e.opts.PressThreshold {
			e.updateSelectionNet(s.Origin, pt)
		}
	case SelectionNetState:
		e.updateSelectionNet(s.Origin, pt)
	case TranslatingState:
		e.translateSelection(s.Current, pt)
	case ResizingState:
		e.resizeSelection(s, pt)
	case PencilState:
		if e.draft != nil {
			e.draft = append(e.draft, []float64{pt.X, pt.Y, p.Pressure})
		}
	case DraggingState:
		if s.Origin == nil {
			return
		}
		screen := screenPoint(p)
		e.pan(screen.X-s.Origin.X, screen.Y-s.Origin.Y)
		e.transition(DraggingState{Origin: &screen})
	}
}

func (e *Engine) pointerUp(p geometry.PointerEvent) {
	pt := e.toCanvas(p)

	switch s := e.state.(type) {
	case NoneState, PressingState:
		if len(e.selection) > 0 {
			e.setSelection([]string{}, true)
		}
		e.cancel()
	case SelectionNetState:
		ids := geometry.FindIntersectingLayersWithRectangle(e.board.IDs(), e.board, s.Origin, pt)
		e.setSelection(ids, true)
		e.log.Debug("selection net", "selected", len(ids))
		e.cancel()
	case TranslatingState:
		e.translateSelection(s.Current, pt)
		e.batch(e.commitOverlay)
		e.cancel()
	case ResizingState:
		e.resizeSelection(s, pt)
		e.batch(e.commitOverlay)
		e.cancel()
	case InsertingState:
		e.insertLayer(s.LayerType, pt)
		e.cancel()
	case PencilState:
		e.finishPencil()
		e.cancel()
	case DraggingState:
		e.transition(DraggingState{})
	}
}

func (e *Engine) layerPointerDown(id string, p geometry.PointerEvent) {
	switch e.state.(type) {
	case PencilState, InsertingState, DraggingState:
		return
	}
	if _, ok := e.board.Layer(id); !ok {
		return
	}

	e.resetGesture()
	if !slices.Contains(e.selection, id) {
		e.setSelection([]string{id}, true)
	}
	e.transition(TranslatingState{Current: e.toCanvas(p)})
}

func (e *Engine) resizeHandleDown(corner document.Side, initial document.XYWH) {
	if _, ok := e.singleSelection(); !ok {
		return
	}
	e.resetGesture()
	e.transition(ResizingState{InitialBounds: initial, Corner: corner})
}

func (e *Engine) keyDown(k KeyDown) {
	switch {
	case k.Key == "Escape":
		e.cancel()
	case k.Ctrl && (k.Key == "z" || k.Key == "Z") && !k.Shift:
		e.Undo()
	case k.Ctrl && ((k.Key == "z" || k.Key == "Z") && k.Shift || k.Key == "y"):
		e.Redo()
	case k.Key == "Delete" || k.Key == "Backspace":
		if _, idle := e.state.(NoneState); idle {
			e.deleteSelection()
		}
	}
}

func (e *Engine) updateSelectionNet(origin, current document.Point) {
	r := document.RectFromPoints(origin, current)
	e.net = &r
	e.netIDs = geometry.FindIntersectingLayersWithRectangle(e.board.IDs(), e.board, origin, current)
	e.transition(SelectionNetState{Origin: origin, Current: &current})
}

func (e *Engine) translateSelection(from, to document.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx != 0 || dy != 0 {
		for _, id := range e.selection {
			b, ok := e.pendingBounds(id)
			if !ok {
				continue
			}
			e.overlay[id] = b.Translate(dx, dy)
		}
	}
	e.transition(TranslatingState{Current: to})
}

func (e *Engine) resizeSelection(s ResizingState, pt document.Point) {
	id, ok := e.singleSelection()
	if !ok {
		return
	}
	e.overlay[id] = geometry.ResizeBounds(s.InitialBounds, s.Corner, pt)
}

// pendingBounds returns the previewed bounds of a layer, falling back to
// the committed ones.
func (e *Engine) pendingBounds(id string) (document.XYWH, bool) {
	if b, ok := e.overlay[id]; ok {
		return b, true
	}
	l, ok := e.board.Layer(id)
	if !ok {
		return document.XYWH{}, false
	}
	return l.Bounds(), true
}

func (e *Engine) singleSelection() (string, bool) {
	if len(e.selection) != 1 {
		return "", false
	}
	id := e.selection[0]
	if _, ok := e.board.Layer(id); !ok {
		return "", false
	}
	return id, true
}

// commitOverlay sends one bounds update per previewed layer that still
// exists and actually changed.
func (e *Engine) commitOverlay() {
	for _, id := range e.selection {
		b, ok := e.overlay[id]
		if !ok {
			continue
		}
		l, ok := e.board.Layer(id)
		if !ok {
			e.log.Debug("layer vanished before commit", "layer", id)
			continue
		}
		if l.Bounds() == b {
			continue
		}
		e.mutator.UpdateLayerBounds(id, b)
	}
}

func (e *Engine) hasRoom() bool {
	if e.opts.MaxLayers > 0 && e.board.Len() >= e.opts.MaxLayers {
		e.log.Warn("layer limit reached", "max", e.opts.MaxLayers)
		return false
	}
	return true
}

func (e *Engine) insertLayer(t document.LayerType, pt document.Point) {
	if !e.hasRoom() {
		return
	}

	layer := document.Layer{
		Type:    t,
		X:       pt.X,
		Y:       pt.Y,
		Width:   e.opts.InsertSize,
		Height:  e.opts.InsertSize,
		Fill:    e.opts.InsertColor,
		Stroke:  e.opts.InsertColor,
		Opacity: 100,
	}
	if t == document.LayerTypeText {
		layer.Text = "Text"
		layer.FontSize = 16
		layer.FontWeight = 400
		layer.FontFamily = "Inter"
	}

	id := e.opts.NewID()
	e.batch(func() {
		e.mutator.CreateLayer(id, layer)
		e.setSelection([]string{id}, true)
	})
	e.log.Debug("layer inserted", "layer", id, "type", t)
}

func (e *Engine) finishPencil() {
	if len(e.draft) == 0 || !e.hasRoom() {
		return
	}

	layer, err := geometry.PencilPointsToPathLayer(e.draft, e.opts.PencilColor)
	if err != nil {
		e.log.Warn("discarding pencil stroke", "error", err)
		return
	}

	id := e.opts.NewID()
	e.mutator.CreateLayer(id, layer)
	e.log.Debug("pencil stroke", "layer", id, "samples", len(layer.Points))
}

func (e *Engine) deleteSelection() {
	ids := e.Selection()
	if len(ids) == 0 {
		return
	}
	e.batch(func() {
		for _, id := range ids {
			e.mutator.DeleteLayer(id)
		}
		e.setSelection([]string{}, true)
	})
}

func (e *Engine) pan(dx, dy float64) {
	if p, ok := e.camera.(Panner); ok {
		p.Pan(dx, dy)
	}
}

func screenPoint(p geometry.PointerEvent) document.Point {
	return document.Point{X: math.Round(p.ClientX), Y: math.Round(p.ClientY)}
}
