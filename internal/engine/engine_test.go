package engine

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

type call struct {
	Method    string
	ID        string
	Layer     document.Layer
	Bounds    document.XYWH
	Selection []string
	History   bool
}

// recorder applies mutations straight to a board and remembers them.
type recorder struct {
	board *document.Board
	calls []call
}

func (r *recorder) SetPresence(selection []string, addToHistory bool) {
	r.calls = append(r.calls, call{Method: "SetPresence", Selection: selection, History: addToHistory})
}

func (r *recorder) CreateLayer(id string, layer document.Layer) {
	r.calls = append(r.calls, call{Method: "CreateLayer", ID: id, Layer: layer})
	_ = r.board.Insert(id, layer)
}

func (r *recorder) UpdateLayerBounds(id string, bounds document.XYWH) {
	r.calls = append(r.calls, call{Method: "UpdateLayerBounds", ID: id, Bounds: bounds})
	_, _ = r.board.SetBounds(id, bounds)
}

func (r *recorder) DeleteLayer(id string) {
	r.calls = append(r.calls, call{Method: "DeleteLayer", ID: id})
	_, _, _ = r.board.Delete(id)
}

func (r *recorder) methods() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Method
	}
	return out
}

func (r *recorder) reset() { r.calls = nil }

func rect(x, y, w, h float64) document.Layer {
	grey := document.Color{R: 217, G: 217, B: 217}
	return document.Layer{
		Type: document.LayerTypeRectangle, X: x, Y: y, Width: w, Height: h,
		Fill: grey, Stroke: grey, Opacity: 100,
	}
}

func setup(t *testing.T, layers ...document.Layer) (*Engine, *recorder) {
	t.Helper()

	board := document.NewBoard()
	for i, l := range layers {
		require.NoError(t, board.Insert(fmt.Sprintf("layer_%d", i), l))
	}
	rec := &recorder{board: board}

	n := 0
	opts := DefaultOptions()
	opts.NewID = func() string {
		n++
		return fmt.Sprintf("new_%d", n)
	}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewEngine(board, rec, nil, opts), rec
}

func ptr(x, y float64) geometry.PointerEvent {
	return geometry.PointerEvent{ClientX: x, ClientY: y, Pressure: 0.5, Buttons: 1}
}

func TestPencilStrokeCreatesOneLayer(t *testing.T) {
	e, rec := setup(t)

	e.Handle(ToolSelected{State: PencilState{}})
	e.Handle(PointerDown{Pointer: geometry.PointerEvent{ClientX: 10, ClientY: 20, Pressure: 0.5}})
	e.Handle(PointerMove{Pointer: geometry.PointerEvent{ClientX: 30, ClientY: 5, Pressure: 0.7}})
	e.Handle(PointerMove{Pointer: geometry.PointerEvent{ClientX: 25, ClientY: 40, Pressure: 0.6}})

	assert.Empty(t, rec.calls, "nothing is emitted mid-stroke")
	assert.Len(t, e.Preview().PencilDraft, 3)

	e.Handle(PointerUp{Pointer: geometry.PointerEvent{ClientX: 25, ClientY: 40}})

	require.Len(t, rec.calls, 1)
	c := rec.calls[0]
	assert.Equal(t, "CreateLayer", c.Method)
	assert.Equal(t, "new_1", c.ID)
	assert.Equal(t, document.LayerTypePath, c.Layer.Type)
	assert.Equal(t, document.XYWH{X: 10, Y: 5, Width: 20, Height: 35}, c.Layer.Bounds())
	assert.Equal(t, []document.PathPoint{{0, 15, 0.5}, {20, 0, 0.7}, {15, 35, 0.6}}, c.Layer.Points)
	assert.Equal(t, document.Color{}, c.Layer.Fill)

	assert.Equal(t, ModeNone, e.State().Mode())
	assert.Nil(t, e.Preview().PencilDraft)
}

func TestPencilWithoutSamplesEmitsNothing(t *testing.T) {
	e, rec := setup(t)

	e.Handle(ToolSelected{State: PencilState{}})
	e.Handle(PointerUp{Pointer: ptr(10, 10)})

	assert.Empty(t, rec.calls)
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestPencilCancelDiscardsDraft(t *testing.T) {
	e, rec := setup(t)

	e.Handle(ToolSelected{State: PencilState{}})
	e.Handle(PointerDown{Pointer: ptr(10, 10)})
	e.Handle(PointerMove{Pointer: ptr(20, 20)})
	e.Handle(PointerCancel{})

	assert.Empty(t, rec.calls)
	assert.Equal(t, ModeNone, e.State().Mode())
	assert.Nil(t, e.Preview().PencilDraft)
}

func TestSelectionNet(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 100, 100), rect(300, 300, 50, 50))

	e.Handle(PointerDown{Pointer: ptr(50, 50)})
	assert.Equal(t, PressingState{Origin: document.Point{X: 50, Y: 50}}, e.State())

	// within the threshold
	e.Handle(PointerMove{Pointer: ptr(53, 53)})
	assert.Equal(t, ModePressing, e.State().Mode())

	e.Handle(PointerMove{Pointer: ptr(200, 200)})
	require.Equal(t, ModeSelectionNet, e.State().Mode())
	assert.Equal(t, []string{"layer_0"}, e.Preview().NetIDs)
	assert.Equal(t, &document.XYWH{X: 50, Y: 50, Width: 150, Height: 150}, e.Preview().SelectionNet)
	assert.Empty(t, rec.calls)

	e.Handle(PointerUp{Pointer: ptr(200, 200)})
	require.Len(t, rec.calls, 1)
	assert.Equal(t, call{Method: "SetPresence", Selection: []string{"layer_0"}, History: true}, rec.calls[0])
	assert.Equal(t, []string{"layer_0"}, e.Selection())
	assert.Equal(t, ModeNone, e.State().Mode())
	assert.Nil(t, e.Preview().SelectionNet)
}

func TestClickOnEmptyCanvasClearsSelection(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 100, 100))

	// nothing selected, nothing sent
	e.Handle(PointerDown{Pointer: ptr(500, 500)})
	e.Handle(PointerUp{Pointer: ptr(500, 500)})
	assert.Empty(t, rec.calls)

	e.SetSelection([]string{"layer_0"})
	e.Handle(PointerDown{Pointer: ptr(500, 500)})
	e.Handle(PointerUp{Pointer: ptr(500, 500)})

	require.Len(t, rec.calls, 1)
	assert.Equal(t, call{Method: "SetPresence", Selection: []string{}, History: true}, rec.calls[0])
	assert.Empty(t, e.Selection())
}

func TestTranslateSelection(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 100, 100), rect(200, 0, 50, 50))

	e.Handle(LayerPointerDown{LayerID: "layer_0", Pointer: ptr(10, 10)})
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"layer_0"}, rec.calls[0].Selection)
	assert.Equal(t, TranslatingState{Current: document.Point{X: 10, Y: 10}}, e.State())
	rec.reset()

	e.Handle(PointerMove{Pointer: ptr(20, 15)})
	e.Handle(PointerMove{Pointer: ptr(40, 30)})
	assert.Empty(t, rec.calls)
	assert.Equal(t, document.XYWH{X: 30, Y: 20, Width: 100, Height: 100}, e.Preview().Overlay["layer_0"])
	assert.Equal(t, document.XYWH{X: 30, Y: 20, Width: 100, Height: 100}, e.SelectionBounds())

	e.Handle(PointerUp{Pointer: ptr(40, 30)})
	require.Len(t, rec.calls, 1)
	assert.Equal(t, call{Method: "UpdateLayerBounds", ID: "layer_0", Bounds: document.XYWH{X: 30, Y: 20, Width: 100, Height: 100}}, rec.calls[0])
	assert.Equal(t, ModeNone, e.State().Mode())
	assert.Empty(t, e.Preview().Overlay)
}

func TestTranslateWithoutMovementEmitsNothing(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 100, 100))
	e.SetSelection([]string{"layer_0"})

	e.Handle(LayerPointerDown{LayerID: "layer_0", Pointer: ptr(10, 10)})
	e.Handle(PointerUp{Pointer: ptr(10, 10)})

	assert.Empty(t, rec.calls, "already selected and not moved")
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestTranslateSkipsLayerDeletedMidGesture(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 100, 100), rect(200, 0, 50, 50))
	e.SetSelection([]string{"layer_0", "layer_1"})

	e.Handle(LayerPointerDown{LayerID: "layer_0", Pointer: ptr(10, 10)})
	e.Handle(PointerMove{Pointer: ptr(20, 10)})

	// someone else removes layer_1
	_, _, err := rec.board.Delete("layer_1")
	require.NoError(t, err)

	e.Handle(PointerUp{Pointer: ptr(30, 10)})
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "layer_0", rec.calls[0].ID)
	assert.Equal(t, 20.0, rec.calls[0].Bounds.X)
}

func TestLayerPointerDownIgnoredWhileDrawing(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 100, 100))

	e.Handle(ToolSelected{State: PencilState{}})
	e.Handle(LayerPointerDown{LayerID: "layer_0", Pointer: ptr(10, 10)})
	assert.Equal(t, ModePencil, e.State().Mode())

	e.Handle(ToolSelected{State: InsertingState{LayerType: document.LayerTypeEllipse}})
	e.Handle(LayerPointerDown{LayerID: "layer_0", Pointer: ptr(10, 10)})
	assert.Equal(t, ModeInserting, e.State().Mode())

	e.Handle(ToolSelected{State: DraggingState{}})
	e.Handle(LayerPointerDown{LayerID: "layer_0", Pointer: ptr(10, 10)})
	assert.Equal(t, ModeDragging, e.State().Mode())

	e.Handle(ToolSelected{State: NoneState{}})
	e.Handle(LayerPointerDown{LayerID: "missing", Pointer: ptr(10, 10)})
	assert.Equal(t, ModeNone, e.State().Mode())
	assert.Empty(t, rec.calls)
}

func TestResize(t *testing.T) {
	e, rec := setup(t, rect(10, 10, 100, 50))
	e.SetSelection([]string{"layer_0"})

	initial := document.XYWH{X: 10, Y: 10, Width: 100, Height: 50}
	e.Handle(ResizeHandleDown{Corner: document.SideBottomRight, InitialBounds: initial})
	require.Equal(t, ResizingState{InitialBounds: initial, Corner: document.SideBottomRight}, e.State())

	e.Handle(PointerMove{Pointer: ptr(60, 40)})
	assert.Equal(t, document.XYWH{X: 10, Y: 10, Width: 50, Height: 30}, e.Preview().Overlay["layer_0"])
	assert.Empty(t, rec.calls)

	e.Handle(PointerUp{Pointer: ptr(160, 90)})
	require.Len(t, rec.calls, 1)
	assert.Equal(t, document.XYWH{X: 10, Y: 10, Width: 150, Height: 80}, rec.calls[0].Bounds)
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestResizeNeedsSingleSelection(t *testing.T) {
	e, _ := setup(t, rect(0, 0, 10, 10), rect(20, 0, 10, 10))

	e.Handle(ResizeHandleDown{Corner: document.SideRight})
	assert.Equal(t, ModeNone, e.State().Mode())

	e.SetSelection([]string{"layer_0", "layer_1"})
	e.Handle(ResizeHandleDown{Corner: document.SideRight})
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestResizeLayerDeletedMidGesture(t *testing.T) {
	e, rec := setup(t, rect(10, 10, 100, 50))
	e.SetSelection([]string{"layer_0"})

	e.Handle(ResizeHandleDown{Corner: document.SideRight, InitialBounds: document.XYWH{X: 10, Y: 10, Width: 100, Height: 50}})
	_, _, err := rec.board.Delete("layer_0")
	require.NoError(t, err)

	e.Handle(PointerUp{Pointer: ptr(200, 10)})
	assert.Empty(t, rec.calls)
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestInsertLayer(t *testing.T) {
	e, rec := setup(t)

	e.Handle(ToolSelected{State: InsertingState{LayerType: document.LayerTypeRectangle}})
	e.Handle(PointerUp{Pointer: ptr(40, 60)})

	require.Equal(t, []string{"CreateLayer", "SetPresence"}, rec.methods())
	l := rec.calls[0].Layer
	assert.Equal(t, document.LayerTypeRectangle, l.Type)
	assert.Equal(t, document.XYWH{X: 40, Y: 60, Width: 100, Height: 100}, l.Bounds())
	assert.Equal(t, document.Color{R: 217, G: 217, B: 217}, l.Fill)
	assert.Equal(t, 100, l.Opacity)
	assert.Equal(t, []string{"new_1"}, rec.calls[1].Selection)
	assert.True(t, rec.calls[1].History)
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestInsertTextDefaults(t *testing.T) {
	e, rec := setup(t)

	e.Handle(ToolSelected{State: InsertingState{LayerType: document.LayerTypeText}})
	e.Handle(PointerUp{Pointer: ptr(0, 0)})

	require.NotEmpty(t, rec.calls)
	l := rec.calls[0].Layer
	assert.Equal(t, "Text", l.Text)
	assert.Equal(t, 16.0, l.FontSize)
	assert.Equal(t, 400, l.FontWeight)
	assert.Equal(t, "Inter", l.FontFamily)
	assert.NoError(t, l.Validate())
}

func TestInsertRespectsLayerLimit(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 10, 10), rect(0, 0, 10, 10))
	e.opts.MaxLayers = 2

	e.Handle(ToolSelected{State: InsertingState{LayerType: document.LayerTypeEllipse}})
	e.Handle(PointerUp{Pointer: ptr(0, 0)})

	assert.Empty(t, rec.calls)
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestInsertPathIsRejected(t *testing.T) {
	e, _ := setup(t)

	e.Handle(ToolSelected{State: InsertingState{LayerType: document.LayerTypePath}})
	assert.Equal(t, ModeNone, e.State().Mode())
}

func TestDeleteKey(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 10, 10), rect(20, 0, 10, 10))
	e.SetSelection([]string{"layer_0", "layer_1", "gone"})

	e.Handle(KeyDown{Key: "Delete"})

	assert.Equal(t, []string{"DeleteLayer", "DeleteLayer", "SetPresence"}, rec.methods())
	assert.Equal(t, "layer_0", rec.calls[0].ID)
	assert.Equal(t, "layer_1", rec.calls[1].ID)
	assert.Equal(t, 0, rec.board.Len())
	assert.Empty(t, e.Selection())
}

func TestDeleteKeyIgnoredMidGesture(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 10, 10))
	e.SetSelection([]string{"layer_0"})

	e.Handle(PointerDown{Pointer: ptr(50, 50)})
	e.Handle(KeyDown{Key: "Backspace"})

	assert.Empty(t, rec.calls)
}

func TestEscapeCancels(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 100, 100))

	e.Handle(PointerDown{Pointer: ptr(0, 0)})
	e.Handle(PointerMove{Pointer: ptr(200, 200)})
	require.Equal(t, ModeSelectionNet, e.State().Mode())

	e.Handle(KeyDown{Key: "Escape"})
	assert.Equal(t, ModeNone, e.State().Mode())
	assert.Nil(t, e.Preview().SelectionNet)
	assert.Empty(t, rec.calls)
}

func TestHandTool(t *testing.T) {
	e, rec := setup(t)

	e.Handle(ToolSelected{State: DraggingState{Origin: &document.Point{X: 9, Y: 9}}})
	assert.Equal(t, DraggingState{}, e.State(), "origin is reset on selection")

	// moving without a press does nothing
	e.Handle(PointerMove{Pointer: ptr(10, 10)})
	assert.Equal(t, document.Camera{Zoom: 1}, e.Camera())

	e.Handle(PointerDown{Pointer: ptr(10, 10)})
	e.Handle(PointerMove{Pointer: ptr(25, 5)})
	assert.Equal(t, document.Camera{X: 15, Y: -5, Zoom: 1}, e.Camera())

	e.Handle(PointerUp{Pointer: ptr(25, 5)})
	assert.Equal(t, DraggingState{}, e.State())
	assert.Empty(t, rec.calls)
}

func TestWheelPans(t *testing.T) {
	e, _ := setup(t)

	e.Handle(Wheel{DeltaX: 10, DeltaY: -4})
	assert.Equal(t, document.Camera{X: -10, Y: 4, Zoom: 1}, e.Camera())
}

func TestPointerMappingUsesCamera(t *testing.T) {
	e, rec := setup(t)
	e.camera.(*Viewport).SetCamera(document.Camera{X: 100, Y: 50, Zoom: 1})

	e.Handle(ToolSelected{State: InsertingState{LayerType: document.LayerTypeRectangle}})
	e.Handle(PointerUp{Pointer: ptr(150, 80)})

	require.NotEmpty(t, rec.calls)
	assert.Equal(t, 50.0, rec.calls[0].Layer.X)
	assert.Equal(t, 30.0, rec.calls[0].Layer.Y)
}

func TestScreenSelectionBounds(t *testing.T) {
	e, _ := setup(t, rect(10, 20, 30, 40))
	e.camera.(*Viewport).SetCamera(document.Camera{X: 5, Y: -5, Zoom: 2})
	e.SetSelection([]string{"layer_0"})

	assert.Equal(t, document.XYWH{X: 10, Y: 20, Width: 30, Height: 40}, e.SelectionBounds())
	assert.Equal(t, document.XYWH{X: 25, Y: 35, Width: 60, Height: 80}, e.ScreenSelectionBounds())
	assert.Equal(t, []float64{2, 0, 0, 2, 5, -5}, e.ViewMatrix())

	e.SetSelection(nil)
	assert.Equal(t, document.XYWH{}, e.ScreenSelectionBounds())
}

func TestCanvasToScreen(t *testing.T) {
	e, _ := setup(t)
	e.camera.(*Viewport).SetCamera(document.Camera{X: 5, Y: -5, Zoom: 2})

	screen := e.CanvasToScreen(document.Point{X: 10, Y: 20})
	assert.Equal(t, document.Point{X: 25, Y: 35}, screen)

	back := e.toCanvas(geometry.PointerEvent{ClientX: screen.X, ClientY: screen.Y})
	assert.Equal(t, document.Point{X: 10, Y: 20}, back)
}

func TestSelectLayerFromSidebar(t *testing.T) {
	e, rec := setup(t, rect(0, 0, 10, 10), rect(20, 20, 10, 10))
	e.SetSelection([]string{"layer_0"})

	assert.True(t, e.SelectLayer("layer_1"))
	assert.Equal(t, []string{"layer_1"}, e.Selection())
	require.Equal(t, []string{"SetPresence"}, rec.methods())
	assert.Equal(t, []string{"layer_1"}, rec.calls[0].Selection)
	assert.True(t, rec.calls[0].History)

	rec.reset()
	assert.False(t, e.SelectLayer("missing"))
	assert.Empty(t, rec.calls)
	assert.Equal(t, []string{"layer_1"}, e.Selection())
}

type fakeHistory struct {
	recorder
	undos, redos int
}

func (h *fakeHistory) Undo() bool    { h.undos++; return true }
func (h *fakeHistory) Redo() bool    { h.redos++; return true }
func (h *fakeHistory) CanUndo() bool { return true }
func (h *fakeHistory) CanRedo() bool { return false }

func TestUndoRedoKeys(t *testing.T) {
	h := &fakeHistory{recorder: recorder{board: document.NewBoard()}}
	e := NewEngine(h.board, h, nil, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	e.Handle(KeyDown{Key: "z", Ctrl: true})
	e.Handle(KeyDown{Key: "z", Ctrl: true, Shift: true})
	e.Handle(KeyDown{Key: "y", Ctrl: true})

	assert.Equal(t, 1, h.undos)
	assert.Equal(t, 2, h.redos)
	assert.True(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestUndoWithoutHistory(t *testing.T) {
	e, _ := setup(t)
	assert.False(t, e.Undo())
	assert.False(t, e.CanRedo())
}

func TestMarshalState(t *testing.T) {
	data, err := MarshalState(InsertingState{LayerType: document.LayerTypeEllipse})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"Inserting","payload":{"layerType":"Ellipse"}}`, string(data))

	data, err = MarshalState(NoneState{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"None","payload":{}}`, string(data))
}
