//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/inamate/board/engine-go/internal/collab"
	"github.com/inamate/board/engine-go/internal/config"
	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/engine"
	"github.com/inamate/board/engine-go/internal/geometry"
)

var (
	eng      *engine.Engine
	bridge   *collab.LocalBridge
	viewport *engine.Viewport
	onOp     js.Value
	opts     = engine.DefaultOptions()
)

func main() {
	level := slog.LevelWarn
	if cfg, err := config.Load(); err == nil {
		opts = cfg.EngineOptions()
		level = cfg.Level()
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	reset(document.NewBoard())

	// Create the engine API object
	boardEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	boardEngine.Set("loadBoard", js.FuncOf(loadBoard))
	boardEngine.Set("loadSampleBoard", js.FuncOf(loadSampleBoard))
	boardEngine.Set("selectTool", js.FuncOf(selectTool))
	boardEngine.Set("pointerDown", js.FuncOf(pointerDown))
	boardEngine.Set("pointerMove", js.FuncOf(pointerMove))
	boardEngine.Set("pointerUp", js.FuncOf(pointerUp))
	boardEngine.Set("pointerCancel", js.FuncOf(pointerCancel))
	boardEngine.Set("layerPointerDown", js.FuncOf(layerPointerDown))
	boardEngine.Set("resizeHandleDown", js.FuncOf(resizeHandleDown))
	boardEngine.Set("keyDown", js.FuncOf(keyDown))
	boardEngine.Set("wheel", js.FuncOf(wheel))
	boardEngine.Set("setSelection", js.FuncOf(setSelection))
	boardEngine.Set("selectLayer", js.FuncOf(selectLayer))
	boardEngine.Set("undo", js.FuncOf(undo))
	boardEngine.Set("redo", js.FuncOf(redo))
	boardEngine.Set("zoomIn", js.FuncOf(zoomIn))
	boardEngine.Set("zoomOut", js.FuncOf(zoomOut))
	boardEngine.Set("onOperation", js.FuncOf(setOnOperation))

	// --- Queries (frontend ← engine) ---
	boardEngine.Set("render", js.FuncOf(render))
	boardEngine.Set("hitTest", js.FuncOf(hitTest))
	boardEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	boardEngine.Set("getScreenSelectionBounds", js.FuncOf(getScreenSelectionBounds))
	boardEngine.Set("getViewMatrix", js.FuncOf(getViewMatrix))
	boardEngine.Set("canvasToScreen", js.FuncOf(canvasToScreen))
	boardEngine.Set("getState", js.FuncOf(getState))
	boardEngine.Set("getPreview", js.FuncOf(getPreview))
	boardEngine.Set("getActiveTools", js.FuncOf(getActiveTools))
	boardEngine.Set("getSelection", js.FuncOf(getSelection))
	boardEngine.Set("getBoard", js.FuncOf(getBoard))
	boardEngine.Set("getCamera", js.FuncOf(getCamera))
	boardEngine.Set("canUndo", js.FuncOf(canUndo))
	boardEngine.Set("canRedo", js.FuncOf(canRedo))
	boardEngine.Set("canZoomIn", js.FuncOf(canZoomIn))
	boardEngine.Set("canZoomOut", js.FuncOf(canZoomOut))
	boardEngine.Set("contrastingColor", js.FuncOf(contrastingColor))
	boardEngine.Set("connectionIdToColor", js.FuncOf(connectionIDToColor))

	// Register on global scope
	js.Global().Set("boardEngine", boardEngine)

	// Signal that WASM is ready
	js.Global().Set("boardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// reset rebuilds the engine around a fresh board.
func reset(board *document.Board) {
	bridge = collab.NewLocalBridge(collab.NewDocumentState(board), nil)
	bridge.OnOperation = forwardOperation
	bridge.OnPresence = func(sel []string) { eng.SetSelection(sel) }

	if viewport == nil {
		viewport = engine.NewViewport()
	}
	eng = engine.NewEngine(bridge.Document(), bridge, viewport, opts)
}

func forwardOperation(op collab.Operation, seq int64) {
	if onOp.Type() != js.TypeFunction {
		return
	}
	data, err := json.Marshal(collab.OperationBroadcastPayload{Operation: op, ServerSeq: seq})
	if err != nil {
		return
	}
	onOp.Invoke(string(data))
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okValue() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func pointerFromJS(v js.Value) geometry.PointerEvent {
	p := geometry.PointerEvent{
		ClientX: v.Get("clientX").Float(),
		ClientY: v.Get("clientY").Float(),
	}
	if pressure := v.Get("pressure"); pressure.Type() == js.TypeNumber {
		p.Pressure = pressure.Float()
	}
	if buttons := v.Get("buttons"); buttons.Type() == js.TypeNumber {
		p.Buttons = buttons.Int()
	}
	return p
}

func toJSON(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

func loadBoard(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing board JSON"})
	}

	board := document.NewBoard()
	if err := json.Unmarshal([]byte(args[0].String()), board); err != nil {
		return errorValue(err)
	}
	reset(board)
	return okValue()
}

func loadSampleBoard(this js.Value, args []js.Value) interface{} {
	reset(document.NewSampleBoard())
	return okValue()
}

func selectTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	state, ok := engine.ToolState(engine.Tool(args[0].String()))
	if !ok {
		return js.ValueOf(map[string]interface{}{"error": "unknown tool"})
	}
	eng.Handle(engine.ToolSelected{State: state})
	return okValue()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.Handle(engine.PointerDown{Pointer: pointerFromJS(args[0])})
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.Handle(engine.PointerMove{Pointer: pointerFromJS(args[0])})
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.Handle(engine.PointerUp{Pointer: pointerFromJS(args[0])})
	return nil
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	eng.Handle(engine.PointerCancel{})
	return nil
}

func layerPointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Handle(engine.LayerPointerDown{LayerID: args[0].String(), Pointer: pointerFromJS(args[1])})
	return nil
}

func resizeHandleDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	var bounds document.XYWH
	if err := json.Unmarshal([]byte(args[1].String()), &bounds); err != nil {
		return errorValue(err)
	}
	eng.Handle(engine.ResizeHandleDown{Corner: document.Side(args[0].Int()), InitialBounds: bounds})
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ev := engine.KeyDown{Key: args[0].String()}
	if len(args) > 1 {
		ev.Ctrl = args[1].Truthy()
	}
	if len(args) > 2 {
		ev.Shift = args[2].Truthy()
	}
	eng.Handle(ev)
	return nil
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Handle(engine.Wheel{DeltaX: args[0].Float(), DeltaY: args[1].Float()})
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func selectLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.SelectLayer(args[0].String()))
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

func zoomIn(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(viewport.ZoomIn())
}

func zoomOut(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(viewport.ZoomOut())
}

func setOnOperation(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		onOp = js.Undefined()
		return nil
	}
	onOp = args[0]
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(pointerFromJS(args[0])))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(engine.RectToJSON(eng.SelectionBounds()))
}

func getScreenSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(engine.RectToJSON(eng.ScreenSelectionBounds()))
}

func getViewMatrix(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.ViewMatrix())
}

func canvasToScreen(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.Null()
	}
	return toJSON(eng.CanvasToScreen(document.Point{X: args[0].Float(), Y: args[1].Float()}))
}

func getState(this js.Value, args []js.Value) interface{} {
	data, err := engine.MarshalState(eng.State())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func getPreview(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Preview())
}

func getActiveTools(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.ActiveTools())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Selection())
}

func getBoard(this js.Value, args []js.Value) interface{} {
	board, _ := bridge.Document().Snapshot()
	return toJSON(board)
}

func getCamera(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Camera())
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanRedo())
}

func canZoomIn(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(viewport.CanZoomIn())
}

func canZoomOut(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(viewport.CanZoomOut())
}

func contrastingColor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("#000000")
	}
	return js.ValueOf(geometry.ContrastingColor(geometry.CSSNormalizer{}, args[0].String()))
}

func connectionIDToColor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(geometry.ConnectionIDToColor(0))
	}
	return js.ValueOf(geometry.ConnectionIDToColor(args[0].Int()))
}
