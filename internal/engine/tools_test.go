package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/board/engine-go/internal/document"
)

func TestIsToolActive(t *testing.T) {
	rectangle := InsertingState{LayerType: document.LayerTypeRectangle}
	ellipse := InsertingState{LayerType: document.LayerTypeEllipse}
	text := InsertingState{LayerType: document.LayerTypeText}

	tests := []struct {
		state CanvasState
		want  []Tool
	}{
		{NoneState{}, []Tool{ToolSelect}},
		{PressingState{}, []Tool{ToolSelect}},
		{SelectionNetState{}, []Tool{ToolSelect}},
		{TranslatingState{}, []Tool{ToolSelect}},
		{ResizingState{}, []Tool{ToolSelect}},
		{DraggingState{}, []Tool{ToolHand}},
		{rectangle, []Tool{ToolShapes, ToolRectangle}},
		{ellipse, []Tool{ToolShapes, ToolEllipse}},
		{text, []Tool{ToolText}},
		{PencilState{}, []Tool{ToolPencil}},
	}
	for _, tt := range tests {
		t.Run(tt.state.Mode().String(), func(t *testing.T) {
			var got []Tool
			for _, tool := range Tools {
				if IsToolActive(tt.state, tool) {
					got = append(got, tool)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActiveToolsFollowState(t *testing.T) {
	e, _ := setup(t)
	assert.Equal(t, []Tool{ToolSelect}, e.ActiveTools())

	s, ok := ToolState(ToolPencil)
	assert.True(t, ok)
	e.Handle(ToolSelected{State: s})
	assert.Equal(t, []Tool{ToolPencil}, e.ActiveTools())

	s, _ = ToolState(ToolEllipse)
	e.Handle(ToolSelected{State: s})
	assert.Equal(t, []Tool{ToolShapes, ToolEllipse}, e.ActiveTools())

	_, ok = ToolState("lasso")
	assert.False(t, ok)
}

func TestIsLayerSelected(t *testing.T) {
	assert.True(t, IsLayerSelected([]string{"a", "b"}, "b"))
	assert.False(t, IsLayerSelected([]string{"a"}, "c"))
	assert.False(t, IsLayerSelected(nil, "a"))
}

func TestViewportZoomBounds(t *testing.T) {
	v := NewViewport()
	assert.True(t, v.CanZoomIn())

	steps := 0
	for v.ZoomIn() {
		steps++
	}
	assert.Equal(t, 6, steps)
	assert.False(t, v.CanZoomIn())
	assert.LessOrEqual(t, v.Camera().Zoom, 4.0)

	for v.ZoomOut() {
	}
	assert.False(t, v.CanZoomOut())
	assert.GreaterOrEqual(t, v.Camera().Zoom, 0.25)

	v.Pan(3, -2)
	assert.Equal(t, 3.0, v.Camera().X)
	assert.Equal(t, -2.0, v.Camera().Y)
}
