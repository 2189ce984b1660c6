package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, testBoard(t), geometry.DefaultStrokeOptions))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestWritePDFEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, document.NewBoard(), geometry.DefaultStrokeOptions))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestLayoutShiftsToMargin(t *testing.T) {
	layers, width, height := layout(testBoard(t))
	require.Len(t, layers, 4)
	assert.Equal(t, 172, width)
	assert.Equal(t, 102, height)

	assert.Equal(t, "rect", layers[0].id)
	assert.Equal(t, document.XYWH{X: 16, Y: 16, Width: 50, Height: 20}, layers[0].layer.Bounds())
	// relative path points are untouched by the shift
	assert.Equal(t, []document.PathPoint{{0, 0, 0.5}, {10, 0, 0.5}}, layers[3].layer.Points)
}
