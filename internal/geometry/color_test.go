package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/board/engine-go/internal/document"
)

func TestColorToCSS(t *testing.T) {
	assert.Equal(t, "#000000", ColorToCSS(document.Color{}))
	assert.Equal(t, "#0a0b0c", ColorToCSS(document.Color{R: 10, G: 11, B: 12}))
	assert.Equal(t, "#ffffff", ColorToCSS(document.Color{R: 255, G: 255, B: 255}))
}

func TestHexToRGBRoundTrip(t *testing.T) {
	for _, c := range []document.Color{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 1, G: 128, B: 254},
		{R: 246, G: 114, B: 128},
	} {
		got, err := HexToRGB(ColorToCSS(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	// every value of one channel
	for v := 0; v <= 255; v++ {
		c := document.Color{R: v, G: 255 - v, B: v / 2}
		got, err := HexToRGB(ColorToCSS(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestHexToRGBAcceptsUppercase(t *testing.T) {
	c, err := HexToRGB("#F67280")
	require.NoError(t, err)
	assert.Equal(t, document.Color{R: 246, G: 114, B: 128}, c)
}

func TestHexToRGBRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "#fff", "ffffff0", "#gg0000", "#12345", "#1234567", "#-10000"} {
		_, err := HexToRGB(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestConnectionIDToColorWraps(t *testing.T) {
	assert.Equal(t, ConnectionIDToColor(0), ConnectionIDToColor(6))
	assert.Equal(t, ConnectionIDToColor(1), ConnectionIDToColor(13))
	assert.NotEqual(t, ConnectionIDToColor(0), ConnectionIDToColor(1))
	assert.Equal(t, "#F67280", ConnectionIDToColor(0))
	assert.Equal(t, ConnectionIDToColor(5), ConnectionIDToColor(-1))
}

func TestContrastingColor(t *testing.T) {
	n := CSSNormalizer{}
	tests := []struct {
		in   string
		want string
	}{
		{"#ffffff", "#000000"},
		{"white", "#000000"},
		{"#fff", "#000000"},
		{"yellow", "#000000"},
		{"#000000", "#ffffff"},
		{"navy", "#ffffff"},
		{"rgb(20, 20, 20)", "#ffffff"},
		{"#2A363B", "#ffffff"},
		{"not-a-color", "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ContrastingColor(n, tt.in))
		})
	}
}

func TestContrastingColorFailsClosedWithoutSurface(t *testing.T) {
	assert.Equal(t, "#000000", ContrastingColor(NoSurface{}, "#000000"))
	assert.Equal(t, "#000000", ContrastingColor(nil, "#000000"))
}

func TestCSSNormalizer(t *testing.T) {
	n := CSSNormalizer{}

	got, err := n.Normalize("  RED ")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", got)

	got, err = n.Normalize("#0F0")
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", got)

	got, err = n.Normalize("336699")
	require.NoError(t, err)
	assert.Equal(t, "#336699", got)

	_, err = n.Normalize("rgb(300, 0, 0)")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = n.Normalize("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
