// Package geometry holds the pure functions of the board engine: color
// encoding, coordinate mapping, resize, hit-testing and stroke-to-path
// conversion. Nothing here touches shared state.
package geometry

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/inamate/board/engine-go/internal/document"
)

var ErrInvalidInput = errors.New("invalid input")

// ColorToCSS encodes c as a lowercase #rrggbb string. Channels are not
// range checked.
func ColorToCSS(c document.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexToRGB parses a 7-character #rrggbb string.
func HexToRGB(hex string) (document.Color, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return document.Color{}, fmt.Errorf("%w: color %q is not #rrggbb", ErrInvalidInput, hex)
	}

	var ch [3]int
	for i := range ch {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return document.Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidInput, hex, err)
		}
		ch[i] = int(v)
	}
	return document.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}
