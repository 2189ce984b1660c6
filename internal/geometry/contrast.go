package geometry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

const (
	contrastBlack = "#000000"
	contrastWhite = "#ffffff"
)

var ErrNoSurface = errors.New("no rendering surface for color normalization")

// ColorNormalizer turns an arbitrary CSS color string into #rrggbb.
type ColorNormalizer interface {
	Normalize(css string) (string, error)
}

// NoSurface is the normalizer used when no rendering surface is available.
type NoSurface struct{}

func (NoSurface) Normalize(string) (string, error) {
	return "", ErrNoSurface
}

// CSSNormalizer accepts hex (#rgb, #rrggbb), rgb(r, g, b) and CSS named colors.
type CSSNormalizer struct{}

func (CSSNormalizer) Normalize(css string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(css))
	if s == "" {
		return "", fmt.Errorf("%w: empty color", ErrInvalidInput)
	}

	if named, ok := colornames.Map[s]; ok {
		return fmt.Sprintf("#%02x%02x%02x", named.R, named.G, named.B), nil
	}

	if strings.HasPrefix(s, "rgb(") {
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return "", fmt.Errorf("%w: color %q: %v", ErrInvalidInput, css, err)
		}
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			return "", fmt.Errorf("%w: color %q out of range", ErrInvalidInput, css)
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b), nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w: color %q: %v", ErrInvalidInput, css, err)
	}
	return c.Hex(), nil
}

// ContrastingColor picks black or white text for a background color.
// Without a normalizer, or on any parse failure, it returns black.
func ContrastingColor(n ColorNormalizer, css string) string {
	if n == nil {
		return contrastBlack
	}
	hex, err := n.Normalize(css)
	if err != nil {
		return contrastBlack
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return contrastBlack
	}

	// colorful channels are already in 0..1
	luminance := 0.299*c.R + 0.587*c.G + 0.114*c.B
	if 1-luminance < 0.5 {
		return contrastBlack
	}
	return contrastWhite
}
