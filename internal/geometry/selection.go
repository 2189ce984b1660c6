package geometry

import "github.com/inamate/board/engine-go/internal/document"

// LayerSource is read access to a layer collection that may change
// underneath the caller.
type LayerSource interface {
	Layer(id string) (document.Layer, bool)
}

// FindIntersectingLayersWithRectangle returns, in the order of layerIDs,
// the ids whose bounds overlap the box spanned by a and b. Ids that no
// longer resolve to a layer are skipped.
func FindIntersectingLayersWithRectangle(layerIDs []string, layers LayerSource, a, b document.Point) []string {
	rect := document.RectFromPoints(a, b)

	ids := []string{}
	for _, id := range layerIDs {
		layer, ok := layers.Layer(id)
		if !ok {
			continue
		}
		if rect.Intersects(layer.Bounds()) {
			ids = append(ids, id)
		}
	}
	return ids
}
