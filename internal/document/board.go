package document

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Board is the layer collection of a room: layers keyed by id plus the
// paint order (back to front).
type Board struct {
	Layers   map[string]Layer `json:"layers"`
	LayerIDs []string         `json:"layerIds"`
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		Layers:   make(map[string]Layer),
		LayerIDs: []string{},
	}
}

// Layer returns the layer with the given id.
func (b *Board) Layer(id string) (Layer, bool) {
	l, ok := b.Layers[id]
	return l, ok
}

// IDs returns the layer ids in paint order.
func (b *Board) IDs() []string {
	return b.LayerIDs
}

// Len returns the number of layers.
func (b *Board) Len() int {
	return len(b.LayerIDs)
}

// Insert adds a layer on top of the paint order. Inserting an existing id
// replaces the layer and keeps its position.
func (b *Board) Insert(id string, l Layer) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("insert %s: %w", id, err)
	}
	if _, exists := b.Layers[id]; !exists {
		b.LayerIDs = append(b.LayerIDs, id)
	}
	b.Layers[id] = l
	return nil
}

// InsertAt adds a layer at index in the paint order; out-of-range indexes append.
func (b *Board) InsertAt(id string, l Layer, index int) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("insert %s: %w", id, err)
	}
	if _, exists := b.Layers[id]; exists {
		b.Layers[id] = l
		return nil
	}
	b.Layers[id] = l
	if index < 0 || index > len(b.LayerIDs) {
		b.LayerIDs = append(b.LayerIDs, id)
		return nil
	}
	ids := make([]string, 0, len(b.LayerIDs)+1)
	ids = append(ids, b.LayerIDs[:index]...)
	ids = append(ids, id)
	ids = append(ids, b.LayerIDs[index:]...)
	b.LayerIDs = ids
	return nil
}

// SetBounds moves/resizes a layer, returning the previous bounds.
func (b *Board) SetBounds(id string, bounds XYWH) (XYWH, error) {
	l, ok := b.Layers[id]
	if !ok {
		return XYWH{}, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	prev := l.Bounds()
	b.Layers[id] = l.WithBounds(bounds)
	return prev, nil
}

// SetPoints replaces the samples of a Path layer as given, without
// rescaling, returning the previous ones.
func (b *Board) SetPoints(id string, points []PathPoint) ([]PathPoint, error) {
	l, ok := b.Layers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if l.Type != LayerTypePath {
		return nil, fmt.Errorf("%w: points on %s layer", ErrInvalidLayer, l.Type)
	}
	prev := l.Points
	l.Points = append([]PathPoint(nil), points...)
	b.Layers[id] = l
	return prev, nil
}

// Delete removes a layer, returning it and its paint index.
func (b *Board) Delete(id string) (Layer, int, error) {
	l, ok := b.Layers[id]
	if !ok {
		return Layer{}, -1, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}

	index := -1
	ids := make([]string, 0, len(b.LayerIDs))
	for i, layerID := range b.LayerIDs {
		if layerID == id {
			index = i
			continue
		}
		ids = append(ids, layerID)
	}
	b.LayerIDs = ids
	delete(b.Layers, id)
	return l, index, nil
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{
		Layers:   make(map[string]Layer, len(b.Layers)),
		LayerIDs: append([]string{}, b.LayerIDs...),
	}
	for id, l := range b.Layers {
		out.Layers[id] = l.Clone()
	}
	return out
}

// UnmarshalJSON decodes a board and repairs its paint order: ids with no
// layer and repeated ids are dropped, and layers missing from the order are
// appended sorted by id. Every layer must validate.
func (b *Board) UnmarshalJSON(data []byte) error {
	type wire Board
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Layers == nil {
		w.Layers = make(map[string]Layer)
	}
	for id, l := range w.Layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("decode layer %s: %w", id, err)
		}
	}

	ids := make([]string, 0, len(w.Layers))
	seen := make(map[string]bool, len(w.Layers))
	for _, id := range w.LayerIDs {
		if _, ok := w.Layers[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	var missing []string
	for id := range w.Layers {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)

	b.Layers = w.Layers
	b.LayerIDs = slices.Concat(ids, missing)
	return nil
}
