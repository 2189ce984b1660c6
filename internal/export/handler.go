package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/board/engine-go/internal/geometry"
)

// BoardLookup finds the board of a room.
type BoardLookup func(roomID string) (Board, bool)

type writerFunc func(io.Writer, Board, geometry.StrokeOptions) error

type Handler struct {
	lookup BoardLookup
	stroke geometry.StrokeOptions
}

func NewHandler(lookup BoardLookup) *Handler {
	return &Handler{lookup: lookup, stroke: geometry.DefaultStrokeOptions}
}

// ExportSVG serves GET /rooms/{roomId}/export.svg.
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "svg", "image/svg+xml", WriteSVG)
}

// ExportPDF serves GET /rooms/{roomId}/export.pdf.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "pdf", "application/pdf", WritePDF)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write writerFunc) {
	roomID := mux.Vars(r)["roomId"]

	board, ok := h.lookup(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, board, h.stroke); err != nil {
		slog.Error("render export", "room", roomID, "format", ext, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Sanitize filename
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, roomID)

	size := buf.Len()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(size))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, ext))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("write export", "room", roomID, "error", err)
	}

	slog.Info("export complete", "room", roomID, "format", ext, "bytes", size)
}
