package geometry

// cursorPalette colors collaborator cursors. Ids beyond its length wrap.
var cursorPalette = [...]string{"#F67280", "#355C7D", "#C06C84", "#6C5B7B", "#F8B195", "#2A363B"}

// ConnectionIDToColor maps a connection id to a stable cursor color.
func ConnectionIDToColor(connectionID int) string {
	n := len(cursorPalette)
	return cursorPalette[((connectionID%n)+n)%n]
}
