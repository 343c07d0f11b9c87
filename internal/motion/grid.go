package motion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	MinGridSide = 1
	MaxGridSide = 16

	// DefaultGridKey names the shape used when nothing valid was asked for.
	DefaultGridKey = "6x4"
)

// Grid is a rows by cols tiling of a revealed image.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Named grids are keyed cols x rows.
var namedGrids = map[string]Grid{
	"6x4": {Rows: 4, Cols: 6},
	"8x8": {Rows: 8, Cols: 8},
	"8x3": {Rows: 3, Cols: 8},
	"4x6": {Rows: 6, Cols: 4},
	"3x8": {Rows: 8, Cols: 3},
}

// Valid reports whether both sides are within [MinGridSide, MaxGridSide].
func (g Grid) Valid() bool {
	return g.Rows >= MinGridSide && g.Rows <= MaxGridSide &&
		g.Cols >= MinGridSide && g.Cols <= MaxGridSide
}

// Cells is the number of tiles.
func (g Grid) Cells() int { return g.Rows * g.Cols }

func (g Grid) String() string { return fmt.Sprintf("%dx%d", g.Cols, g.Rows) }

// DefaultGrid is the shape every invalid request degrades to.
func DefaultGrid() Grid { return namedGrids[DefaultGridKey] }

// NamedGrid looks up a predefined shape.
func NamedGrid(key string) (Grid, bool) {
	g, ok := namedGrids[key]
	return g, ok
}

// GridNames lists the predefined shapes.
func GridNames() []string {
	names := make([]string, 0, len(namedGrids))
	for k := range namedGrids {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ResolveGrid prefers a valid custom shape, then the named one, then the
// default. It never fails.
func ResolveGrid(key string, custom *Grid) Grid {
	if custom != nil && custom.Valid() {
		return *custom
	}
	if g, ok := namedGrids[key]; ok {
		return g
	}
	return DefaultGrid()
}

// ParseGrid reads a "CxR" shape. Non-integer sides are rejected; range is
// left to Valid.
func ParseGrid(s string) (Grid, bool) {
	cols, rows, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Grid{}, false
	}
	c, err := strconv.Atoi(cols)
	if err != nil {
		return Grid{}, false
	}
	r, err := strconv.Atoi(rows)
	if err != nil {
		return Grid{}, false
	}
	return Grid{Rows: r, Cols: c}, true
}
