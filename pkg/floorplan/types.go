package floorplan

import (
	"github.com/fpviz/fpviz/pkg/geom"
)

// BlockSpec is a block as declared in the block file.
type BlockSpec struct {
	Name string
	Size geom.Size
}

// Terminal is a fixed pin or pad.
type Terminal struct {
	Name string
	At   geom.Point
}

// Net is an ordered list of block and terminal names. The degree is the
// length of the list.
type Net struct {
	Members []string
}

// Degree returns the number of members.
func (n Net) Degree() int { return len(n.Members) }

// Problem is the content of a block file and a net file.
type Problem struct {
	Outline   geom.Size
	Blocks    []BlockSpec
	Terminals []Terminal
	Nets      []Net
}

// Placed is a block rectangle reported by the solver.
type Placed struct {
	Name string
	Rect geom.Rect
}

// Result is the content of a solver output file.
type Result struct {
	Cost       float64
	Wirelength float64
	Area       float64
	ChipWidth  float64
	ChipHeight float64
	Runtime    float64
	Blocks     []Placed // first-occurrence order, later duplicates overwrite
	Skipped    []int    // line numbers after the summary that are not block lines
}

// Block returns the placed rectangle of name.
func (r *Result) Block(name string) (geom.Rect, bool) {
	for _, b := range r.Blocks {
		if b.Name == name {
			return b.Rect, true
		}
	}
	return geom.Rect{}, false
}
