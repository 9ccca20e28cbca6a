package placement

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/textio"
)

// Node is a cell with its dimensions and, once a .pl file is applied, its
// lower-left location.
type Node struct {
	Name     string
	Size     geom.Size
	At       geom.Point
	Terminal bool // declared "terminal" or "terminal_NI" in the .nodes file
	Fixed    bool // marked /FIXED in the .pl file
	Placed   bool // a location was read for the node
	Orient   string
}

// Rect returns the node's footprint.
func (n *Node) Rect() geom.Rect {
	return geom.RectFromOrigin(n.At, n.Size)
}

// Placement is a set of nodes in declaration order.
type Placement struct {
	Name  string // display name, usually the .nodes file's base name
	Nodes []*Node

	byName map[string]*Node
	// Unknown counts .pl lines naming nodes missing from the .nodes file.
	Unknown int
}

// Node looks up a node by name.
func (p *Placement) Node(name string) (*Node, bool) {
	n, ok := p.byName[name]
	return n, ok
}

// Placed returns the nodes that have a location.
func (p *Placement) Placed() []*Node {
	out := make([]*Node, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.Placed {
			out = append(out, n)
		}
	}
	return out
}

// Unplaced returns the number of nodes without a location.
func (p *Placement) Unplaced() int {
	return len(p.Nodes) - len(p.Placed())
}

// Extent returns the plotting window: from the leftmost node's x and the
// bottommost node's y to the rightmost node's x plus its own width and the
// topmost node's y plus its own height. Nodes are ranked by their origin, so
// a wide node left of the rightmost origin can stick out of the window.
// Only movable nodes (neither terminal nor /FIXED) are ranked; when none is
// placed, every placed node is.
func (p *Placement) Extent() (geom.Rect, bool) {
	if r, ok := p.extent(func(n *Node) bool { return !n.Terminal && !n.Fixed }); ok {
		return r, true
	}
	return p.extent(func(*Node) bool { return true })
}

func (p *Placement) extent(rank func(*Node) bool) (geom.Rect, bool) {
	var left, right, bottom, top *Node
	for _, n := range p.Nodes {
		if !n.Placed || !rank(n) {
			continue
		}
		if left == nil || n.At.X < left.At.X {
			left = n
		}
		if right == nil || n.At.X > right.At.X {
			right = n
		}
		if bottom == nil || n.At.Y < bottom.At.Y {
			bottom = n
		}
		if top == nil || n.At.Y > top.At.Y {
			top = n
		}
	}
	if left == nil {
		return geom.Rect{}, false
	}
	return geom.R(left.At.X, bottom.At.Y, right.At.X+right.Size.Width, top.At.Y+top.Size.Height), true
}

// Bounds returns the exact bounding box of all placed footprints.
func (p *Placement) Bounds() (geom.Rect, bool) {
	var b geom.Bounds
	for _, n := range p.Nodes {
		if n.Placed {
			b.AddRect(n.Rect())
		}
	}
	return b.Rect()
}

// Items returns the placed movable nodes as overlap items.
func (p *Placement) Items(includeTerminals bool) []overlap.Item {
	items := make([]overlap.Item, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if !n.Placed || (n.Terminal && !includeTerminals) {
			continue
		}
		items = append(items, overlap.Item{Name: n.Name, Rect: n.Rect()})
	}
	return items
}

// ParseNodes reads a .nodes file.
func ParseNodes(r io.Reader) (*Placement, error) {
	s := textio.NewScanner(r)
	p := &Placement{byName: make(map[string]*Node)}

	numNodes, numTerminals := -1, -1
	for s.Scan() {
		l := s.Line()
		switch {
		case l.Key("UCLA"):
			continue
		case l.Key("NumNodes"):
			n, err := l.Value().Int(0, "node count")
			if err != nil {
				return nil, err
			}
			numNodes = n
			p.Nodes = make([]*Node, 0, n)
		case l.Key("NumTerminals"):
			n, err := l.Value().Int(0, "terminal count")
			if err != nil {
				return nil, err
			}
			numTerminals = n
		case len(l.Fields) == 3 || len(l.Fields) == 4:
			w, err := l.Float(1, "node width")
			if err != nil {
				return nil, err
			}
			h, err := l.Float(2, "node height")
			if err != nil {
				return nil, err
			}
			n := &Node{Name: l.Fields[0], Size: geom.Sz(w, h)}
			if len(l.Fields) == 4 {
				if !strings.HasPrefix(l.Fields[3], "terminal") {
					return nil, errors.Parse("", l.No, "unknown node attribute %q", l.Fields[3])
				}
				n.Terminal = true
			}
			if _, dup := p.byName[n.Name]; dup {
				return nil, errors.Parse("", l.No, "node %q declared twice", n.Name)
			}
			p.byName[n.Name] = n
			p.Nodes = append(p.Nodes, n)
		default:
			return nil, errors.Parse("", l.No, "expected \"name width height [terminal]\", got %d fields", len(l.Fields))
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if numNodes >= 0 && numNodes != len(p.Nodes) {
		return nil, errors.Parse("", 0, "NumNodes is %d but %d nodes are listed", numNodes, len(p.Nodes))
	}
	if numTerminals >= 0 {
		terms := 0
		for _, n := range p.Nodes {
			if n.Terminal {
				terms++
			}
		}
		if terms != numTerminals {
			return nil, errors.Parse("", 0, "NumTerminals is %d but %d terminals are listed", numTerminals, terms)
		}
	}
	return p, nil
}

// ApplyPL reads a .pl file and sets the locations of p's nodes. Lines for
// unknown nodes are counted in p.Unknown and otherwise ignored.
func (p *Placement) ApplyPL(r io.Reader) error {
	s := textio.NewScanner(r)
	for s.Scan() {
		l := s.Line()
		if l.Key("UCLA") {
			continue
		}
		// name x y : orient [/FIXED|/FIXED_NI]
		if len(l.Fields) < 3 || len(l.Fields) > 6 {
			return errors.Parse("", l.No, "expected \"name x y : orient\", got %d fields", len(l.Fields))
		}
		x, err := l.Float(1, "x")
		if err != nil {
			return err
		}
		y, err := l.Float(2, "y")
		if err != nil {
			return err
		}

		n, ok := p.byName[l.Fields[0]]
		if !ok {
			p.Unknown++
			continue
		}
		n.At, n.Placed = geom.Pt(x, y), true
		for _, f := range l.Fields[3:] {
			switch {
			case f == ":":
			case strings.HasPrefix(f, "/FIXED"):
				n.Fixed = true
			case n.Orient == "":
				n.Orient = f
			default:
				return errors.Parse("", l.No, "unexpected field %q", f)
			}
		}
	}
	return s.Err()
}

// Load reads a .nodes file and applies a .pl file to it.
func Load(nodesPath, plPath string) (*Placement, error) {
	var p *Placement
	if err := readFile(nodesPath, func(r io.Reader) (err error) {
		p, err = ParseNodes(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(plPath, p.ApplyPL); err != nil {
		return nil, err
	}
	p.Name = filepath.Base(nodesPath)
	return p, nil
}

func readFile(path string, parse func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return errors.WithFile(parse(f), filepath.Base(path))
}

// Window presets for plots that should not follow the data.
var Windows = map[string]geom.Rect{
	// The die area of the ISPD 2005 adaptec1 benchmark, as drawn by the
	// course's reference plots.
	"adaptec1": geom.R(-33330, -33208, 33396, 33320),
}

// ParseWindow parses a --window flag: "auto" (or empty), a preset name, or
// "x0,y0,x1,y1". auto reports ok=false.
func ParseWindow(s string) (r geom.Rect, ok bool, err error) {
	if s == "" || s == "auto" {
		return geom.Rect{}, false, nil
	}
	if r, found := Windows[s]; found {
		return r, true, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, false, errors.New(errors.ErrCodeInvalidWindow,
			"invalid window %q (want auto, a preset, or x0,y0,x1,y1)", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, perr := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if perr != nil {
			return geom.Rect{}, false, errors.New(errors.ErrCodeInvalidWindow, "invalid window coordinate %q", part)
		}
		v[i] = f
	}
	r = geom.R(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return geom.Rect{}, false, errors.New(errors.ErrCodeInvalidWindow, "window %s has no area", r)
	}
	return r, true, nil
}

// String summarizes the placement for logs.
func (p *Placement) String() string {
	return fmt.Sprintf("%s: %d nodes, %d placed", p.Name, len(p.Nodes), len(p.Placed()))
}
