package floorplan

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/textio"
)

// ParseBlocks reads a block file.
func ParseBlocks(r io.Reader) (*Problem, error) {
	s := textio.NewScanner(r)
	p := &Problem{}

	var numBlocks, numTerminals int
	var sawOutline, sawBlocks, sawTerminals bool
	for !(sawOutline && sawBlocks && sawTerminals) {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Parse("", s.Line().No, "missing Outline/NumBlocks/NumTerminals header")
		}
		l := s.Line()
		var err error
		switch {
		case l.Key("Outline:"):
			v := l.Value()
			if p.Outline.Width, err = v.Float(0, "outline width"); err != nil {
				return nil, err
			}
			if p.Outline.Height, err = v.Float(1, "outline height"); err != nil {
				return nil, err
			}
			sawOutline = true
		case l.Key("NumBlocks:"):
			if numBlocks, err = l.Value().Int(0, "block count"); err != nil {
				return nil, err
			}
			sawBlocks = true
		case l.Key("NumTerminals:"):
			if numTerminals, err = l.Value().Int(0, "terminal count"); err != nil {
				return nil, err
			}
			sawTerminals = true
		default:
			return nil, errors.Parse("", l.No, "unexpected %q before header is complete", l.Fields[0])
		}
	}

	p.Blocks = make([]BlockSpec, 0, numBlocks)
	p.Terminals = make([]Terminal, 0, numTerminals)
	for s.Scan() {
		l := s.Line()
		switch {
		case len(l.Fields) == 4 && l.Fields[1] == "terminal":
			x, err := l.Float(2, "terminal x")
			if err != nil {
				return nil, err
			}
			y, err := l.Float(3, "terminal y")
			if err != nil {
				return nil, err
			}
			p.Terminals = append(p.Terminals, Terminal{Name: l.Fields[0], At: geom.Pt(x, y)})
		case len(l.Fields) == 3:
			if len(p.Terminals) > 0 {
				return nil, errors.Parse("", l.No, "block %q declared after terminals", l.Fields[0])
			}
			w, err := l.Float(1, "block width")
			if err != nil {
				return nil, err
			}
			h, err := l.Float(2, "block height")
			if err != nil {
				return nil, err
			}
			p.Blocks = append(p.Blocks, BlockSpec{Name: l.Fields[0], Size: geom.Sz(w, h)})
		default:
			return nil, errors.Parse("", l.No, "expected \"name width height\" or \"name terminal x y\", got %d fields", len(l.Fields))
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if len(p.Blocks) != numBlocks {
		return nil, errors.Parse("", 0, "NumBlocks is %d but %d blocks are listed", numBlocks, len(p.Blocks))
	}
	if len(p.Terminals) != numTerminals {
		return nil, errors.Parse("", 0, "NumTerminals is %d but %d terminals are listed", numTerminals, len(p.Terminals))
	}
	return p, nil
}

// ParseNets reads a net file. Member names may be spread over any number of
// lines after their NetDegree header.
func ParseNets(r io.Reader) ([]Net, error) {
	s := textio.NewScanner(r)

	numNets := -1
	var nets []Net
	cur, want := -1, 0
	for s.Scan() {
		l := s.Line()
		switch {
		case l.Key("NumNets:"):
			n, err := l.Value().Int(0, "net count")
			if err != nil {
				return nil, err
			}
			numNets = n
			nets = make([]Net, 0, n)
		case l.Key("NetDegree:"):
			if numNets < 0 {
				return nil, errors.Parse("", l.No, "NetDegree before NumNets")
			}
			if cur >= 0 && len(nets[cur].Members) != want {
				return nil, errors.Parse("", l.No, "net %d has %d members, NetDegree said %d", cur+1, len(nets[cur].Members), want)
			}
			d, err := l.Value().Int(0, "net degree")
			if err != nil {
				return nil, err
			}
			nets = append(nets, Net{Members: make([]string, 0, d)})
			cur, want = len(nets)-1, d
		default:
			if cur < 0 {
				return nil, errors.Parse("", l.No, "net member %q outside a net", l.Fields[0])
			}
			if len(nets[cur].Members)+len(l.Fields) > want {
				return nil, errors.Parse("", l.No, "net %d has more than %d members", cur+1, want)
			}
			nets[cur].Members = append(nets[cur].Members, l.Fields...)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if numNets < 0 {
		return nil, errors.Parse("", 0, "missing NumNets header")
	}
	if cur >= 0 && len(nets[cur].Members) != want {
		return nil, errors.Parse("", 0, "net %d has %d members, NetDegree said %d", cur+1, len(nets[cur].Members), want)
	}
	if len(nets) != numNets {
		return nil, errors.Parse("", 0, "NumNets is %d but %d nets are listed", numNets, len(nets))
	}
	return nets, nil
}

// resultHeaderLines is the number of summary lines before the block lines.
const resultHeaderLines = 5

// ParseResult reads a solver output file. After the summary only lines of
// exactly five fields are block lines; others are skipped and their line
// numbers kept in Result.Skipped.
func ParseResult(r io.Reader) (*Result, error) {
	s := textio.NewScanner(r)
	res := &Result{}

	for i := 0; i < resultHeaderLines; i++ {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Parse("", 0, "output ends after %d of %d summary lines", i, resultHeaderLines)
		}
		l := s.Line()
		var err error
		switch i {
		case 0:
			res.Cost, err = l.Float(0, "cost")
		case 1:
			res.Wirelength, err = l.Float(0, "wirelength")
		case 2:
			res.Area, err = l.Float(0, "chip area")
		case 3:
			if res.ChipWidth, err = l.Float(0, "chip width"); err == nil {
				res.ChipHeight, err = l.Float(1, "chip height")
			}
		case 4:
			res.Runtime, err = l.Float(0, "runtime")
		}
		if err != nil {
			return nil, err
		}
	}

	index := make(map[string]int)
	for s.Scan() {
		l := s.Line()
		if len(l.Fields) != 5 {
			res.Skipped = append(res.Skipped, l.No)
			continue
		}
		var c [4]float64
		for i, what := range []string{"x1", "y1", "x2", "y2"} {
			v, err := l.Float(i+1, what)
			if err != nil {
				return nil, err
			}
			c[i] = v
		}
		b := Placed{Name: l.Fields[0], Rect: geom.R(c[0], c[1], c[2], c[3])}
		if i, ok := index[b.Name]; ok {
			res.Blocks[i] = b
			continue
		}
		index[b.Name] = len(res.Blocks)
		res.Blocks = append(res.Blocks, b)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// ReadResult parses the output file at path.
func ReadResult(path string) (*Result, error) {
	var res *Result
	err := readFile(path, func(r io.Reader) (err error) {
		res, err = ParseResult(r)
		return err
	})
	return res, err
}

// ReadProblem parses a block file and a net file.
func ReadProblem(blockPath, netPath string) (*Problem, error) {
	var p *Problem
	if err := readFile(blockPath, func(r io.Reader) (err error) {
		p, err = ParseBlocks(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(netPath, func(r io.Reader) (err error) {
		p.Nets, err = ParseNets(r)
		return err
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads all three files and joins them.
func Load(blockPath, netPath, outputPath string) (*Floorplan, error) {
	p, err := ReadProblem(blockPath, netPath)
	if err != nil {
		return nil, err
	}
	res, err := ReadResult(outputPath)
	if err != nil {
		return nil, err
	}
	fp := New(p, res)
	fp.Name = filepath.Base(blockPath)
	return fp, nil
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
