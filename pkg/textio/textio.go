// Package textio reads the whitespace-delimited, line-oriented text formats
// used by the floorplanning and placement toolchains.
package textio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/fpviz/fpviz/pkg/errors"
)

// maxLineSize bounds a single input line. Bookshelf net and node files can
// carry very long comment banners.
const maxLineSize = 4 << 20

// Line is one non-blank input line split into fields.
type Line struct {
	No     int      // 1-based line number in the input
	Fields []string // whitespace-separated fields
}

// Scanner yields the non-blank, non-comment lines of an input.
// Lines whose first non-space character is '#' are comments.
type Scanner struct {
	s    *bufio.Scanner
	no   int
	line Line
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{s: s}
}

// Scan advances to the next content line.
func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		s.no++
		text := strings.TrimSpace(s.s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		s.line = Line{No: s.no, Fields: strings.Fields(text)}
		return true
	}
	return false
}

// Line returns the current line.
func (s *Scanner) Line() Line { return s.line }

// Err returns the first read error.
func (s *Scanner) Err() error {
	if err := s.s.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "read line %d", s.no+1)
	}
	return nil
}

// Float parses field i of l as a float64. what names the value in errors.
func (l Line) Float(i int, what string) (float64, error) {
	if i >= len(l.Fields) {
		return 0, errors.Parse("", l.No, "missing %s", what)
	}
	v, err := strconv.ParseFloat(l.Fields[i], 64)
	if err != nil {
		return 0, errors.Parse("", l.No, "invalid %s %q", what, l.Fields[i])
	}
	return v, nil
}

// Int parses field i of l as a non-negative int.
func (l Line) Int(i int, what string) (int, error) {
	if i >= len(l.Fields) {
		return 0, errors.Parse("", l.No, "missing %s", what)
	}
	v, err := strconv.Atoi(l.Fields[i])
	if err != nil || v < 0 {
		return 0, errors.Parse("", l.No, "invalid %s %q", what, l.Fields[i])
	}
	return v, nil
}

// Key reports whether the line starts with the header keyword key.
// Keywords match with or without their trailing colon, and "Key :" with the
// colon split off is accepted as well, since Bookshelf writers differ.
func (l Line) Key(key string) bool {
	if len(l.Fields) == 0 {
		return false
	}
	return strings.TrimSuffix(l.Fields[0], ":") == strings.TrimSuffix(key, ":")
}

// Value returns the fields after a header keyword, skipping a detached ':'.
func (l Line) Value() Line {
	rest := l.Fields[1:]
	if len(rest) > 0 && rest[0] == ":" {
		rest = rest[1:]
	}
	return Line{No: l.No, Fields: rest}
}
