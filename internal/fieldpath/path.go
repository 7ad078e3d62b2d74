// Package fieldpath parses dotted member paths such as "Customer.Name" or "Lines[2].Sku".
package fieldpath

import (
	"strconv"
	"strings"

	"caster-engine/internal/errors"
)

// NoIndex marks a segment without an index suffix.
const NoIndex = -1

// Segment is one member name, optionally followed by an element index.
type Segment struct {
	Name  string
	Index int
}

// Path is a parsed member path.
type Path struct {
	Segments []Segment
}

// Parse parses a member path.
// Supports: "Field", "Nested.Field", "Items[0]", "Items[0].ProductID".
func Parse(path string) (Path, error) {
	if path == "" {
		return Path{}, errors.New("empty path")
	}

	var segments []Segment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return Path{}, errors.Newf("invalid path %q: empty segment", path)
		}

		name, index := part, NoIndex

		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return Path{}, errors.Newf("invalid path %q: unterminated index in %q", path, part)
			}

			n, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || n < 0 {
				return Path{}, errors.Newf("invalid path %q: bad index in %q", path, part)
			}

			name, index = part[:open], n
		}

		if !IsIdent(name) {
			return Path{}, errors.Newf("invalid path %q: invalid identifier %q", path, name)
		}

		segments = append(segments, Segment{Name: name, Index: index})
	}

	return Path{Segments: segments}, nil
}

// MustParse is Parse for constant paths.
func MustParse(path string) Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return p
}

// Join appends a member to the path.
func (p Path) Join(name string) Path {
	segments := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segments, p.Segments)

	return Path{Segments: append(segments, Segment{Name: name, Index: NoIndex})}
}

// At sets the element index of the last segment.
func (p Path) At(index int) Path {
	if len(p.Segments) == 0 {
		return p
	}

	segments := make([]Segment, len(p.Segments))
	copy(segments, p.Segments)
	segments[len(segments)-1].Index = index

	return Path{Segments: segments}
}

func (p Path) IsEmpty() bool { return len(p.Segments) == 0 }

func (p Path) String() string {
	var sb strings.Builder

	for i, s := range p.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(s.Name)

		if s.Index != NoIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteByte(']')
		}
	}

	return sb.String()
}

// IsIdent checks if a string is a valid Go identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

// IsExportedIdent checks that s is an identifier starting with an upper-case ASCII letter.
func IsExportedIdent(s string) bool {
	return IsIdent(s) && s[0] >= 'A' && s[0] <= 'Z'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
