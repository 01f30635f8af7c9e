package renumber

import (
	"strconv"

	"github.com/protolens/protolens/pkg/ast"
)

// Implementation-reserved field numbers are never assigned.
const (
	implReservedStart = 19000
	implReservedEnd   = 19999
)

// TextEdit replaces the text at Range with NewText. Edits never overlap and
// arrive in document order, so applying them back to front is safe.
type TextEdit struct {
	Range   ast.Range
	NewText string
}

// Options controls number assignment.
type Options struct {
	// Start is the first number to assign.
	Start int
	// Increment is the step between assigned numbers.
	Increment int
}

// DefaultOptions numbers message fields from 1.
func DefaultOptions() Options {
	return Options{Start: 1, Increment: 1}
}

// DefaultEnumOptions numbers enum values from 0, keeping the zero value
// proto3 requires.
func DefaultEnumOptions() Options {
	return Options{Start: 0, Increment: 1}
}

func (o Options) normalized() Options {
	if o.Increment <= 0 {
		o.Increment = 1
	}
	return o
}

// Document renumbers the direct fields of every message and the values of
// every enum in the text. Each container restarts at the configured start.
func Document(text string, opts Options) []TextEdit {
	containers := scanContainers(text)
	var edits []TextEdit
	for _, c := range containers {
		edits = append(edits, renumberContainer(c, opts, 0)...)
	}
	return edits
}

// Message renumbers the direct fields of the named message. Oneof members
// count as direct fields; nested messages keep their own numbering. The
// name may be a dotted path ("Outer.Inner") to disambiguate nesting.
func Message(text, name string, opts Options) []TextEdit {
	for _, c := range scanContainers(text) {
		if c.kind == containerMessage && (c.name == name || c.path == name) {
			return renumberContainer(c, opts, 0)
		}
	}
	return nil
}

// Enum renumbers the values of the named enum.
func Enum(text, name string, opts Options) []TextEdit {
	for _, c := range scanContainers(text) {
		if c.kind == containerEnum && (c.name == name || c.path == name) {
			return renumberContainer(c, opts, 0)
		}
	}
	return nil
}

// FromPosition renumbers only the fields at or after the byte offset inside
// the innermost enclosing message or enum. Numbers of earlier fields stay
// and are treated as taken.
func FromPosition(text string, offset int, opts Options) []TextEdit {
	var target *container
	for _, c := range scanContainers(text) {
		if c.bodyStart <= offset && offset <= c.bodyEnd {
			// Innermost wins; containers are emitted outermost first.
			target = c
		}
	}
	if target == nil {
		return nil
	}
	return renumberContainer(target, opts, offset)
}

// renumberContainer assigns sequential numbers to the container's fields at
// or after fromOffset, skipping reserved numbers, the implementation band,
// and numbers kept by earlier fields.
func renumberContainer(c *container, opts Options, fromOffset int) []TextEdit {
	opts = opts.normalized()

	taken := func(n int) bool {
		if n >= implReservedStart && n <= implReservedEnd {
			return true
		}
		return c.reserved.contains(n)
	}

	// Numbers before the cutoff stay in place and block reuse.
	kept := make(map[int]bool)
	for _, f := range c.fields {
		if f.numberToken.Pos.Offset < fromOffset {
			kept[f.value] = true
		}
	}

	var edits []TextEdit
	next := opts.Start
	for _, f := range c.fields {
		if f.numberToken.Pos.Offset < fromOffset {
			continue
		}
		for taken(next) || kept[next] {
			next += opts.Increment
		}
		replacement := strconv.Itoa(next)
		if f.numberToken.Text != replacement {
			edits = append(edits, TextEdit{
				Range:   ast.Range{Start: f.numberToken.Pos, End: f.numberToken.End},
				NewText: replacement,
			})
		}
		next += opts.Increment
	}
	return edits
}
