package renumber

import (
	"strconv"

	"github.com/protolens/protolens/pkg/ast"
)

type containerKind int

const (
	containerMessage containerKind = iota
	containerEnum
)

// fieldSlot is one number token eligible for reassignment, in textual order.
type fieldSlot struct {
	numberToken ast.Token
	value       int
}

// intervalSet holds reserved number intervals. Ranges are kept as intervals
// instead of expanded sets so "to max" costs nothing.
type intervalSet struct {
	intervals [][2]int
}

func (s *intervalSet) add(start, end int) {
	if end > ast.MaxFieldNumber {
		end = ast.MaxFieldNumber
	}
	s.intervals = append(s.intervals, [2]int{start, end})
}

func (s *intervalSet) contains(n int) bool {
	for _, iv := range s.intervals {
		if n >= iv[0] && n <= iv[1] {
			return true
		}
	}
	return false
}

// container is a message or enum body located by brace balance. Oneof
// members are attributed to the enclosing message.
type container struct {
	kind      containerKind
	name      string
	path      string
	bodyStart int
	bodyEnd   int
	fields    []fieldSlot
	reserved  intervalSet
}

// frame is one open brace on the scan stack.
type frame struct {
	c     *container // nil for braces that are not message/enum bodies
	oneof bool
}

// scanContainers tokenizes the text and locates every message and enum body
// with its field number slots and reserved intervals. The result is in
// document order, outer containers before the containers nested in them.
func scanContainers(text string) []*container {
	toks := tokenize(text)

	var result []*container
	var stack []frame
	bracketDepth := 0
	statementStart := true

	// innermost returns the container that owns fields at the current
	// nesting, skipping oneof frames up to their message.
	innermost := func() *container {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].oneof {
				continue
			}
			return stack[i].c
		}
		return nil
	}

	currentPath := func() string {
		path := ""
		for _, f := range stack {
			if f.c == nil {
				continue
			}
			if path != "" {
				path += "."
			}
			path += f.c.name
		}
		return path
	}

	i := 0
	for i < len(toks) {
		t := toks[i]

		switch {
		case statementStart && t.Type == ast.TokenIdentifier && (t.Text == "message" || t.Text == "enum") &&
			i+2 < len(toks) && toks[i+1].Type == ast.TokenIdentifier && isPunct(toks[i+2], "{"):
			kind := containerMessage
			if t.Text == "enum" {
				kind = containerEnum
			}
			c := &container{
				kind:      kind,
				name:      toks[i+1].Text,
				bodyStart: toks[i+2].End.Offset,
				bodyEnd:   len(text),
			}
			if p := currentPath(); p != "" {
				c.path = p + "." + c.name
			} else {
				c.path = c.name
			}
			result = append(result, c)
			stack = append(stack, frame{c: c})
			i += 3
			statementStart = true
			continue

		case statementStart && t.Type == ast.TokenIdentifier && t.Text == "oneof" &&
			i+2 < len(toks) && toks[i+1].Type == ast.TokenIdentifier && isPunct(toks[i+2], "{"):
			stack = append(stack, frame{oneof: true})
			i += 3
			statementStart = true
			continue

		case statementStart && t.Type == ast.TokenIdentifier && t.Text == "reserved" && innermost() != nil:
			i = scanReserved(toks, i+1, innermost())
			statementStart = true
			continue

		case statementStart && t.Type == ast.TokenIdentifier && (t.Text == "option" || t.Text == "extend"):
			// Option values and extend bodies carry numbers that are not
			// field slots of the current container.
			i = skipStatement(toks, i+1)
			statementStart = true
			continue

		case isPunct(t, "{"):
			stack = append(stack, frame{})
			statementStart = true

		case isPunct(t, "}"):
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.c != nil {
					top.c.bodyEnd = t.Pos.Offset
				}
			}
			statementStart = true

		case isPunct(t, "["):
			bracketDepth++
			statementStart = false

		case isPunct(t, "]"):
			if bracketDepth > 0 {
				bracketDepth--
			}
			statementStart = false

		case isPunct(t, "=") && bracketDepth == 0 &&
			i+1 < len(toks) && toks[i+1].Type == ast.TokenNumber:
			if c := innermost(); c != nil {
				if value, err := strconv.Atoi(toks[i+1].Text); err == nil {
					c.fields = append(c.fields, fieldSlot{
						numberToken: toks[i+1],
						value:       value,
					})
				}
			}
			i += 2
			statementStart = false
			continue

		case isPunct(t, ";"):
			statementStart = true

		default:
			statementStart = false
		}
		i++
	}

	return result
}

// scanReserved consumes a reserved statement starting after the keyword and
// records its intervals. Reserved names are irrelevant to numbering and are
// skipped. Returns the index just past the terminating semicolon.
func scanReserved(toks []ast.Token, i int, c *container) int {
	for i < len(toks) && !isPunct(toks[i], ";") {
		if toks[i].Type != ast.TokenNumber {
			i++
			continue
		}
		start, err := strconv.Atoi(toks[i].Text)
		if err != nil {
			i++
			continue
		}
		end := start
		if i+1 < len(toks) && toks[i+1].Type == ast.TokenIdentifier && toks[i+1].Text == "to" {
			i += 2
			if i < len(toks) {
				switch {
				case toks[i].Type == ast.TokenNumber:
					if n, err := strconv.Atoi(toks[i].Text); err == nil {
						end = n
					}
				case toks[i].Type == ast.TokenIdentifier && toks[i].Text == "max":
					end = ast.MaxFieldNumber
				}
			}
		}
		c.reserved.add(start, end)
		i++
	}
	if i < len(toks) {
		i++ // consume ';'
	}
	return i
}

// skipStatement consumes a statement that either ends at a semicolon at
// brace depth zero or is a balanced brace block (an extend body, an
// aggregate option value). Returns the index past it.
func skipStatement(toks []ast.Token, i int) int {
	depth := 0
	for i < len(toks) {
		switch {
		case isPunct(toks[i], "{"):
			depth++
		case isPunct(toks[i], "}"):
			depth--
			if depth <= 0 {
				return i + 1
			}
		case isPunct(toks[i], ";") && depth <= 0:
			return i + 1
		}
		i++
	}
	return i
}

// tokenize produces the comment-free token stream of the text.
func tokenize(text string) []ast.Token {
	s := ast.NewScanner(text)
	var toks []ast.Token
	for {
		t := s.Scan()
		if t.Type == ast.TokenEOF {
			return toks
		}
		if t.Type == ast.TokenComment {
			continue
		}
		toks = append(toks, t)
	}
}

func isPunct(t ast.Token, text string) bool {
	return t.Type == ast.TokenPunctuation && t.Text == text
}
