package ast

// builtinScalars holds the scalar type names that never resolve to a
// user-defined symbol.
var builtinScalars = map[string]bool{
	"double": true, "float": true,
	"int32": true, "int64": true, "uint32": true, "uint64": true,
	"sint32": true, "sint64": true,
	"fixed32": true, "fixed64": true, "sfixed32": true, "sfixed64": true,
	"bool": true, "string": true, "bytes": true,
}

// IsScalarType reports whether name is a built-in scalar type.
func IsScalarType(name string) bool {
	return builtinScalars[name]
}

// PathAt returns the chain of nodes whose ranges contain pos, outermost
// first. Because every node's range contains all descendant ranges, the walk
// descends one child per level and costs O(depth).
func PathAt(f *ProtoFile, pos Position) []Node {
	path := []Node{f}
	var descend func(nodes []Node)
	descend = func(nodes []Node) {
		for _, n := range nodes {
			if !Span(n).Contains(pos) {
				continue
			}
			path = append(path, n)
			descend(children(n))
			return
		}
	}
	descend(children(f))
	return path
}

// children returns the direct child declarations of a node.
func children(n Node) []Node {
	var out []Node
	switch d := n.(type) {
	case *ProtoFile:
		for _, imp := range d.Imports {
			out = append(out, imp)
		}
		for _, opt := range d.Options {
			out = append(out, opt)
		}
		for _, msg := range d.Messages {
			out = append(out, msg)
		}
		for _, enum := range d.Enums {
			out = append(out, enum)
		}
		for _, svc := range d.Services {
			out = append(out, svc)
		}
		for _, ext := range d.Extends {
			out = append(out, ext)
		}
	case *MessageDecl:
		for _, f := range d.Fields {
			out = append(out, f)
		}
		for _, o := range d.Oneofs {
			out = append(out, o)
		}
		for _, m := range d.Nested {
			out = append(out, m)
		}
		for _, e := range d.Enums {
			out = append(out, e)
		}
		for _, e := range d.Extends {
			out = append(out, e)
		}
		for _, r := range d.Reserved {
			out = append(out, r)
		}
		for _, o := range d.Options {
			out = append(out, o)
		}
	case *OneofDecl:
		for _, f := range d.Fields {
			out = append(out, f)
		}
	case *EnumDecl:
		for _, v := range d.Values {
			out = append(out, v)
		}
		for _, r := range d.Reserved {
			out = append(out, r)
		}
	case *ServiceDecl:
		for _, r := range d.RPCs {
			out = append(out, r)
		}
	case *ExtendDecl:
		for _, f := range d.Fields {
			out = append(out, f)
		}
	}
	return out
}

// Walk visits every node in the file in declaration order, parents before
// children. The visit function returning false prunes the subtree.
func Walk(f *ProtoFile, visit func(n Node) bool) {
	var walk func(n Node)
	walk = func(n Node) {
		if !visit(n) {
			return
		}
		for _, c := range children(n) {
			walk(c)
		}
	}
	walk(f)
}
