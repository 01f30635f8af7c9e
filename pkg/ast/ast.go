package ast

// NodeKind identifies the kind of a declaration node. The set is closed:
// consumers are expected to switch exhaustively over it.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindMessage
	KindEnum
	KindEnumValue
	KindField
	KindOneof
	KindService
	KindRPC
	KindExtend
	KindImport
	KindOption
	KindReserved
)

func (k NodeKind) String() string {
	return []string{
		"file", "message", "enum", "enum_value", "field", "oneof",
		"service", "rpc", "extend", "import", "option", "reserved",
	}[k]
}

// Position is a location in the source text. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Range is a half-open [Start, End) span of source text.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether p falls inside the range.
func (r Range) Contains(p Position) bool {
	return p.Offset >= r.Start.Offset && p.Offset < r.End.Offset
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return other.Start.Offset >= r.Start.Offset && other.End.Offset <= r.End.Offset
}

// Node is implemented by every declaration in the tree.
type Node interface {
	NodeKind() NodeKind
	Position() Position
	End() Position
}

// Span returns the full range of a node.
func Span(n Node) Range {
	return Range{Start: n.Position(), End: n.End()}
}

// ImportModifier distinguishes plain, weak and public imports.
type ImportModifier int

const (
	ImportNone ImportModifier = iota
	ImportWeak
	ImportPublic
)

func (m ImportModifier) String() string {
	return []string{"", "weak", "public"}[m]
}

// ProtoFile is the root node for one source unit. Exactly one of Syntax and
// Edition is non-empty when the file declares its mode; both are empty for
// files that omit the declaration (implicit proto2).
type ProtoFile struct {
	URI      string
	Syntax   string // "proto2" or "proto3"
	Edition  string // e.g. "2023"; mutually exclusive with Syntax
	Package  string // dotted name, empty for the default package
	Imports  []*ImportDecl
	Options  []*OptionDecl
	Messages []*MessageDecl
	Enums    []*EnumDecl
	Services []*ServiceDecl
	Extends  []*ExtendDecl

	SyntaxRange  Range // range of the syntax/edition value token
	PackageRange Range // range of the package name

	Pos    Position
	EndPos Position
}

func (f *ProtoFile) NodeKind() NodeKind { return KindFile }
func (f *ProtoFile) Position() Position { return f.Pos }
func (f *ProtoFile) End() Position      { return f.EndPos }

// IsEdition reports whether the file declares an edition rather than a
// legacy syntax version.
func (f *ProtoFile) IsEdition() bool { return f.Edition != "" }

// ImportDecl is a single import statement with its raw path as written.
type ImportDecl struct {
	Path     string
	Modifier ImportModifier

	PathRange Range
	Pos       Position
	EndPos    Position
}

func (d *ImportDecl) NodeKind() NodeKind { return KindImport }
func (d *ImportDecl) Position() Position { return d.Pos }
func (d *ImportDecl) End() Position      { return d.EndPos }

// OptionDecl is an option statement or a bracketed field option.
type OptionDecl struct {
	Name  string
	Value string

	NameRange Range
	Pos       Position
	EndPos    Position
}

func (d *OptionDecl) NodeKind() NodeKind { return KindOption }
func (d *OptionDecl) Position() Position { return d.Pos }
func (d *OptionDecl) End() Position      { return d.EndPos }

// MessageDecl is a message definition. Messages nest messages and enums
// recursively with no depth limit.
type MessageDecl struct {
	Name     string
	Fields   []*FieldDecl
	Oneofs   []*OneofDecl
	Nested   []*MessageDecl
	Enums    []*EnumDecl
	Extends  []*ExtendDecl
	Options  []*OptionDecl
	Reserved []*ReservedDecl

	NameRange Range
	Pos       Position
	EndPos    Position
}

func (d *MessageDecl) NodeKind() NodeKind { return KindMessage }
func (d *MessageDecl) Position() Position { return d.Pos }
func (d *MessageDecl) End() Position      { return d.EndPos }

// FieldDecl is a field inside a message, oneof or extend block. Type holds
// the raw textual reference exactly as written, possibly qualified. For map
// fields Type is the full "map<K, V>" text and KeyType/ValueType carry the
// parts.
type FieldDecl struct {
	Name   string
	Type   string
	Number int

	Repeated bool
	Optional bool
	Required bool

	IsMap     bool
	KeyType   string
	ValueType string

	Options []*OptionDecl

	NameRange Range
	TypeRange Range // for maps, the range of the value type
	Pos       Position
	EndPos    Position
}

func (d *FieldDecl) NodeKind() NodeKind { return KindField }
func (d *FieldDecl) Position() Position { return d.Pos }
func (d *FieldDecl) End() Position      { return d.EndPos }

// OneofDecl groups fields that share the parent message's number namespace.
type OneofDecl struct {
	Name    string
	Fields  []*FieldDecl
	Options []*OptionDecl

	NameRange Range
	Pos       Position
	EndPos    Position
}

func (d *OneofDecl) NodeKind() NodeKind { return KindOneof }
func (d *OneofDecl) Position() Position { return d.Pos }
func (d *OneofDecl) End() Position      { return d.EndPos }

// EnumDecl is an enum definition.
type EnumDecl struct {
	Name     string
	Values   []*EnumValueDecl
	Options  []*OptionDecl
	Reserved []*ReservedDecl

	NameRange Range
	Pos       Position
	EndPos    Position
}

func (d *EnumDecl) NodeKind() NodeKind { return KindEnum }
func (d *EnumDecl) Position() Position { return d.Pos }
func (d *EnumDecl) End() Position      { return d.EndPos }

// EnumValueDecl is a single value of an enum.
type EnumValueDecl struct {
	Name    string
	Number  int
	Options []*OptionDecl

	NameRange Range
	Pos       Position
	EndPos    Position
}

func (d *EnumValueDecl) NodeKind() NodeKind { return KindEnumValue }
func (d *EnumValueDecl) Position() Position { return d.Pos }
func (d *EnumValueDecl) End() Position      { return d.EndPos }

// ServiceDecl is a service definition.
type ServiceDecl struct {
	Name    string
	RPCs    []*RPCDecl
	Options []*OptionDecl

	NameRange Range
	Pos       Position
	EndPos    Position
}

func (d *ServiceDecl) NodeKind() NodeKind { return KindService }
func (d *ServiceDecl) Position() Position { return d.Pos }
func (d *ServiceDecl) End() Position      { return d.EndPos }

// RPCDecl is a method inside a service.
type RPCDecl struct {
	Name            string
	InputType       string
	OutputType      string
	ClientStreaming bool
	ServerStreaming bool
	Options         []*OptionDecl

	NameRange   Range
	InputRange  Range
	OutputRange Range
	Pos         Position
	EndPos      Position
}

func (d *RPCDecl) NodeKind() NodeKind { return KindRPC }
func (d *RPCDecl) Position() Position { return d.Pos }
func (d *RPCDecl) End() Position      { return d.EndPos }

// ExtendDecl is an extend block targeting an existing message.
type ExtendDecl struct {
	Target string
	Fields []*FieldDecl

	TargetRange Range
	Pos         Position
	EndPos      Position
}

func (d *ExtendDecl) NodeKind() NodeKind { return KindExtend }
func (d *ExtendDecl) Position() Position { return d.Pos }
func (d *ExtendDecl) End() Position      { return d.EndPos }

// MaxFieldNumber is the largest valid field number.
const MaxFieldNumber = 536870911

// ReservedRange is a closed [Start, End] interval of reserved numbers.
// Max marks an open-ended "N to max" range; End is then MaxFieldNumber.
type ReservedRange struct {
	Start int
	End   int
	Max   bool
}

// ReservedDecl is a reserved statement holding number ranges and/or names.
type ReservedDecl struct {
	Ranges []ReservedRange
	Names  []string

	Pos    Position
	EndPos Position
}

func (d *ReservedDecl) NodeKind() NodeKind { return KindReserved }
func (d *ReservedDecl) Position() Position { return d.Pos }
func (d *ReservedDecl) End() Position      { return d.EndPos }
