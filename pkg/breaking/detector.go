package breaking

import (
	"fmt"
	"sort"

	"github.com/protolens/protolens/pkg/ast"
)

// Category identifies the kind of breaking change.
type Category string

const (
	CategoryFieldRemoved      Category = "field_removed"
	CategoryFieldTypeChanged  Category = "field_type_changed"
	CategoryFieldNumberReused Category = "field_number_reused"
	CategoryEnumValueRemoved  Category = "enum_value_removed"
	CategoryRPCRemoved        Category = "rpc_removed"
)

// Change is one detected breaking change between two file versions.
type Change struct {
	Category Category
	// Location is the fully-qualified name of the affected declaration.
	Location       string
	Message        string
	OldValue       string
	NewValue       string
	WireBreaking   bool
	SourceBreaking bool
	Suggestion     string
}

// Summary aggregates detected changes.
type Summary struct {
	TotalChanges   int
	WireBreaking   int
	SourceBreaking int
}

// Detect compares the current version of a file against a baseline and
// returns the breaking changes, sorted by location. A nil baseline yields no
// changes: without a prior version there is nothing to break against.
func Detect(current, baseline *ast.ProtoFile) []Change {
	if baseline == nil || current == nil {
		return nil
	}

	d := &detector{changes: make([]Change, 0)}

	oldMessages := collectMessages(baseline)
	newMessages := collectMessages(current)
	for _, fqn := range sortedKeys(oldMessages) {
		d.compareMessage(fqn, oldMessages[fqn], newMessages[fqn])
	}

	oldEnums := collectEnums(baseline)
	newEnums := collectEnums(current)
	for _, fqn := range sortedKeys(oldEnums) {
		d.compareEnum(fqn, oldEnums[fqn], newEnums[fqn])
	}

	oldServices := collectServices(baseline)
	newServices := collectServices(current)
	for _, fqn := range sortedKeys(oldServices) {
		d.compareService(fqn, oldServices[fqn], newServices[fqn])
	}

	sort.SliceStable(d.changes, func(i, j int) bool {
		if d.changes[i].Location != d.changes[j].Location {
			return d.changes[i].Location < d.changes[j].Location
		}
		return d.changes[i].Category < d.changes[j].Category
	})
	return d.changes
}

// Summarize aggregates changes into counts.
func Summarize(changes []Change) Summary {
	summary := Summary{TotalChanges: len(changes)}
	for _, c := range changes {
		if c.WireBreaking {
			summary.WireBreaking++
		}
		if c.SourceBreaking {
			summary.SourceBreaking++
		}
	}
	return summary
}

type detector struct {
	changes []Change
}

func (d *detector) add(c Change) {
	d.changes = append(d.changes, c)
}

// compareMessage diffs one message by fully-qualified name. A message absent
// from the current version is reported as each of its fields being removed.
func (d *detector) compareMessage(fqn string, oldMsg, newMsg *ast.MessageDecl) {
	oldFields := directFields(oldMsg)

	if newMsg == nil {
		for _, f := range oldFields {
			d.fieldRemoved(fqn, f)
		}
		return
	}

	newFields := directFields(newMsg)
	newByName := make(map[string]*ast.FieldDecl, len(newFields))
	newByNumber := make(map[int]*ast.FieldDecl, len(newFields))
	for _, f := range newFields {
		newByName[f.Name] = f
		newByNumber[f.Number] = f
	}

	for _, oldField := range oldFields {
		newField, ok := newByName[oldField.Name]
		if !ok {
			d.fieldRemoved(fqn, oldField)

			// The freed number must stay free; a different field taking it
			// over silently reinterprets old payloads.
			if taken, exists := newByNumber[oldField.Number]; exists {
				d.add(Change{
					Category:       CategoryFieldNumberReused,
					Location:       fqn + "." + taken.Name,
					Message:        fmt.Sprintf("field number %d was used by %q and is now reused by %q", oldField.Number, oldField.Name, taken.Name),
					OldValue:       oldField.Name,
					NewValue:       taken.Name,
					WireBreaking:   true,
					SourceBreaking: false,
					Suggestion:     fmt.Sprintf("reserve %d instead of reusing it", oldField.Number),
				})
			}
			continue
		}

		if typeText(oldField) != typeText(newField) {
			d.add(Change{
				Category:       CategoryFieldTypeChanged,
				Location:       fqn + "." + oldField.Name,
				Message:        fmt.Sprintf("field %q changed type from %q to %q", oldField.Name, typeText(oldField), typeText(newField)),
				OldValue:       typeText(oldField),
				NewValue:       typeText(newField),
				WireBreaking:   true,
				SourceBreaking: true,
				Suggestion:     "add a new field with the new type and deprecate the old one",
			})
		}

		if oldField.Number != newField.Number {
			d.add(Change{
				Category:       CategoryFieldNumberReused,
				Location:       fqn + "." + oldField.Name,
				Message:        fmt.Sprintf("field %q changed number from %d to %d", oldField.Name, oldField.Number, newField.Number),
				OldValue:       fmt.Sprintf("%d", oldField.Number),
				NewValue:       fmt.Sprintf("%d", newField.Number),
				WireBreaking:   true,
				SourceBreaking: false,
				Suggestion:     "field numbers are the wire identity and must never change",
			})
		}
	}
}

func (d *detector) fieldRemoved(fqn string, f *ast.FieldDecl) {
	d.add(Change{
		Category:       CategoryFieldRemoved,
		Location:       fqn + "." + f.Name,
		Message:        fmt.Sprintf("field %q (number %d) was removed", f.Name, f.Number),
		OldValue:       fmt.Sprintf("%s %s = %d", typeText(f), f.Name, f.Number),
		WireBreaking:   true,
		SourceBreaking: true,
		Suggestion:     fmt.Sprintf("reserve %d and %q instead of deleting the field", f.Number, f.Name),
	})
}

func (d *detector) compareEnum(fqn string, oldEnum, newEnum *ast.EnumDecl) {
	var newNames map[string]bool
	if newEnum != nil {
		newNames = make(map[string]bool, len(newEnum.Values))
		for _, v := range newEnum.Values {
			newNames[v.Name] = true
		}
	}

	for _, oldValue := range oldEnum.Values {
		if newNames[oldValue.Name] {
			continue
		}
		d.add(Change{
			Category:       CategoryEnumValueRemoved,
			Location:       fqn + "." + oldValue.Name,
			Message:        fmt.Sprintf("enum value %q (number %d) was removed", oldValue.Name, oldValue.Number),
			OldValue:       fmt.Sprintf("%s = %d", oldValue.Name, oldValue.Number),
			WireBreaking:   true,
			SourceBreaking: true,
			Suggestion:     fmt.Sprintf("reserve %d and %q instead of deleting the value", oldValue.Number, oldValue.Name),
		})
	}
}

func (d *detector) compareService(fqn string, oldSvc, newSvc *ast.ServiceDecl) {
	var newNames map[string]bool
	if newSvc != nil {
		newNames = make(map[string]bool, len(newSvc.RPCs))
		for _, rpc := range newSvc.RPCs {
			newNames[rpc.Name] = true
		}
	}

	for _, oldRPC := range oldSvc.RPCs {
		if newNames[oldRPC.Name] {
			continue
		}
		d.add(Change{
			Category:       CategoryRPCRemoved,
			Location:       fqn + "." + oldRPC.Name,
			Message:        fmt.Sprintf("rpc %q was removed", oldRPC.Name),
			OldValue:       fmt.Sprintf("rpc %s(%s) returns (%s)", oldRPC.Name, oldRPC.InputType, oldRPC.OutputType),
			WireBreaking:   false,
			SourceBreaking: true,
			Suggestion:     "deprecate the method instead of removing it",
		})
	}
}

// typeText is the comparable type of a field, map types included.
func typeText(f *ast.FieldDecl) string {
	if f.IsMap {
		return fmt.Sprintf("map<%s, %s>", f.KeyType, f.ValueType)
	}
	if f.Repeated {
		return "repeated " + f.Type
	}
	return f.Type
}

// directFields is a message's own number space: direct fields plus oneof
// members.
func directFields(msg *ast.MessageDecl) []*ast.FieldDecl {
	fields := make([]*ast.FieldDecl, 0, len(msg.Fields))
	fields = append(fields, msg.Fields...)
	for _, oneof := range msg.Oneofs {
		fields = append(fields, oneof.Fields...)
	}
	return fields
}

func collectMessages(file *ast.ProtoFile) map[string]*ast.MessageDecl {
	out := make(map[string]*ast.MessageDecl)
	var walk func(prefix string, msg *ast.MessageDecl)
	walk = func(prefix string, msg *ast.MessageDecl) {
		fqn := join(prefix, msg.Name)
		out[fqn] = msg
		for _, nested := range msg.Nested {
			walk(fqn, nested)
		}
	}
	for _, msg := range file.Messages {
		walk(file.Package, msg)
	}
	return out
}

func collectEnums(file *ast.ProtoFile) map[string]*ast.EnumDecl {
	out := make(map[string]*ast.EnumDecl)
	for _, enum := range file.Enums {
		out[join(file.Package, enum.Name)] = enum
	}
	var walk func(prefix string, msg *ast.MessageDecl)
	walk = func(prefix string, msg *ast.MessageDecl) {
		fqn := join(prefix, msg.Name)
		for _, enum := range msg.Enums {
			out[join(fqn, enum.Name)] = enum
		}
		for _, nested := range msg.Nested {
			walk(fqn, nested)
		}
	}
	for _, msg := range file.Messages {
		walk(file.Package, msg)
	}
	return out
}

func collectServices(file *ast.ProtoFile) map[string]*ast.ServiceDecl {
	out := make(map[string]*ast.ServiceDecl)
	for _, svc := range file.Services {
		out[join(file.Package, svc.Name)] = svc
	}
	return out
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
