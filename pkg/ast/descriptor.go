package ast

import (
	"context"
	"fmt"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/reporter"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// CompileError is a compiler-grade finding from the strict parse path.
type CompileError struct {
	Message string
	Pos     Position
}

// ParseStrict compiles a single in-memory file with protocompile and returns
// its file descriptor. Unlike Parse it applies the full language rules, so it
// catches problems the tolerant parser recovers from. Imports are stubbed out
// with the well-known types only; cross-file resolution stays the job of the
// index.
func ParseStrict(ctx context.Context, uri, content string) (*descriptorpb.FileDescriptorProto, []CompileError, error) {
	return ParseStrictWithSources(ctx, uri, map[string]string{uri: content})
}

// ParseStrictWithSources compiles uri against an explicit source map, so
// imports between in-memory files resolve. uri must be a key of sources.
func ParseStrictWithSources(ctx context.Context, uri string, sources map[string]string) (*descriptorpb.FileDescriptorProto, []CompileError, error) {
	var compileErrs []CompileError
	rep := reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			pos := err.GetPosition()
			compileErrs = append(compileErrs, CompileError{
				Message: err.Unwrap().Error(),
				Pos:     Position{Line: pos.Line, Column: pos.Col, Offset: pos.Offset},
			})
			return nil // keep collecting
		},
		func(err reporter.ErrorWithPos) {
			pos := err.GetPosition()
			compileErrs = append(compileErrs, CompileError{
				Message: err.Unwrap().Error(),
				Pos:     Position{Line: pos.Line, Column: pos.Col, Offset: pos.Offset},
			})
		},
	)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		}),
		Reporter: rep,
	}

	results, err := compiler.Compile(ctx, uri)
	if err != nil {
		// Compile errors were already routed through the reporter; anything
		// else (cancelled context, missing file) surfaces as a hard error.
		if len(compileErrs) > 0 {
			return nil, compileErrs, nil
		}
		return nil, nil, fmt.Errorf("compile %s: %w", uri, err)
	}

	var fd protoreflect.FileDescriptor
	for _, f := range results {
		fd = f
		break
	}
	if fd == nil {
		return nil, compileErrs, fmt.Errorf("compile %s: no file produced", uri)
	}
	return fileDescriptorToProto(fd), compileErrs, nil
}

// fileDescriptorToProto converts a linked descriptor back to its proto form.
func fileDescriptorToProto(fd protoreflect.FileDescriptor) *descriptorpb.FileDescriptorProto {
	name := fd.Path()
	pkg := string(fd.Package())
	syntax := fd.Syntax().String()

	out := &descriptorpb.FileDescriptorProto{
		Name:    &name,
		Package: &pkg,
		Syntax:  &syntax,
	}

	for i := 0; i < fd.Imports().Len(); i++ {
		out.Dependency = append(out.Dependency, fd.Imports().Get(i).Path())
	}
	for i := 0; i < fd.Messages().Len(); i++ {
		out.MessageType = append(out.MessageType, messageDescriptorToProto(fd.Messages().Get(i)))
	}
	for i := 0; i < fd.Enums().Len(); i++ {
		out.EnumType = append(out.EnumType, enumDescriptorToProto(fd.Enums().Get(i)))
	}
	for i := 0; i < fd.Services().Len(); i++ {
		out.Service = append(out.Service, serviceDescriptorToProto(fd.Services().Get(i)))
	}
	return out
}

func messageDescriptorToProto(md protoreflect.MessageDescriptor) *descriptorpb.DescriptorProto {
	name := string(md.Name())
	out := &descriptorpb.DescriptorProto{Name: &name}

	for i := 0; i < md.Fields().Len(); i++ {
		out.Field = append(out.Field, fieldDescriptorToProto(md.Fields().Get(i)))
	}
	for i := 0; i < md.Messages().Len(); i++ {
		out.NestedType = append(out.NestedType, messageDescriptorToProto(md.Messages().Get(i)))
	}
	for i := 0; i < md.Enums().Len(); i++ {
		out.EnumType = append(out.EnumType, enumDescriptorToProto(md.Enums().Get(i)))
	}
	return out
}

func fieldDescriptorToProto(fd protoreflect.FieldDescriptor) *descriptorpb.FieldDescriptorProto {
	name := string(fd.Name())
	number := int32(fd.Number())
	out := &descriptorpb.FieldDescriptorProto{Name: &name, Number: &number}

	typ := descriptorpb.FieldDescriptorProto_Type(fd.Kind())
	out.Type = &typ

	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		tn := "." + string(fd.Message().FullName())
		out.TypeName = &tn
	case protoreflect.EnumKind:
		tn := "." + string(fd.Enum().FullName())
		out.TypeName = &tn
	}

	var label descriptorpb.FieldDescriptorProto_Label
	switch fd.Cardinality() {
	case protoreflect.Repeated:
		label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	case protoreflect.Required:
		label = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED
	default:
		label = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	}
	out.Label = &label
	return out
}

func enumDescriptorToProto(ed protoreflect.EnumDescriptor) *descriptorpb.EnumDescriptorProto {
	name := string(ed.Name())
	out := &descriptorpb.EnumDescriptorProto{Name: &name}
	for i := 0; i < ed.Values().Len(); i++ {
		v := ed.Values().Get(i)
		vName := string(v.Name())
		vNum := int32(v.Number())
		out.Value = append(out.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   &vName,
			Number: &vNum,
		})
	}
	return out
}

func serviceDescriptorToProto(sd protoreflect.ServiceDescriptor) *descriptorpb.ServiceDescriptorProto {
	name := string(sd.Name())
	out := &descriptorpb.ServiceDescriptorProto{Name: &name}
	for i := 0; i < sd.Methods().Len(); i++ {
		m := sd.Methods().Get(i)
		mName := string(m.Name())
		in := "." + string(m.Input().FullName())
		outType := "." + string(m.Output().FullName())
		cs := m.IsStreamingClient()
		ss := m.IsStreamingServer()
		out.Method = append(out.Method, &descriptorpb.MethodDescriptorProto{
			Name:            &mName,
			InputType:       &in,
			OutputType:      &outType,
			ClientStreaming: &cs,
			ServerStreaming: &ss,
		})
	}
	return out
}
