package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError is a recoverable problem found while parsing. The parser keeps
// going after recording one, so a file with local syntax errors still yields
// a structurally complete tree for the statements that did parse.
type ParseError struct {
	Message string
	Range   Range
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Range.Start.Line, e.Range.Start.Column, e.Message)
}

// Parse tokenizes and parses text into a ProtoFile. It never returns a nil
// tree together with a nil error: recoverable problems are reported in the
// second return value and a hard failure (the tokenizer cannot make progress)
// is reported as a non-nil error. Every declaration's name range and body
// range are byte and line/column accurate against text.
func Parse(text, uri string) (*ProtoFile, []ParseError, error) {
	p := &parser{
		src:     text,
		scanner: NewScanner(text),
	}
	p.next()
	file := p.parseFile(uri)
	return file, p.errs, nil
}

type parser struct {
	src     string
	scanner *Scanner
	current Token
	errs    []ParseError
}

// next advances to the next non-comment token.
func (p *parser) next() {
	for {
		p.current = p.scanner.Scan()
		if p.current.Type != TokenComment {
			return
		}
	}
}

func (p *parser) errorf(rng Range, format string, args ...interface{}) {
	p.errs = append(p.errs, ParseError{
		Message: fmt.Sprintf(format, args...),
		Range:   rng,
	})
}

func (p *parser) tokenRange() Range {
	return Range{Start: p.current.Pos, End: p.current.End}
}

// atPunct reports whether the current token is the given punctuation.
func (p *parser) atPunct(text string) bool {
	return p.current.Type == TokenPunctuation && p.current.Text == text
}

// atKeyword reports whether the current token is the given bare identifier.
func (p *parser) atKeyword(text string) bool {
	return p.current.Type == TokenIdentifier && p.current.Text == text
}

// expectPunct consumes the given punctuation, or records an error and
// reports failure so the caller can recover.
func (p *parser) expectPunct(text string) (Token, bool) {
	if !p.atPunct(text) {
		p.errorf(p.tokenRange(), "expected %q but got %q", text, p.current.Text)
		return p.current, false
	}
	tok := p.current
	p.next()
	return tok, true
}

// expectIdent consumes an identifier token.
func (p *parser) expectIdent(what string) (Token, bool) {
	if p.current.Type != TokenIdentifier {
		p.errorf(p.tokenRange(), "expected %s but got %q", what, p.current.Text)
		return p.current, false
	}
	tok := p.current
	p.next()
	return tok, true
}

// skipStatement recovers from a malformed statement: it consumes tokens up to
// and including the next ';' at the current nesting depth, or a balanced
// '{...}' block, leaving an enclosing '}' for the caller.
func (p *parser) skipStatement() {
	depth := 0
	for p.current.Type != TokenEOF {
		if p.current.Type == TokenPunctuation {
			switch p.current.Text {
			case ";":
				if depth == 0 {
					p.next()
					return
				}
			case "{":
				depth++
			case "}":
				if depth == 0 {
					return
				}
				depth--
				if depth == 0 {
					p.next()
					return
				}
			}
		}
		p.next()
	}
}

func (p *parser) parseFile(uri string) *ProtoFile {
	f := &ProtoFile{
		URI: uri,
		Pos: p.current.Pos,
	}

	for p.current.Type != TokenEOF {
		switch {
		case p.atKeyword("syntax"):
			p.parseSyntax(f)
		case p.atKeyword("edition"):
			p.parseEdition(f)
		case p.atKeyword("package"):
			p.parsePackage(f)
		case p.atKeyword("import"):
			if imp, ok := p.parseImport(); ok {
				f.Imports = append(f.Imports, imp)
			}
		case p.atKeyword("option"):
			if opt, ok := p.parseOptionStatement(); ok {
				f.Options = append(f.Options, opt)
			}
		case p.atKeyword("message"):
			if msg, ok := p.parseMessage(); ok {
				f.Messages = append(f.Messages, msg)
			}
		case p.atKeyword("enum"):
			if enum, ok := p.parseEnum(); ok {
				f.Enums = append(f.Enums, enum)
			}
		case p.atKeyword("service"):
			if svc, ok := p.parseService(); ok {
				f.Services = append(f.Services, svc)
			}
		case p.atKeyword("extend"):
			if ext, ok := p.parseExtend(); ok {
				f.Extends = append(f.Extends, ext)
			}
		case p.atPunct(";"):
			p.next()
		default:
			p.errorf(p.tokenRange(), "unexpected %q at file scope", p.current.Text)
			p.skipStatement()
		}
	}

	f.EndPos = p.current.End
	return f
}

func (p *parser) parseSyntax(f *ProtoFile) {
	p.next() // consume "syntax"
	if _, ok := p.expectPunct("="); !ok {
		p.skipStatement()
		return
	}
	if p.current.Type != TokenString {
		p.errorf(p.tokenRange(), "expected syntax version string")
		p.skipStatement()
		return
	}
	f.Syntax = p.current.Text
	f.SyntaxRange = p.tokenRange()
	p.next()
	if _, ok := p.expectPunct(";"); !ok {
		p.skipStatement()
	}
}

func (p *parser) parseEdition(f *ProtoFile) {
	p.next() // consume "edition"
	if _, ok := p.expectPunct("="); !ok {
		p.skipStatement()
		return
	}
	if p.current.Type != TokenString {
		p.errorf(p.tokenRange(), "expected edition string")
		p.skipStatement()
		return
	}
	f.Edition = p.current.Text
	f.SyntaxRange = p.tokenRange()
	p.next()
	if _, ok := p.expectPunct(";"); !ok {
		p.skipStatement()
	}
}

func (p *parser) parsePackage(f *ProtoFile) {
	p.next() // consume "package"
	name, ok := p.expectIdent("package name")
	if !ok {
		p.skipStatement()
		return
	}
	f.Package = name.Text
	f.PackageRange = Range{Start: name.Pos, End: name.End}
	if _, ok := p.expectPunct(";"); !ok {
		p.skipStatement()
	}
}

func (p *parser) parseImport() (*ImportDecl, bool) {
	imp := &ImportDecl{Pos: p.current.Pos}
	p.next() // consume "import"

	if p.atKeyword("public") {
		imp.Modifier = ImportPublic
		p.next()
	} else if p.atKeyword("weak") {
		imp.Modifier = ImportWeak
		p.next()
	}

	if p.current.Type != TokenString {
		p.errorf(p.tokenRange(), "expected import path string")
		p.skipStatement()
		return nil, false
	}
	imp.Path = p.current.Text
	imp.PathRange = p.tokenRange()
	p.next()

	end, ok := p.expectPunct(";")
	if !ok {
		p.skipStatement()
		imp.EndPos = imp.PathRange.End
		return imp, true
	}
	imp.EndPos = end.End
	return imp, true
}

// parseOptionStatement parses "option name = value;".
func (p *parser) parseOptionStatement() (*OptionDecl, bool) {
	opt := &OptionDecl{Pos: p.current.Pos}
	p.next() // consume "option"

	name, rng, ok := p.parseOptionName()
	if !ok {
		p.skipStatement()
		return nil, false
	}
	opt.Name = name
	opt.NameRange = rng

	if _, ok := p.expectPunct("="); !ok {
		p.skipStatement()
		return nil, false
	}

	value, ok := p.parseOptionValue()
	if !ok {
		p.skipStatement()
		return nil, false
	}
	opt.Value = value

	end, ok := p.expectPunct(";")
	if !ok {
		p.skipStatement()
		opt.EndPos = p.current.Pos
		return opt, true
	}
	opt.EndPos = end.End
	return opt, true
}

// parseOptionName consumes an option name, which may include parenthesized
// extension parts like (custom.opt).field.
func (p *parser) parseOptionName() (string, Range, bool) {
	var sb strings.Builder
	start := p.current.Pos
	end := p.current.End
	seen := false
	for {
		switch {
		case p.current.Type == TokenIdentifier:
			sb.WriteString(p.current.Text)
		case p.atPunct("(") || p.atPunct(")"):
			sb.WriteString(p.current.Text)
		default:
			if !seen {
				p.errorf(p.tokenRange(), "expected option name but got %q", p.current.Text)
				return "", Range{}, false
			}
			return sb.String(), Range{Start: start, End: end}, true
		}
		seen = true
		end = p.current.End
		p.next()
	}
}

// parseOptionValue consumes an option value: a literal, an identifier, a
// signed number, or an aggregate {...} block captured as raw text.
func (p *parser) parseOptionValue() (string, bool) {
	switch {
	case p.current.Type == TokenString:
		v := p.current.Text
		p.next()
		return v, true
	case p.current.Type == TokenIdentifier || p.current.Type == TokenNumber:
		v := p.current.Text
		p.next()
		return v, true
	case p.atPunct("-") || p.atPunct("+"):
		sign := p.current.Text
		p.next()
		if p.current.Type != TokenNumber {
			p.errorf(p.tokenRange(), "expected number after %q", sign)
			return "", false
		}
		v := sign + p.current.Text
		p.next()
		return v, true
	case p.atPunct("{"):
		start := p.current.Pos.Offset
		depth := 0
		end := p.current.End.Offset
		for p.current.Type != TokenEOF {
			if p.atPunct("{") {
				depth++
			} else if p.atPunct("}") {
				depth--
				if depth == 0 {
					end = p.current.End.Offset
					p.next()
					break
				}
			}
			end = p.current.End.Offset
			p.next()
		}
		return p.src[start:end], true
	default:
		p.errorf(p.tokenRange(), "expected option value but got %q", p.current.Text)
		return "", false
	}
}

func (p *parser) parseMessage() (*MessageDecl, bool) {
	msg := &MessageDecl{Pos: p.current.Pos}
	p.next() // consume "message"

	name, ok := p.expectIdent("message name")
	if !ok {
		p.skipStatement()
		return nil, false
	}
	msg.Name = name.Text
	msg.NameRange = Range{Start: name.Pos, End: name.End}

	if _, ok := p.expectPunct("{"); !ok {
		p.skipStatement()
		return nil, false
	}

	p.parseMessageBody(msg)

	if p.atPunct("}") {
		msg.EndPos = p.current.End
		p.next()
	} else {
		msg.EndPos = p.current.Pos
		p.errorf(p.tokenRange(), "unterminated message %q", msg.Name)
	}
	return msg, true
}

func (p *parser) parseMessageBody(msg *MessageDecl) {
	for p.current.Type != TokenEOF && !p.atPunct("}") {
		switch {
		case p.atKeyword("message"):
			if nested, ok := p.parseMessage(); ok {
				msg.Nested = append(msg.Nested, nested)
			}
		case p.atKeyword("enum"):
			if enum, ok := p.parseEnum(); ok {
				msg.Enums = append(msg.Enums, enum)
			}
		case p.atKeyword("oneof"):
			if oneof, ok := p.parseOneof(); ok {
				msg.Oneofs = append(msg.Oneofs, oneof)
			}
		case p.atKeyword("option"):
			if opt, ok := p.parseOptionStatement(); ok {
				msg.Options = append(msg.Options, opt)
			}
		case p.atKeyword("reserved"):
			if res, ok := p.parseReserved(); ok {
				msg.Reserved = append(msg.Reserved, res)
			}
		case p.atKeyword("extend"):
			if ext, ok := p.parseExtend(); ok {
				msg.Extends = append(msg.Extends, ext)
			}
		case p.atKeyword("extensions"):
			// proto2 extension ranges carry no symbols; skip the statement
			p.skipStatement()
		case p.atPunct(";"):
			p.next()
		case p.current.Type == TokenIdentifier:
			if field, ok := p.parseField(true); ok {
				msg.Fields = append(msg.Fields, field)
			}
		default:
			p.errorf(p.tokenRange(), "unexpected %q in message %q", p.current.Text, msg.Name)
			p.skipStatement()
		}
	}
}

// parseField parses a normal or map field declaration.
func (p *parser) parseField(allowLabels bool) (*FieldDecl, bool) {
	field := &FieldDecl{Pos: p.current.Pos}

	if allowLabels {
		for {
			switch {
			case p.atKeyword("repeated"):
				field.Repeated = true
			case p.atKeyword("optional"):
				field.Optional = true
			case p.atKeyword("required"):
				field.Required = true
			default:
				goto labelsDone
			}
			p.next()
		}
	}
labelsDone:

	if p.atKeyword("map") && p.scannerAheadIsAngle() {
		if !p.parseMapType(field) {
			p.skipStatement()
			return nil, false
		}
	} else {
		typ, ok := p.expectIdent("field type")
		if !ok {
			p.skipStatement()
			return nil, false
		}
		field.Type = typ.Text
		field.TypeRange = Range{Start: typ.Pos, End: typ.End}
	}

	name, ok := p.expectIdent("field name")
	if !ok {
		p.skipStatement()
		return nil, false
	}
	field.Name = name.Text
	field.NameRange = Range{Start: name.Pos, End: name.End}

	if _, ok := p.expectPunct("="); !ok {
		p.skipStatement()
		return nil, false
	}

	num, ok := p.parseInt()
	if !ok {
		p.skipStatement()
		return nil, false
	}
	field.Number = num

	if p.atPunct("[") {
		field.Options = p.parseFieldOptions()
	}

	end, ok := p.expectPunct(";")
	if !ok {
		p.skipStatement()
		field.EndPos = p.current.Pos
		return field, true
	}
	field.EndPos = end.End
	return field, true
}

// scannerAheadIsAngle reports whether the token after the current "map"
// identifier is '<'. A message field may legitimately have a type named map.
func (p *parser) scannerAheadIsAngle() bool {
	save := *p.scanner
	tok := p.scanner.Scan()
	for tok.Type == TokenComment {
		tok = p.scanner.Scan()
	}
	*p.scanner = save
	return tok.Type == TokenPunctuation && tok.Text == "<"
}

func (p *parser) parseMapType(field *FieldDecl) bool {
	p.next() // consume "map"
	if _, ok := p.expectPunct("<"); !ok {
		return false
	}
	key, ok := p.expectIdent("map key type")
	if !ok {
		return false
	}
	if _, ok := p.expectPunct(","); !ok {
		return false
	}
	value, ok := p.expectIdent("map value type")
	if !ok {
		return false
	}
	if _, ok := p.expectPunct(">"); !ok {
		return false
	}

	field.IsMap = true
	field.KeyType = key.Text
	field.ValueType = value.Text
	field.Type = fmt.Sprintf("map<%s, %s>", key.Text, value.Text)
	// The value type is the interesting reference; point the type range at it.
	field.TypeRange = Range{Start: value.Pos, End: value.End}
	return true
}

// parseFieldOptions parses a bracketed option list: [a = 1, (b).c = "x"].
func (p *parser) parseFieldOptions() []*OptionDecl {
	var opts []*OptionDecl
	p.next() // consume "["
	for p.current.Type != TokenEOF && !p.atPunct("]") {
		opt := &OptionDecl{Pos: p.current.Pos}
		name, rng, ok := p.parseOptionName()
		if !ok {
			p.skipToFieldOptionEnd()
			continue
		}
		opt.Name = name
		opt.NameRange = rng
		if _, ok := p.expectPunct("="); !ok {
			p.skipToFieldOptionEnd()
			continue
		}
		value, ok := p.parseOptionValue()
		if !ok {
			p.skipToFieldOptionEnd()
			continue
		}
		opt.Value = value
		opt.EndPos = p.current.Pos
		opts = append(opts, opt)
		if p.atPunct(",") {
			p.next()
		}
	}
	if p.atPunct("]") {
		p.next()
	}
	return opts
}

// skipToFieldOptionEnd recovers inside a [...] option list.
func (p *parser) skipToFieldOptionEnd() {
	for p.current.Type != TokenEOF && !p.atPunct(",") && !p.atPunct("]") {
		p.next()
	}
	if p.atPunct(",") {
		p.next()
	}
}

func (p *parser) parseOneof() (*OneofDecl, bool) {
	oneof := &OneofDecl{Pos: p.current.Pos}
	p.next() // consume "oneof"

	name, ok := p.expectIdent("oneof name")
	if !ok {
		p.skipStatement()
		return nil, false
	}
	oneof.Name = name.Text
	oneof.NameRange = Range{Start: name.Pos, End: name.End}

	if _, ok := p.expectPunct("{"); !ok {
		p.skipStatement()
		return nil, false
	}

	for p.current.Type != TokenEOF && !p.atPunct("}") {
		switch {
		case p.atKeyword("option"):
			if opt, ok := p.parseOptionStatement(); ok {
				oneof.Options = append(oneof.Options, opt)
			}
		case p.atPunct(";"):
			p.next()
		case p.current.Type == TokenIdentifier:
			if field, ok := p.parseField(false); ok {
				oneof.Fields = append(oneof.Fields, field)
			}
		default:
			p.errorf(p.tokenRange(), "unexpected %q in oneof %q", p.current.Text, oneof.Name)
			p.skipStatement()
		}
	}

	if p.atPunct("}") {
		oneof.EndPos = p.current.End
		p.next()
	} else {
		oneof.EndPos = p.current.Pos
		p.errorf(p.tokenRange(), "unterminated oneof %q", oneof.Name)
	}
	return oneof, true
}

func (p *parser) parseEnum() (*EnumDecl, bool) {
	enum := &EnumDecl{Pos: p.current.Pos}
	p.next() // consume "enum"

	name, ok := p.expectIdent("enum name")
	if !ok {
		p.skipStatement()
		return nil, false
	}
	enum.Name = name.Text
	enum.NameRange = Range{Start: name.Pos, End: name.End}

	if _, ok := p.expectPunct("{"); !ok {
		p.skipStatement()
		return nil, false
	}

	for p.current.Type != TokenEOF && !p.atPunct("}") {
		switch {
		case p.atKeyword("option"):
			if opt, ok := p.parseOptionStatement(); ok {
				enum.Options = append(enum.Options, opt)
			}
		case p.atKeyword("reserved"):
			if res, ok := p.parseReserved(); ok {
				enum.Reserved = append(enum.Reserved, res)
			}
		case p.atPunct(";"):
			p.next()
		case p.current.Type == TokenIdentifier:
			if value, ok := p.parseEnumValue(); ok {
				enum.Values = append(enum.Values, value)
			}
		default:
			p.errorf(p.tokenRange(), "unexpected %q in enum %q", p.current.Text, enum.Name)
			p.skipStatement()
		}
	}

	if p.atPunct("}") {
		enum.EndPos = p.current.End
		p.next()
	} else {
		enum.EndPos = p.current.Pos
		p.errorf(p.tokenRange(), "unterminated enum %q", enum.Name)
	}
	return enum, true
}

func (p *parser) parseEnumValue() (*EnumValueDecl, bool) {
	value := &EnumValueDecl{Pos: p.current.Pos}

	name := p.current
	value.Name = name.Text
	value.NameRange = Range{Start: name.Pos, End: name.End}
	p.next()

	if _, ok := p.expectPunct("="); !ok {
		p.skipStatement()
		return nil, false
	}

	num, ok := p.parseInt()
	if !ok {
		p.skipStatement()
		return nil, false
	}
	value.Number = num

	if p.atPunct("[") {
		value.Options = p.parseFieldOptions()
	}

	end, ok := p.expectPunct(";")
	if !ok {
		p.skipStatement()
		value.EndPos = p.current.Pos
		return value, true
	}
	value.EndPos = end.End
	return value, true
}

func (p *parser) parseService() (*ServiceDecl, bool) {
	svc := &ServiceDecl{Pos: p.current.Pos}
	p.next() // consume "service"

	name, ok := p.expectIdent("service name")
	if !ok {
		p.skipStatement()
		return nil, false
	}
	svc.Name = name.Text
	svc.NameRange = Range{Start: name.Pos, End: name.End}

	if _, ok := p.expectPunct("{"); !ok {
		p.skipStatement()
		return nil, false
	}

	for p.current.Type != TokenEOF && !p.atPunct("}") {
		switch {
		case p.atKeyword("rpc"):
			if rpc, ok := p.parseRPC(); ok {
				svc.RPCs = append(svc.RPCs, rpc)
			}
		case p.atKeyword("option"):
			if opt, ok := p.parseOptionStatement(); ok {
				svc.Options = append(svc.Options, opt)
			}
		case p.atPunct(";"):
			p.next()
		default:
			p.errorf(p.tokenRange(), "unexpected %q in service %q", p.current.Text, svc.Name)
			p.skipStatement()
		}
	}

	if p.atPunct("}") {
		svc.EndPos = p.current.End
		p.next()
	} else {
		svc.EndPos = p.current.Pos
		p.errorf(p.tokenRange(), "unterminated service %q", svc.Name)
	}
	return svc, true
}

func (p *parser) parseRPC() (*RPCDecl, bool) {
	rpc := &RPCDecl{Pos: p.current.Pos}
	p.next() // consume "rpc"

	name, ok := p.expectIdent("rpc name")
	if !ok {
		p.skipStatement()
		return nil, false
	}
	rpc.Name = name.Text
	rpc.NameRange = Range{Start: name.Pos, End: name.End}

	input, streaming, ok := p.parseRPCType()
	if !ok {
		p.skipStatement()
		return nil, false
	}
	rpc.InputType = input.Text
	rpc.InputRange = Range{Start: input.Pos, End: input.End}
	rpc.ClientStreaming = streaming

	if !p.atKeyword("returns") {
		p.errorf(p.tokenRange(), "expected \"returns\" but got %q", p.current.Text)
		p.skipStatement()
		return nil, false
	}
	p.next()

	output, streaming, ok := p.parseRPCType()
	if !ok {
		p.skipStatement()
		return nil, false
	}
	rpc.OutputType = output.Text
	rpc.OutputRange = Range{Start: output.Pos, End: output.End}
	rpc.ServerStreaming = streaming

	switch {
	case p.atPunct(";"):
		rpc.EndPos = p.current.End
		p.next()
	case p.atPunct("{"):
		p.next()
		for p.current.Type != TokenEOF && !p.atPunct("}") {
			switch {
			case p.atKeyword("option"):
				if opt, ok := p.parseOptionStatement(); ok {
					rpc.Options = append(rpc.Options, opt)
				}
			case p.atPunct(";"):
				p.next()
			default:
				p.errorf(p.tokenRange(), "unexpected %q in rpc %q", p.current.Text, rpc.Name)
				p.skipStatement()
			}
		}
		if p.atPunct("}") {
			rpc.EndPos = p.current.End
			p.next()
		} else {
			rpc.EndPos = p.current.Pos
		}
	default:
		p.errorf(p.tokenRange(), "expected ';' or '{' after rpc %q", rpc.Name)
		p.skipStatement()
		rpc.EndPos = p.current.Pos
	}
	return rpc, true
}

// parseRPCType parses "(Type)" or "(stream Type)".
func (p *parser) parseRPCType() (Token, bool, bool) {
	if _, ok := p.expectPunct("("); !ok {
		return Token{}, false, false
	}
	streaming := false
	if p.atKeyword("stream") {
		streaming = true
		p.next()
	}
	typ, ok := p.expectIdent("rpc message type")
	if !ok {
		return Token{}, false, false
	}
	if _, ok := p.expectPunct(")"); !ok {
		return typ, streaming, true // tolerate a missing close paren
	}
	return typ, streaming, true
}

func (p *parser) parseExtend() (*ExtendDecl, bool) {
	ext := &ExtendDecl{Pos: p.current.Pos}
	p.next() // consume "extend"

	target, ok := p.expectIdent("extend target")
	if !ok {
		p.skipStatement()
		return nil, false
	}
	ext.Target = target.Text
	ext.TargetRange = Range{Start: target.Pos, End: target.End}

	if _, ok := p.expectPunct("{"); !ok {
		p.skipStatement()
		return nil, false
	}

	for p.current.Type != TokenEOF && !p.atPunct("}") {
		switch {
		case p.atPunct(";"):
			p.next()
		case p.current.Type == TokenIdentifier:
			if field, ok := p.parseField(true); ok {
				ext.Fields = append(ext.Fields, field)
			}
		default:
			p.errorf(p.tokenRange(), "unexpected %q in extend %q", p.current.Text, ext.Target)
			p.skipStatement()
		}
	}

	if p.atPunct("}") {
		ext.EndPos = p.current.End
		p.next()
	} else {
		ext.EndPos = p.current.Pos
		p.errorf(p.tokenRange(), "unterminated extend %q", ext.Target)
	}
	return ext, true
}

func (p *parser) parseReserved() (*ReservedDecl, bool) {
	res := &ReservedDecl{Pos: p.current.Pos}
	p.next() // consume "reserved"

	switch {
	case p.current.Type == TokenString:
		for p.current.Type == TokenString {
			res.Names = append(res.Names, p.current.Text)
			p.next()
			if p.atPunct(",") {
				p.next()
			}
		}
	case p.current.Type == TokenNumber || p.atPunct("-"):
		for {
			start, ok := p.parseInt()
			if !ok {
				p.skipStatement()
				return res, true
			}
			rng := ReservedRange{Start: start, End: start}
			if p.atKeyword("to") {
				p.next()
				if p.atKeyword("max") {
					rng.End = MaxFieldNumber
					rng.Max = true
					p.next()
				} else {
					end, ok := p.parseInt()
					if !ok {
						p.skipStatement()
						return res, true
					}
					rng.End = end
				}
			}
			res.Ranges = append(res.Ranges, rng)
			if !p.atPunct(",") {
				break
			}
			p.next()
		}
	default:
		p.errorf(p.tokenRange(), "expected reserved numbers or names")
		p.skipStatement()
		return nil, false
	}

	end, ok := p.expectPunct(";")
	if !ok {
		p.skipStatement()
		res.EndPos = p.current.Pos
		return res, true
	}
	res.EndPos = end.End
	return res, true
}

// parseInt parses an optionally signed integer token.
func (p *parser) parseInt() (int, bool) {
	negative := false
	if p.atPunct("-") {
		negative = true
		p.next()
	}
	if p.current.Type != TokenNumber {
		p.errorf(p.tokenRange(), "expected number but got %q", p.current.Text)
		return 0, false
	}
	v, err := strconv.ParseInt(p.current.Text, 0, 64)
	if err != nil {
		p.errorf(p.tokenRange(), "invalid number %q", p.current.Text)
		p.next()
		return 0, false
	}
	p.next()
	if negative {
		return int(-v), true
	}
	return int(v), true
}
