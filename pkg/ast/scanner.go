package ast

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of token
type TokenType string

const (
	TokenIdentifier  TokenType = "IDENTIFIER"
	TokenString      TokenType = "STRING"
	TokenNumber      TokenType = "NUMBER"
	TokenPunctuation TokenType = "PUNCTUATION"
	TokenComment     TokenType = "COMMENT"
	TokenEOF         TokenType = "EOF"
	TokenError       TokenType = "ERROR"
)

// Token represents a lexical token. For strings Text holds the unquoted
// value; for everything else it is the raw source text.
type Token struct {
	Type TokenType
	Text string
	Pos  Position
	End  Position
}

const eof = rune(-1)

// Scanner is a lexical scanner for protobuf-style IDL source.
type Scanner struct {
	src    string
	ch     rune // current character, eof at end of input
	offset int  // byte offset of ch
	next   int  // byte offset after ch
	line   int  // line of ch, 1-based
	column int  // column of ch, 1-based
}

// NewScanner creates a Scanner over src.
func NewScanner(src string) *Scanner {
	s := &Scanner{src: src, line: 1, column: 0}
	s.advance()
	return s
}

// advance reads the next rune into s.ch and updates the line/column position.
func (s *Scanner) advance() {
	if s.next >= len(s.src) {
		if s.ch == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
		s.offset = len(s.src)
		s.ch = eof
		return
	}
	if s.ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	r, size := utf8.DecodeRuneInString(s.src[s.next:])
	s.offset = s.next
	s.next += size
	s.ch = r
}

// pos returns the position of the current character.
func (s *Scanner) pos() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.offset}
}

func (s *Scanner) skipWhitespace() {
	for s.ch != eof && unicode.IsSpace(s.ch) {
		s.advance()
	}
}

// scanIdentifier scans an identifier, including dotted references and a
// leading dot for fully-qualified type names.
func (s *Scanner) scanIdentifier() string {
	var sb strings.Builder
	if s.ch == '.' {
		sb.WriteRune(s.ch)
		s.advance()
	}
	for unicode.IsLetter(s.ch) || unicode.IsDigit(s.ch) || s.ch == '_' || s.ch == '.' {
		sb.WriteRune(s.ch)
		s.advance()
	}
	return sb.String()
}

func (s *Scanner) scanNumber() string {
	var sb strings.Builder
	for unicode.IsDigit(s.ch) || s.ch == '.' || s.ch == 'x' || s.ch == 'X' ||
		(s.ch >= 'a' && s.ch <= 'f') || (s.ch >= 'A' && s.ch <= 'F') {
		sb.WriteRune(s.ch)
		s.advance()
	}
	return sb.String()
}

func (s *Scanner) scanString() (string, error) {
	quote := s.ch
	s.advance() // consume the opening quote

	var sb strings.Builder
	for s.ch != quote && s.ch != eof && s.ch != '\n' {
		if s.ch == '\\' {
			s.advance() // consume backslash
			switch s.ch {
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			case '\\', '"', '\'':
				sb.WriteRune(s.ch)
			case '0':
				sb.WriteRune(0)
			default:
				// Unknown escape: keep the characters as written.
				sb.WriteRune('\\')
				if s.ch != eof {
					sb.WriteRune(s.ch)
				}
			}
		} else {
			sb.WriteRune(s.ch)
		}
		s.advance()
	}

	if s.ch != quote {
		return sb.String(), fmt.Errorf("unterminated string literal")
	}
	s.advance() // consume the closing quote
	return sb.String(), nil
}

func (s *Scanner) scanComment() string {
	var sb strings.Builder
	sb.WriteRune(s.ch) // the first '/'
	s.advance()

	if s.ch == '/' {
		for s.ch != '\n' && s.ch != eof {
			sb.WriteRune(s.ch)
			s.advance()
		}
	} else if s.ch == '*' {
		sb.WriteRune(s.ch)
		s.advance()
		for {
			if s.ch == eof {
				break // unterminated block comment
			}
			if s.ch == '*' {
				sb.WriteRune(s.ch)
				s.advance()
				if s.ch == '/' {
					sb.WriteRune(s.ch)
					s.advance()
					break
				}
				continue
			}
			sb.WriteRune(s.ch)
			s.advance()
		}
	}
	return sb.String()
}

func isPunctuation(r rune) bool {
	switch r {
	case ';', ',', '=', '{', '}', '[', ']', '(', ')', '<', '>', ':', '-', '+':
		return true
	}
	return false
}

// Scan returns the next token. Lexical problems are reported as TokenError
// tokens rather than aborting the scan, so the parser can recover.
func (s *Scanner) Scan() Token {
	s.skipWhitespace()

	tok := Token{Pos: s.pos()}

	switch {
	case s.ch == eof:
		tok.Type = TokenEOF
	case unicode.IsLetter(s.ch) || s.ch == '_' || s.ch == '.':
		tok.Type = TokenIdentifier
		tok.Text = s.scanIdentifier()
	case unicode.IsDigit(s.ch):
		tok.Type = TokenNumber
		tok.Text = s.scanNumber()
	case s.ch == '"' || s.ch == '\'':
		text, err := s.scanString()
		if err != nil {
			tok.Type = TokenError
			tok.Text = err.Error()
		} else {
			tok.Type = TokenString
			tok.Text = text
		}
	case s.ch == '/':
		if s.peek() == '/' || s.peek() == '*' {
			tok.Type = TokenComment
			tok.Text = s.scanComment()
		} else {
			tok.Type = TokenPunctuation
			tok.Text = "/"
			s.advance()
		}
	case isPunctuation(s.ch):
		tok.Type = TokenPunctuation
		tok.Text = string(s.ch)
		s.advance()
	default:
		tok.Type = TokenError
		tok.Text = fmt.Sprintf("unexpected character %q", s.ch)
		s.advance()
	}

	tok.End = s.pos()
	return tok
}

// peek returns the rune after the current one without advancing.
func (s *Scanner) peek() rune {
	if s.next >= len(s.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.next:])
	return r
}
