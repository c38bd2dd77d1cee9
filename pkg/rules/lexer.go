// Package rules implements the firewall rule language parser and data model.
package rules

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenWord    TokenType = iota // keyword, identifier, number, or IP literal
	TokenComment                  // # through end of line
	TokenNewline                  // \n
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenWord:
		return "word"
	case TokenComment:
		return "comment"
	case TokenNewline:
		return "newline"
	case TokenEOF:
		return "EOF"
	default:
		return "unknown"
	}
}

// Token is a single lexer token.
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Type == TokenWord || t.Type == TokenComment {
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	}
	return t.Type.String()
}

// Lexer tokenizes rule file text. The grammar is line-oriented, so newlines
// are reported as tokens rather than skipped, and comments are kept so that
// formatting can reproduce them.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
}

// NewLexer creates a new Lexer for the given input string.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
}

// Next returns the next token, advancing the position.
func (l *Lexer) Next() Token {
	l.skipSpaces()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Line: l.line, Column: l.column}
	}

	ch := l.input[l.pos]
	line, col := l.line, l.column

	switch ch {
	case '\n':
		l.advance()
		return Token{Type: TokenNewline, Value: "\n", Line: line, Column: col}
	case '#':
		return l.readComment(line, col)
	default:
		return l.readWord(line, col)
	}
}

// Peek returns the next token without advancing.
func (l *Lexer) Peek() Token {
	savedPos := l.pos
	savedLine := l.line
	savedCol := l.column
	tok := l.Next()
	l.pos = savedPos
	l.line = savedLine
	l.column = savedCol
	return tok
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

// skipSpaces skips spaces, tabs, and carriage returns, but never newlines.
func (l *Lexer) skipSpaces() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
			continue
		}
		break
	}
}

// readComment consumes a # comment up to (not including) the newline. The
// token value keeps the leading # and drops trailing whitespace.
func (l *Lexer) readComment(line, col int) Token {
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
	value := strings.TrimRight(l.input[start:l.pos], " \t\r")
	return Token{Type: TokenComment, Value: value, Line: line, Column: col}
}

func (l *Lexer) readWord(line, col int) Token {
	start := l.pos
	for l.pos < len(l.input) && !isWordBreak(l.input[l.pos]) {
		l.advance()
	}
	return Token{Type: TokenWord, Value: l.input[start:l.pos], Line: line, Column: col}
}

// isWordBreak reports whether ch ends a word. Words are maximal runs of
// non-whitespace characters; # always starts a comment.
func isWordBreak(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '#'
}

// isIdent reports whether s is a valid identifier: one or more letters,
// digits, underscores, or dashes. Identifiers name services and interfaces.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_' || ch == '-' {
			continue
		}
		return false
	}
	return true
}

// isNumber reports whether s is one or more decimal digits.
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isIPShape reports whether s looks like an IP literal: hex digits, dots,
// and colons, with an optional /prefix suffix. This is a shape test only;
// octet values, address structure, and prefix ranges are validated during
// compilation.
func isIPShape(s string) bool {
	addr := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		addr = s[:i]
	}
	if !strings.ContainsAny(addr, ".:") {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') ||
			(ch >= 'A' && ch <= 'F') || ch == '.' || ch == ':' || ch == '/' {
			continue
		}
		return false
	}
	return true
}
