package rules

import (
	"errors"
	"strings"
)

// The rule grammar, PEG-style ordered choice with backtracking:
//
//	file        := line* EOI
//	line        := (addr_rule | service_rule) COMMENT? | COMMENT | BLANK
//	service_rule:= action WS ident
//	addr_rule   := action (WS direction)? (WS interface_clause)? (WS clause)+
//	clause      := from_clause | to_clause | port_clause | proto_clause
//	direction   := "in" | "out"
//	interface_clause := "on" WS ident
//	from_clause := "from" WS addr
//	to_clause   := "to" WS addr
//	port_clause := "port" WS number
//	proto_clause:= "proto" WS ("tcp" | "udp" | "any")
//	addr        := "any" | "internal" | "external" | ip
//	action      := "allow" | "deny" | "reject" | "limit"
//	ident       := (letter|digit|"_"|"-")+
//
// Keywords are case-sensitive, WS (one or more spaces or tabs) is mandatory
// between tokens, and matching is total per line: trailing text that is not
// a comment fails the line. The addr_rule alternative is attempted before
// the service_rule fallback, so a bare "action ident" line is a service
// rule while "action ident <more tokens>" fails at the first trailing
// token instead of silently truncating.

// Parse parses rule file text into typed rules. It is the package entry
// point, running the full pipeline: lexing, grammar matching, compilation.
// The first syntax or validation error aborts the parse; there are no
// partial results.
func Parse(input string) ([]Rule, error) {
	file, err := NewParser(input).Parse()
	if err != nil {
		return nil, err
	}
	return CompileFile(file)
}

// errBacktrack signals a failed alternative during matching. The
// reportable error is assembled from the deepest failure once every
// alternative is exhausted.
var errBacktrack = errors.New("backtrack")

// Parser matches rule file text against the grammar, producing an untyped
// parse tree rooted at a NodeFile node.
type Parser struct {
	lex *Lexer
	tok Token

	farTok Token    // deepest token any alternative failed at
	farExp []string // constructs expected at farTok, in attempt order
}

// NewParser creates a parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lex: NewLexer(input)}
	p.tok = p.lex.Next()
	return p
}

type parserState struct {
	lex Lexer
	tok Token
}

func (p *Parser) save() parserState {
	return parserState{lex: *p.lex, tok: p.tok}
}

func (p *Parser) restore(s parserState) {
	*p.lex = s.lex
	p.tok = s.tok
}

func (p *Parser) next() {
	p.tok = p.lex.Next()
}

// fail records a failed match attempt at tok and returns errBacktrack.
func (p *Parser) fail(tok Token, expected string) error {
	p.failAt(tok, expected)
	return errBacktrack
}

// failAt tracks the deepest failure position. A deeper failure replaces
// the record; failures at the same position accumulate their expectations.
func (p *Parser) failAt(tok Token, expected string) {
	if tok.Line > p.farTok.Line || (tok.Line == p.farTok.Line && tok.Column > p.farTok.Column) {
		p.farTok = tok
		p.farExp = p.farExp[:0]
	} else if tok.Line != p.farTok.Line || tok.Column != p.farTok.Column {
		return
	}
	for _, e := range p.farExp {
		if e == expected {
			return
		}
	}
	p.farExp = append(p.farExp, expected)
}

func (p *Parser) syntaxError() error {
	found := ""
	if p.farTok.Type == TokenWord {
		found = p.farTok.Value
	}
	return &SyntaxError{
		Line:     p.farTok.Line,
		Column:   p.farTok.Column,
		Expected: joinExpected(p.farExp),
		Found:    found,
	}
}

func joinExpected(exp []string) string {
	switch len(exp) {
	case 0:
		return "a rule"
	case 1:
		return exp[0]
	case 2:
		return exp[0] + " or " + exp[1]
	default:
		return strings.Join(exp[:len(exp)-1], ", ") + ", or " + exp[len(exp)-1]
	}
}

// Parse matches the whole input and returns the parse tree. The first line
// that fails aborts the parse; no partial tree is returned.
func (p *Parser) Parse() (*Node, error) {
	file := &Node{Kind: NodeFile, Line: 1, Column: 1}
	for {
		switch p.tok.Type {
		case TokenEOF:
			return file, nil
		case TokenNewline:
			file.Children = append(file.Children, &Node{Kind: NodeBlank, Line: p.tok.Line, Column: p.tok.Column})
			p.next()
		case TokenComment:
			file.Children = append(file.Children, &Node{Kind: NodeComment, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column})
			p.next()
			if p.tok.Type == TokenNewline {
				p.next()
			}
		default:
			rule, err := p.parseRuleLine()
			if err != nil {
				return nil, p.syntaxError()
			}
			file.Children = append(file.Children, rule)
		}
	}
}

// parseRuleLine matches (service_rule | addr_rule) COMMENT? up to the end
// of the line. The action keyword is common to both alternatives and is
// consumed once before they fork.
func (p *Parser) parseRuleLine() (*Node, error) {
	if !isAction(p.tok.Value) {
		return nil, p.fail(p.tok, "action keyword (allow, deny, reject, limit)")
	}
	action := &Node{Kind: NodeAction, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column}
	p.next()

	st := p.save()
	rule, err := p.parseAddrRule(action)
	if err != nil {
		p.restore(st)
		rule, err = p.parseServiceRule(action)
		if err != nil {
			return nil, err
		}
	}

	if p.tok.Type == TokenComment {
		rule.Children = append(rule.Children, &Node{Kind: NodeComment, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column})
		p.next()
	}
	switch p.tok.Type {
	case TokenNewline:
		p.next()
	case TokenEOF:
	default:
		return nil, p.fail(p.tok, "end of line or comment")
	}
	return rule, nil
}

// parseAddrRule matches (direction)? (interface_clause)? clause+ after the
// already-consumed action. Missed optional parts still record their
// expectations so diagnostics can name everything acceptable at the
// failure point.
func (p *Parser) parseAddrRule(action *Node) (*Node, error) {
	rule := &Node{Kind: NodeAddrRule, Line: action.Line, Column: action.Column, Children: []*Node{action}}

	if p.tok.Type == TokenWord && isDirection(p.tok.Value) {
		rule.Children = append(rule.Children, &Node{Kind: NodeDirection, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column})
		p.next()
	} else {
		p.failAt(p.tok, "direction (in, out)")
	}

	if p.tok.Type == TokenWord && p.tok.Value == "on" {
		on := p.tok
		p.next()
		if p.tok.Type != TokenWord || !isIdent(p.tok.Value) {
			return nil, p.fail(p.tok, "interface name")
		}
		rule.Children = append(rule.Children, &Node{Kind: NodeInterface, Value: p.tok.Value, Line: on.Line, Column: on.Column})
		p.next()
	} else {
		p.failAt(p.tok, "interface clause (on <interface>)")
	}

	n := 0
	for {
		st := p.save()
		clause, err := p.parseClause()
		if err != nil {
			p.restore(st)
			break
		}
		rule.Children = append(rule.Children, clause)
		n++
	}
	if n == 0 {
		return nil, errBacktrack
	}
	return rule, nil
}

func (p *Parser) parseClause() (*Node, error) {
	if p.tok.Type != TokenWord {
		return nil, p.fail(p.tok, "rule clause (from, to, port, proto)")
	}
	kw := p.tok
	switch kw.Value {
	case "from", "to":
		p.next()
		addr, err := p.parseAddr()
		if err != nil {
			return nil, err
		}
		kind := NodeFromClause
		if kw.Value == "to" {
			kind = NodeToClause
		}
		return &Node{Kind: kind, Line: kw.Line, Column: kw.Column, Children: []*Node{addr}}, nil
	case "port":
		p.next()
		if p.tok.Type != TokenWord || !isNumber(p.tok.Value) {
			return nil, p.fail(p.tok, "port number")
		}
		num := &Node{Kind: NodePort, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column}
		p.next()
		return &Node{Kind: NodePortClause, Line: kw.Line, Column: kw.Column, Children: []*Node{num}}, nil
	case "proto":
		p.next()
		if p.tok.Type != TokenWord || !isProto(p.tok.Value) {
			return nil, p.fail(p.tok, "protocol (tcp, udp, any)")
		}
		val := &Node{Kind: NodeProto, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column}
		p.next()
		return &Node{Kind: NodeProtoClause, Line: kw.Line, Column: kw.Column, Children: []*Node{val}}, nil
	default:
		return nil, p.fail(kw, "rule clause (from, to, port, proto)")
	}
}

func (p *Parser) parseAddr() (*Node, error) {
	if p.tok.Type == TokenWord {
		switch {
		case p.tok.Value == "any" || p.tok.Value == "internal" || p.tok.Value == "external":
			n := &Node{Kind: NodeAddrKeyword, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column}
			p.next()
			return n, nil
		case isIPShape(p.tok.Value):
			n := &Node{Kind: NodeIP, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column}
			p.next()
			return n, nil
		}
	}
	return nil, p.fail(p.tok, "address (any, internal, external, or IP literal)")
}

func (p *Parser) parseServiceRule(action *Node) (*Node, error) {
	if p.tok.Type != TokenWord || !isIdent(p.tok.Value) {
		return nil, p.fail(p.tok, "service name")
	}
	svc := &Node{Kind: NodeService, Value: p.tok.Value, Line: p.tok.Line, Column: p.tok.Column}
	p.next()
	return &Node{Kind: NodeServiceRule, Line: action.Line, Column: action.Column, Children: []*Node{action, svc}}, nil
}

func isAction(s string) bool {
	switch s {
	case "allow", "deny", "reject", "limit":
		return true
	}
	return false
}

func isDirection(s string) bool {
	return s == "in" || s == "out"
}

func isProto(s string) bool {
	return s == "tcp" || s == "udp" || s == "any"
}
