package rules

import (
	"fmt"
	"strings"
)

// Format parses rule text and renders it in canonical form: one space
// between tokens, clauses in source order, comments and blank lines kept
// where they appeared. Input that does not parse or validate is returned
// as an error, never half formatted.
func Format(input string) (string, error) {
	file, err := NewParser(input).Parse()
	if err != nil {
		return "", err
	}
	return FormatFile(file)
}

// FormatFile renders an already-parsed tree in canonical form.
func FormatFile(file *Node) (string, error) {
	if file == nil || file.Kind != NodeFile {
		return "", fmt.Errorf("rules: format: not a file node")
	}
	var b strings.Builder
	for _, n := range file.Children {
		switch n.Kind {
		case NodeBlank:
			b.WriteByte('\n')
		case NodeComment:
			b.WriteString(n.Value)
			b.WriteByte('\n')
		case NodeServiceRule, NodeAddrRule:
			rule, err := compileRule(n)
			if err != nil {
				return "", err
			}
			b.WriteString(rule.String())
			if c := n.FindChild(NodeComment); c != nil {
				b.WriteByte(' ')
				b.WriteString(c.Value)
			}
			b.WriteByte('\n')
		default:
			return "", fmt.Errorf("rules: format: unexpected %s node at line %d", n.Kind, n.Line)
		}
	}
	return b.String(), nil
}
