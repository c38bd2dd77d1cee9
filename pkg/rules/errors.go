package rules

import "fmt"

// SyntaxError reports input that did not match any grammar alternative.
// Line and Column are 1-based and point at the first token no alternative
// could consume; Expected names the constructs that were acceptable there.
type SyntaxError struct {
	Line     int
	Column   int
	Expected string
	Found    string // offending token text, empty at end of line or input
}

func (e *SyntaxError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("%d:%d: expected %s", e.Line, e.Column, e.Expected)
	}
	return fmt.Sprintf("%d:%d: expected %s, found %q", e.Line, e.Column, e.Expected, e.Found)
}

// ValidationKind classifies literals that match the grammar shape but are
// semantically invalid.
type ValidationKind int

const (
	PortOutOfRange    ValidationKind = iota // port literal outside [0, 65535]
	InvalidIPOctet                          // dotted-decimal octet outside [0, 255]
	InvalidIPAddress                        // IP-shaped literal that is not a well-formed address
	InvalidCIDRPrefix                       // prefix length outside the address family's range
)

func (k ValidationKind) String() string {
	switch k {
	case PortOutOfRange:
		return "port out of range"
	case InvalidIPOctet:
		return "invalid IP octet"
	case InvalidIPAddress:
		return "invalid IP address"
	case InvalidCIDRPrefix:
		return "invalid CIDR prefix"
	default:
		return "invalid literal"
	}
}

// ValidationError reports a literal that matched the grammar but failed
// semantic validation. Line and Column are 1-based and point at the
// offending literal.
type ValidationError struct {
	Line    int
	Column  int
	Kind    ValidationKind
	Literal string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %q", e.Line, e.Column, e.Kind, e.Literal)
}
