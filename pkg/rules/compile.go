package rules

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// CompileFile turns a parse tree into typed rules, validating literal
// values along the way. Comment and blank nodes are skipped. The first
// invalid literal aborts compilation with a *ValidationError. The
// returned slice is never nil.
func CompileFile(file *Node) ([]Rule, error) {
	if file == nil || file.Kind != NodeFile {
		return nil, fmt.Errorf("rules: compile: not a file node")
	}
	rules := []Rule{}
	for _, n := range file.Children {
		switch n.Kind {
		case NodeComment, NodeBlank:
		case NodeServiceRule, NodeAddrRule:
			rule, err := compileRule(n)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		default:
			return nil, fmt.Errorf("rules: compile: unexpected %s node at line %d", n.Kind, n.Line)
		}
	}
	return rules, nil
}

func compileRule(n *Node) (Rule, error) {
	switch n.Kind {
	case NodeServiceRule:
		return compileServiceRule(n)
	case NodeAddrRule:
		return compileAddrRule(n)
	}
	return nil, fmt.Errorf("rules: compile: unexpected %s node at line %d", n.Kind, n.Line)
}

func compileServiceRule(n *Node) (Rule, error) {
	action, err := actionValue(n.FindChild(NodeAction))
	if err != nil {
		return nil, err
	}
	svc := n.FindChild(NodeService)
	if svc == nil {
		return nil, fmt.Errorf("rules: compile: service rule at line %d has no service", n.Line)
	}
	return &ServiceRule{Action: action, Service: svc.Value, Line: n.Line}, nil
}

func compileAddrRule(n *Node) (Rule, error) {
	rule := &AddressRule{Line: n.Line}
	for _, c := range n.Children {
		switch c.Kind {
		case NodeAction:
			action, err := actionValue(c)
			if err != nil {
				return nil, err
			}
			rule.Action = action
		case NodeDirection:
			switch c.Value {
			case "in":
				rule.Direction = DirectionIn
			case "out":
				rule.Direction = DirectionOut
			default:
				return nil, fmt.Errorf("rules: compile: unknown direction %q at line %d", c.Value, c.Line)
			}
		case NodeInterface:
			rule.Interface = c.Value
		case NodeFromClause:
			addr, err := clauseAddr(c)
			if err != nil {
				return nil, err
			}
			rule.Clauses = append(rule.Clauses, FromClause{Addr: addr})
		case NodeToClause:
			addr, err := clauseAddr(c)
			if err != nil {
				return nil, err
			}
			rule.Clauses = append(rule.Clauses, ToClause{Addr: addr})
		case NodePortClause:
			clause, err := compilePort(c)
			if err != nil {
				return nil, err
			}
			rule.Clauses = append(rule.Clauses, clause)
		case NodeProtoClause:
			clause, err := compileProto(c)
			if err != nil {
				return nil, err
			}
			rule.Clauses = append(rule.Clauses, clause)
		case NodeComment:
			// trailing comment, not part of the rule value
		default:
			return nil, fmt.Errorf("rules: compile: unexpected %s node at line %d", c.Kind, c.Line)
		}
	}
	if len(rule.Clauses) == 0 {
		return nil, fmt.Errorf("rules: compile: address rule at line %d has no clauses", n.Line)
	}
	return rule, nil
}

func actionValue(n *Node) (Action, error) {
	if n == nil {
		return 0, fmt.Errorf("rules: compile: rule node has no action")
	}
	switch n.Value {
	case "allow":
		return ActionAllow, nil
	case "deny":
		return ActionDeny, nil
	case "reject":
		return ActionReject, nil
	case "limit":
		return ActionLimit, nil
	}
	return 0, fmt.Errorf("rules: compile: unknown action %q at line %d", n.Value, n.Line)
}

func clauseAddr(c *Node) (Addr, error) {
	if len(c.Children) == 0 {
		return nil, fmt.Errorf("rules: compile: %s at line %d has no address", c.Kind, c.Line)
	}
	return compileAddr(c.Children[0])
}

func compileAddr(n *Node) (Addr, error) {
	switch n.Kind {
	case NodeAddrKeyword:
		switch n.Value {
		case "any":
			return AnyAddr{}, nil
		case "internal":
			return InternalAddr{}, nil
		case "external":
			return ExternalAddr{}, nil
		}
		return nil, fmt.Errorf("rules: compile: unknown address keyword %q at line %d", n.Value, n.Line)
	case NodeIP:
		return compileIP(n)
	}
	return nil, fmt.Errorf("rules: compile: unexpected %s node at line %d", n.Kind, n.Line)
}

// compileIP validates an IP or CIDR literal. Dotted-quad octets get an
// explicit range check so "10.0.0.256" reports the octet rather than a
// generic parse failure; everything else netip rejects, including
// malformed IPv6, reports the whole literal.
func compileIP(n *Node) (Addr, error) {
	lit := n.Value
	addrPart := lit
	prefixPart := ""
	hasPrefix := false
	if i := strings.IndexByte(lit, '/'); i >= 0 {
		addrPart, prefixPart = lit[:i], lit[i+1:]
		hasPrefix = true
	}

	if !strings.Contains(addrPart, ":") {
		for _, oct := range strings.Split(addrPart, ".") {
			if oct == "" || !isNumber(oct) {
				continue
			}
			if v, err := strconv.Atoi(oct); err != nil || v > 255 {
				return nil, &ValidationError{Line: n.Line, Column: n.Column, Kind: InvalidIPOctet, Literal: lit}
			}
		}
	}

	addr, err := netip.ParseAddr(addrPart)
	if err != nil {
		return nil, &ValidationError{Line: n.Line, Column: n.Column, Kind: InvalidIPAddress, Literal: lit}
	}

	prefixLen := -1
	if hasPrefix {
		v, err := strconv.Atoi(prefixPart)
		if err != nil || v < 0 || v > addr.BitLen() {
			return nil, &ValidationError{Line: n.Line, Column: n.Column, Kind: InvalidCIDRPrefix, Literal: lit}
		}
		prefixLen = v
	}
	return IPAddr{Addr: addr, PrefixLen: prefixLen}, nil
}

func compilePort(c *Node) (Clause, error) {
	num := c.FindChild(NodePort)
	if num == nil {
		return nil, fmt.Errorf("rules: compile: port clause at line %d has no number", c.Line)
	}
	v, err := strconv.Atoi(num.Value)
	if err != nil || v > 65535 {
		return nil, &ValidationError{Line: num.Line, Column: num.Column, Kind: PortOutOfRange, Literal: num.Value}
	}
	return PortClause{Port: uint16(v)}, nil
}

func compileProto(c *Node) (Clause, error) {
	val := c.FindChild(NodeProto)
	if val == nil {
		return nil, fmt.Errorf("rules: compile: proto clause at line %d has no protocol", c.Line)
	}
	switch val.Value {
	case "tcp":
		return ProtoClause{Proto: ProtoTCP}, nil
	case "udp":
		return ProtoClause{Proto: ProtoUDP}, nil
	case "any":
		return ProtoClause{Proto: ProtoAny}, nil
	}
	return nil, fmt.Errorf("rules: compile: unknown protocol %q at line %d", val.Value, c.Line)
}
