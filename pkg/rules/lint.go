package rules

import "fmt"

// Lint checks parsed rules for likely mistakes that are not parse errors:
// unknown service names, repeated clause kinds, a port with no protocol,
// and rules mixing IPv4 and IPv6 literals. Findings come back in source
// order, one message per finding, and never stop a parse.
func Lint(rs []Rule, user map[string]*Service) []string {
	var warnings []string
	for _, r := range rs {
		switch rule := r.(type) {
		case *ServiceRule:
			if ResolveService(rule.Service, user) == nil {
				warnings = append(warnings, fmt.Sprintf("line %d: unknown service %q", rule.Line, rule.Service))
			}
		case *AddressRule:
			warnings = append(warnings, lintAddressRule(rule)...)
		}
	}
	return warnings
}

func lintAddressRule(r *AddressRule) []string {
	var warnings []string
	seen := map[string]bool{}
	hasProto := false
	port := -1
	v4, v6 := false, false
	for _, c := range r.Clauses {
		var kind string
		switch cl := c.(type) {
		case FromClause:
			kind = "from"
			markFamily(cl.Addr, &v4, &v6)
		case ToClause:
			kind = "to"
			markFamily(cl.Addr, &v4, &v6)
		case PortClause:
			kind = "port"
			port = int(cl.Port)
		case ProtoClause:
			kind = "proto"
			hasProto = true
		}
		if seen[kind] {
			warnings = append(warnings, fmt.Sprintf("line %d: duplicate %s clause", r.Line, kind))
		}
		seen[kind] = true
	}
	if port >= 0 && !hasProto {
		warnings = append(warnings, fmt.Sprintf("line %d: port %d specified without a protocol", r.Line, port))
	}
	if v4 && v6 {
		warnings = append(warnings, fmt.Sprintf("line %d: rule mixes IPv4 and IPv6 addresses", r.Line))
	}
	return warnings
}

func markFamily(a Addr, v4, v6 *bool) {
	ip, ok := a.(IPAddr)
	if !ok {
		return
	}
	if ip.Addr.Is4() {
		*v4 = true
	} else {
		*v6 = true
	}
}
