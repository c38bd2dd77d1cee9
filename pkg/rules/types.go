package rules

import (
	"net/netip"
	"strconv"
	"strings"
)

// Action is the verb of a rule: what to do with matching traffic.
type Action int

const (
	ActionAllow  Action = iota // permit the traffic
	ActionDeny                 // drop silently
	ActionReject               // drop with an ICMP refusal
	ActionLimit                // permit, rate limiting repeated connections
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionDeny:
		return "deny"
	case ActionReject:
		return "reject"
	case ActionLimit:
		return "limit"
	}
	return "unknown"
}

// Direction constrains which way traffic is flowing. The zero value means
// the rule did not specify one.
type Direction int

const (
	DirectionNone Direction = iota // unspecified
	DirectionIn                    // inbound traffic
	DirectionOut                   // outbound traffic
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	}
	return ""
}

// Protocol is a transport protocol constraint.
type Protocol int

const (
	ProtoTCP Protocol = iota
	ProtoUDP
	ProtoAny
)

func (p Protocol) String() string {
	switch p {
	case ProtoTCP:
		return "tcp"
	case ProtoUDP:
		return "udp"
	case ProtoAny:
		return "any"
	}
	return "unknown"
}

// Rule is a single parsed firewall rule, either a ServiceRule or an
// AddressRule. The set of implementations is closed.
type Rule interface {
	isRule()
	// String renders the rule in canonical source form.
	String() string
}

// ServiceRule permits or blocks a named service, to be resolved against a
// service catalog at a later stage.
type ServiceRule struct {
	Action  Action
	Service string // service name as written, not resolved
	Line    int    // source line the rule starts on
}

func (*ServiceRule) isRule() {}

func (r *ServiceRule) String() string {
	return r.Action.String() + " " + r.Service
}

// AddressRule matches traffic by direction, interface, and one or more
// address, port, or protocol clauses. Clauses keeps its source order and
// is never empty.
type AddressRule struct {
	Action    Action
	Direction Direction // DirectionNone if unspecified
	Interface string    // empty if unspecified
	Clauses   []Clause
	Line      int // source line the rule starts on
}

func (*AddressRule) isRule() {}

func (r *AddressRule) String() string {
	parts := []string{r.Action.String()}
	if r.Direction != DirectionNone {
		parts = append(parts, r.Direction.String())
	}
	if r.Interface != "" {
		parts = append(parts, "on", r.Interface)
	}
	for _, c := range r.Clauses {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

// Clause is one constraint of an AddressRule. Implementations are
// FromClause, ToClause, PortClause, and ProtoClause; the set is closed.
type Clause interface {
	isClause()
	String() string
}

// FromClause constrains the traffic source.
type FromClause struct {
	Addr Addr
}

func (FromClause) isClause() {}

func (c FromClause) String() string {
	return "from " + c.Addr.String()
}

// ToClause constrains the traffic destination.
type ToClause struct {
	Addr Addr
}

func (ToClause) isClause() {}

func (c ToClause) String() string {
	return "to " + c.Addr.String()
}

// PortClause constrains the destination port.
type PortClause struct {
	Port uint16
}

func (PortClause) isClause() {}

func (c PortClause) String() string {
	return "port " + strconv.Itoa(int(c.Port))
}

// ProtoClause constrains the transport protocol.
type ProtoClause struct {
	Proto Protocol
}

func (ProtoClause) isClause() {}

func (c ProtoClause) String() string {
	return "proto " + c.Proto.String()
}

// Addr is an address expression in a from or to clause. Implementations
// are AnyAddr, InternalAddr, ExternalAddr, and IPAddr; the set is closed.
type Addr interface {
	isAddr()
	String() string
}

// AnyAddr matches every address.
type AnyAddr struct{}

func (AnyAddr) isAddr() {}

func (AnyAddr) String() string { return "any" }

// InternalAddr matches RFC 1918 and other private ranges as resolved by
// the enforcement layer.
type InternalAddr struct{}

func (InternalAddr) isAddr() {}

func (InternalAddr) String() string { return "internal" }

// ExternalAddr matches everything InternalAddr does not.
type ExternalAddr struct{}

func (ExternalAddr) isAddr() {}

func (ExternalAddr) String() string { return "external" }

// IPAddr matches a literal address or CIDR block.
type IPAddr struct {
	Addr      netip.Addr
	PrefixLen int // -1 when no /prefix was written
}

func (IPAddr) isAddr() {}

func (a IPAddr) String() string {
	if a.PrefixLen < 0 {
		return a.Addr.String()
	}
	return a.Addr.String() + "/" + strconv.Itoa(a.PrefixLen)
}
