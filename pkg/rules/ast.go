package rules

// NodeKind identifies the grammar rule that produced a parse-tree node.
// The set is closed; the compiler dispatches on it exhaustively.
type NodeKind int

const (
	NodeFile        NodeKind = iota // whole input; children are line nodes
	NodeServiceRule                 // action + service name
	NodeAddrRule                    // action + optional direction/interface + clauses
	NodeComment                     // standalone or trailing # comment
	NodeBlank                       // empty line, kept so formatting can reproduce it
	NodeAction                      // allow | deny | reject | limit
	NodeService                     // service identifier
	NodeDirection                   // in | out
	NodeInterface                   // interface identifier from an "on" clause
	NodeFromClause                  // from <addr>
	NodeToClause                    // to <addr>
	NodePortClause                  // port <number>
	NodeProtoClause                 // proto <tcp|udp|any>
	NodeAddrKeyword                 // any | internal | external
	NodeIP                          // IP literal, optionally with /prefix
	NodePort                        // port number literal
	NodeProto                       // tcp | udp | any
)

func (k NodeKind) String() string {
	switch k {
	case NodeFile:
		return "file"
	case NodeServiceRule:
		return "service_rule"
	case NodeAddrRule:
		return "addr_rule"
	case NodeComment:
		return "comment"
	case NodeBlank:
		return "blank"
	case NodeAction:
		return "action"
	case NodeService:
		return "service"
	case NodeDirection:
		return "direction"
	case NodeInterface:
		return "interface"
	case NodeFromClause:
		return "from_clause"
	case NodeToClause:
		return "to_clause"
	case NodePortClause:
		return "port_clause"
	case NodeProtoClause:
		return "proto_clause"
	case NodeAddrKeyword:
		return "addr"
	case NodeIP:
		return "ip"
	case NodePort:
		return "port"
	case NodeProto:
		return "proto"
	default:
		return "unknown"
	}
}

// Node is a single parse-tree node. Leaf nodes carry the matched text in
// Value; composite nodes carry their parts in Children, in source order.
// Line and Column are 1-based and point at the node's first token.
type Node struct {
	Kind     NodeKind
	Value    string
	Line     int
	Column   int
	Children []*Node
}

// FindChild returns the first child of the given kind, or nil.
func (n *Node) FindChild(kind NodeKind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FindChildren returns all children of the given kind.
func (n *Node) FindChildren(kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Rules returns the rule nodes of a file node, skipping comment and blank
// lines.
func (n *Node) Rules() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == NodeServiceRule || c.Kind == NodeAddrRule {
			out = append(out, c)
		}
	}
	return out
}
