// Package cmdtree defines the completion tree for the firewall rule
// language.
//
// This is the single source of truth for interactive input: tab
// completion, ? help, and the candidate lists shown by pkg/cli all derive
// from this tree. When the grammar grows a keyword, add it here and it
// appears everywhere.
package cmdtree

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/psaab/fwlang/pkg/rules"
)

// Node is one completion state: a description, the keywords that may
// follow, and an optional source of dynamic candidates. A child key
// wrapped in angle brackets is a placeholder that consumes any word, used
// for free-form values like interface names and IP literals.
type Node struct {
	Desc      string
	Children  map[string]*Node
	DynamicFn func(catalog map[string]*rules.Service) []string
}

// Candidate holds a candidate name and its description for help display.
type Candidate struct {
	Name string
	Desc string
}

// RuleTree defines completion for a full input line: the rule actions
// plus the shell commands.
var RuleTree = map[string]*Node{
	"allow":  {Desc: "Permit matching traffic", Children: ruleLevel, DynamicFn: serviceNames},
	"deny":   {Desc: "Silently drop matching traffic", Children: ruleLevel, DynamicFn: serviceNames},
	"reject": {Desc: "Drop matching traffic and notify the sender", Children: ruleLevel, DynamicFn: serviceNames},
	"limit":  {Desc: "Permit but rate limit repeated connections", Children: ruleLevel, DynamicFn: serviceNames},
	"help":   {Desc: "Show shell usage"},
	"json":   {Desc: "Toggle JSON output for parsed rules"},
	"exit":   {Desc: "Exit the shell"},
	"quit":   {Desc: "Exit the shell"},
}

// ruleLevel is the state after an action keyword: a service name ends the
// rule, everything else starts an address rule.
var ruleLevel = map[string]*Node{
	"in":        {Desc: "Match inbound traffic"},
	"out":       {Desc: "Match outbound traffic"},
	"on":        {Desc: "Constrain the rule to an interface"},
	"<service>": {Desc: "Well-known or catalog service name"},
}

var onLevel = map[string]*Node{
	"<interface>": {Desc: "Interface name"},
}

var clauseLevel = map[string]*Node{
	"from":  {Desc: "Match the traffic source", Children: addrLevel},
	"to":    {Desc: "Match the traffic destination", Children: addrLevel},
	"port":  {Desc: "Match the destination port", Children: portLevel},
	"proto": {Desc: "Match the transport protocol", Children: protoLevel},
}

var addrLevel = map[string]*Node{
	"any":       {Desc: "Every address"},
	"internal":  {Desc: "Private address space"},
	"external":  {Desc: "Public address space"},
	"<address>": {Desc: "IP literal, optionally with /prefix"},
}

var portLevel = map[string]*Node{
	"<number>": {Desc: "Port number in 0..65535"},
}

var protoLevel = map[string]*Node{
	"tcp": {Desc: "TCP traffic"},
	"udp": {Desc: "UDP traffic"},
	"any": {Desc: "Any transport protocol"},
}

// The grammar lets clauses repeat in any order, so the tree is a graph:
// every completed clause value leads back to the clause keywords. Map
// literals cannot express the back edges, so they are wired here.
func init() {
	directionLevel := map[string]*Node{"on": ruleLevel["on"]}
	for kw, n := range clauseLevel {
		ruleLevel[kw] = n
		directionLevel[kw] = n
	}
	ruleLevel["in"].Children = directionLevel
	ruleLevel["out"].Children = directionLevel
	ruleLevel["on"].Children = onLevel
	onLevel["<interface>"].Children = clauseLevel
	for _, n := range addrLevel {
		n.Children = clauseLevel
	}
	portLevel["<number>"].Children = clauseLevel
	for _, n := range protoLevel {
		n.Children = clauseLevel
	}
}

func serviceNames(catalog map[string]*rules.Service) []string {
	names := make([]string, 0, len(rules.WellKnownServices)+len(catalog))
	for name := range rules.WellKnownServices {
		names = append(names, name)
	}
	for name := range catalog {
		if _, ok := rules.WellKnownServices[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// Complete walks the tree along the completed words and returns the
// candidates for the word being typed. Placeholder children consume
// free-form values; dynamic candidates come from the node's DynamicFn.
func Complete(tree map[string]*Node, words []string, partial string, catalog map[string]*rules.Service) []string {
	current, currentNode := walk(tree, words)
	if current == nil {
		return nil
	}
	candidates := keywordsOf(current)
	if currentNode != nil && currentNode.DynamicFn != nil {
		candidates = append(candidates, currentNode.DynamicFn(catalog)...)
	}
	return FilterPrefix(candidates, partial)
}

// CompleteWithDesc walks the tree returning name and description pairs,
// including placeholders, for ? help display. Dynamic service candidates
// are described by their catalog entry.
func CompleteWithDesc(tree map[string]*Node, words []string, partial string, catalog map[string]*rules.Service) []Candidate {
	current, currentNode := walk(tree, words)
	if current == nil {
		return nil
	}
	var candidates []Candidate
	for name, node := range current {
		if strings.HasPrefix(name, "<") || strings.HasPrefix(name, partial) {
			candidates = append(candidates, Candidate{Name: name, Desc: node.Desc})
		}
	}
	if currentNode != nil && currentNode.DynamicFn != nil {
		for _, name := range currentNode.DynamicFn(catalog) {
			if !strings.HasPrefix(name, partial) {
				continue
			}
			desc := "service"
			if svc := rules.ResolveService(name, catalog); svc != nil {
				desc = fmt.Sprintf("%d/%s", svc.Port, svc.Proto)
			}
			candidates = append(candidates, Candidate{Name: name, Desc: desc})
		}
	}
	return candidates
}

// walk follows words through the tree and returns the children level to
// complete from, plus the node whose level it is. A word that is not a
// static child falls through to the level's placeholder; with no
// placeholder the walk dead-ends.
func walk(tree map[string]*Node, words []string) (map[string]*Node, *Node) {
	current := tree
	var currentNode *Node
	for _, w := range words {
		node, ok := current[w]
		if !ok {
			node = valueNode(current)
			if node == nil {
				return nil, nil
			}
		}
		currentNode = node
		if node.Children == nil {
			return nil, nil
		}
		current = node.Children
	}
	return current, currentNode
}

func valueNode(level map[string]*Node) *Node {
	for name, n := range level {
		if strings.HasPrefix(name, "<") {
			return n
		}
	}
	return nil
}

func keywordsOf(level map[string]*Node) []string {
	keys := make([]string, 0, len(level))
	for k := range level {
		if strings.HasPrefix(k, "<") {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// HelpCandidates returns Candidates for every entry of a level.
func HelpCandidates(tree map[string]*Node) []Candidate {
	candidates := make([]Candidate, 0, len(tree))
	for name, node := range tree {
		candidates = append(candidates, Candidate{Name: name, Desc: node.Desc})
	}
	return candidates
}

// WriteHelp prints aligned completion candidates to w.
// The entire output is built as a single string and written in one call
// so that readline's wrapWriter triggers only one Refresh cycle.
func WriteHelp(w io.Writer, candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	maxWidth := 20
	for _, c := range candidates {
		if len(c.Name)+2 > maxWidth {
			maxWidth = len(c.Name) + 2
		}
	}
	var sb strings.Builder
	sb.WriteString("Possible completions:\n")
	for _, c := range candidates {
		if c.Desc != "" {
			fmt.Fprintf(&sb, "  %-*s %s\n", maxWidth, c.Name, c.Desc)
		} else {
			fmt.Fprintf(&sb, "  %s\n", c.Name)
		}
	}
	io.WriteString(w, sb.String())
}

// CommonPrefix returns the longest shared prefix among the given strings.
func CommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// FilterPrefix returns only items that start with the given prefix.
func FilterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	var result []string
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			result = append(result, item)
		}
	}
	return result
}
