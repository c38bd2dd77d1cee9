package cmdtree

import (
	"sort"
	"testing"

	"github.com/psaab/fwlang/pkg/rules"
)

func contains(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}

func TestCompleteTopLevel(t *testing.T) {
	got := Complete(RuleTree, nil, "", nil)
	for _, want := range []string{"allow", "deny", "reject", "limit", "help", "exit"} {
		if !contains(got, want) {
			t.Errorf("top level missing %q: %v", want, got)
		}
	}

	got = Complete(RuleTree, nil, "al", nil)
	if len(got) != 1 || got[0] != "allow" {
		t.Errorf("prefix al: %v", got)
	}
}

func TestCompleteAfterAction(t *testing.T) {
	got := Complete(RuleTree, []string{"allow"}, "", nil)
	for _, want := range []string{"in", "out", "on", "from", "to", "port", "proto", "ssh", "https"} {
		if !contains(got, want) {
			t.Errorf("after allow missing %q", want)
		}
	}
	if contains(got, "<service>") {
		t.Error("placeholder should not be a tab candidate")
	}

	got = Complete(RuleTree, []string{"allow"}, "ss", nil)
	if !contains(got, "ssh") || contains(got, "snmp") {
		t.Errorf("prefix ss: %v", got)
	}
}

func TestCompleteCatalogServices(t *testing.T) {
	catalog := map[string]*rules.Service{
		"webapp": {Name: "webapp", Port: 8443, Proto: rules.ProtoTCP},
	}
	got := Complete(RuleTree, []string{"allow"}, "web", catalog)
	if !contains(got, "webapp") {
		t.Errorf("catalog service missing: %v", got)
	}
}

func TestCompleteClauses(t *testing.T) {
	got := Complete(RuleTree, []string{"allow", "from"}, "", nil)
	sort.Strings(got)
	want := []string{"any", "external", "internal"}
	if len(got) != len(want) {
		t.Fatalf("after from: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("after from: %v, want %v", got, want)
		}
	}

	got = Complete(RuleTree, []string{"deny", "in", "from", "any", "proto"}, "", nil)
	sort.Strings(got)
	if len(got) != 3 || got[0] != "any" || got[1] != "tcp" || got[2] != "udp" {
		t.Errorf("after proto: %v", got)
	}
}

// Clause values loop back to the clause keywords, including free-form
// values consumed by placeholders.
func TestCompleteClauseCycle(t *testing.T) {
	cases := [][]string{
		{"allow", "from", "any"},
		{"allow", "from", "10.0.0.0/8"},
		{"allow", "in", "on", "eth0"},
		{"allow", "port", "443"},
		{"allow", "proto", "tcp", "from", "internal", "to"},
	}
	for _, words := range cases {
		got := Complete(RuleTree, words, "", nil)
		if len(got) == 0 {
			t.Errorf("%v: expected candidates", words)
			continue
		}
		last := words[len(words)-1]
		if last == "to" {
			if !contains(got, "any") {
				t.Errorf("%v: expected address candidates, got %v", words, got)
			}
		} else if !contains(got, "from") || !contains(got, "proto") {
			t.Errorf("%v: expected clause keywords, got %v", words, got)
		}
	}
}

func TestCompleteDeadEnds(t *testing.T) {
	cases := [][]string{
		{"allow", "ssh"},
		{"help"},
		{"bogus"},
	}
	for _, words := range cases {
		if got := Complete(RuleTree, words, "", nil); got != nil {
			t.Errorf("%v: expected no candidates, got %v", words, got)
		}
	}
}

func TestCompleteWithDesc(t *testing.T) {
	candidates := CompleteWithDesc(RuleTree, []string{"allow"}, "ssh", nil)
	found := false
	for _, c := range candidates {
		if c.Name == "ssh" {
			found = true
			if c.Desc != "22/tcp" {
				t.Errorf("ssh desc: %q", c.Desc)
			}
		}
	}
	if !found {
		t.Errorf("ssh not offered: %v", candidates)
	}

	candidates = CompleteWithDesc(RuleTree, []string{"allow", "from"}, "", nil)
	hasPlaceholder := false
	for _, c := range candidates {
		if c.Name == "<address>" {
			hasPlaceholder = true
		}
	}
	if !hasPlaceholder {
		t.Errorf("help should include the address placeholder: %v", candidates)
	}
}

func TestCommonPrefix(t *testing.T) {
	cases := []struct {
		items []string
		want  string
	}{
		{[]string{"internal", "in"}, "in"},
		{[]string{"tcp", "udp"}, ""},
		{[]string{"proto"}, "proto"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := CommonPrefix(tc.items); got != tc.want {
			t.Errorf("CommonPrefix(%v) = %q, want %q", tc.items, got, tc.want)
		}
	}
}
