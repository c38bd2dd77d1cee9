package cli

import (
	"testing"

	"github.com/psaab/fwlang/pkg/rules"
)

func TestSplitPartial(t *testing.T) {
	cases := []struct {
		text    string
		words   []string
		partial string
	}{
		{"", nil, ""},
		{"allow", nil, "allow"},
		{"allow ", []string{"allow"}, ""},
		{"allow ss", []string{"allow"}, "ss"},
		{"deny from 10.0.0.1 ", []string{"deny", "from", "10.0.0.1"}, ""},
	}
	for _, tc := range cases {
		words, partial := splitPartial(tc.text)
		if partial != tc.partial {
			t.Errorf("splitPartial(%q) partial = %q, want %q", tc.text, partial, tc.partial)
		}
		if len(words) != len(tc.words) {
			t.Errorf("splitPartial(%q) words = %v, want %v", tc.text, words, tc.words)
			continue
		}
		for i := range words {
			if words[i] != tc.words[i] {
				t.Errorf("splitPartial(%q) words = %v, want %v", tc.text, words, tc.words)
				break
			}
		}
	}
}

func TestCompleterDo(t *testing.T) {
	tc := &treeCompleter{sh: New(nil)}

	line := []rune("allow ss")
	result, length := tc.Do(line, len(line))
	if length != 2 {
		t.Fatalf("replacement length = %d, want 2", length)
	}
	found := false
	for _, r := range result {
		if string(r) == "h " {
			found = true
		}
	}
	if !found {
		t.Errorf("expected suffix \"h \" for ssh, got %v", result)
	}

	// Dead end after a complete service rule.
	line = []rune("allow ssh ")
	if result, _ := tc.Do(line, len(line)); result != nil {
		t.Errorf("expected no candidates after a service rule, got %v", result)
	}
}

func TestDiagPos(t *testing.T) {
	_, err := rules.Parse("allow ssh extra")
	if err == nil {
		t.Fatal("expected syntax error")
	}
	line, col := diagPos(err)
	if line != 1 || col != 11 {
		t.Errorf("syntax position = %d:%d, want 1:11", line, col)
	}

	_, err = rules.Parse("deny from 10.0.0.256")
	if err == nil {
		t.Fatal("expected validation error")
	}
	line, col = diagPos(err)
	if line != 1 || col != 11 {
		t.Errorf("validation position = %d:%d, want 1:11", line, col)
	}

	if line, col := diagPos(errExit); line != 0 || col != 0 {
		t.Errorf("plain error position = %d:%d, want 0:0", line, col)
	}
}
