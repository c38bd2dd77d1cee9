package rules

import "testing"

func TestLintUnknownService(t *testing.T) {
	rs, err := Parse("allow foobar\nallow ssh\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	warnings := Lint(rs, nil)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0] != `line 1: unknown service "foobar"` {
		t.Errorf("warning: %s", warnings[0])
	}

	user := map[string]*Service{"foobar": {Name: "foobar", Port: 9999, Proto: ProtoTCP}}
	if w := Lint(rs, user); len(w) != 0 {
		t.Errorf("user catalog should silence the warning, got %v", w)
	}
}

func TestLintDuplicateClause(t *testing.T) {
	rs, err := Parse("allow from any from any\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	warnings := Lint(rs, nil)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0] != "line 1: duplicate from clause" {
		t.Errorf("warning: %s", warnings[0])
	}
}

func TestLintPortWithoutProto(t *testing.T) {
	rs, err := Parse("allow ssh\nallow port 53\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	warnings := Lint(rs, nil)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0] != "line 2: port 53 specified without a protocol" {
		t.Errorf("warning: %s", warnings[0])
	}

	rs, err = Parse("allow port 53 proto udp\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if w := Lint(rs, nil); len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}
}

func TestLintMixedFamilies(t *testing.T) {
	rs, err := Parse("deny from 10.0.0.1 to 2001:db8::1\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	warnings := Lint(rs, nil)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0] != "line 1: rule mixes IPv4 and IPv6 addresses" {
		t.Errorf("warning: %s", warnings[0])
	}

	rs, err = Parse("deny from 10.0.0.1 to 192.0.2.1\nallow from 2001:db8::/32 to fe80::1\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if w := Lint(rs, nil); len(w) != 0 {
		t.Errorf("same-family rules should be clean, got %v", w)
	}
}

func TestLintClean(t *testing.T) {
	input := `# edge ruleset
allow ssh
allow in on eth0 from internal to external port 443 proto tcp
deny out to any proto udp
limit https
`
	rs, err := Parse(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if w := Lint(rs, nil); len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}
}
