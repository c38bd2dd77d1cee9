package rules

import "testing"

func TestCompileFile(t *testing.T) {
	file, err := NewParser("allow https\ndeny out to any\n").Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	rs, err := CompileFile(file)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs))
	}
	if _, ok := rs[0].(*ServiceRule); !ok {
		t.Errorf("rule 0: %T", rs[0])
	}
	if _, ok := rs[1].(*AddressRule); !ok {
		t.Errorf("rule 1: %T", rs[1])
	}
}

func TestCompileIPLiterals(t *testing.T) {
	cases := []struct {
		input  string
		addr   string
		prefix int
	}{
		{"allow from 10.0.0.1", "10.0.0.1", -1},
		{"allow from 10.0.0.0/8", "10.0.0.0", 8},
		{"allow from 0.0.0.0/0", "0.0.0.0", 0},
		{"allow from 255.255.255.255/32", "255.255.255.255", 32},
		{"allow from 2001:db8::1", "2001:db8::1", -1},
		{"allow from 2001:DB8::1", "2001:db8::1", -1},
		{"allow from 2001:db8::/32", "2001:db8::", 32},
		{"allow from ::1", "::1", -1},
		{"allow from ::/0", "::", 0},
		{"allow from 2001:db8::1/128", "2001:db8::1", 128},
	}
	for _, tc := range cases {
		rs, err := Parse(tc.input)
		if err != nil {
			t.Errorf("%q: parse error: %v", tc.input, err)
			continue
		}
		r := rs[0].(*AddressRule)
		from, ok := r.Clauses[0].(FromClause)
		if !ok {
			t.Errorf("%q: clause 0: %T", tc.input, r.Clauses[0])
			continue
		}
		ip, ok := from.Addr.(IPAddr)
		if !ok {
			t.Errorf("%q: addr: %T", tc.input, from.Addr)
			continue
		}
		if ip.Addr.String() != tc.addr {
			t.Errorf("%q: addr %q, want %q", tc.input, ip.Addr.String(), tc.addr)
		}
		if ip.PrefixLen != tc.prefix {
			t.Errorf("%q: prefix %d, want %d", tc.input, ip.PrefixLen, tc.prefix)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	cases := []struct {
		input   string
		line    int
		column  int
		kind    ValidationKind
		literal string
	}{
		{"allow port 65536 proto tcp", 1, 12, PortOutOfRange, "65536"},
		{"allow port 99999999999999999999 proto tcp", 1, 12, PortOutOfRange, "99999999999999999999"},
		{"deny from 10.0.0.256", 1, 11, InvalidIPOctet, "10.0.0.256"},
		{"deny from 300.1.2.3", 1, 11, InvalidIPOctet, "300.1.2.3"},
		{"deny to 1.2.3.4.5", 1, 9, InvalidIPAddress, "1.2.3.4.5"},
		{"deny to 1::2::3", 1, 9, InvalidIPAddress, "1::2::3"},
		{"deny from 010.1.2.3", 1, 11, InvalidIPAddress, "010.1.2.3"},
		{"deny from 10.0.0.0/33", 1, 11, InvalidCIDRPrefix, "10.0.0.0/33"},
		{"deny from 2001:db8::/129", 1, 11, InvalidCIDRPrefix, "2001:db8::/129"},
		{"deny from 10.0.0.0/", 1, 11, InvalidCIDRPrefix, "10.0.0.0/"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.input)
		if err == nil {
			t.Errorf("%q: expected error", tc.input)
			continue
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Errorf("%q: expected *ValidationError, got %T: %v", tc.input, err, err)
			continue
		}
		if verr.Line != tc.line || verr.Column != tc.column {
			t.Errorf("%q: position %d:%d, want %d:%d", tc.input, verr.Line, verr.Column, tc.line, tc.column)
		}
		if verr.Kind != tc.kind {
			t.Errorf("%q: kind %s, want %s", tc.input, verr.Kind, tc.kind)
		}
		if verr.Literal != tc.literal {
			t.Errorf("%q: literal %q, want %q", tc.input, verr.Literal, tc.literal)
		}
	}
}

func TestPortBounds(t *testing.T) {
	rs, err := Parse("allow port 0 proto tcp\nallow port 65535 proto udp\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := rs[0].(*AddressRule).Clauses[0].(PortClause).Port; got != 0 {
		t.Errorf("rule 0 port: %d", got)
	}
	if got := rs[1].(*AddressRule).Clauses[0].(PortClause).Port; got != 65535 {
		t.Errorf("rule 1 port: %d", got)
	}
}
