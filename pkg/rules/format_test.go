package rules

import "testing"

func TestFormatCanonical(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"allow   in  on eth0   from  internal", "allow in on eth0 from internal\n"},
		{"deny\tout\tto any", "deny out to any\n"},
		{"allow  ssh", "allow ssh\n"},
		{"allow from 2001:DB8::1", "allow from 2001:db8::1\n"},
		{"limit in from 10.0.0.0/8 port 22 proto tcp", "limit in from 10.0.0.0/8 port 22 proto tcp\n"},
	}
	for _, tc := range cases {
		got, err := Format(tc.input)
		if err != nil {
			t.Errorf("%q: format error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFormatPreservesComments(t *testing.T) {
	input := "# edge firewall\n\nallow ssh # remote admin\ndeny  out  on  eth1  to any proto udp"
	want := "# edge firewall\n\nallow ssh # remote admin\ndeny out on eth1 to any proto udp\n"
	got, err := Format(input)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []string{
		"allow ssh\n",
		"# header\nallow   in on eth0 from internal to external port 443 proto tcp\n\nreject out to 192.0.2.0/24 # blocked\n",
		"deny proto udp port 53 from any\n",
	}
	for _, input := range inputs {
		once, err := Format(input)
		if err != nil {
			t.Errorf("%q: format error: %v", input, err)
			continue
		}
		twice, err := Format(once)
		if err != nil {
			t.Errorf("%q: reformat error: %v", once, err)
			continue
		}
		if once != twice {
			t.Errorf("not idempotent:\n--- once ---\n%s--- twice ---\n%s", once, twice)
		}
	}
}

func TestFormatInvalid(t *testing.T) {
	for _, input := range []string{"allow ssh extra", "deny from 10.0.0.256"} {
		if _, err := Format(input); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}
