package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with the given args, capturing stdout
// and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// writeRuleFile writes content to a temp rule file and returns its path.
func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.fw")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand_Help(t *testing.T) {
	out, _, _ := execute(t)

	if !strings.Contains(out, "fwlang") {
		t.Errorf("help output should contain 'fwlang', got: %s", out)
	}
	if !strings.Contains(out, "rule language") {
		t.Errorf("help output should describe the rule language, got: %s", out)
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2025-06-01")

	out, _, _ := execute(t, "--version")

	for _, want := range []string{"1.2.3", "abc123", "2025-06-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output should contain %q, got: %s", want, out)
		}
	}
}
