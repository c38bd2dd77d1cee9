// Package cli implements the interactive shell for the firewall rule
// language.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/psaab/fwlang/pkg/cmdtree"
	"github.com/psaab/fwlang/pkg/rules"
)

// Shell is the interactive rule shell. Each entered line is parsed as a
// rule and echoed in canonical form, or rejected with a caret diagnostic
// pointing at the offending column.
type Shell struct {
	rl      *readline.Instance
	catalog map[string]*rules.Service
	jsonOut bool
	history string
}

// New creates a shell. catalog holds user-defined services that extend
// the well-known set for lookup and completion; it may be nil.
func New(catalog map[string]*rules.Service) *Shell {
	return &Shell{
		catalog: catalog,
		history: "/tmp/fwlang_history",
	}
}

// Run starts the interactive loop and blocks until the user exits.
func (s *Shell) Run() error {
	var err error
	s.rl, err = readline.NewEx(&readline.Config{
		Prompt:          "fwlang> ",
		HistoryFile:     s.history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &treeCompleter{sh: s},
		Listener:        readline.FuncListener(s.helpListener),
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer s.rl.Close()

	fmt.Println("fwlang rule shell")
	fmt.Println("Type a rule to check it, '?' for help")
	fmt.Println()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				break
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.dispatch(line); err != nil {
			if err == errExit {
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

var errExit = fmt.Errorf("exit")

func (s *Shell) dispatch(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "quit", "exit":
		return errExit

	case "json":
		s.jsonOut = !s.jsonOut
		if s.jsonOut {
			fmt.Println("JSON output enabled")
		} else {
			fmt.Println("JSON output disabled")
		}
		return nil

	case "?", "help":
		s.showHelp()
		return nil

	default:
		return s.evalRule(line)
	}
}

// evalRule parses a single rule line and prints the canonical form, the
// JSON encoding when enabled, and any lint findings.
func (s *Shell) evalRule(line string) error {
	rs, err := rules.Parse(line)
	if err != nil {
		s.printDiagnostic(line, err)
		return nil
	}

	for _, r := range rs {
		fmt.Println(r)
		if s.jsonOut {
			b, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal rule: %w", err)
			}
			fmt.Println(string(b))
		}
	}
	for _, w := range rules.Lint(rs, s.catalog) {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}

// printDiagnostic echoes the offending source line with a caret under
// the error position, then the error itself.
func (s *Shell) printDiagnostic(input string, err error) {
	line, col := diagPos(err)
	src := strings.Split(input, "\n")
	if col > 0 && line >= 1 && line <= len(src) {
		fmt.Printf("  %s\n", src[line-1])
		fmt.Printf("  %s^\n", strings.Repeat(" ", col-1))
	}
	fmt.Println(err)
}

// diagPos extracts the 1-based error position, or zeros when the error
// carries none.
func diagPos(err error) (line, col int) {
	var syn *rules.SyntaxError
	if errors.As(err, &syn) {
		return syn.Line, syn.Column
	}
	var val *rules.ValidationError
	if errors.As(err, &val) {
		return val.Line, val.Column
	}
	return 0, 0
}

func (s *Shell) showHelp() {
	fmt.Println("Commands:")
	fmt.Println("  <rule>   Parse a rule and print its canonical form")
	fmt.Println("  json     Toggle JSON output for parsed rules")
	fmt.Println("  help     Show this help")
	fmt.Println("  exit     Exit the shell")
	fmt.Println()
	fmt.Println("Rules:")
	fmt.Println("  allow ssh")
	fmt.Println("  deny in on eth0 from 10.0.0.0/8 to any port 22 proto tcp")
	fmt.Println("  limit from external to internal port 443 proto tcp")
	fmt.Println()
	fmt.Println("Press TAB to complete, '?' for candidates at the cursor.")
}

// helpListener implements '?' context help. It strips the '?' readline
// already inserted, prints the candidates for the cursor position, and
// restores the line.
func (s *Shell) helpListener(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key != '?' || pos < 1 {
		return line, pos, false
	}
	cleanLine := make([]rune, 0, len(line)-1)
	cleanLine = append(cleanLine, line[:pos-1]...)
	cleanLine = append(cleanLine, line[pos:]...)
	text := string(cleanLine[:pos-1])

	words, partial := splitPartial(text)
	candidates := cmdtree.CompleteWithDesc(cmdtree.RuleTree, words, partial, s.catalog)
	if len(candidates) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "  (no help available)")
		return cleanLine, pos - 1, true
	}
	cmdtree.WriteHelp(s.rl.Stdout(), candidates)
	return cleanLine, pos - 1, true
}

// treeCompleter adapts the completion tree to readline's AutoComplete
// interface.
type treeCompleter struct {
	sh *Shell
}

func (tc *treeCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	words, partial := splitPartial(text)
	candidates := cmdtree.Complete(cmdtree.RuleTree, words, partial, tc.sh.catalog)
	if len(candidates) == 0 {
		return nil, 0
	}
	sort.Strings(candidates)

	var result [][]rune
	for _, c := range candidates {
		result = append(result, []rune(c[len(partial):]+" "))
	}
	return result, len(partial)
}

// splitPartial separates the completed words of text from the word still
// being typed. A trailing space means the last word is complete.
func splitPartial(text string) (words []string, partial string) {
	words = strings.Fields(text)
	trailingSpace := len(text) > 0 && text[len(text)-1] == ' '
	if !trailingSpace && len(words) > 0 {
		partial = words[len(words)-1]
		words = words[:len(words)-1]
	}
	return words, partial
}
