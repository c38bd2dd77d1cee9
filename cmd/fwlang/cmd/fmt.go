package cmd

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/psaab/fwlang/pkg/rules"
)

var (
	fmtWrite bool
	fmtDiff  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file ...]",
	Short: "Rewrite rule files in canonical form",
	Long: "Format rule files: one space between words, lowercased IPs,\n" +
		"comments and blank lines preserved. Prints to stdout by default,\n" +
		"rewrites files in place with -w, shows a unified diff with -d.",
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result back to the source file")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "print a unified diff instead of the result")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}

	failed := 0
	for _, path := range args {
		name, input, err := readInput(path)
		if err != nil {
			return fmt.Errorf("fwlang fmt: %w", err)
		}

		out, err := rules.Format(input)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%v\n", name, err)
			failed++
			continue
		}

		switch {
		case fmtDiff:
			if out == input {
				continue
			}
			diff := difflib.UnifiedDiff{
				A:        difflib.SplitLines(input),
				B:        difflib.SplitLines(out),
				FromFile: name,
				ToFile:   name + " (formatted)",
				Context:  3,
			}
			text, err := difflib.GetUnifiedDiffString(diff)
			if err != nil {
				return fmt.Errorf("fwlang fmt: diff %s: %w", name, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)

		case fmtWrite:
			if path == "-" {
				return fmt.Errorf("fwlang fmt: cannot write in place when reading stdin")
			}
			if out == input {
				continue
			}
			if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
				return fmt.Errorf("fwlang fmt: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)

		default:
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
	}

	if failed > 0 {
		return fmt.Errorf("fwlang fmt: %d of %d inputs failed", failed, len(args))
	}
	return nil
}
