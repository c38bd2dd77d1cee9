package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/psaab/fwlang/pkg/rules"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check [file ...]",
	Short: "Parse rule files and report the first error in each",
	Long: "Parse each rule file and report the first syntax or validation\n" +
		"error with its exact position. Reads stdin when no file or \"-\" is\n" +
		"given. Lint findings are printed as warnings; with --strict they\n" +
		"fail the check.",
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat lint warnings as errors")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger()
	catalog, err := loadCatalog()
	if err != nil {
		return fmt.Errorf("fwlang check: %w", err)
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	failed := 0
	for _, path := range args {
		name, input, err := readInput(path)
		if err != nil {
			return fmt.Errorf("fwlang check: %w", err)
		}

		start := time.Now()
		rs, err := rules.Parse(input)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%v\n", name, err)
			failed++
			continue
		}
		logger.Debug("parsed", "file", name, "rules", len(rs), "duration", time.Since(start))

		warnings := rules.Lint(rs, catalog)
		for _, w := range warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: %s\n", name, w)
		}
		if checkStrict && len(warnings) > 0 {
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules\n", name, len(rs))
	}

	if failed > 0 {
		return fmt.Errorf("fwlang check: %d of %d inputs failed", failed, len(args))
	}
	return nil
}
