package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psaab/fwlang/pkg/cli"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive rule shell",
	Long: "Start an interactive shell that checks rules as you type, with\n" +
		"tab completion and '?' context help for the rule language.",
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return fmt.Errorf("fwlang repl: %w", err)
	}
	return cli.New(catalog).Run()
}
