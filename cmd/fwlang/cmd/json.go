package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psaab/fwlang/pkg/rules"
)

var jsonCompact bool

var jsonCmd = &cobra.Command{
	Use:   "json [file]",
	Short: "Parse a rule file and print the rules as JSON",
	Long: "Parse a rule file and print the typed rules as a JSON array.\n" +
		"Each rule and clause carries a \"kind\" discriminant. Reads stdin\n" +
		"when no file is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: runJSON,
}

func init() {
	jsonCmd.Flags().BoolVar(&jsonCompact, "compact", false, "single-line output without indentation")
	rootCmd.AddCommand(jsonCmd)
}

func runJSON(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	name, input, err := readInput(path)
	if err != nil {
		return fmt.Errorf("fwlang json: %w", err)
	}

	rs, err := rules.Parse(input)
	if err != nil {
		return fmt.Errorf("%s:%w", name, err)
	}

	var b []byte
	if jsonCompact {
		b, err = json.Marshal(rs)
	} else {
		b, err = json.MarshalIndent(rs, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("fwlang json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
