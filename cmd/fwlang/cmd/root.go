// Package cmd implements the fwlang CLI commands.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/psaab/fwlang/pkg/rules"
)

var (
	servicesFile string
	verbose      bool
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("fwlang version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "fwlang",
	Short: "fwlang parses and checks firewall rule files",
	Long: "fwlang is a toolchain for a ufw-style firewall rule language.\n" +
		"It parses rule files into typed rules, reports syntax and validation\n" +
		"errors with exact source positions, rewrites files in canonical form,\n" +
		"and exports parsed rules as JSON.",
	SilenceUsage: true,
	// No Run function; cobra prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&servicesFile, "services", "", "YAML file with user-defined service names")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("fwlang version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupLogger returns a stderr text logger, at debug level when
// --verbose is set.
func setupLogger() *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// loadCatalog loads the user service catalog when --services was given.
func loadCatalog() (map[string]*rules.Service, error) {
	if servicesFile == "" {
		return nil, nil
	}
	return rules.LoadServicesFile(servicesFile)
}

// readInput reads a rule file, or stdin when path is "-". The returned
// name is used in diagnostics.
func readInput(path string) (name, input string, err error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(b), nil
}
