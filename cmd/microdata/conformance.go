package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/microdata/internal/conformance"
)

var conformanceCmd = &cobra.Command{
	Use:   "conformance <dir>",
	Short: "Run a directory of extraction fixtures",
	Long: `Conformance extracts every NAME.html in dir and compares the result with
NAME.nt (or NAME.ttl), up to blank node renaming. The base IRI of each
fixture is built from --base-format and the fixture name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		parser, err := newParser(logger)
		if err != nil {
			return err
		}

		baseFormat, _ := cmd.Flags().GetString("base-format")
		runner := conformance.NewRunner(parser, baseFormat, cmd.OutOrStdout())
		if err := runner.RunDir(args[0]); err != nil {
			return err
		}

		if stats := runner.Stats(); stats.Failed > 0 {
			return fmt.Errorf("%d of %d fixtures failed", stats.Failed, stats.Total)
		}
		return nil
	},
}

func init() {
	conformanceCmd.Flags().String("base-format", conformance.DefaultBaseFormat, "base IRI template, %s is the fixture name")
	rootCmd.AddCommand(conformanceCmd)
}
