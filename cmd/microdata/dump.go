package main

import (
	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/microdata/internal/output"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [graphs...]",
	Short: "Print stored graphs",
	Long:  `Dump prints the named graphs from the graph database, or every graph when none is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		writer, err := outputWriter(cmd)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		graphs := args
		if len(graphs) == 0 {
			if graphs, err = store.Graphs(); err != nil {
				return err
			}
		}

		for _, graph := range graphs {
			triples, err := store.Triples(graph)
			if err != nil {
				return err
			}
			if err := writer.Write(cmd.OutOrStdout(), graph, triples); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringP("format", "f", string(output.FormatNTriples), "output format: ntriples, nquads or json")
	rootCmd.AddCommand(dumpCmd)
}
