package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var graphsCmd = &cobra.Command{
	Use:   "graphs",
	Short: "List the graphs in the graph database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		graphs, err := store.Graphs()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, graph := range graphs {
			count, err := store.Count(graph)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\n", graph, count)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(graphsCmd)
}
