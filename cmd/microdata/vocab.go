package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show the vocabulary registry",
	Long: `Vocab lists the vocabulary registry in use: the built-in entries merged
with every file given by --vocabularies. Each property mapping is listed below
its vocabulary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := vocabularies()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, v := range registry.Entries() {
			separator := v.Separator
			if separator == "" {
				separator = "#"
			}
			fmt.Fprintf(w, "%s\tseparator %q\n", v.Prefix, separator)

			names := make([]string, 0, len(v.Properties))
			for name := range v.Properties {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				m := v.Properties[name]
				var targets []string
				if m.IRI != "" {
					targets = append(targets, "iri "+m.IRI)
				}
				for _, iri := range m.SubPropertyOf {
					targets = append(targets, "subPropertyOf "+iri)
				}
				for _, iri := range m.EquivalentProperty {
					targets = append(targets, "equivalentProperty "+iri)
				}
				fmt.Fprintf(w, "  %s\t%s\n", name, strings.Join(targets, ", "))
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
}
