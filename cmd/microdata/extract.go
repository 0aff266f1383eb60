package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aleksaelezovic/microdata/internal/graphstore"
	"github.com/aleksaelezovic/microdata/internal/output"
	"github.com/aleksaelezovic/microdata/pkg/microdata"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

const stdinName = "-"

var extractCmd = &cobra.Command{
	Use:   "extract [files or globs...]",
	Short: "Extract triples from HTML documents",
	Long: `Extract converts every top-level Microdata item of each input document to
RDF. Inputs are file paths, doublestar glob patterns ("site/**/*.html") or "-"
for standard input.

Without --base, a file's base IRI is its file: URL. When --store is set each
document's triples replace the named graph of the same base IRI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("base", "", "base IRI for relative references (default: file URL of the input)")
	extractCmd.Flags().StringP("format", "f", string(output.FormatNTriples), "output format: ntriples, nquads or json")
	extractCmd.Flags().StringSlice("predicate", nil, "only keep triples with these predicate IRIs")
	extractCmd.Flags().BoolP("quiet", "q", false, "do not print triples")

	_ = viper.BindPFlag("base", extractCmd.Flags().Lookup("base"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	writer, err := outputWriter(cmd)
	if err != nil {
		return err
	}

	var opts []microdata.Option
	if predicates, _ := cmd.Flags().GetStringSlice("predicate"); len(predicates) > 0 {
		opts = append(opts, microdata.WithFilter(predicateFilter(predicates)))
	}
	parser, err := newParser(logger, opts...)
	if err != nil {
		return err
	}

	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}

	var store *graphstore.Store
	if viper.GetString("store") != "" {
		if store, err = openStore(); err != nil {
			return err
		}
		defer store.Close()
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	for _, input := range inputs {
		base, err := baseFor(input, viper.GetString("base"))
		if err != nil {
			return err
		}

		triples, err := extractFile(parser, input, cmd.InOrStdin(), base)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		logger.Info("extracted document", slog.String("input", input), slog.String("base", base), slog.Int("triples", len(triples)))

		if store != nil {
			if err := store.Replace(base, triples); err != nil {
				return err
			}
		}
		if !quiet {
			if err := writer.Write(cmd.OutOrStdout(), base, triples); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandInputs resolves glob patterns to files. Arguments without glob
// metacharacters are kept as given so that missing files are reported when
// they are read.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if arg == stdinName || !hasMeta(arg) {
			inputs = append(inputs, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		inputs = append(inputs, matches...)
	}
	return inputs, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// baseFor picks the base IRI of one input.
func baseFor(input, configured string) (string, error) {
	if configured != "" || input == stdinName {
		return configured, nil
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

func extractFile(parser *microdata.Parser, input string, stdin io.Reader, base string) ([]*rdf.Triple, error) {
	var data []byte
	var err error
	if input == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input) // #nosec G304 - input paths come from the command line
	}
	if err != nil {
		return nil, err
	}

	var triples []*rdf.Triple
	for triple, err := range parser.All(string(data), base) {
		if err != nil {
			return nil, err
		}
		triples = append(triples, triple)
	}
	return triples, nil
}

func predicateFilter(predicates []string) microdata.Filter {
	keep := make(map[string]bool, len(predicates))
	for _, p := range predicates {
		keep[p] = true
	}
	return func(t *rdf.Triple) bool {
		p, ok := t.Predicate.(*rdf.NamedNode)
		return ok && keep[p.IRI]
	}
}
