// Package main is the entry point for the microdata CLI: extract RDF from
// Microdata annotated HTML, persist the graphs and run fixture suites.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aleksaelezovic/microdata/internal/graphstore"
	"github.com/aleksaelezovic/microdata/internal/output"
	"github.com/aleksaelezovic/microdata/pkg/microdata"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "microdata",
	Short: "Extract RDF triples from HTML Microdata",
	Long: `microdata reads HTML documents annotated with itemscope, itemtype, itemid,
itemprop and itemref, and converts every top-level item to RDF triples.

Extracted graphs can be printed as N-Triples or JSON, and stored in a local
database with one named graph per document.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./microdata.yaml or ~/.config/microdata/microdata.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringSlice("vocabularies", nil, "extra vocabulary registry files merged over the built-in one")
	rootCmd.PersistentFlags().String("store", "", "graph database directory")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("vocabularies", rootCmd.PersistentFlags().Lookup("vocabularies"))
	_ = viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))

	viper.SetDefault("format", string(output.FormatNTriples))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("microdata")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "microdata"))
		}
	}

	viper.SetEnvPrefix("MICRODATA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the stderr logger at the configured level.
func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// vocabularies returns the built-in registry merged with the configured files.
func vocabularies() (*microdata.VocabularyRegistry, error) {
	registry := microdata.DefaultVocabularies()
	for _, path := range viper.GetStringSlice("vocabularies") {
		extra, err := microdata.LoadVocabulariesFile(path)
		if err != nil {
			return nil, err
		}
		registry = registry.Merge(extra)
	}
	return registry, nil
}

func newParser(logger *slog.Logger, opts ...microdata.Option) (*microdata.Parser, error) {
	registry, err := vocabularies()
	if err != nil {
		return nil, err
	}
	opts = append([]microdata.Option{
		microdata.WithVocabularies(registry),
		microdata.WithLogger(logger),
	}, opts...)
	return microdata.NewParser(opts...), nil
}

// outputWriter picks the --format flag of cmd when given, else the configured
// format.
func outputWriter(cmd *cobra.Command) (output.Writer, error) {
	format := viper.GetString("format")
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	return output.Lookup(format)
}

func openStore() (*graphstore.Store, error) {
	path := viper.GetString("store")
	if path == "" {
		return nil, fmt.Errorf("no graph database configured (use --store or MICRODATA_STORE)")
	}
	return graphstore.Open(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
