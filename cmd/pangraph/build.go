package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gsiekaniec/pangraph/internal/gtab"
	"github.com/gsiekaniec/pangraph/internal/pangenome"
	"github.com/gsiekaniec/pangraph/internal/store"
)

func newBuildCmd(verbose *bool) *cobra.Command {
	var (
		tablePath   string
		regionsPath string
		db          string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a pangenome graph from a gene table",
		Long: "Build reads a tab-separated gene table (organism, contig, circular, position,\n" +
			"gene_id, type, family, partition), builds the neighbors graph and the family\n" +
			"presence/absence bitarrays, optionally registers predicted regions, and saves\n" +
			"everything to a DuckDB database.",
		Example: `  pangraph build --table genes.tsv --db pangenome.duckdb
  pangraph build --table genes.tsv.gz --regions rgp.tsv --db pangenome.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(tablePath, regionsPath, db, *verbose)
		},
	}

	cmd.Flags().StringVar(&tablePath, "table", "", "gene table file (plain or gzipped TSV)")
	cmd.Flags().StringVar(&regionsPath, "regions", "", "optional region list file (region name, gene ID)")
	cmd.Flags().StringVar(&db, "db", "", "output DuckDB database path")
	cmd.MarkFlagRequired("table")

	return cmd
}

func runBuild(tablePath, regionsPath, db string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	path, err := dbPath(db)
	if err != nil {
		return err
	}

	p := pangenome.New()
	p.SetLogger(logger)

	loader := gtab.NewLoader()
	loader.SetLogger(logger)
	if err := loader.LoadGeneTableFile(tablePath, p); err != nil {
		return err
	}
	if err := loader.BuildGraph(p); err != nil {
		return err
	}
	if regionsPath != "" {
		if err := loader.LoadRegionsFile(regionsPath, p); err != nil {
			return err
		}
	}

	if _, err := p.ComputeFamilyBitarrays(); err != nil {
		return err
	}

	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	s.SetLogger(logger)
	if err := s.Save(p); err != nil {
		return err
	}

	logger.Info("pangenome built", zap.String("db", path))
	return nil
}
