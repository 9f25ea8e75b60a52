package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gsiekaniec/pangraph/internal/pangenome"
	"github.com/gsiekaniec/pangraph/internal/store"
)

func newBordersCmd(verbose *bool) *cobra.Command {
	var (
		db        string
		region    string
		n         int
		dupMargin int
	)

	cmd := &cobra.Command{
		Use:   "borders",
		Short: "List the persistent families bordering a region",
		Long: "Borders walks outward from both ends of a stored region of genomic\n" +
			"plasticity and lists the bordering gene families, skipping multigenic\n" +
			"families (families with more than --dup-margin genes in one genome).",
		Example: `  pangraph borders --db pangenome.duckdb --region rgp_12 -n 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBorders(db, region, n, dupMargin, *verbose)
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "DuckDB database path")
	cmd.Flags().StringVar(&region, "region", "", "region name")
	cmd.Flags().IntVarP(&n, "count", "n", 3, "maximum bordering families per side")
	cmd.Flags().IntVar(&dupMargin, "dup-margin", 1, "genes per genome above which a family counts as multigenic")
	cmd.MarkFlagRequired("region")

	return cmd
}

func runBorders(db, regionName string, n, dupMargin int, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	path, err := dbPath(db)
	if err != nil {
		return err
	}

	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	s.SetLogger(logger)

	p := pangenome.New()
	p.SetLogger(logger)
	if err := s.Load(p); err != nil {
		return err
	}

	region, err := p.GetRegion(regionName)
	if err != nil {
		return err
	}
	multigenics, err := p.Multigenics(dupMargin)
	if err != nil {
		return err
	}
	left, right, err := region.BorderingGenes(n, multigenics)
	if err != nil {
		return err
	}

	contig, err := region.Contig()
	if err != nil {
		return err
	}
	border, err := region.IsContigBorder()
	if err != nil {
		return err
	}

	fmt.Printf("Region %s (%d genes on contig %s, circular=%t, contig border=%t)\n",
		region.Name, region.Len(), contig.Name, contig.IsCircular, border)
	fmt.Printf("Left : %s\n", familyNames(left))
	fmt.Printf("Right: %s\n", familyNames(right))
	return nil
}

func familyNames(fams []*pangenome.GeneFamily) string {
	if len(fams) == 0 {
		return "-"
	}
	names := make([]string, len(fams))
	for i, f := range fams {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
