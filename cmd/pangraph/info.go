package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gsiekaniec/pangraph/internal/pangenome"
	"github.com/gsiekaniec/pangraph/internal/store"
)

func newInfoCmd(verbose *bool) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print a summary of a stored pangenome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(db, *verbose)
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "DuckDB database path")

	return cmd
}

func runInfo(db string, verbose bool) error {
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

	fmt.Print(p.Info())
	return nil
}
