package pangenome

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// addTestContig registers a contig with count genes on the organism and
// returns the contig. Gene IDs are "<org>_<contig>_<pos>".
func addTestContig(t *testing.T, org *Organism, name string, circular bool, count int) *Contig {
	t.Helper()
	contig, err := org.AddContig(name, circular)
	require.NoError(t, err)
	for i := 0; i < count; i++ {
		g := &Gene{
			ID:       fmt.Sprintf("%s_%s_%d", org.Name, name, i),
			Type:     "CDS",
			Position: i,
		}
		require.NoError(t, contig.AddGene(g))
	}
	return contig
}

// assignFamily creates (or fetches) a named family on the pangenome, gives
// it a partition and adds the genes to it.
func assignFamily(t *testing.T, p *Pangenome, name, partition string, genes ...*Gene) *GeneFamily {
	t.Helper()
	fam, err := p.AddGeneFamily(name)
	require.NoError(t, err)
	if partition != "" {
		fam.AddPartition(partition)
	}
	for _, g := range genes {
		require.NoError(t, fam.Add(g))
	}
	return fam
}
