package pangenome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdge_SymmetricSingleEdge(t *testing.T) {
	p := New()
	org := p.GetOrCreateOrganism("org1")
	contig := addTestContig(t, org, "c1", false, 2)
	g1 := contig.Genes()[0]
	g2 := contig.Genes()[1]

	f1 := assignFamily(t, p, "fam1", "P", g1)
	f2 := assignFamily(t, p, "fam2", "P", g2)

	e1, err := p.AddEdge(g1, g2)
	require.NoError(t, err)
	// Swapped gene order must extend the same edge, not create a second one.
	e2, err := p.AddEdge(g2, g1)
	require.NoError(t, err)
	assert.Same(t, e1, e2)
	assert.Equal(t, 1, p.EdgeCount())
	assert.Equal(t, 2, e1.PairCount())
	assert.Equal(t, 1, e1.OrganismCount())

	// Both endpoints reference the edge.
	assert.Same(t, e1, f1.Edges()[0])
	assert.Same(t, e1, f2.Edges()[0])
	assert.Equal(t, []*GeneFamily{f2}, f1.Neighbors())
	assert.Equal(t, []*GeneFamily{f1}, f2.Neighbors())

	got, err := p.GetEdge(f2, f1)
	require.NoError(t, err)
	assert.Same(t, e1, got)
}

func TestAddEdge_Preconditions(t *testing.T) {
	p := New()
	org1 := p.GetOrCreateOrganism("org1")
	org2 := p.GetOrCreateOrganism("org2")
	c1 := addTestContig(t, org1, "c1", false, 2)
	c2 := addTestContig(t, org2, "c1", false, 1)

	g1 := c1.Genes()[0]
	g2 := c1.Genes()[1]
	foreign := c2.Genes()[0]

	// No family on either side.
	_, err := p.AddEdge(g1, g2)
	assert.ErrorIs(t, err, ErrInvariant)

	assignFamily(t, p, "fam1", "P", g1)
	_, err = p.AddEdge(g1, g2)
	assert.ErrorIs(t, err, ErrInvariant, "target gene without family")

	assignFamily(t, p, "fam2", "P", g2)
	assignFamily(t, p, "fam3", "P", foreign)

	// Cross-organism adjacency is a structural bug.
	_, err = p.AddEdge(g1, foreign)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Zero(t, p.EdgeCount())
}

func TestEdge_GenePairsOrder(t *testing.T) {
	p := New()
	org1 := p.GetOrCreateOrganism("org1")
	org2 := p.GetOrCreateOrganism("org2")
	c1 := addTestContig(t, org1, "c1", false, 4)
	c2 := addTestContig(t, org2, "c1", false, 2)

	fam1, _ := p.AddGeneFamily("fam1")
	fam2, _ := p.AddGeneFamily("fam2")
	for i, g := range c1.Genes() {
		fam := fam1
		if i%2 == 1 {
			fam = fam2
		}
		require.NoError(t, fam.Add(g))
	}
	require.NoError(t, fam1.Add(c2.Genes()[0]))
	require.NoError(t, fam2.Add(c2.Genes()[1]))

	// Two adjacencies in org1, then one in org2.
	_, err := p.AddEdge(c1.Genes()[0], c1.Genes()[1])
	require.NoError(t, err)
	_, err = p.AddEdge(c1.Genes()[2], c1.Genes()[3])
	require.NoError(t, err)
	e, err := p.AddEdge(c2.Genes()[0], c2.Genes()[1])
	require.NoError(t, err)

	pairs := e.GenePairs()
	require.Len(t, pairs, 3)
	// Organisms in first-seen order, insertion order within an organism.
	assert.Equal(t, "org1_c1_0", pairs[0].Source.ID)
	assert.Equal(t, "org1_c1_2", pairs[1].Source.ID)
	assert.Equal(t, "org2_c1_0", pairs[2].Source.ID)
	assert.Equal(t, []*Organism{org1, org2}, e.Organisms())
	assert.Len(t, e.PairsPerOrg(org1), 2)
}
