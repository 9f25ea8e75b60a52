package pangenome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneFamily_AddGetRemove(t *testing.T) {
	fam, err := NewGeneFamily(0, "fam1")
	require.NoError(t, err)

	g := &Gene{ID: "g1"}
	require.NoError(t, fam.Add(g))
	assert.Same(t, fam, g.Family, "Add must set the gene's family back-reference")

	got, err := fam.Get("g1")
	require.NoError(t, err)
	assert.Same(t, g, got)

	// Duplicate gene ID is a conflict.
	err = fam.Add(&Gene{ID: "g1"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, fam.GeneCount())

	_, err = fam.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fam.Remove("g1"))
	assert.Zero(t, fam.GeneCount())
	assert.ErrorIs(t, fam.Remove("g1"), ErrNotFound)
}

func TestGeneFamily_EmptyName(t *testing.T) {
	_, err := NewGeneFamily(0, "")
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestGeneFamily_NamedPartition(t *testing.T) {
	tests := []struct {
		partition string
		want      string
	}{
		{"P", PartitionPersistent},
		{"C", PartitionCloud},
		{"S12", PartitionShell},
		{"X", PartitionUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.partition, func(t *testing.T) {
			fam, err := NewGeneFamily(0, "fam")
			require.NoError(t, err)
			fam.AddPartition(tt.partition)
			named, err := fam.NamedPartition()
			require.NoError(t, err)
			assert.Equal(t, tt.want, named)
		})
	}

	t.Run("unset", func(t *testing.T) {
		fam, err := NewGeneFamily(0, "fam")
		require.NoError(t, err)
		_, err = fam.NamedPartition()
		assert.ErrorIs(t, err, ErrNoPartition)
	})
}

func TestGeneFamily_OrgDict(t *testing.T) {
	orgA := NewOrganism("orgA")
	orgB := NewOrganism("orgB")

	fam, err := NewGeneFamily(0, "fam")
	require.NoError(t, err)
	require.NoError(t, fam.Add(&Gene{ID: "a1", Organism: orgA}))
	require.NoError(t, fam.Add(&Gene{ID: "a2", Organism: orgA}))
	require.NoError(t, fam.Add(&Gene{ID: "b1", Organism: orgB}))

	orgDict, err := fam.OrgDict()
	require.NoError(t, err)
	assert.Len(t, orgDict, 2)
	assert.Len(t, orgDict[orgA], 2)
	assert.Len(t, orgDict[orgB], 1)

	count, err := fam.OrganismCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	genes, err := fam.GenesPerOrg(orgA)
	require.NoError(t, err)
	assert.Len(t, genes, 2)

	_, err = fam.GenesPerOrg(NewOrganism("absent"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeneFamily_OrgDictLazyRebuild(t *testing.T) {
	// Genes added before their organism is known: the cache stays empty and
	// is rebuilt from the gene map on first query.
	org := NewOrganism("org")
	g := &Gene{ID: "g1"}

	fam, err := NewGeneFamily(0, "fam")
	require.NoError(t, err)
	require.NoError(t, fam.Add(g))

	_, err = fam.OrgDict()
	assert.ErrorIs(t, err, ErrInvariant, "gene without organism must fail the rebuild")

	g.Organism = org
	orgDict, err := fam.OrgDict()
	require.NoError(t, err)
	assert.Len(t, orgDict[org], 1)
}

func TestGeneFamily_MkBitarray(t *testing.T) {
	orgA := NewOrganism("A")
	orgB := NewOrganism("B")
	orgC := NewOrganism("C")
	index := map[*Organism]int{orgA: 0, orgB: 1, orgC: 2}

	newFam := func(t *testing.T, partition string) *GeneFamily {
		fam, err := NewGeneFamily(0, "fam")
		require.NoError(t, err)
		fam.AddPartition(partition)
		require.NoError(t, fam.Add(&Gene{ID: "a", Organism: orgA}))
		require.NoError(t, fam.Add(&Gene{ID: "c", Organism: orgC}))
		return fam
	}

	t.Run("all", func(t *testing.T) {
		fam := newFam(t, "P")
		require.NoError(t, fam.MkBitarray(index, FilterAll))
		ba := fam.Bitarray()
		assert.True(t, ba.Test(0))
		assert.False(t, ba.Test(1))
		assert.True(t, ba.Test(2))
		assert.Equal(t, uint(2), ba.Count())
	})

	t.Run("shell filter excludes persistent", func(t *testing.T) {
		fam := newFam(t, "P")
		require.NoError(t, fam.MkBitarray(index, FilterShell))
		assert.Zero(t, fam.Bitarray().Count())
	})

	t.Run("shell filter keeps shell", func(t *testing.T) {
		fam := newFam(t, "S3")
		require.NoError(t, fam.MkBitarray(index, FilterShell))
		assert.Equal(t, uint(2), fam.Bitarray().Count())
	})

	t.Run("accessory keeps shell and cloud", func(t *testing.T) {
		for _, partition := range []string{"S", "C"} {
			fam := newFam(t, partition)
			require.NoError(t, fam.MkBitarray(index, FilterAccessory))
			assert.Equal(t, uint(2), fam.Bitarray().Count(), "partition %q", partition)
		}
		fam := newFam(t, "P")
		require.NoError(t, fam.MkBitarray(index, FilterAccessory))
		assert.Zero(t, fam.Bitarray().Count())
	})

	t.Run("filters need a partition", func(t *testing.T) {
		fam, err := NewGeneFamily(0, "fam")
		require.NoError(t, err)
		require.NoError(t, fam.Add(&Gene{ID: "a", Organism: orgA}))
		assert.ErrorIs(t, fam.MkBitarray(index, FilterShell), ErrNoPartition)
	})

	t.Run("organisms outside the index are ignored", func(t *testing.T) {
		fam := newFam(t, "P")
		small := map[*Organism]int{orgA: 0}
		require.NoError(t, fam.MkBitarray(small, FilterAll))
		assert.Equal(t, uint(1), fam.Bitarray().Count())
	})

	t.Run("unknown filter", func(t *testing.T) {
		fam := newFam(t, "P")
		assert.ErrorIs(t, fam.MkBitarray(index, "bogus"), ErrNotFound)
	})
}
