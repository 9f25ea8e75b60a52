package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gsiekaniec/pangraph/internal/gtab"
	"github.com/gsiekaniec/pangraph/internal/pangenome"
)

const testTable = `organism	contig	circular	position	gene_id	type	family	partition
orgA	c1	0	0	a1	CDS	famP	P
orgA	c1	0	1	a2	CDS	famS	S2
orgA	c1	0	2	a3	CDS	famC	C
orgB	c1	1	0	b1	CDS	famP	P
orgB	c1	1	1	b2	CDS	famC	C
`

func buildTestPangenome(t *testing.T) *pangenome.Pangenome {
	t.Helper()
	p := pangenome.New()
	l := gtab.NewLoader()
	if err := l.LoadGeneTable(strings.NewReader(testTable), p); err != nil {
		t.Fatalf("LoadGeneTable: %v", err)
	}
	if err := l.BuildGraph(p); err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	if err := l.LoadRegions(strings.NewReader("rgp_1\ta2\nrgp_1\ta3\n"), p); err != nil {
		t.Fatalf("LoadRegions: %v", err)
	}
	return p
}

func TestStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.duckdb")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	original := buildTestPangenome(t)
	if err := s.Save(original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := pangenome.New()
	if err := s.Load(loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := loaded.OrganismCount(), original.OrganismCount(); got != want {
		t.Errorf("OrganismCount = %d, want %d", got, want)
	}
	if got, want := loaded.FamilyCount(), original.FamilyCount(); got != want {
		t.Errorf("FamilyCount = %d, want %d", got, want)
	}
	if got, want := loaded.GeneCount(), original.GeneCount(); got != want {
		t.Errorf("GeneCount = %d, want %d", got, want)
	}
	if got, want := loaded.EdgeCount(), original.EdgeCount(); got != want {
		t.Errorf("EdgeCount = %d, want %d", got, want)
	}
	if got, want := loaded.RegionCount(), original.RegionCount(); got != want {
		t.Errorf("RegionCount = %d, want %d", got, want)
	}

	// Family identity and partition survive the round trip.
	origFam, err := original.GetGeneFamily("famS")
	if err != nil {
		t.Fatalf("GetGeneFamily(original): %v", err)
	}
	fam, err := loaded.GetGeneFamily("famS")
	if err != nil {
		t.Fatalf("GetGeneFamily(loaded): %v", err)
	}
	if fam.ID != origFam.ID {
		t.Errorf("family ID = %d, want %d", fam.ID, origFam.ID)
	}
	if fam.Partition != "S2" {
		t.Errorf("family partition = %q, want S2", fam.Partition)
	}

	// The replayed edge between famP and famC keeps both observed pairs.
	famP, err := loaded.GetGeneFamily("famP")
	if err != nil {
		t.Fatalf("GetGeneFamily: %v", err)
	}
	famC, err := loaded.GetGeneFamily("famC")
	if err != nil {
		t.Fatalf("GetGeneFamily: %v", err)
	}
	e, err := loaded.GetEdge(famP, famC)
	if err != nil {
		t.Fatalf("GetEdge: %v", err)
	}
	if e.PairCount() != 2 {
		t.Errorf("PairCount = %d, want 2", e.PairCount())
	}

	// Region content survives in order.
	r, err := loaded.GetRegion("rgp_1")
	if err != nil {
		t.Fatalf("GetRegion: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("region length = %d, want 2", r.Len())
	}
	if g, _ := r.GeneAt(0); g.ID != "a2" {
		t.Errorf("first region gene = %q, want a2", g.ID)
	}

	// Status flags survive.
	if loaded.Status.NeighborsGraph != pangenome.StatusComputed {
		t.Errorf("NeighborsGraph status = %v, want Computed", loaded.Status.NeighborsGraph)
	}
	if loaded.Status.PredictedRGP != pangenome.StatusLoaded {
		t.Errorf("PredictedRGP status = %v, want Loaded", loaded.Status.PredictedRGP)
	}

	// Circularity flag survives.
	orgB, err := loaded.GetOrganism("orgB")
	if err != nil {
		t.Fatalf("GetOrganism: %v", err)
	}
	contig, err := orgB.GetContig("c1")
	if err != nil {
		t.Fatalf("GetContig: %v", err)
	}
	if !contig.IsCircular {
		t.Error("orgB c1 should be circular after reload")
	}
}
