package pangenome

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// familyPair is the unordered key identifying the edge between two families.
// The lower family ID always comes first.
type familyPair struct {
	a, b int
}

func pairKey(f1, f2 *GeneFamily) familyPair {
	if f1.ID <= f2.ID {
		return familyPair{f1.ID, f2.ID}
	}
	return familyPair{f2.ID, f1.ID}
}

// Pangenome is the top-level aggregate owning every organism, gene family,
// edge and region of the graph. It is built single-threaded during a
// construction phase and queried read-only afterwards; none of its lazy
// caches (organism index, gene getter, bitsets) is safe for concurrent
// first access.
type Pangenome struct {
	Status StatusFlags

	families map[string]*GeneFamily
	maxFamID int

	organisms map[string]*Organism
	orgOrder  []*Organism // insertion order, defines the organism index

	edges map[familyPair]*Edge

	regions     map[*Region]struct{}
	regionOrder []*Region

	orgIndex   map[*Organism]int // built once by GetIndex, then frozen
	geneGetter map[string]*Gene  // built once by GetGene

	logger *zap.Logger
}

// New creates an empty pangenome.
func New() *Pangenome {
	return &Pangenome{
		families:  make(map[string]*GeneFamily),
		organisms: make(map[string]*Organism),
		edges:     make(map[familyPair]*Edge),
		regions:   make(map[*Region]struct{}),
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for debug and info messages.
func (p *Pangenome) SetLogger(l *zap.Logger) {
	p.logger = l
}

// RegisterOrganism inserts an organism built elsewhere. Reusing an organism
// name fails with ErrDuplicate: all organisms must have unique names.
func (p *Pangenome) RegisterOrganism(org *Organism) error {
	if org == nil {
		return fmt.Errorf("nil organism: %w", ErrInvariant)
	}
	if _, ok := p.organisms[org.Name]; ok {
		return fmt.Errorf("redundant organism name %q: %w", org.Name, ErrDuplicate)
	}
	p.organisms[org.Name] = org
	p.orgOrder = append(p.orgOrder, org)
	return nil
}

// GetOrCreateOrganism returns the organism with the given name, creating
// and registering it if absent. Repeated calls with the same name return the
// identical organism.
func (p *Pangenome) GetOrCreateOrganism(name string) *Organism {
	if org, ok := p.organisms[name]; ok {
		return org
	}
	org := NewOrganism(name)
	p.organisms[name] = org
	p.orgOrder = append(p.orgOrder, org)
	return org
}

// GetOrganism returns the organism with the given name.
func (p *Pangenome) GetOrganism(name string) (*Organism, error) {
	org, ok := p.organisms[name]
	if !ok {
		return nil, fmt.Errorf("organism %q: %w", name, ErrNotFound)
	}
	return org, nil
}

// Organisms returns the organisms in registration order.
func (p *Pangenome) Organisms() []*Organism {
	orgs := make([]*Organism, len(p.orgOrder))
	copy(orgs, p.orgOrder)
	return orgs
}

// OrganismCount returns the number of organisms.
func (p *Pangenome) OrganismCount() int {
	return len(p.organisms)
}

// AddGeneFamily returns the family with the given name, creating it with
// the next sequential ID if absent. Family IDs are never reused, even if a
// family is later flagged as removed.
func (p *Pangenome) AddGeneFamily(name string) (*GeneFamily, error) {
	if fam, ok := p.families[name]; ok {
		return fam, nil
	}
	fam, err := NewGeneFamily(p.maxFamID, name)
	if err != nil {
		return nil, err
	}
	p.maxFamID++
	p.families[name] = fam
	return fam, nil
}

// GetGeneFamily returns the family with the given name. Unlike
// AddGeneFamily, this is a strict lookup.
func (p *Pangenome) GetGeneFamily(name string) (*GeneFamily, error) {
	fam, ok := p.families[name]
	if !ok {
		return nil, fmt.Errorf("gene family %q: %w", name, ErrNotFound)
	}
	return fam, nil
}

// Families returns every gene family in unspecified order.
func (p *Pangenome) Families() []*GeneFamily {
	fams := make([]*GeneFamily, 0, len(p.families))
	for _, f := range p.families {
		fams = append(fams, f)
	}
	return fams
}

// FamilyCount returns the number of gene families.
func (p *Pangenome) FamilyCount() int {
	return len(p.families)
}

// AddEdge records one observed adjacency between two genes, keyed by the
// unordered pair of their families. The first observation for a family pair
// creates the edge (validating that both genes carry families and share an
// organism); later observations extend it. This is the single entry point
// for building adjacency; constructing edges elsewhere would break the
// symmetric registration on the two families.
func (p *Pangenome) AddEdge(gene1, gene2 *Gene) (*Edge, error) {
	if gene1.Family == nil {
		return nil, fmt.Errorf("cannot build the graph: gene %q has no family: %w", gene1.ID, ErrInvariant)
	}
	if gene2.Family == nil {
		return nil, fmt.Errorf("cannot build the graph: gene %q has no family: %w", gene2.ID, ErrInvariant)
	}
	key := pairKey(gene1.Family, gene2.Family)
	if e, ok := p.edges[key]; ok {
		if err := e.AddGenes(gene1, gene2); err != nil {
			return nil, err
		}
		return e, nil
	}
	e, err := NewEdge(gene1, gene2)
	if err != nil {
		return nil, err
	}
	p.edges[key] = e
	return e, nil
}

// Edges returns every edge in unspecified order.
func (p *Pangenome) Edges() []*Edge {
	edges := make([]*Edge, 0, len(p.edges))
	for _, e := range p.edges {
		edges = append(edges, e)
	}
	return edges
}

// EdgeCount returns the number of edges.
func (p *Pangenome) EdgeCount() int {
	return len(p.edges)
}

// GetEdge returns the edge between two families, if any.
func (p *Pangenome) GetEdge(f1, f2 *GeneFamily) (*Edge, error) {
	e, ok := p.edges[pairKey(f1, f2)]
	if !ok {
		return nil, fmt.Errorf("edge between families %q and %q: %w", f1.Name, f2.Name, ErrNotFound)
	}
	return e, nil
}

// AddRegion registers a region of genomic plasticity. Registering the same
// region again is absorbed without error.
func (p *Pangenome) AddRegion(r *Region) {
	if _, ok := p.regions[r]; ok {
		return
	}
	p.regions[r] = struct{}{}
	p.regionOrder = append(p.regionOrder, r)
}

// AddRegions registers a batch of regions.
func (p *Pangenome) AddRegions(regions []*Region) {
	for _, r := range regions {
		p.AddRegion(r)
	}
}

// Regions returns the regions in registration order.
func (p *Pangenome) Regions() []*Region {
	regions := make([]*Region, len(p.regionOrder))
	copy(regions, p.regionOrder)
	return regions
}

// GetRegion returns the first registered region with the given name.
func (p *Pangenome) GetRegion(name string) (*Region, error) {
	for _, r := range p.regionOrder {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("region %q: %w", name, ErrNotFound)
}

// RegionCount returns the number of registered regions.
func (p *Pangenome) RegionCount() int {
	return len(p.regions)
}

// GetIndex returns the organism index mapping each organism to a unique
// integer in [0, N), in registration order. The index is built on first
// call and then frozen: organisms registered afterwards are not added, and
// bitsets are only valid relative to the index that produced them.
func (p *Pangenome) GetIndex() map[*Organism]int {
	if p.orgIndex == nil {
		p.orgIndex = make(map[*Organism]int, len(p.orgOrder))
		for i, org := range p.orgOrder {
			p.orgIndex[org] = i
		}
		p.logger.Debug("built organism index", zap.Int("organisms", len(p.orgIndex)))
	}
	return p.orgIndex
}

// ComputeFamilyBitarrays builds the organism index if it does not exist yet
// and then computes every family's presence/absence bitset over it. If the
// index already exists the bitsets are assumed current and nothing is
// recomputed; mutating the graph afterwards requires rebuilding the
// aggregate to refresh them. It returns the organism index.
func (p *Pangenome) ComputeFamilyBitarrays() (map[*Organism]int, error) {
	if p.orgIndex != nil {
		return p.orgIndex, nil
	}
	index := p.GetIndex()
	for _, fam := range p.families {
		if err := fam.MkBitarray(index, FilterAll); err != nil {
			return nil, err
		}
	}
	p.logger.Debug("computed family bitarrays",
		zap.Int("families", len(p.families)),
		zap.Int("organisms", len(index)))
	return index, nil
}

// Genes returns every gene of the pangenome: from the organisms' contigs if
// organisms are present, otherwise from the gene families.
func (p *Pangenome) Genes() []*Gene {
	var genes []*Gene
	if len(p.orgOrder) > 0 {
		for _, org := range p.orgOrder {
			genes = append(genes, org.Genes()...)
		}
		return genes
	}
	for _, fam := range p.families {
		genes = append(genes, fam.Genes()...)
	}
	return genes
}

// GeneCount returns the total number of genes.
func (p *Pangenome) GeneCount() int {
	if len(p.orgOrder) > 0 {
		n := 0
		for _, org := range p.orgOrder {
			n += org.GeneCount()
		}
		return n
	}
	n := 0
	for _, fam := range p.families {
		n += fam.GeneCount()
	}
	return n
}

// GetGene returns the gene with the given ID from anywhere in the
// pangenome. Genes are never added to the pangenome directly, so a gene
// getter is built on first call, assuming the pangenome is filled and no
// more genes will be added.
func (p *Pangenome) GetGene(id string) (*Gene, error) {
	if p.geneGetter == nil {
		p.geneGetter = make(map[string]*Gene)
		for _, g := range p.Genes() {
			p.geneGetter[g.ID] = g
		}
	}
	g, ok := p.geneGetter[id]
	if !ok {
		return nil, fmt.Errorf("gene %q: %w", id, ErrNotFound)
	}
	return g, nil
}

// Multigenics returns the families having strictly more than dupMargin
// genes in at least one organism. Such families are ambiguous boundary
// anchors and are excluded from border detection.
func (p *Pangenome) Multigenics(dupMargin int) (map[*GeneFamily]bool, error) {
	multigenics := make(map[*GeneFamily]bool)
	for _, fam := range p.families {
		orgDict, err := fam.OrgDict()
		if err != nil {
			return nil, err
		}
		for _, genes := range orgDict {
			if len(genes) > dupMargin {
				multigenics[fam] = true
				break
			}
		}
	}
	return multigenics, nil
}

// Info returns a human-readable summary of the pangenome content.
func (p *Pangenome) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gene families : %d\n", len(p.families))
	fmt.Fprintf(&b, "Organisms : %d\n", len(p.organisms))
	nContigs := 0
	for _, org := range p.orgOrder {
		nContigs += len(org.Contigs())
	}
	fmt.Fprintf(&b, "Contigs : %d\n", nContigs)
	fmt.Fprintf(&b, "Genes : %d\n", p.GeneCount())
	fmt.Fprintf(&b, "Edges : %d\n", len(p.edges))
	nP, nS, nC := 0, 0, 0
	for _, fam := range p.families {
		switch {
		case strings.HasPrefix(fam.Partition, "P"):
			nP++
		case strings.HasPrefix(fam.Partition, "S"):
			nS++
		case strings.HasPrefix(fam.Partition, "C"):
			nC++
		}
	}
	fmt.Fprintf(&b, "Persistent : %d\n", nP)
	fmt.Fprintf(&b, "Shell : %d\n", nS)
	fmt.Fprintf(&b, "Cloud : %d\n", nC)
	fmt.Fprintf(&b, "RGPs : %d\n", len(p.regions))
	return b.String()
}
