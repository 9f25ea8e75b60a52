package pangenome

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Named partition classes. The raw partition string assigned by the
// partition classifier is free-form; only its first character discriminates
// the class.
const (
	PartitionPersistent = "persistent"
	PartitionShell      = "shell"
	PartitionCloud      = "cloud"
	PartitionUndefined  = "undefined"
)

// Partition filters accepted by MkBitarray.
const (
	FilterAll       = "all"
	FilterShell     = "shell"
	FilterCloud     = "cloud"
	FilterAccessory = "accessory"
)

// GeneFamily is a node in the pangenome graph. It owns its member genes and
// is aware of the edges linking it to neighboring families.
type GeneFamily struct {
	ID   int    // stable identifier assigned by the Pangenome, never reused
	Name string // unique family name, the lookup key

	// Partition is the raw partition string ("P", "S2", "C", ...), empty
	// until the partition classifier assigns it.
	Partition string
	// Sequence is the representative protein sequence, empty until set.
	Sequence string
	// Removed marks repeated families left out of the main graph.
	Removed bool

	genes      map[string]*Gene
	edges      map[*GeneFamily]*Edge
	genePerOrg map[*Organism]map[string]*Gene
	bitarray   *bitset.BitSet

	spots   map[*Spot]struct{}
	modules map[*Module]struct{}
}

// NewGeneFamily creates a family with the given identifier and name.
// Families are normally created through Pangenome.AddGeneFamily, which
// assigns sequential IDs.
func NewGeneFamily(id int, name string) (*GeneFamily, error) {
	if name == "" {
		return nil, fmt.Errorf("gene family cannot be created with an empty name: %w", ErrInvariant)
	}
	return &GeneFamily{
		ID:         id,
		Name:       name,
		genes:      make(map[string]*Gene),
		edges:      make(map[*GeneFamily]*Edge),
		genePerOrg: make(map[*Organism]map[string]*Gene),
		spots:      make(map[*Spot]struct{}),
		modules:    make(map[*Module]struct{}),
	}, nil
}

func (f *GeneFamily) String() string {
	return fmt.Sprintf("%d: %s", f.ID, f.Name)
}

// Add adds a gene to the family and sets the gene's Family back-reference.
// Adding a gene whose ID is already present fails with ErrDuplicate.
// A gene previously assigned to another family stays in that family's map;
// callers that need a clean move must Remove it there first.
func (f *GeneFamily) Add(gene *Gene) error {
	if gene == nil {
		return fmt.Errorf("nil gene added to family %q: %w", f.Name, ErrInvariant)
	}
	if _, ok := f.genes[gene.ID]; ok {
		return fmt.Errorf("gene %q already exists in family %q: %w", gene.ID, f.Name, ErrDuplicate)
	}
	f.genes[gene.ID] = gene
	gene.Family = f
	if gene.Organism != nil {
		f.cacheGene(gene)
	}
	return nil
}

// Get returns the member gene with the given ID.
func (f *GeneFamily) Get(id string) (*Gene, error) {
	g, ok := f.genes[id]
	if !ok {
		return nil, fmt.Errorf("gene %q in family %q: %w", id, f.Name, ErrNotFound)
	}
	return g, nil
}

// Remove removes the member gene with the given ID.
func (f *GeneFamily) Remove(id string) error {
	g, ok := f.genes[id]
	if !ok {
		return fmt.Errorf("gene %q in family %q: %w", id, f.Name, ErrNotFound)
	}
	delete(f.genes, id)
	if g.Organism != nil {
		if set, ok := f.genePerOrg[g.Organism]; ok {
			delete(set, g.ID)
			if len(set) == 0 {
				delete(f.genePerOrg, g.Organism)
			}
		}
	}
	return nil
}

// AddSequence assigns the representative protein sequence of the family.
func (f *GeneFamily) AddSequence(seq string) {
	f.Sequence = seq
}

// AddPartition assigns the raw partition string of the family.
func (f *GeneFamily) AddPartition(partition string) {
	f.Partition = partition
}

// NamedPartition maps the raw partition string to a partition class.
// It fails with ErrNoPartition if no partition has been assigned, instead of
// defaulting, so that core/accessory statistics cannot silently misclassify.
func (f *GeneFamily) NamedPartition() (string, error) {
	if f.Partition == "" {
		return "", fmt.Errorf("family %q: %w", f.Name, ErrNoPartition)
	}
	switch f.Partition[0] {
	case 'P':
		return PartitionPersistent, nil
	case 'C':
		return PartitionCloud, nil
	case 'S':
		return PartitionShell, nil
	default:
		return PartitionUndefined, nil
	}
}

// Genes returns the member genes in unspecified order.
func (f *GeneFamily) Genes() []*Gene {
	genes := make([]*Gene, 0, len(f.genes))
	for _, g := range f.genes {
		genes = append(genes, g)
	}
	return genes
}

// Neighbors returns the families linked to this one by an edge.
func (f *GeneFamily) Neighbors() []*GeneFamily {
	neighbors := make([]*GeneFamily, 0, len(f.edges))
	for n := range f.edges {
		neighbors = append(neighbors, n)
	}
	return neighbors
}

// Edges returns the edges incident to the family.
func (f *GeneFamily) Edges() []*Edge {
	edges := make([]*Edge, 0, len(f.edges))
	for _, e := range f.edges {
		edges = append(edges, e)
	}
	return edges
}

// setEdge records the edge leading to the given neighbor. Only Edge
// construction calls this, keeping both endpoints symmetric.
func (f *GeneFamily) setEdge(target *GeneFamily, e *Edge) {
	f.edges[target] = e
}

// OrgDict returns the mapping from organism to the member genes in that
// organism, building it from the gene map if it is empty. Every member gene
// must have an organism assigned.
func (f *GeneFamily) OrgDict() (map[*Organism]map[string]*Gene, error) {
	if len(f.genePerOrg) == 0 {
		for _, g := range f.genes {
			if g.Organism == nil {
				return nil, fmt.Errorf("gene %q in family %q has no organism: %w", g.ID, f.Name, ErrInvariant)
			}
			f.cacheGene(g)
		}
	}
	return f.genePerOrg, nil
}

// GenesPerOrg returns the member genes found in the given organism.
func (f *GeneFamily) GenesPerOrg(org *Organism) ([]*Gene, error) {
	orgDict, err := f.OrgDict()
	if err != nil {
		return nil, err
	}
	set, ok := orgDict[org]
	if !ok {
		return nil, fmt.Errorf("organism %q does not belong to family %q: %w", org.Name, f.Name, ErrNotFound)
	}
	genes := make([]*Gene, 0, len(set))
	for _, g := range set {
		genes = append(genes, g)
	}
	return genes, nil
}

// Organisms returns the organisms in which the family has at least one gene.
func (f *GeneFamily) Organisms() ([]*Organism, error) {
	orgDict, err := f.OrgDict()
	if err != nil {
		return nil, err
	}
	orgs := make([]*Organism, 0, len(orgDict))
	for org := range orgDict {
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// MkBitarray computes the presence/absence bitset of the family over the
// given organism index and stores it in the family. A bit is set iff the
// family has a gene in that organism and the family matches the partition
// filter. Organisms missing from the index never get a bit: the index is the
// universe. The stored bitset reflects membership at call time only.
func (f *GeneFamily) MkBitarray(index map[*Organism]int, filter string) error {
	f.bitarray = bitset.New(uint(len(index)))
	switch filter {
	case FilterAll:
		return f.setPresenceBits(index)
	case FilterShell, FilterCloud:
		named, err := f.NamedPartition()
		if err != nil {
			return err
		}
		if named == filter {
			return f.setPresenceBits(index)
		}
		return nil
	case FilterAccessory:
		named, err := f.NamedPartition()
		if err != nil {
			return err
		}
		if named == PartitionShell || named == PartitionCloud {
			return f.setPresenceBits(index)
		}
		return nil
	default:
		return fmt.Errorf("unknown partition filter %q: %w", filter, ErrNotFound)
	}
}

func (f *GeneFamily) setPresenceBits(index map[*Organism]int) error {
	orgDict, err := f.OrgDict()
	if err != nil {
		return err
	}
	for org := range orgDict {
		if i, ok := index[org]; ok {
			f.bitarray.Set(uint(i))
		}
	}
	return nil
}

// Bitarray returns the last computed presence/absence bitset, or nil if
// MkBitarray has not run.
func (f *GeneFamily) Bitarray() *bitset.BitSet {
	return f.bitarray
}

// AddSpot records that the family participates in the given spot.
func (f *GeneFamily) AddSpot(s *Spot) {
	f.spots[s] = struct{}{}
}

// AddModule records that the family participates in the given module.
func (f *GeneFamily) AddModule(m *Module) {
	f.modules[m] = struct{}{}
}

// Spots returns the spots the family participates in.
func (f *GeneFamily) Spots() []*Spot {
	spots := make([]*Spot, 0, len(f.spots))
	for s := range f.spots {
		spots = append(spots, s)
	}
	return spots
}

// Modules returns the modules the family participates in.
func (f *GeneFamily) Modules() []*Module {
	modules := make([]*Module, 0, len(f.modules))
	for m := range f.modules {
		modules = append(modules, m)
	}
	return modules
}

// GeneCount returns the number of member genes.
func (f *GeneFamily) GeneCount() int {
	return len(f.genes)
}

// NeighborCount returns the number of neighboring families.
func (f *GeneFamily) NeighborCount() int {
	return len(f.edges)
}

// EdgeCount returns the number of incident edges.
func (f *GeneFamily) EdgeCount() int {
	return len(f.edges)
}

// OrganismCount returns the number of organisms carrying the family.
func (f *GeneFamily) OrganismCount() (int, error) {
	orgDict, err := f.OrgDict()
	if err != nil {
		return 0, err
	}
	return len(orgDict), nil
}

// SpotCount returns the number of spots the family participates in.
func (f *GeneFamily) SpotCount() int {
	return len(f.spots)
}

// ModuleCount returns the number of modules the family participates in.
func (f *GeneFamily) ModuleCount() int {
	return len(f.modules)
}

func (f *GeneFamily) cacheGene(g *Gene) {
	set, ok := f.genePerOrg[g.Organism]
	if !ok {
		set = make(map[string]*Gene)
		f.genePerOrg[g.Organism] = set
	}
	set[g.ID] = g
}
