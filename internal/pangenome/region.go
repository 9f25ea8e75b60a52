package pangenome

import "fmt"

// Region is a candidate region of genomic plasticity: an ordered run of
// genes on a single contig. Genes are append-only. The name is a convenience
// label (usually organism+coordinates); identity is by reference, equality
// is by family content.
type Region struct {
	Name  string
	Score float64

	genes []*Gene
}

// NewRegion creates an empty region with the given name.
func NewRegion(name string) *Region {
	return &Region{Name: name}
}

// Append adds a gene at the end of the region.
func (r *Region) Append(g *Gene) error {
	if g == nil {
		return fmt.Errorf("nil gene appended to region %q: %w", r.Name, ErrInvariant)
	}
	r.genes = append(r.genes, g)
	return nil
}

// Genes returns the region's genes in order.
func (r *Region) Genes() []*Gene {
	return r.genes
}

// Len returns the number of genes in the region.
func (r *Region) Len() int {
	return len(r.genes)
}

// GeneAt returns the gene at the given index within the region.
func (r *Region) GeneAt(i int) (*Gene, error) {
	if i < 0 || i >= len(r.genes) {
		return nil, fmt.Errorf("index %d in region %q of %d genes: %w", i, r.Name, len(r.genes), ErrNotFound)
	}
	return r.genes[i], nil
}

// Organism returns the organism of the region's first gene. Regions never
// span organisms.
func (r *Region) Organism() (*Organism, error) {
	if len(r.genes) == 0 {
		return nil, fmt.Errorf("region %q: %w", r.Name, ErrEmptyRegion)
	}
	return r.genes[0].Organism, nil
}

// Contig returns the contig of the region's first gene. Regions never span
// contigs.
func (r *Region) Contig() (*Contig, error) {
	if len(r.genes) == 0 {
		return nil, fmt.Errorf("region %q: %w", r.Name, ErrEmptyRegion)
	}
	return r.genes[0].Contig, nil
}

// Families returns the ordered family sequence of the region.
func (r *Region) Families() []*GeneFamily {
	fams := make([]*GeneFamily, len(r.genes))
	for i, g := range r.genes {
		fams[i] = g.Family
	}
	return fams
}

// Equal reports whether two regions carry the same ordered family sequence,
// in either direction. Regions are found on either strand, so a reversed
// match counts.
func (r *Region) Equal(other *Region) bool {
	if other == nil || len(r.genes) != len(other.genes) {
		return false
	}
	n := len(r.genes)
	forward, reverse := true, true
	for i := 0; i < n; i++ {
		if r.genes[i].Family != other.genes[i].Family {
			forward = false
		}
		if r.genes[i].Family != other.genes[n-1-i].Family {
			reverse = false
		}
		if !forward && !reverse {
			return false
		}
	}
	return forward || reverse
}

// IsContigBorder reports whether the region touches an absolute end of a
// non-circular contig. A circular contig has no border.
func (r *Region) IsContigBorder() (bool, error) {
	contig, err := r.Contig()
	if err != nil {
		return false, err
	}
	if contig.IsCircular {
		return false, nil
	}
	if r.genes[len(r.genes)-1].Position == 0 {
		return true, nil
	}
	if r.genes[0].Position == contig.GeneCount()-1 {
		return true, nil
	}
	return false, nil
}

// BorderingGenes returns up to n gene families immediately outside each end
// of the region, walking outward on the contig. The first list walks toward
// lower positions from the region's first gene, the second toward higher
// positions from its last gene. On a linear contig the walk stops at the
// contig end; on a circular contig it wraps around and stops when it returns
// to its starting position, so a contig narrower than n genes terminates
// with fewer results instead of looping forever.
//
// Families in multigenics are skipped on both sides: a family occurring
// several times in one genome is too ambiguous to anchor a boundary. The
// downstream walk additionally keeps only persistent families. The upstream
// walk does not apply the partition filter; this asymmetry is inherited
// behavior, kept for compatibility.
func (r *Region) BorderingGenes(n int, multigenics map[*GeneFamily]bool) ([]*GeneFamily, []*GeneFamily, error) {
	contig, err := r.Contig()
	if err != nil {
		return nil, nil, err
	}
	genes := contig.Genes()
	size := len(genes)

	var left []*GeneFamily
	init := r.genes[0].Position
	pos := init
	for len(left) < n {
		if pos == 0 {
			if !contig.IsCircular {
				break
			}
			pos = size - 1
		} else {
			pos--
		}
		if pos == init {
			break // looped around the contig
		}
		fam := genes[pos].Family
		if fam == nil || multigenics[fam] {
			continue
		}
		named, err := fam.NamedPartition()
		if err != nil {
			return nil, nil, err
		}
		if named == PartitionPersistent {
			left = append(left, fam)
		}
	}

	var right []*GeneFamily
	init = r.genes[len(r.genes)-1].Position
	pos = init
	for len(right) < n {
		if pos == size-1 {
			if !contig.IsCircular {
				break
			}
			pos = 0
		} else {
			pos++
		}
		if pos == init {
			break // looped around the contig
		}
		fam := genes[pos].Family
		if fam == nil || multigenics[fam] {
			continue
		}
		right = append(right, fam)
	}

	return left, right, nil
}

// Spot groups regions that insert at the same persistent-border location.
// Only membership bookkeeping lives here; spot detection is external.
type Spot struct {
	ID int

	regions map[*Region]struct{}
}

// NewSpot creates an empty spot.
func NewSpot(id int) *Spot {
	return &Spot{ID: id, regions: make(map[*Region]struct{})}
}

// AddRegion records a region as belonging to the spot.
func (s *Spot) AddRegion(r *Region) {
	s.regions[r] = struct{}{}
}

// Regions returns the spot's regions.
func (s *Spot) Regions() []*Region {
	regions := make([]*Region, 0, len(s.regions))
	for r := range s.regions {
		regions = append(regions, r)
	}
	return regions
}

// RegionCount returns the number of regions in the spot.
func (s *Spot) RegionCount() int {
	return len(s.regions)
}

// Module is a set of families that co-occur across genomes. Only membership
// bookkeeping lives here; module detection is external.
type Module struct {
	ID int

	families map[*GeneFamily]struct{}
}

// NewModule creates an empty module.
func NewModule(id int) *Module {
	return &Module{ID: id, families: make(map[*GeneFamily]struct{})}
}

// AddFamily records a family as part of the module and sets the family's
// back-reference.
func (m *Module) AddFamily(f *GeneFamily) {
	m.families[f] = struct{}{}
	f.AddModule(m)
}

// Families returns the module's families.
func (m *Module) Families() []*GeneFamily {
	families := make([]*GeneFamily, 0, len(m.families))
	for f := range m.families {
		families = append(families, f)
	}
	return families
}

// FamilyCount returns the number of families in the module.
func (m *Module) FamilyCount() int {
	return len(m.families)
}
