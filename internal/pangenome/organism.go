package pangenome

import "fmt"

// Organism is a single genome in the pangenome. It owns an ordered
// collection of contigs.
type Organism struct {
	Name string // unique organism name within a pangenome

	contigs   []*Contig
	contigIdx map[string]*Contig
}

// NewOrganism creates an organism with the given name.
func NewOrganism(name string) *Organism {
	return &Organism{
		Name:      name,
		contigIdx: make(map[string]*Contig),
	}
}

// AddContig creates and registers a contig on the organism.
// It returns an error wrapping ErrDuplicate if the contig name is taken.
func (o *Organism) AddContig(name string, circular bool) (*Contig, error) {
	if _, ok := o.contigIdx[name]; ok {
		return nil, fmt.Errorf("contig %q in organism %q: %w", name, o.Name, ErrDuplicate)
	}
	c := &Contig{Name: name, IsCircular: circular, organism: o}
	o.contigs = append(o.contigs, c)
	o.contigIdx[name] = c
	return c, nil
}

// GetContig returns the contig with the given name.
func (o *Organism) GetContig(name string) (*Contig, error) {
	c, ok := o.contigIdx[name]
	if !ok {
		return nil, fmt.Errorf("contig %q in organism %q: %w", name, o.Name, ErrNotFound)
	}
	return c, nil
}

// GetOrCreateContig returns the named contig, creating it if absent.
// The circular flag only applies on creation.
func (o *Organism) GetOrCreateContig(name string, circular bool) *Contig {
	if c, ok := o.contigIdx[name]; ok {
		return c
	}
	c, _ := o.AddContig(name, circular)
	return c
}

// Contigs returns the contigs in insertion order.
func (o *Organism) Contigs() []*Contig {
	return o.contigs
}

// Genes returns every gene of the organism, contig by contig in position
// order.
func (o *Organism) Genes() []*Gene {
	var genes []*Gene
	for _, c := range o.contigs {
		genes = append(genes, c.genes...)
	}
	return genes
}

// GeneCount returns the total number of genes across all contigs.
func (o *Organism) GeneCount() int {
	n := 0
	for _, c := range o.contigs {
		n += len(c.genes)
	}
	return n
}

// Contig is an ordered sequence of genes on one assembled DNA molecule.
type Contig struct {
	Name       string // contig name, unique within its organism
	IsCircular bool   // whether the molecule is circular (plasmid, complete chromosome)

	organism *Organism
	genes    []*Gene
}

// Organism returns the organism owning the contig.
func (c *Contig) Organism() *Organism {
	return c.organism
}

// AddGene appends a gene at the next position on the contig. Gene positions
// are 0-based and contiguous; the gene's Position must match the slot it is
// appended into, or an ErrInvariant error is returned.
func (c *Contig) AddGene(g *Gene) error {
	if g.Position != len(c.genes) {
		return fmt.Errorf("gene %q at position %d appended to contig %q with %d genes: %w",
			g.ID, g.Position, c.Name, len(c.genes), ErrInvariant)
	}
	g.Contig = c
	g.Organism = c.organism
	c.genes = append(c.genes, g)
	return nil
}

// Genes returns the genes in position order.
func (c *Contig) Genes() []*Gene {
	return c.genes
}

// GeneCount returns the number of genes on the contig.
func (c *Contig) GeneCount() int {
	return len(c.genes)
}

// GeneAt returns the gene at the given position.
func (c *Contig) GeneAt(pos int) (*Gene, error) {
	if pos < 0 || pos >= len(c.genes) {
		return nil, fmt.Errorf("position %d on contig %q (%d genes): %w", pos, c.Name, len(c.genes), ErrNotFound)
	}
	return c.genes[pos], nil
}
