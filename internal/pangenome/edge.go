package pangenome

import "fmt"

// GenePair is one observed adjacency between two genes on a contig.
type GenePair struct {
	Source *Gene
	Target *Gene
}

// Edge is an undirected link between two gene families. It aggregates every
// gene adjacency observed between the two families, grouped by organism.
// Pairs are only appended; an edge is never partially emptied.
type Edge struct {
	Source *GeneFamily
	Target *GeneFamily

	pairs    map[*Organism][]GenePair
	orgOrder []*Organism // first-seen order, for reproducible iteration
}

// NewEdge creates an edge from one observed gene adjacency and registers it
// symmetrically on both families. Both genes must already belong to a family
// and must be in the same organism. Pangenome.AddEdge is the normal entry
// point; calling this directly for a family pair that already has an edge
// breaks the one-edge-per-pair invariant.
func NewEdge(source, target *Gene) (*Edge, error) {
	if source.Family == nil {
		return nil, fmt.Errorf("cannot build the graph: gene %q has no family: %w", source.ID, ErrInvariant)
	}
	if target.Family == nil {
		return nil, fmt.Errorf("cannot build the graph: gene %q has no family: %w", target.ID, ErrInvariant)
	}
	e := &Edge{
		Source: source.Family,
		Target: target.Family,
		pairs:  make(map[*Organism][]GenePair),
	}
	if err := e.AddGenes(source, target); err != nil {
		return nil, err
	}
	e.Source.setEdge(e.Target, e)
	e.Target.setEdge(e.Source, e)
	return e, nil
}

// AddGenes appends another observed gene adjacency to the edge. Both genes
// must be in the same organism.
func (e *Edge) AddGenes(source, target *Gene) error {
	if source.Organism == nil || source.Organism != target.Organism {
		return fmt.Errorf("edge between genes %q and %q of different organisms: %w",
			source.ID, target.ID, ErrInvariant)
	}
	org := source.Organism
	if _, ok := e.pairs[org]; !ok {
		e.orgOrder = append(e.orgOrder, org)
	}
	e.pairs[org] = append(e.pairs[org], GenePair{Source: source, Target: target})
	return nil
}

// Organisms returns the organisms exhibiting the adjacency, in first-seen
// order.
func (e *Edge) Organisms() []*Organism {
	orgs := make([]*Organism, len(e.orgOrder))
	copy(orgs, e.orgOrder)
	return orgs
}

// PairsPerOrg returns the gene pairs observed in the given organism, in
// insertion order.
func (e *Edge) PairsPerOrg(org *Organism) []GenePair {
	return e.pairs[org]
}

// GenePairs flattens all observed pairs: organisms in first-seen order,
// pairs in insertion order within each organism.
func (e *Edge) GenePairs() []GenePair {
	var all []GenePair
	for _, org := range e.orgOrder {
		all = append(all, e.pairs[org]...)
	}
	return all
}

// PairCount returns the total number of observed gene pairs.
func (e *Edge) PairCount() int {
	n := 0
	for _, ps := range e.pairs {
		n += len(ps)
	}
	return n
}

// OrganismCount returns the number of organisms exhibiting the adjacency.
func (e *Edge) OrganismCount() int {
	return len(e.pairs)
}
