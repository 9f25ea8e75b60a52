package pangenome

// Gene is a single annotated gene on a contig. The core model reads all
// fields as immutable except Family, which is set when the gene is assigned
// to a gene family.
type Gene struct {
	ID       string // unique gene identifier
	Type     string // feature type (e.g. CDS, tRNA)
	DNA      string // nucleotide sequence, may be empty
	Position int    // 0-based index into the contig's ordered gene list

	Organism *Organism   // owning organism, set when added to a contig
	Contig   *Contig     // owning contig, set when added to a contig
	Family   *GeneFamily // owning family, set by GeneFamily.Add
}
