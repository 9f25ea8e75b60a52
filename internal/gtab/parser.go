// Package gtab parses plain gene tables and region lists into a pangenome.
// It is the local-file input surface of pangraph: one gene per line, columns
// resolved from the header, so upstream annotation pipelines can export
// whatever column order they like.
package gtab

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gsiekaniec/pangraph/internal/pangenome"
)

// Gene table column names.
const (
	ColOrganism  = "organism"
	ColContig    = "contig"
	ColCircular  = "circular"
	ColPosition  = "position"
	ColGeneID    = "gene_id"
	ColType      = "type"
	ColFamily    = "family"
	ColPartition = "partition"
	ColDNA       = "dna"
)

// columnIndices holds the resolved positions of the gene table columns.
// Partition and dna are optional (-1 when absent).
type columnIndices struct {
	organism  int
	contig    int
	circular  int
	position  int
	geneID    int
	typ       int
	family    int
	partition int
	dna       int
}

// Loader parses gene tables and region lists and feeds them through the
// pangenome construction API.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader with a no-op logger.
func NewLoader() *Loader {
	return &Loader{logger: zap.NewNop()}
}

// SetLogger sets the logger for load summaries.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// openMaybeGzip opens a file, transparently decompressing gzip content.
func openMaybeGzip(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	buf := make([]byte, 2)
	if _, err := io.ReadFull(file, buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}
	if buf[0] == 0x1f && buf[1] == 0x8b {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &gzipFile{gz: gz, file: file}, nil
	}
	return file, nil
}

type gzipFile struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipFile) Close() error {
	g.gz.Close()
	return g.file.Close()
}

// LoadGeneTableFile reads a gene table from a plain or gzipped file.
func (l *Loader) LoadGeneTableFile(path string, p *pangenome.Pangenome) error {
	rc, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return l.LoadGeneTable(rc, p)
}

// LoadGeneTable reads a tab-separated gene table and registers its
// organisms, contigs, genes and gene families on the pangenome. Rows must be
// grouped by contig and sorted by position (positions are 0-based and
// contiguous). Lines starting with '#' are skipped.
func (l *Loader) LoadGeneTable(r io.Reader, p *pangenome.Pangenome) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var cols *columnIndices
	lineNo := 0
	nGenes := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if cols == nil {
			c, err := resolveColumns(fields)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			cols = c
			continue
		}
		if err := l.loadGeneRow(fields, cols, p); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		nGenes++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read gene table: %w", err)
	}
	if cols == nil {
		return fmt.Errorf("gene table has no header: %w", pangenome.ErrInvariant)
	}

	p.Status.GenomesAnnotated = pangenome.StatusLoaded
	p.Status.GenesClustered = pangenome.StatusLoaded
	l.logger.Info("loaded gene table",
		zap.Int("genes", nGenes),
		zap.Int("organisms", p.OrganismCount()),
		zap.Int("families", p.FamilyCount()))
	return nil
}

func resolveColumns(header []string) (*columnIndices, error) {
	cols := &columnIndices{
		organism: -1, contig: -1, circular: -1, position: -1,
		geneID: -1, typ: -1, family: -1, partition: -1, dna: -1,
	}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColOrganism:
			cols.organism = i
		case ColContig:
			cols.contig = i
		case ColCircular:
			cols.circular = i
		case ColPosition:
			cols.position = i
		case ColGeneID:
			cols.geneID = i
		case ColType:
			cols.typ = i
		case ColFamily:
			cols.family = i
		case ColPartition:
			cols.partition = i
		case ColDNA:
			cols.dna = i
		}
	}
	for _, req := range []struct {
		name string
		idx  int
	}{
		{ColOrganism, cols.organism},
		{ColContig, cols.contig},
		{ColCircular, cols.circular},
		{ColPosition, cols.position},
		{ColGeneID, cols.geneID},
		{ColFamily, cols.family},
	} {
		if req.idx < 0 {
			return nil, fmt.Errorf("gene table header is missing column %q", req.name)
		}
	}
	return cols, nil
}

func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

func (l *Loader) loadGeneRow(fields []string, cols *columnIndices, p *pangenome.Pangenome) error {
	orgName := field(fields, cols.organism)
	contigName := field(fields, cols.contig)
	geneID := field(fields, cols.geneID)
	famName := field(fields, cols.family)
	if orgName == "" || contigName == "" || geneID == "" || famName == "" {
		return fmt.Errorf("organism, contig, gene_id and family must be non-empty")
	}

	circular, err := parseBool(field(fields, cols.circular))
	if err != nil {
		return fmt.Errorf("column %q: %w", ColCircular, err)
	}
	position, err := strconv.Atoi(field(fields, cols.position))
	if err != nil {
		return fmt.Errorf("column %q: %w", ColPosition, err)
	}

	org := p.GetOrCreateOrganism(orgName)
	contig := org.GetOrCreateContig(contigName, circular)

	gene := &pangenome.Gene{
		ID:       geneID,
		Type:     field(fields, cols.typ),
		DNA:      field(fields, cols.dna),
		Position: position,
	}
	if gene.Type == "" {
		gene.Type = "CDS"
	}
	if err := contig.AddGene(gene); err != nil {
		return err
	}

	fam, err := p.AddGeneFamily(famName)
	if err != nil {
		return err
	}
	if partition := field(fields, cols.partition); partition != "" && fam.Partition == "" {
		fam.AddPartition(partition)
		p.Status.Partitioned = pangenome.StatusLoaded
	}
	return fam.Add(gene)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "circular":
		return true, nil
	case "0", "false", "no", "linear", "":
		return false, nil
	default:
		return false, fmt.Errorf("cannot parse %q as a boolean", s)
	}
}

// BuildGraph registers an edge for every pair of genes adjacent on a contig,
// closing the loop on circular contigs. Families must all be assigned before
// calling it; AddEdge fails otherwise.
func (l *Loader) BuildGraph(p *pangenome.Pangenome) error {
	nEdges := 0
	for _, org := range p.Organisms() {
		for _, contig := range org.Contigs() {
			genes := contig.Genes()
			for i := 1; i < len(genes); i++ {
				if _, err := p.AddEdge(genes[i-1], genes[i]); err != nil {
					return fmt.Errorf("contig %q of organism %q: %w", contig.Name, org.Name, err)
				}
				nEdges++
			}
			if contig.IsCircular && len(genes) > 1 {
				if _, err := p.AddEdge(genes[len(genes)-1], genes[0]); err != nil {
					return fmt.Errorf("contig %q of organism %q: %w", contig.Name, org.Name, err)
				}
				nEdges++
			}
		}
	}
	p.Status.NeighborsGraph = pangenome.StatusComputed
	l.logger.Info("built neighbors graph",
		zap.Int("adjacencies", nEdges),
		zap.Int("edges", p.EdgeCount()))
	return nil
}
