// Package store persists a pangenome to a DuckDB database and loads it
// back. The graph is stored relationally (organisms, genes, families, edge
// pairs, regions), so the saved pangenome stays queryable with plain SQL.
package store

import (
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/gsiekaniec/pangraph/internal/pangenome"
)

// Store is a DuckDB-backed pangenome store.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens (or creates) a pangenome database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Store{db: db, path: path, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for save/load summaries.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates the pangenome tables, dropping any previous content.
func (s *Store) CreateSchema() error {
	stmts := []string{
		`DROP TABLE IF EXISTS status`,
		`DROP TABLE IF EXISTS region_genes`,
		`DROP TABLE IF EXISTS edge_pairs`,
		`DROP TABLE IF EXISTS genes`,
		`DROP TABLE IF EXISTS families`,
		`DROP TABLE IF EXISTS contigs`,
		`DROP TABLE IF EXISTS organisms`,
		`CREATE TABLE organisms (
			ord INTEGER NOT NULL,
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE contigs (
			organism TEXT NOT NULL,
			name TEXT NOT NULL,
			circular BOOLEAN NOT NULL,
			PRIMARY KEY (organism, name)
		)`,
		`CREATE TABLE families (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			partition TEXT NOT NULL,
			sequence TEXT NOT NULL,
			removed BOOLEAN NOT NULL
		)`,
		`CREATE TABLE genes (
			id TEXT PRIMARY KEY,
			organism TEXT NOT NULL,
			contig TEXT NOT NULL,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			dna TEXT NOT NULL,
			family TEXT NOT NULL
		)`,
		`CREATE TABLE edge_pairs (
			ord INTEGER NOT NULL,
			source_gene TEXT NOT NULL,
			target_gene TEXT NOT NULL
		)`,
		`CREATE TABLE region_genes (
			region_ord INTEGER NOT NULL,
			region TEXT NOT NULL,
			gene_ord INTEGER NOT NULL,
			gene TEXT NOT NULL
		)`,
		`CREATE TABLE status (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Save writes the whole pangenome into the database, replacing any previous
// content.
func (s *Store) Save(p *pangenome.Pangenome) error {
	if err := s.CreateSchema(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for i, org := range p.Organisms() {
		if _, err := tx.Exec(`INSERT INTO organisms (ord, name) VALUES (?, ?)`, i, org.Name); err != nil {
			return fmt.Errorf("save organism %q: %w", org.Name, err)
		}
		for _, contig := range org.Contigs() {
			if _, err := tx.Exec(`INSERT INTO contigs (organism, name, circular) VALUES (?, ?, ?)`,
				org.Name, contig.Name, contig.IsCircular); err != nil {
				return fmt.Errorf("save contig %q: %w", contig.Name, err)
			}
			for _, g := range contig.Genes() {
				famName := ""
				if g.Family != nil {
					famName = g.Family.Name
				}
				if _, err := tx.Exec(
					`INSERT INTO genes (id, organism, contig, position, type, dna, family) VALUES (?, ?, ?, ?, ?, ?, ?)`,
					g.ID, org.Name, contig.Name, g.Position, g.Type, g.DNA, famName); err != nil {
					return fmt.Errorf("save gene %q: %w", g.ID, err)
				}
			}
		}
	}

	families := p.Families()
	sort.Slice(families, func(i, j int) bool { return families[i].ID < families[j].ID })
	for _, fam := range families {
		if _, err := tx.Exec(`INSERT INTO families (id, name, partition, sequence, removed) VALUES (?, ?, ?, ?, ?)`,
			fam.ID, fam.Name, fam.Partition, fam.Sequence, fam.Removed); err != nil {
			return fmt.Errorf("save family %q: %w", fam.Name, err)
		}
	}

	ord := 0
	for _, e := range p.Edges() {
		for _, pair := range e.GenePairs() {
			if _, err := tx.Exec(`INSERT INTO edge_pairs (ord, source_gene, target_gene) VALUES (?, ?, ?)`,
				ord, pair.Source.ID, pair.Target.ID); err != nil {
				return fmt.Errorf("save edge pair: %w", err)
			}
			ord++
		}
	}

	for ri, region := range p.Regions() {
		for gi, g := range region.Genes() {
			if _, err := tx.Exec(`INSERT INTO region_genes (region_ord, region, gene_ord, gene) VALUES (?, ?, ?, ?)`,
				ri, region.Name, gi, g.ID); err != nil {
				return fmt.Errorf("save region %q: %w", region.Name, err)
			}
		}
	}

	for name, value := range statusMap(&p.Status) {
		if _, err := tx.Exec(`INSERT INTO status (name, value) VALUES (?, ?)`, name, int(*value)); err != nil {
			return fmt.Errorf("save status %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	s.logger.Info("saved pangenome",
		zap.String("path", s.path),
		zap.Int("organisms", p.OrganismCount()),
		zap.Int("families", p.FamilyCount()),
		zap.Int("edges", p.EdgeCount()),
		zap.Int("regions", p.RegionCount()))
	return nil
}

// Load reads the database content into an empty pangenome. Edges and
// regions are replayed through the construction API, so the loaded graph
// satisfies the same invariants as a freshly built one.
func (s *Store) Load(p *pangenome.Pangenome) error {
	if err := s.loadOrganisms(p); err != nil {
		return err
	}
	if err := s.loadFamilies(p); err != nil {
		return err
	}
	if err := s.loadGenes(p); err != nil {
		return err
	}
	if err := s.loadEdges(p); err != nil {
		return err
	}
	if err := s.loadRegions(p); err != nil {
		return err
	}
	if err := s.loadStatus(p); err != nil {
		return err
	}
	s.logger.Info("loaded pangenome",
		zap.String("path", s.path),
		zap.Int("organisms", p.OrganismCount()),
		zap.Int("families", p.FamilyCount()),
		zap.Int("edges", p.EdgeCount()),
		zap.Int("regions", p.RegionCount()))
	return nil
}

func (s *Store) loadOrganisms(p *pangenome.Pangenome) error {
	rows, err := s.db.Query(`
		SELECT o.name, c.name, c.circular
		FROM organisms o JOIN contigs c ON c.organism = o.name
		ORDER BY o.ord, c.name`)
	if err != nil {
		return fmt.Errorf("query contigs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orgName, contigName string
		var circular bool
		if err := rows.Scan(&orgName, &contigName, &circular); err != nil {
			return fmt.Errorf("scan contig: %w", err)
		}
		org := p.GetOrCreateOrganism(orgName)
		if _, err := org.AddContig(contigName, circular); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadFamilies(p *pangenome.Pangenome) error {
	// Family IDs are sequential from 0 and never reused, so inserting in ID
	// order reproduces them.
	rows, err := s.db.Query(`SELECT name, partition, sequence, removed FROM families ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query families: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, partition, sequence string
		var removed bool
		if err := rows.Scan(&name, &partition, &sequence, &removed); err != nil {
			return fmt.Errorf("scan family: %w", err)
		}
		fam, err := p.AddGeneFamily(name)
		if err != nil {
			return err
		}
		fam.AddPartition(partition)
		fam.AddSequence(sequence)
		fam.Removed = removed
	}
	return rows.Err()
}

func (s *Store) loadGenes(p *pangenome.Pangenome) error {
	rows, err := s.db.Query(`
		SELECT id, organism, contig, position, type, dna, family
		FROM genes ORDER BY organism, contig, position`)
	if err != nil {
		return fmt.Errorf("query genes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, orgName, contigName, typ, dna, famName string
		var position int
		if err := rows.Scan(&id, &orgName, &contigName, &position, &typ, &dna, &famName); err != nil {
			return fmt.Errorf("scan gene: %w", err)
		}
		org, err := p.GetOrganism(orgName)
		if err != nil {
			return err
		}
		contig, err := org.GetContig(contigName)
		if err != nil {
			return err
		}
		gene := &pangenome.Gene{ID: id, Type: typ, DNA: dna, Position: position}
		if err := contig.AddGene(gene); err != nil {
			return err
		}
		if famName != "" {
			fam, err := p.GetGeneFamily(famName)
			if err != nil {
				return err
			}
			if err := fam.Add(gene); err != nil {
				return err
			}
		}
	}
	return rows.Err()
}

func (s *Store) loadEdges(p *pangenome.Pangenome) error {
	rows, err := s.db.Query(`SELECT source_gene, target_gene FROM edge_pairs ORDER BY ord`)
	if err != nil {
		return fmt.Errorf("query edge pairs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sourceID, targetID string
		if err := rows.Scan(&sourceID, &targetID); err != nil {
			return fmt.Errorf("scan edge pair: %w", err)
		}
		source, err := p.GetGene(sourceID)
		if err != nil {
			return err
		}
		target, err := p.GetGene(targetID)
		if err != nil {
			return err
		}
		if _, err := p.AddEdge(source, target); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadRegions(p *pangenome.Pangenome) error {
	rows, err := s.db.Query(`SELECT region_ord, region, gene FROM region_genes ORDER BY region_ord, gene_ord`)
	if err != nil {
		return fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()
	var regions []*pangenome.Region
	lastOrd := -1
	for rows.Next() {
		var ord int
		var name, geneID string
		if err := rows.Scan(&ord, &name, &geneID); err != nil {
			return fmt.Errorf("scan region gene: %w", err)
		}
		gene, err := p.GetGene(geneID)
		if err != nil {
			return err
		}
		if ord != lastOrd {
			regions = append(regions, pangenome.NewRegion(name))
			lastOrd = ord
		}
		if err := regions[len(regions)-1].Append(gene); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	p.AddRegions(regions)
	return nil
}

func (s *Store) loadStatus(p *pangenome.Pangenome) error {
	rows, err := s.db.Query(`SELECT name, value FROM status`)
	if err != nil {
		return fmt.Errorf("query status: %w", err)
	}
	defer rows.Close()
	flags := statusMap(&p.Status)
	for rows.Next() {
		var name string
		var value int
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("scan status: %w", err)
		}
		if flag, ok := flags[name]; ok {
			*flag = pangenome.Status(value)
		}
	}
	return rows.Err()
}

func statusMap(f *pangenome.StatusFlags) map[string]*pangenome.Status {
	return map[string]*pangenome.Status{
		"genomesAnnotated":    &f.GenomesAnnotated,
		"geneSequences":       &f.GeneSequences,
		"genesClustered":      &f.GenesClustered,
		"defragmented":        &f.Defragmented,
		"geneFamilySequences": &f.GeneFamilySequences,
		"neighborsGraph":      &f.NeighborsGraph,
		"partitionned":        &f.Partitioned,
		"predictedRGP":        &f.PredictedRGP,
	}
}
