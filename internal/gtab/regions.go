package gtab

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/gsiekaniec/pangraph/internal/pangenome"
)

// LoadRegionsFile reads a region list from a plain or gzipped file.
func (l *Loader) LoadRegionsFile(path string, p *pangenome.Pangenome) error {
	rc, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return l.LoadRegions(rc, p)
}

// LoadRegions reads a two-column tab-separated region list (region name,
// gene ID; one gene per line, in region order) and registers the regions on
// the pangenome. Consecutive lines sharing a region name belong to the same
// region. Every gene ID must already exist in the pangenome.
func (l *Loader) LoadRegions(r io.Reader, p *pangenome.Pangenome) error {
	scanner := bufio.NewScanner(r)

	var current *pangenome.Region
	var regions []*pangenome.Region
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return fmt.Errorf("line %d: expected 2 tab-separated columns, got %d", lineNo, len(fields))
		}
		name := strings.TrimSpace(fields[0])
		geneID := strings.TrimSpace(fields[1])

		gene, err := p.GetGene(geneID)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if current == nil || current.Name != name {
			current = pangenome.NewRegion(name)
			regions = append(regions, current)
		}
		if err := current.Append(gene); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read region list: %w", err)
	}

	p.AddRegions(regions)
	p.Status.PredictedRGP = pangenome.StatusLoaded
	l.logger.Info("loaded regions", zap.Int("regions", len(regions)))
	return nil
}
