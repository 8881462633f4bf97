/*
Package annotation reconciles domain-hit tables with protein coordinate
records into one per-gene annotation table.

Up to two hit tables contribute family assignments; the first table's
assignment wins when a gene appears in both. Gene coordinates come from
protein FASTA description lines of the form

	>geneid_1 # 101 # 250 # 1 # ...

where the 2nd and 3rd " # "-delimited fields are the 1-based start and stop
positions of the gene on its contig.
*/
package annotation

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// Hit is one row of a domain-hit table: a gene and its assigned family
type Hit struct {
	GeneID string
	Family string
}

// Coord is the position of one gene on its contig, 1-based inclusive
type Coord struct {
	GeneID string
	Start  int
	Stop   int
}

// Gene is one row of the merged annotation table. Family is empty when the
// gene had no domain hit; HasCoords is false when no coordinate record was
// found for it.
type Gene struct {
	ID        string
	Family    string
	Start     int
	Stop      int
	HasCoords bool
}

// geneTableHeader is the fixed four-column schema of the merged table
const geneTableHeader = "Gene Id\tFamily Id\tStart Position\tStop Position"

// resolveHitColumns finds the gene id and hit description columns of a hit
// table by header name, falling back to the first two columns when the
// names are not recognized
func resolveHitColumns(header []string) (int, int) {
	gi, hi := 0, 1

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "gene id", "gene_id", "gene", "query", "query name":
			gi = i
		case "family id", "family_id", "top_hit", "tophit", "hit", "target name":
			hi = i
		}
	}

	return gi, hi
}

// ReadHitTable parses a tab-separated domain-hit table. Leading lines
// starting with '#' are comments; the first non-comment line is the header.
// The family id is the part of the hit description before the first comma.
// Rows without both columns are dropped.
func ReadHitTable(r io.Reader) ([]Hit, error) {

	hits := make([]Hit, 0)

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)

	first := true
	gi, hi := 0, 1

	for s.Scan() {
		line := s.Text()

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")

		if first {
			gi, hi = resolveHitColumns(fields)
			first = false
			continue
		}

		if len(fields) <= gi || len(fields) <= hi {
			continue
		}

		gene := strings.TrimSpace(fields[gi])
		if len(gene) == 0 {
			continue
		}

		family := strings.SplitN(fields[hi], ",", 2)[0]
		hits = append(hits, Hit{GeneID: gene, Family: strings.TrimSpace(family)})
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return hits, nil
}

// ReadHitTableFile is ReadHitTable over a file path. A missing or zero-byte
// file is an empty table, not an error.
func ReadHitTableFile(path string) ([]Hit, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make([]Hit, 0), nil
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return make([]Hit, 0), nil
	}

	return ReadHitTable(f)
}

// ReadProteinCoords extracts gene coordinates from the description lines of
// a protein FASTA stream. Descriptions with fewer than three " # "-delimited
// fields, or with non-numeric start/stop fields, are dropped.
func ReadProteinCoords(r io.Reader) ([]Coord, error) {

	coords := make([]Coord, 0)

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)

	for s.Scan() {
		line := s.Text()

		if len(line) == 0 || line[0] != '>' {
			continue
		}

		description := line[1:]
		words := strings.Fields(description)
		if len(words) == 0 {
			continue
		}
		id := words[0]

		fields := strings.Split(description, " # ")
		if len(fields) < 3 {
			continue
		}

		start, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		stop, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			continue
		}

		coords = append(coords, Coord{GeneID: id, Start: start, Stop: stop})
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return coords, nil
}

// ReadProteinCoordsFile is ReadProteinCoords over a file path. A missing or
// zero-byte file is an empty record set, not an error.
func ReadProteinCoordsFile(path string) ([]Coord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make([]Coord, 0), nil
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return make([]Coord, 0), nil
	}

	return ReadProteinCoords(f)
}

// Merge joins hits and coordinates on gene id. With both inputs non-empty
// the join is inner: only genes present in both appear, in hit-table order,
// and a gene appearing more than once keeps its first family assignment.
// With only hits, genes are emitted without coordinates; with only
// coordinates, genes are emitted without a family.
func Merge(hits []Hit, coords []Coord) []Gene {

	genes := make([]Gene, 0)

	coordMap := make(map[string]Coord)
	for _, c := range coords {
		if _, ok := coordMap[c.GeneID]; !ok {
			coordMap[c.GeneID] = c
		}
	}

	switch {
	case len(hits) > 0 && len(coords) > 0:
		seen := make(map[string]bool)
		for _, h := range hits {
			if seen[h.GeneID] {
				continue
			}
			seen[h.GeneID] = true
			c, ok := coordMap[h.GeneID]
			if !ok {
				continue
			}
			genes = append(genes, Gene{ID: h.GeneID, Family: h.Family, Start: c.Start, Stop: c.Stop, HasCoords: true})
		}

	case len(hits) > 0:
		seen := make(map[string]bool)
		for _, h := range hits {
			if seen[h.GeneID] {
				continue
			}
			seen[h.GeneID] = true
			genes = append(genes, Gene{ID: h.GeneID, Family: h.Family})
		}

	case len(coords) > 0:
		seen := make(map[string]bool)
		for _, c := range coords {
			if seen[c.GeneID] {
				continue
			}
			seen[c.GeneID] = true
			genes = append(genes, Gene{ID: c.GeneID, Start: c.Start, Stop: c.Stop, HasCoords: true})
		}
	}

	return genes
}

// WriteGeneTable writes the merged annotation table, one row per gene,
// with empty cells for a missing family or missing coordinates. With no
// genes the output is the four-column header alone.
func WriteGeneTable(w io.Writer, genes []Gene) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(geneTableHeader + "\n"); err != nil {
		return err
	}

	for _, g := range genes {
		start, stop := "", ""
		if g.HasCoords {
			start = strconv.Itoa(g.Start)
			stop = strconv.Itoa(g.Stop)
		}
		_, err := bw.WriteString(g.ID + "\t" + g.Family + "\t" + start + "\t" + stop + "\n")
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ReadGeneTable parses a merged annotation table written by WriteGeneTable.
// Rows whose start or stop does not parse are kept without coordinates.
func ReadGeneTable(r io.Reader) ([]Gene, error) {

	genes := make([]Gene, 0)

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)

	first := true

	for s.Scan() {
		line := s.Text()

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		if first {
			first = false
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 1 || len(fields[0]) == 0 {
			continue
		}

		g := Gene{ID: fields[0]}
		if len(fields) > 1 {
			g.Family = fields[1]
		}
		if len(fields) > 3 {
			start, errStart := strconv.Atoi(strings.TrimSpace(fields[2]))
			stop, errStop := strconv.Atoi(strings.TrimSpace(fields[3]))
			if errStart == nil && errStop == nil {
				g.Start = start
				g.Stop = stop
				g.HasCoords = true
			}
		}

		genes = append(genes, g)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return genes, nil
}
