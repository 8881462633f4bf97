/*
Package region partitions a depth profile by named genomic intervals -
marker genes and phage regions - into per-gene, per-phage and per-host
count tables.
*/
package region

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/phage-dynamics/ptoh/pkg/annotation"
	"github.com/phage-dynamics/ptoh/pkg/depth"
)

// Span is a 1-based inclusive coordinate range on a contig
type Span struct {
	Start int
	Stop  int
}

// PhageSet is one line of the phage interval descriptor: every phage region
// on one contig for one sample, with parallel ordered lists of spans and
// short ids ("P1", "P2", ...)
type PhageSet struct {
	Sample string
	Host   string
	Contig string
	Spans  []Span
	IDs    []string
}

// SampleID is the composite sample identifier used in the host and ratio
// tables
func (ps PhageSet) SampleID() string {
	return ps.Host + "--" + ps.Sample
}

// ReadPhageInfo parses the headerless five-column phage interval
// descriptor: sample, host id, contig, comma-separated start-stop ranges,
// comma-separated ids in matching order. Range tokens that do not parse are
// dropped along with their id; rows with fewer than five columns are
// dropped whole.
func ReadPhageInfo(r io.Reader) ([]PhageSet, error) {

	sets := make([]PhageSet, 0)

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)

	for s.Scan() {
		line := s.Text()
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			continue
		}

		ps := PhageSet{
			Sample: fields[0],
			Host:   fields[1],
			Contig: fields[2],
			Spans:  make([]Span, 0),
			IDs:    make([]string, 0),
		}

		ranges := strings.Split(fields[3], ",")
		ids := strings.Split(fields[4], ",")

		n := len(ranges)
		if len(ids) < n {
			n = len(ids)
		}

		for i := 0; i < n; i++ {
			parts := strings.SplitN(ranges[i], "-", 2)
			if len(parts) != 2 {
				continue
			}
			start, errStart := strconv.Atoi(strings.TrimSpace(parts[0]))
			stop, errStop := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errStart != nil || errStop != nil {
				continue
			}
			ps.Spans = append(ps.Spans, Span{Start: start, Stop: stop})
			ps.IDs = append(ps.IDs, strings.TrimSpace(ids[i]))
		}

		sets = append(sets, ps)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

// GeneCount is the summed depth over one marker gene's span
type GeneCount struct {
	GeneID string
	Total  int
	Per    float64 // Total divided by the region length
	Median float64
	Length int
}

// PhageCount is the summed depth over all of one phage region's spans.
// Start and Stop delimit the region's overall extent; Length is the number
// of bases actually covered by its spans.
type PhageCount struct {
	PhageID string
	Contig  string
	Start   int
	Stop    int
	Total   int
	Per     float64
	Median  float64
	Length  int
}

// HostCount is the per-sample host baseline: the median of the marker
// genes' per-base depths
type HostCount struct {
	SampleID   string
	MedianOfMG float64
}

// geneContig recovers the contig id from a gene id of the form
// <contig>_<n> by trimming everything from the last underscore
func geneContig(geneID string) string {
	i := strings.LastIndex(geneID, "_")
	if i < 0 {
		return geneID
	}
	return geneID[:i]
}

// GeneCounts sums the depth profile over every marker gene's span. Genes
// without coordinates are skipped; genes on a contig absent from the
// profile report zero depth but keep their length.
func GeneCounts(p *depth.Profile, genes []annotation.Gene) []GeneCount {

	counts := make([]GeneCount, 0, len(genes))

	for _, g := range genes {
		if !g.HasCoords || g.Stop < g.Start {
			continue
		}

		contig := geneContig(g.ID)
		length := g.Stop - g.Start + 1

		total, _ := p.RangeSum(contig, g.Start, g.Stop)
		median, _ := p.RangeMedian(contig, g.Start, g.Stop)

		counts = append(counts, GeneCount{
			GeneID: g.ID,
			Total:  total,
			Per:    float64(total) / float64(length),
			Median: median,
			Length: length,
		})
	}

	return counts
}

// PhageCounts sums the depth profile over every phage region. Spans sharing
// an id are summed into one count for that id; ids are reported in order of
// first appearance.
func PhageCounts(p *depth.Profile, sets []PhageSet) []PhageCount {

	order := make([]string, 0)
	byID := make(map[string]*PhageCount)
	windows := make(map[string][]int)

	for _, ps := range sets {
		for i, id := range ps.IDs {
			span := ps.Spans[i]
			if span.Stop < span.Start {
				continue
			}

			pc, ok := byID[id]
			if !ok {
				pc = &PhageCount{PhageID: id, Contig: ps.Contig, Start: span.Start, Stop: span.Stop}
				byID[id] = pc
				order = append(order, id)
			}

			if span.Start < pc.Start {
				pc.Start = span.Start
			}
			if span.Stop > pc.Stop {
				pc.Stop = span.Stop
			}

			total, _ := p.RangeSum(ps.Contig, span.Start, span.Stop)
			pc.Total += total
			pc.Length += span.Stop - span.Start + 1

			windows[id] = append(windows[id], p.Window(ps.Contig, span.Start, span.Stop)...)
		}
	}

	counts := make([]PhageCount, 0, len(order))
	for _, id := range order {
		pc := byID[id]
		if pc.Length > 0 {
			pc.Per = float64(pc.Total) / float64(pc.Length)
		}
		if len(windows[id]) > 0 {
			pc.Median = depth.Median(windows[id])
		}
		counts = append(counts, *pc)
	}

	return counts
}

// HostBaseline derives the per-sample host baseline from the marker gene
// counts: the median of their per-base depths. The sample id comes from the
// first descriptor line, matching the one-sample-per-run input contract.
func HostBaseline(sets []PhageSet, genes []GeneCount) HostCount {

	hc := HostCount{}
	if len(sets) > 0 {
		hc.SampleID = sets[0].SampleID()
	}

	if len(genes) == 0 {
		return hc
	}

	pers := make([]float64, 0, len(genes))
	for _, g := range genes {
		pers = append(pers, g.Per)
	}
	hc.MedianOfMG = depth.Median(pers)

	return hc
}

// formatFloat renders a float for the count tables, with an explicit NaN
// marker
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NA"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteGeneCounts writes the marker gene count table
func WriteGeneCounts(w io.Writer, counts []GeneCount) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("Gene Id\tTotal_Counts\tPer_Counts\tMedian_Depth\tRegion_Length\n"); err != nil {
		return err
	}

	for _, c := range counts {
		_, err := bw.WriteString(c.GeneID + "\t" +
			strconv.Itoa(c.Total) + "\t" +
			formatFloat(c.Per) + "\t" +
			formatFloat(c.Median) + "\t" +
			strconv.Itoa(c.Length) + "\n")
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WritePhageCounts writes the phage region count table
func WritePhageCounts(w io.Writer, counts []PhageCount) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("Phage_Id\tChromosome\tStart\tStop\tTotal_Counts\tPer_Counts\tMedian_Depth\tRegion_Length\n"); err != nil {
		return err
	}

	for _, c := range counts {
		_, err := bw.WriteString(c.PhageID + "\t" +
			c.Contig + "\t" +
			strconv.Itoa(c.Start) + "\t" +
			strconv.Itoa(c.Stop) + "\t" +
			strconv.Itoa(c.Total) + "\t" +
			formatFloat(c.Per) + "\t" +
			formatFloat(c.Median) + "\t" +
			strconv.Itoa(c.Length) + "\n")
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteHostCounts writes the single-row host baseline table
func WriteHostCounts(w io.Writer, hc HostCount) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("Sample_ID\tMedian_of_MG\n"); err != nil {
		return err
	}
	if _, err := bw.WriteString(hc.SampleID + "\t" + formatFloat(hc.MedianOfMG) + "\n"); err != nil {
		return err
	}

	return bw.Flush()
}

// ReadPhageCounts parses a phage count table written by WritePhageCounts.
// Rows with unparseable numeric cells are dropped.
func ReadPhageCounts(r io.Reader) ([]PhageCount, error) {

	counts := make([]PhageCount, 0)

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)

	first := true

	for s.Scan() {
		line := s.Text()
		if len(line) == 0 {
			continue
		}
		if first {
			first = false
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 8 {
			continue
		}

		start, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		stop, err := strconv.Atoi(fields[3])
		if err != nil {
			continue
		}
		total, err := strconv.Atoi(fields[4])
		if err != nil {
			continue
		}
		per, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			continue
		}
		median, err := strconv.ParseFloat(fields[6], 64)
		if err != nil {
			continue
		}
		length, err := strconv.Atoi(fields[7])
		if err != nil {
			continue
		}

		counts = append(counts, PhageCount{
			PhageID: fields[0],
			Contig:  fields[1],
			Start:   start,
			Stop:    stop,
			Total:   total,
			Per:     per,
			Median:  median,
			Length:  length,
		})
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// ReadHostCounts parses a host baseline table, taking the first data row
func ReadHostCounts(r io.Reader) (HostCount, error) {

	hc := HostCount{}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)

	first := true

	for s.Scan() {
		line := s.Text()
		if len(line) == 0 {
			continue
		}
		if first {
			first = false
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}

		hc.SampleID = fields[0]
		median, err := strconv.ParseFloat(fields[1], 64)
		if err == nil {
			hc.MedianOfMG = median
		}
		break
	}

	if err := s.Err(); err != nil {
		return hc, err
	}

	return hc, nil
}
