/*
Package depth builds and queries per-base sequencing depth profiles.

A profile covers every position of every contig in the reference, zeros
included, and preserves contig order and position order so that it can be
streamed to and from the three-column depth file format
(contig<TAB>position<TAB>depth, 1-based).
*/
package depth

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	biogosam "github.com/biogo/hts/sam"
	"golang.org/x/exp/constraints"
)

// Profile is a dense per-contig, per-position depth vector. Positions are
// 1-based externally; internally position p lives at index p-1.
type Profile struct {
	contigs []string
	depth   map[string][]int
}

func NewProfile() *Profile {
	return &Profile{
		contigs: make([]string, 0),
		depth:   make(map[string][]int),
	}
}

// AddContig declares a contig of the given length, with zero depth
// everywhere. Re-declaring a contig is a no-op.
func (p *Profile) AddContig(name string, length int) {
	if _, ok := p.depth[name]; ok {
		return
	}
	p.contigs = append(p.contigs, name)
	p.depth[name] = make([]int, length)
}

// Contigs returns the contig names in input order
func (p *Profile) Contigs() []string {
	return p.contigs
}

// HasContig reports whether the profile covers the named contig
func (p *Profile) HasContig(name string) bool {
	_, ok := p.depth[name]
	return ok
}

// Length returns the declared length of a contig, or 0 if it is unknown
func (p *Profile) Length(name string) int {
	return len(p.depth[name])
}

// AddSpan increments the depth at every position of [start, stop], 1-based
// inclusive. Positions outside the contig are ignored, as are unknown
// contigs.
func (p *Profile) AddSpan(name string, start, stop int) {
	d, ok := p.depth[name]
	if !ok {
		return
	}
	if start < 1 {
		start = 1
	}
	if stop > len(d) {
		stop = len(d)
	}
	for i := start - 1; i < stop; i++ {
		d[i]++
	}
}

// RangeSum returns the summed depth over [start, stop], 1-based inclusive,
// clipped to the contig's length. The second return value is false when the
// contig is absent from the profile, which is not the same thing as a
// zero-depth range.
func (p *Profile) RangeSum(name string, start, stop int) (int, bool) {
	d, ok := p.depth[name]
	if !ok {
		return 0, false
	}
	if start < 1 {
		start = 1
	}
	if stop > len(d) {
		stop = len(d)
	}
	total := 0
	for i := start - 1; i < stop; i++ {
		total += d[i]
	}
	return total, true
}

// Window returns a copy of the depth values over [start, stop], 1-based
// inclusive, clipped to the contig's length. It returns nil when the contig
// is absent from the profile.
func (p *Profile) Window(name string, start, stop int) []int {
	d, ok := p.depth[name]
	if !ok {
		return nil
	}
	if start < 1 {
		start = 1
	}
	if stop > len(d) {
		stop = len(d)
	}
	if start > stop {
		return []int{}
	}
	w := make([]int, stop-start+1)
	copy(w, d[start-1:stop])
	return w
}

// RangeMedian returns the median depth over [start, stop], 1-based
// inclusive, clipped to the contig's length. The second return value is
// false when the contig is absent or the clipped range is empty.
func (p *Profile) RangeMedian(name string, start, stop int) (float64, bool) {
	d, ok := p.depth[name]
	if !ok {
		return 0, false
	}
	if start < 1 {
		start = 1
	}
	if stop > len(d) {
		stop = len(d)
	}
	if start > stop {
		return 0, false
	}
	return Median(d[start-1 : stop]), true
}

// Median returns the median of a non-empty slice, averaging the two middle
// values when the length is even
func Median[T constraints.Integer | constraints.Float](s []T) float64 {
	c := make([]T, len(s))
	copy(c, s)
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	mid := len(c) / 2
	if len(c)%2 == 1 {
		return float64(c[mid])
	}
	return (float64(c[mid-1]) + float64(c[mid])) / 2
}

// FromSAM builds a profile from a stream of SAM records whose header
// declares every reference contig and its length. Every mapped record
// increments the depth over its aligned reference span; the input is
// expected to have been filtered already.
func FromSAM(r io.Reader) (*Profile, error) {

	s, err := biogosam.NewReader(r)
	if err != nil {
		return nil, err
	}

	p := NewProfile()
	for _, ref := range s.Header().Refs() {
		p.AddContig(ref.Name(), ref.Len())
	}

	for {
		rec, err := s.Read()

		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		// the third bit (== 4) in the sam flag is set if the read is unmapped
		if ((rec.Flags >> 2) & 1) == 1 {
			continue
		}
		if rec.Ref == nil {
			continue
		}

		// Start() is 0-based, End() is its exclusive partner
		p.AddSpan(rec.Ref.Name(), rec.Start()+1, rec.End())
	}

	return p, nil
}

// Write writes the profile in the three-column depth file format, one line
// per position, contigs in input order
func (p *Profile) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, name := range p.contigs {
		for i, d := range p.depth[name] {
			_, err := bw.WriteString(name + "\t" + strconv.Itoa(i+1) + "\t" + strconv.Itoa(d) + "\n")
			if err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ReadProfile parses a three-column depth file. Lines with a non-numeric
// position or depth are dropped; contigs appear in the profile in order of
// first mention, sized by the highest position seen.
func ReadProfile(r io.Reader) (*Profile, error) {

	p := NewProfile()

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)

	for s.Scan() {
		fields := strings.Split(s.Text(), "\t")
		if len(fields) < 3 {
			continue
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil || pos < 1 {
			continue
		}
		d, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}

		name := fields[0]
		if !p.HasContig(name) {
			p.AddContig(name, 0)
		}
		for len(p.depth[name]) < pos {
			p.depth[name] = append(p.depth[name], 0)
		}
		p.depth[name][pos-1] = d
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return p, nil
}
