/*
Package alignment derives per-read mapping statistics from SAM records and
applies quality/identity/coverage filtering to them
*/
package alignment

import (
	"io"
	"os"
	"strconv"

	biogosam "github.com/biogo/hts/sam"
)

// Stats carries the CIGAR-derived base counts for one SAM record, plus its
// query length and edit distance, from which alignment length, identity and
// coverage are calculated
type Stats struct {
	Matched      int // M, = and X operations
	Inserted     int // I operations
	Deleted      int // D operations
	SoftClipped  int // S operations
	QueryLength  int
	EditDistance int
}

// nmTag is the standard SAM auxiliary tag for edit distance to the reference
var nmTag = biogosam.NewTag("NM")

// auxInt converts the value of an integer-valued auxiliary field to an int.
// The SAM spec permits any integer width here.
func auxInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case uint8:
		return int(x), true
	case int16:
		return int(x), true
	case uint16:
		return int(x), true
	case int32:
		return int(x), true
	case uint32:
		return int(x), true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	}
	return 0, false
}

// CollectStats walks one record's CIGAR to count matched, inserted, deleted
// and soft-clipped bases, and reads its edit distance from the NM tag. A
// record with no NM tag gets an edit distance equal to its full alignment
// length, so it can never pass an identity threshold.
func CollectStats(rec *biogosam.Record) Stats {
	s := Stats{QueryLength: rec.Seq.Length}

	for _, op := range rec.Cigar {
		switch op.Type().String() {
		case "M", "=", "X":
			s.Matched += op.Len()
		case "I":
			s.Inserted += op.Len()
		case "D":
			s.Deleted += op.Len()
		case "S":
			s.SoftClipped += op.Len()
		}
	}

	s.EditDistance = s.AlignmentLength()
	if aux := rec.AuxFields.Get(nmTag); aux != nil {
		if nm, ok := auxInt(aux.Value()); ok {
			s.EditDistance = nm
		}
	}

	return s
}

// AlignmentLength is the number of matched, inserted and deleted bases
func (s Stats) AlignmentLength() int {
	return s.Matched + s.Inserted + s.Deleted
}

// Coverage is the fraction of the query that is aligned to the reference
func (s Stats) Coverage() float64 {
	if s.QueryLength <= 0 {
		return 0
	}
	return float64(s.Matched+s.Inserted) / float64(s.QueryLength)
}

// Identity is the fraction of the alignment that matches the reference
// exactly, calculated from the edit distance
func (s Stats) Identity() float64 {
	alnLen := s.AlignmentLength()
	if alnLen <= 0 {
		return 0
	}
	return float64(alnLen-s.EditDistance) / float64(alnLen)
}

// Thresholds holds the filtering cutoffs applied to each mapped record
type Thresholds struct {
	MinLength   int
	MinIdentity float64
	MinCoverage float64
}

// Default is the standard filtering configuration
var Default = Thresholds{
	MinLength:   45,
	MinIdentity: 0.97,
	MinCoverage: 0.80,
}

// Pass reports whether one SAM record survives filtering. Unmapped records
// and records with an unknown or non-positive query length never pass.
func (t Thresholds) Pass(rec *biogosam.Record) bool {
	// the third bit (== 4) in the sam flag is set if the read is unmapped,
	// can use the rightshift method to check this:
	if ((rec.Flags >> 2) & 1) == 1 {
		return false
	}

	s := CollectStats(rec)

	if s.QueryLength <= 0 {
		return false
	}
	if s.AlignmentLength() < t.MinLength {
		return false
	}
	if s.Identity() < t.MinIdentity {
		return false
	}
	if s.Coverage() < t.MinCoverage {
		return false
	}

	return true
}

// Filter reads SAM records from r and writes those that pass t to w,
// preserving input order and the header. It returns the number of records
// kept and dropped.
func Filter(r io.Reader, w io.Writer, t Thresholds) (int, int, error) {

	var kept, dropped int

	s, err := biogosam.NewReader(r)
	if err != nil {
		return kept, dropped, err
	}

	out, err := biogosam.NewWriter(w, s.Header(), biogosam.FlagDecimal)
	if err != nil {
		return kept, dropped, err
	}

	for {
		rec, err := s.Read()

		if err == io.EOF {
			break
		} else if err != nil {
			return kept, dropped, err
		}

		if !t.Pass(rec) {
			dropped++
			continue
		}

		if err := out.Write(rec); err != nil {
			return kept, dropped, err
		}
		kept++
	}

	os.Stderr.WriteString("alignments kept: " + strconv.Itoa(kept) + ", dropped: " + strconv.Itoa(dropped) + "\n")

	return kept, dropped, nil
}
