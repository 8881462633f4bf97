package depth

import (
	"bytes"
	"strings"
	"testing"
)

// depthFile is positions 1-10 of chr1 with depths [0,1,2,2,3,3,3,2,1,0]
const depthFile = `chr1	1	0
chr1	2	1
chr1	3	2
chr1	4	2
chr1	5	3
chr1	6	3
chr1	7	3
chr1	8	2
chr1	9	1
chr1	10	0
`

func TestFromSAM(t *testing.T) {
	data := "@HD\tVN:1.6\tSO:coordinate\n" +
		"@SQ\tSN:chr1\tLN:10\n" +
		"@SQ\tSN:chr2\tLN:5\n" +
		"r1\t0\tchr1\t1\t60\t4M\t*\t0\t0\tACGT\t*\n" +
		"r2\t0\tchr1\t3\t60\t4M\t*\t0\t0\tACGT\t*\n"

	p, err := FromSAM(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	// every contig in the header is covered in full, zeros included
	if len(p.Contigs()) != 2 || p.Contigs()[0] != "chr1" || p.Contigs()[1] != "chr2" {
		t.Errorf("wrong contigs: %v", p.Contigs())
	}
	if p.Length("chr1") != 10 || p.Length("chr2") != 5 {
		t.Errorf("wrong contig lengths: %d, %d", p.Length("chr1"), p.Length("chr2"))
	}

	out := new(bytes.Buffer)
	if err := p.Write(out); err != nil {
		t.Fatal(err)
	}

	want := `chr1	1	1
chr1	2	1
chr1	3	2
chr1	4	2
chr1	5	1
chr1	6	1
chr1	7	0
chr1	8	0
chr1	9	0
chr1	10	0
chr2	1	0
chr2	2	0
chr2	3	0
chr2	4	0
chr2	5	0
`
	if out.String() != want {
		t.Errorf("problem in TestFromSAM():\n%s", out.String())
	}
}

func TestReadProfile(t *testing.T) {
	p, err := ReadProfile(strings.NewReader(depthFile))
	if err != nil {
		t.Fatal(err)
	}

	if p.Length("chr1") != 10 {
		t.Errorf("wrong contig length: %d", p.Length("chr1"))
	}

	// malformed lines are dropped, not fatal
	p2, err := ReadProfile(strings.NewReader("chr1\t1\t5\nchr1\tx\t5\nchr1\t2\ty\nchr1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if p2.Length("chr1") != 1 {
		t.Errorf("malformed lines should be dropped: length %d", p2.Length("chr1"))
	}
}

func TestRangeSum(t *testing.T) {
	p, err := ReadProfile(strings.NewReader(depthFile))
	if err != nil {
		t.Fatal(err)
	}

	sum, ok := p.RangeSum("chr1", 3, 7)
	if !ok || sum != 13 {
		t.Errorf("RangeSum(3, 7) = %d, %v, want 13, true", sum, ok)
	}

	// missing contig is not the same as a zero-depth range
	_, ok = p.RangeSum("chr9", 3, 7)
	if ok {
		t.Error("RangeSum on a missing contig should report !ok")
	}
}

func TestRangeSumAdditive(t *testing.T) {
	p, err := ReadProfile(strings.NewReader(depthFile))
	if err != nil {
		t.Fatal(err)
	}

	whole, _ := p.RangeSum("chr1", 1, 10)
	for mid := 1; mid < 10; mid++ {
		left, _ := p.RangeSum("chr1", 1, mid)
		right, _ := p.RangeSum("chr1", mid+1, 10)
		if left+right != whole {
			t.Errorf("sum not additive at mid = %d: %d + %d != %d", mid, left, right, whole)
		}
	}
}

func TestRangeMedian(t *testing.T) {
	p, err := ReadProfile(strings.NewReader(depthFile))
	if err != nil {
		t.Fatal(err)
	}

	med, ok := p.RangeMedian("chr1", 3, 7)
	if !ok || med != 3 {
		t.Errorf("RangeMedian(3, 7) = %f, %v, want 3, true", med, ok)
	}

	// even-length window averages the two middle values
	med, ok = p.RangeMedian("chr1", 1, 10)
	if !ok || med != 2 {
		t.Errorf("RangeMedian(1, 10) = %f, %v, want 2, true", med, ok)
	}

	_, ok = p.RangeMedian("chr9", 1, 10)
	if ok {
		t.Error("RangeMedian on a missing contig should report !ok")
	}
}

func TestMedian(t *testing.T) {
	if m := Median([]int{3, 1, 2}); m != 2 {
		t.Errorf("Median odd = %f, want 2", m)
	}
	if m := Median([]int{4, 1, 3, 2}); m != 2.5 {
		t.Errorf("Median even = %f, want 2.5", m)
	}
	if m := Median([]float64{2.6, 4.0, 1.0}); m != 2.6 {
		t.Errorf("Median float = %f, want 2.6", m)
	}
}

func TestWindowClipping(t *testing.T) {
	p, err := ReadProfile(strings.NewReader(depthFile))
	if err != nil {
		t.Fatal(err)
	}

	w := p.Window("chr1", 8, 100)
	if len(w) != 3 || w[0] != 2 || w[1] != 1 || w[2] != 0 {
		t.Errorf("wrong clipped window: %v", w)
	}

	if p.Window("chr9", 1, 10) != nil {
		t.Error("window on a missing contig should be nil")
	}
}

func TestAddSpan(t *testing.T) {
	p := NewProfile()
	p.AddContig("chr1", 5)

	p.AddSpan("chr1", 2, 4)
	p.AddSpan("chr1", 4, 100) // clipped to the contig
	p.AddSpan("chr9", 1, 5)   // unknown contig ignored

	sum, _ := p.RangeSum("chr1", 1, 5)
	if sum != 5 {
		t.Errorf("wrong total after AddSpan: %d", sum)
	}
	d4, _ := p.RangeSum("chr1", 4, 4)
	if d4 != 2 {
		t.Errorf("wrong depth at position 4: %d", d4)
	}
}
