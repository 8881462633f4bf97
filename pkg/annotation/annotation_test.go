package annotation

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestReadHitTable(t *testing.T) {
	data := `# search tool version whatever
gene_id	top_hit
gene1	PF00001.20,PF00002.1
gene2	PF00010.3
gene3
`
	hits, err := ReadHitTable(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	want := []Hit{
		{GeneID: "gene1", Family: "PF00001.20"},
		{GeneID: "gene2", Family: "PF00010.3"},
	}

	if !reflect.DeepEqual(hits, want) {
		t.Errorf("problem in TestReadHitTable(): %v", hits)
	}
}

func TestReadHitTableNamedColumns(t *testing.T) {
	// a recognized gene id column that is not in first position is still
	// found by name
	data := "top_hit\tgene_id\nPF00001.20,x\tgene1\n"

	hits, err := ReadHitTable(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if len(hits) != 1 || hits[0].GeneID != "gene1" || hits[0].Family != "PF00001.20" {
		t.Errorf("problem in TestReadHitTableNamedColumns(): %v", hits)
	}
}

func TestReadHitTableFileMissing(t *testing.T) {
	hits, err := ReadHitTableFile("not/a/file.tsv")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("a missing file should be an empty table: %v", hits)
	}
}

func TestReadProteinCoords(t *testing.T) {
	data := `>gene1_1 # 101 # 250 # 1 # ID=1_1;partial=00
MKLV
>gene1_2 # 300
MTTT
>gene1_3 # abc # def # 1
MAAA
>gene1_4 # 500 # 650 # -1 # ID=1_4
MCCC
`
	coords, err := ReadProteinCoords(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	want := []Coord{
		{GeneID: "gene1_1", Start: 101, Stop: 250},
		{GeneID: "gene1_4", Start: 500, Stop: 650},
	}

	if !reflect.DeepEqual(coords, want) {
		t.Errorf("problem in TestReadProteinCoords(): %v", coords)
	}
}

func TestReadProteinCoordsEmptyHeader(t *testing.T) {
	// header lines with no description at all are dropped like any other
	// malformed record, not fatal
	data := ">\n" +
		">   \n" +
		">gene1_1 # 101 # 250 # 1 # ID=1_1\nMKLV\n"

	coords, err := ReadProteinCoords(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	want := []Coord{{GeneID: "gene1_1", Start: 101, Stop: 250}}
	if !reflect.DeepEqual(coords, want) {
		t.Errorf("problem in TestReadProteinCoordsEmptyHeader(): %v", coords)
	}
}

func TestMerge(t *testing.T) {
	pfam := []Hit{
		{GeneID: "gene1", Family: "PF00001.20"},
		{GeneID: "gene2", Family: "PF00010.3"},
	}
	kofam := []Hit{
		{GeneID: "gene1", Family: "K00001"}, // loses to the pfam assignment
		{GeneID: "gene3", Family: "K00003"}, // no coordinates: dropped by the join
	}
	coords := []Coord{
		{GeneID: "gene1", Start: 101, Stop: 250},
		{GeneID: "gene2", Start: 300, Stop: 450},
		{GeneID: "gene4", Start: 500, Stop: 650}, // no hit: dropped by the join
	}

	genes := Merge(append(pfam, kofam...), coords)

	want := []Gene{
		{ID: "gene1", Family: "PF00001.20", Start: 101, Stop: 250, HasCoords: true},
		{ID: "gene2", Family: "PF00010.3", Start: 300, Stop: 450, HasCoords: true},
	}

	if !reflect.DeepEqual(genes, want) {
		t.Errorf("problem in TestMerge(): %v", genes)
	}
}

func TestMergeHitsOnly(t *testing.T) {
	genes := Merge([]Hit{{GeneID: "gene1", Family: "PF00001.20"}}, nil)

	want := []Gene{{ID: "gene1", Family: "PF00001.20"}}
	if !reflect.DeepEqual(genes, want) {
		t.Errorf("problem in TestMergeHitsOnly(): %v", genes)
	}
}

func TestMergeCoordsOnly(t *testing.T) {
	genes := Merge(nil, []Coord{{GeneID: "gene1", Start: 101, Stop: 250}})

	want := []Gene{{ID: "gene1", Start: 101, Stop: 250, HasCoords: true}}
	if !reflect.DeepEqual(genes, want) {
		t.Errorf("problem in TestMergeCoordsOnly(): %v", genes)
	}
}

func TestMergeEmpty(t *testing.T) {
	genes := Merge(nil, nil)

	out := new(bytes.Buffer)
	if err := WriteGeneTable(out, genes); err != nil {
		t.Fatal(err)
	}

	// an empty merge still carries the full four-column schema
	if out.String() != "Gene Id\tFamily Id\tStart Position\tStop Position\n" {
		t.Errorf("problem in TestMergeEmpty():\n%s", out.String())
	}
}

func TestWriteGeneTableStable(t *testing.T) {
	hits := []Hit{
		{GeneID: "gene2", Family: "PF00010.3"},
		{GeneID: "gene1", Family: "PF00001.20"},
	}
	coords := []Coord{
		{GeneID: "gene1", Start: 101, Stop: 250},
		{GeneID: "gene2", Start: 300, Stop: 450},
	}

	first := new(bytes.Buffer)
	if err := WriteGeneTable(first, Merge(hits, coords)); err != nil {
		t.Fatal(err)
	}

	second := new(bytes.Buffer)
	if err := WriteGeneTable(second, Merge(hits, coords)); err != nil {
		t.Fatal(err)
	}

	// re-running the merge on unchanged input is byte-identical
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("problem in TestWriteGeneTableStable()")
	}

	want := `Gene Id	Family Id	Start Position	Stop Position
gene2	PF00010.3	300	450
gene1	PF00001.20	101	250
`
	if first.String() != want {
		t.Errorf("problem in TestWriteGeneTableStable():\n%s", first.String())
	}
}

func TestReadGeneTable(t *testing.T) {
	data := `Gene Id	Family Id	Start Position	Stop Position
gene1	PF00001.20	101	250
gene2		300	450
gene3	PF00003.1
`
	genes, err := ReadGeneTable(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	want := []Gene{
		{ID: "gene1", Family: "PF00001.20", Start: 101, Stop: 250, HasCoords: true},
		{ID: "gene2", Start: 300, Stop: 450, HasCoords: true},
		{ID: "gene3", Family: "PF00003.1"},
	}

	if !reflect.DeepEqual(genes, want) {
		t.Errorf("problem in TestReadGeneTable(): %v", genes)
	}
}
