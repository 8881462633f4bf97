package annotation

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
)

// EntityFiles names the files looked for inside each genome entity
// directory, and the merged table written back into it
type EntityFiles struct {
	PfamHits  string
	KofamHits string
	Proteins  string
	Output    string
}

// DefaultEntityFiles is the standard per-directory layout
var DefaultEntityFiles = EntityFiles{
	PfamHits:  "pfam_tophits.tsv",
	KofamHits: "kofam_tophits.tsv",
	Proteins:  "proteins.faa",
	Output:    "gene_annotation.tsv",
}

// MergeEntity merges one genome entity's hit tables and protein coordinates
// and writes the result into the entity's directory. Missing and empty
// inputs degrade to empty tables. It returns the number of genes written.
func MergeEntity(dir string, files EntityFiles) (int, error) {

	pfam, err := ReadHitTableFile(filepath.Join(dir, files.PfamHits))
	if err != nil {
		return 0, err
	}
	kofam, err := ReadHitTableFile(filepath.Join(dir, files.KofamHits))
	if err != nil {
		return 0, err
	}
	coords, err := ReadProteinCoordsFile(filepath.Join(dir, files.Proteins))
	if err != nil {
		return 0, err
	}

	// table order decides which family wins on duplicate gene ids
	hits := append(pfam, kofam...)
	genes := Merge(hits, coords)

	f, err := os.Create(filepath.Join(dir, files.Output))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := WriteGeneTable(f, genes); err != nil {
		return 0, err
	}

	return len(genes), nil
}

// entityJob carries one genome entity directory and its input-order index
type entityJob struct {
	dir string
	idx int
}

// entityResult is the outcome of merging one genome entity
type entityResult struct {
	entity string
	genes  int
	failed bool
	idx    int
}

// mergeWorker runs MergeEntity over a channel of jobs. A failed entity is
// reported on stderr and becomes an empty summary row; it never aborts the
// batch.
func mergeWorker(files EntityFiles, cJobs chan entityJob, cResults chan entityResult) {
	for job := range cJobs {
		n, err := MergeEntity(job.dir, files)
		if err != nil {
			os.Stderr.WriteString("skipping " + job.dir + ": " + err.Error() + "\n")
			cResults <- entityResult{entity: filepath.Base(job.dir), failed: true, idx: job.idx}
			continue
		}
		cResults <- entityResult{entity: filepath.Base(job.dir), genes: n, idx: job.idx}
	}
}

// writeSummary writes the batch summary as it arrives. It uses a map to
// write rows in the same order as the entity directories were listed.
func writeSummary(w io.Writer, cResults chan entityResult, cErr chan error, cWriteDone chan bool) {

	outputMap := make(map[int]entityResult)

	counter := 0

	_, err := w.Write([]byte("Entity\tGenes\n"))
	if err != nil {
		cErr <- err
		return
	}

	writeOne := func(res entityResult) error {
		if res.failed {
			_, err := w.Write([]byte(res.entity + "\t\n"))
			return err
		}
		_, err := w.Write([]byte(res.entity + "\t" + strconv.Itoa(res.genes) + "\n"))
		return err
	}

	for res := range cResults {
		outputMap[res.idx] = res

		if r, ok := outputMap[counter]; ok {
			if err := writeOne(r); err != nil {
				cErr <- err
				return
			}
			delete(outputMap, counter)
			counter++
		} else {
			continue
		}
	}

	for len(outputMap) > 0 {
		r, ok := outputMap[counter]
		if !ok {
			break
		}
		if err := writeOne(r); err != nil {
			cErr <- err
			return
		}
		delete(outputMap, counter)
		counter++
	}

	cWriteDone <- true
}

// MergeAll merges every genome entity directory under indir, threads at a
// time, and writes a per-entity summary table to w. Entity results are
// keyed by directory name, so completion order does not matter.
func MergeAll(indir string, files EntityFiles, threads int, w io.Writer) error {

	if threads < 1 {
		threads = runtime.NumCPU()
	}

	entries, err := os.ReadDir(indir)
	if err != nil {
		return err
	}

	cJobs := make(chan entityJob, threads)
	cResults := make(chan entityResult, threads)
	cErr := make(chan error)
	cWriteDone := make(chan bool)

	go writeSummary(w, cResults, cErr, cWriteDone)

	var wgWorkers sync.WaitGroup
	wgWorkers.Add(threads)

	for n := 0; n < threads; n++ {
		go func() {
			mergeWorker(files, cJobs, cResults)
			wgWorkers.Done()
		}()
	}

	go func() {
		idx := 0
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			cJobs <- entityJob{dir: filepath.Join(indir, entry.Name()), idx: idx}
			idx++
		}
		close(cJobs)
	}()

	go func() {
		wgWorkers.Wait()
		close(cResults)
	}()

	for n := 1; n > 0; {
		select {
		case err := <-cErr:
			return err
		case <-cWriteDone:
			n--
		}
	}

	return nil
}
