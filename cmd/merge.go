package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/phage-dynamics/ptoh/pkg/annotation"
	"github.com/phage-dynamics/ptoh/pkg/ptio"
)

var mergePfam string
var mergeKofam string
var mergeProteins string
var mergeOutfile string
var mergeInDir string
var mergeThreads int

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVarP(&mergePfam, "pfam", "", "", "First domain-hit table; its family assignment wins on duplicate gene ids")
	mergeCmd.Flags().StringVarP(&mergeKofam, "kofam", "", "", "Second domain-hit table")
	mergeCmd.Flags().StringVarP(&mergeProteins, "proteins", "p", "", "Protein fasta file with gene coordinates in the description lines")
	mergeCmd.Flags().StringVarP(&mergeOutfile, "outfile", "o", "stdout", "Merged gene table (or batch summary with --indir) to write")
	mergeCmd.Flags().StringVarP(&mergeInDir, "indir", "", "", "Batch mode: directory of genome entity directories to merge")
	mergeCmd.Flags().IntVarP(&mergeThreads, "threads", "t", 1, "Number of threads to use in batch mode")

	mergeCmd.Flags().SortFlags = false
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge domain-hit tables with protein coordinates into a gene table",
	Long: `Merge domain-hit tables with protein coordinates into a gene table

Missing or empty hit tables degrade to empty tables and never abort the run.
The output always carries the four-column schema Gene Id, Family Id,
Start Position, Stop Position.

Example usage:
	ptoh merge --pfam pfam_tophits.tsv --kofam kofam_tophits.tsv -p proteins.faa -o gene_annotation.tsv

In batch mode every subdirectory of --indir is treated as one genome entity
containing pfam_tophits.tsv, kofam_tophits.tsv and proteins.faa; each gets a
gene_annotation.tsv written next to them, and a per-entity summary goes to
--outfile:
	ptoh merge --indir genomes/ -t 8 -o merge_summary.tsv`,

	RunE: func(cmd *cobra.Command, args []string) (err error) {

		out, err := ptio.OpenOut(*cmd.Flag("outfile"))
		if err != nil {
			return err
		}
		defer out.Close()

		if len(mergeInDir) > 0 {
			return annotation.MergeAll(mergeInDir, annotation.DefaultEntityFiles, mergeThreads, out)
		}

		if len(mergePfam) == 0 && len(mergeKofam) == 0 && len(mergeProteins) == 0 {
			return errors.New("nothing to merge: provide --pfam, --kofam and/or --proteins, or --indir for batch mode")
		}

		pfam, err := annotation.ReadHitTableFile(mergePfam)
		if err != nil {
			return err
		}
		kofam, err := annotation.ReadHitTableFile(mergeKofam)
		if err != nil {
			return err
		}
		coords, err := annotation.ReadProteinCoordsFile(mergeProteins)
		if err != nil {
			return err
		}

		genes := annotation.Merge(append(pfam, kofam...), coords)

		return annotation.WriteGeneTable(out, genes)
	},
}
