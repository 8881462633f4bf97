package cmd

import (
	"github.com/spf13/cobra"

	"github.com/phage-dynamics/ptoh/pkg/alignment"
	"github.com/phage-dynamics/ptoh/pkg/ptio"
)

var filterSamFile string
var filterOutfile string
var filterMinLength int
var filterMinIdentity float64
var filterMinCoverage float64

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVarP(&filterSamFile, "samfile", "s", "stdin", "Samfile to read. If none is specified, will read from stdin")
	filterCmd.Flags().StringVarP(&filterOutfile, "outfile", "o", "stdout", "Filtered samfile to write")
	filterCmd.Flags().IntVarP(&filterMinLength, "min-length", "", alignment.Default.MinLength, "Minimum alignment length (matched + inserted + deleted bases)")
	filterCmd.Flags().Float64VarP(&filterMinIdentity, "min-identity", "", alignment.Default.MinIdentity, "Minimum alignment identity")
	filterCmd.Flags().Float64VarP(&filterMinCoverage, "min-coverage", "", alignment.Default.MinCoverage, "Minimum query coverage")

	filterCmd.Flags().SortFlags = false
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter alignments by length, identity and query coverage",
	Long: `Filter alignments by length, identity and query coverage

Unmapped records and records with an unknown query length are always discarded.
A record is kept when its alignment length, identity and query coverage all
meet their thresholds. Identity is derived from the NM tag; records without
one are discarded.

Example usage:
	ptoh filter -s sample.sam -o sample.filtered.sam

If input and output files are not specified, the behaviour is to read the sam
file from stdin and write the filtered sam file to stdout.`,

	RunE: func(cmd *cobra.Command, args []string) (err error) {

		samIn, err := ptio.OpenIn(*cmd.Flag("samfile"))
		if err != nil {
			return err
		}
		defer samIn.Close()

		samOut, err := ptio.OpenOut(*cmd.Flag("outfile"))
		if err != nil {
			return err
		}
		defer samOut.Close()

		t := alignment.Thresholds{
			MinLength:   filterMinLength,
			MinIdentity: filterMinIdentity,
			MinCoverage: filterMinCoverage,
		}

		_, _, err = alignment.Filter(samIn, samOut, t)

		return err
	},
}
