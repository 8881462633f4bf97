package cmd

import (
	"github.com/spf13/cobra"

	"github.com/phage-dynamics/ptoh/pkg/depth"
	"github.com/phage-dynamics/ptoh/pkg/ptio"
)

var depthSamFile string
var depthOutfile string

func init() {
	rootCmd.AddCommand(depthCmd)

	depthCmd.Flags().StringVarP(&depthSamFile, "samfile", "s", "stdin", "Filtered samfile to read. If none is specified, will read from stdin")
	depthCmd.Flags().StringVarP(&depthOutfile, "outfile", "o", "stdout", "Depth file to write")

	depthCmd.Flags().SortFlags = false
}

var depthCmd = &cobra.Command{
	Use:   "depth",
	Short: "Aggregate per-base depth over every contig of the reference",
	Long: `Aggregate per-base depth over every contig of the reference

The output has one line per reference position, zeros included:
contig<TAB>position<TAB>depth, with 1-based positions. Contig order follows
the sam header; the input is expected to have been through 'ptoh filter'
already.

Example usage:
	ptoh filter -s sample.sam | ptoh depth -o sample.depth`,

	RunE: func(cmd *cobra.Command, args []string) (err error) {

		samIn, err := ptio.OpenIn(*cmd.Flag("samfile"))
		if err != nil {
			return err
		}
		defer samIn.Close()

		out, err := ptio.OpenOut(*cmd.Flag("outfile"))
		if err != nil {
			return err
		}
		defer out.Close()

		profile, err := depth.FromSAM(samIn)
		if err != nil {
			return err
		}

		return profile.Write(out)
	},
}
