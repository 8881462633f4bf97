package cmd

import (
	"github.com/spf13/cobra"

	"github.com/phage-dynamics/ptoh/pkg/ptio"
	"github.com/phage-dynamics/ptoh/pkg/ratio"
	"github.com/phage-dynamics/ptoh/pkg/region"
)

var ratioPhageCounts string
var ratioHostCounts string
var ratioOutfile string

func init() {
	rootCmd.AddCommand(ratioCmd)

	ratioCmd.Flags().StringVarP(&ratioPhageCounts, "phage-counts", "", "", "phage_counts.tsv from 'ptoh counts'")
	ratioCmd.Flags().StringVarP(&ratioHostCounts, "host-counts", "", "", "host_counts.tsv from 'ptoh counts'")
	ratioCmd.Flags().StringVarP(&ratioOutfile, "outfile", "o", "stdout", "PtoH table to write")

	ratioCmd.MarkFlagRequired("phage-counts")
	ratioCmd.MarkFlagRequired("host-counts")

	ratioCmd.Flags().SortFlags = false
}

var ratioCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Compute the phage-to-host depth ratio per phage region",
	Long: `Compute the phage-to-host depth ratio per phage region

PtoH is each region's per-base depth divided by the host baseline. A zero
baseline gives an NA ratio rather than zero or an error, so that "no host
signal" stays distinguishable from a genuinely zero ratio.

Example usage:
	ptoh ratio --phage-counts results/phage_counts.tsv --host-counts results/host_counts.tsv -o PtoH.tsv`,

	RunE: func(cmd *cobra.Command, args []string) (err error) {

		phageIn, err := ptio.OpenIn(*cmd.Flag("phage-counts"))
		if err != nil {
			return err
		}
		defer phageIn.Close()

		hostIn, err := ptio.OpenIn(*cmd.Flag("host-counts"))
		if err != nil {
			return err
		}
		defer hostIn.Close()

		out, err := ptio.OpenOut(*cmd.Flag("outfile"))
		if err != nil {
			return err
		}
		defer out.Close()

		phage, err := region.ReadPhageCounts(phageIn)
		if err != nil {
			return err
		}

		host, err := region.ReadHostCounts(hostIn)
		if err != nil {
			return err
		}

		return ratio.Write(out, ratio.Calculate(phage, host))
	},
}
