package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phage-dynamics/ptoh/pkg/annotation"
	"github.com/phage-dynamics/ptoh/pkg/depth"
	"github.com/phage-dynamics/ptoh/pkg/ptio"
	"github.com/phage-dynamics/ptoh/pkg/region"
)

var countsPhageInfo string
var countsGenes string
var countsDepth string
var countsOutDir string

func init() {
	rootCmd.AddCommand(countsCmd)

	countsCmd.Flags().StringVarP(&countsPhageInfo, "phage-info", "", "", "Phage interval descriptor (sample, host, contig, ranges, ids)")
	countsCmd.Flags().StringVarP(&countsGenes, "genes", "g", "", "Merged gene table from 'ptoh merge'")
	countsCmd.Flags().StringVarP(&countsDepth, "depth", "d", "stdin", "Depth file from 'ptoh depth'")
	countsCmd.Flags().StringVarP(&countsOutDir, "outdir", "", "", "Directory to write the three count tables into")

	countsCmd.MarkFlagRequired("phage-info")
	countsCmd.MarkFlagRequired("genes")
	countsCmd.MarkFlagRequired("outdir")

	countsCmd.Flags().SortFlags = false
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Sum depth over marker genes and phage regions for one sample",
	Long: `Sum depth over marker genes and phage regions for one sample

Writes marker_gene_counts.tsv, phage_counts.tsv and host_counts.tsv into
--outdir. The host baseline is the median of the marker genes' per-base
depths.

Example usage:
	ptoh counts --phage-info phage_info.txt -g gene_annotation.tsv -d sample.depth --outdir results/`,

	RunE: func(cmd *cobra.Command, args []string) (err error) {

		phageIn, err := ptio.OpenIn(*cmd.Flag("phage-info"))
		if err != nil {
			return err
		}
		defer phageIn.Close()

		genesIn, err := ptio.OpenIn(*cmd.Flag("genes"))
		if err != nil {
			return err
		}
		defer genesIn.Close()

		depthIn, err := ptio.OpenIn(*cmd.Flag("depth"))
		if err != nil {
			return err
		}
		defer depthIn.Close()

		outDir, err := ptio.MakeOutDir(*cmd.Flag("outdir"))
		if err != nil {
			return err
		}

		sets, err := region.ReadPhageInfo(phageIn)
		if err != nil {
			return err
		}

		genes, err := annotation.ReadGeneTable(genesIn)
		if err != nil {
			return err
		}

		profile, err := depth.ReadProfile(depthIn)
		if err != nil {
			return err
		}

		geneCounts := region.GeneCounts(profile, genes)
		phageCounts := region.PhageCounts(profile, sets)
		hostCount := region.HostBaseline(sets, geneCounts)

		geneOut, err := os.Create(filepath.Join(outDir, "marker_gene_counts.tsv"))
		if err != nil {
			return err
		}
		defer geneOut.Close()
		if err := region.WriteGeneCounts(geneOut, geneCounts); err != nil {
			return err
		}

		phageOut, err := os.Create(filepath.Join(outDir, "phage_counts.tsv"))
		if err != nil {
			return err
		}
		defer phageOut.Close()
		if err := region.WritePhageCounts(phageOut, phageCounts); err != nil {
			return err
		}

		hostOut, err := os.Create(filepath.Join(outDir, "host_counts.tsv"))
		if err != nil {
			return err
		}
		defer hostOut.Close()

		return region.WriteHostCounts(hostOut, hostCount)
	},
}
