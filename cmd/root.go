package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:     "ptoh",
		Short:   "phage-to-host sequencing depth ratios for prophage regions",
		Long:    `phage-to-host sequencing depth ratios for prophage regions`,
		Version: "0.2.0",
	}
)

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
