package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnevik/axle/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec.yaml> <manifest.yaml>",
	Short: "Check a data manifest against a spec",
	Long:  `Loads a spec and a manifest and reports every dimension whose extents disagree between leaves, every rank shortfall and every structural mismatch.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log := cli.NewLogger(verbose)

		if err := cli.Validate(log, args[0], args[1]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Manifest matches the spec ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
