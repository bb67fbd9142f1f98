package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnevik/axle"
	"github.com/arnevik/axle/internal/presentation/tui"
)

var rootCmd = &cobra.Command{
	Use:   "axle",
	Short: "Axle inspects named-dimension specs for nested array data",
	Long: `Axle attaches named dimensions to arbitrarily nested data trees.
The CLI loads spec files, checks data manifests against them and reports
where every dimension lives.`,
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(axle.Version)
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details to stderr")
}
