package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnevik/axle"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of axle",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("axle version %s\n", strings.TrimSpace(axle.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
