package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnevik/axle/internal/cli"
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <spec.yaml>",
	Short: "Report a spec's dimensions and where they live",
	Long:  `Renders a report of the spec tree: the dimensions it names and the axis each dimension occupies in each leaf. With --manifest the extents are resolved against a data manifest.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		manifest, _ := cmd.Flags().GetString("manifest")
		plain, _ := cmd.Flags().GetBool("plain")
		raw, _ := cmd.Flags().GetBool("raw")

		out, err := cli.Describe(cli.NewLogger(verbose), args[0], cli.DescribeOptions{
			ManifestPath: manifest,
			Plain:        plain,
			Raw:          raw,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringP("manifest", "m", "", "Resolve extents against this data manifest")
	describeCmd.Flags().Bool("plain", false, "Print raw markdown without terminal rendering")
	describeCmd.Flags().Bool("raw", false, "Append a deep dump of the loaded manifest")
}
