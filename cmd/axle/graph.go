package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnevik/axle/internal/cli"
	"github.com/arnevik/axle/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <spec.yaml>",
	Short: "Export the spec tree visualization",
	Long:  `Loads a spec file and outputs a Mermaid diagram (graph TD) of its tree, with containers, shape leaves and the keys between them.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := cli.LoadSpec(args[0])
		if err != nil {
			fmt.Printf("Error loading spec: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if dim, _ := cmd.Flags().GetString("dimension"); dim != "" {
			overlay = &graph.Overlay{Dimension: dim}
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(spec, overlay)
		fmt.Print(output)
	},
}

func init() {
	graphCmd.Flags().StringP("dimension", "d", "", "Highlight the leaves carrying this dimension")
	rootCmd.AddCommand(graphCmd)
}
