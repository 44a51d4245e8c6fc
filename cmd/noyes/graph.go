package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/noyes/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the questionnaire graph visualization",
	Long:  `Loads a questionnaire definition and outputs a Mermaid diagram (graph TD) of its nodes and answer-labeled edges.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, q, err := loadEngine(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ctx := commandContext(cmd)
		nodes, err := engine.Graph().ListNodes(ctx, q.ID)
		if err != nil {
			fmt.Printf("Error listing nodes: %v\n", err)
			os.Exit(1)
		}
		edges, err := engine.Graph().ListEdges(ctx, q.ID)
		if err != nil {
			fmt.Printf("Error listing edges: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(q, nodes, edges, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
