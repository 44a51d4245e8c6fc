package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/noyes/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a questionnaire graph for structural defects",
	Long: `Validates the node-kind invariants (questions need YES and NO edges,
statements need NEXT, terminals none), detects dangling edges and
checks that an entry node is designated. Cycles are not errors.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, q, err := loadEngine(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if err := engine.Validate(commandContext(cmd), q.ID); err != nil {
			if nodeErrs := validator.Reasons(err); nodeErrs != nil {
				fmt.Printf("Questionnaire %q has %d defect(s):\n", q.Slug, len(nodeErrs))
				for _, nodeErr := range nodeErrs {
					fmt.Printf("  - %s\n", nodeErr)
				}
			} else {
				fmt.Printf("Validation failed: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Printf("Questionnaire %q is valid! ✅\n", q.Slug)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
