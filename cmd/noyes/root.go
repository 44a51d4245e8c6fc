package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "noyes",
	Short: "noyes is a questionnaire graph engine",
	Long: `noyes lets authors define directed graphs of questions, statements and
terminals, and lets participants walk them one node at a time. Graphs
may contain loops and rejoins; a run ends when it reaches a terminal.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("file", "questionnaire.yaml", "Questionnaire definition file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
