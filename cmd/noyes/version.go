package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/noyes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of noyes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("noyes version %s\n", strings.TrimSpace(noyes.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
