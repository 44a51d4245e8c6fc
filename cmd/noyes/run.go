package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/noyes"
	"github.com/aretw0/noyes/internal/presentation/tui"
	"github.com/aretw0/noyes/pkg/domain"
)

// runCmd plays a questionnaire interactively on the terminal.
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Walk a questionnaire interactively",
	Long:  `Loads a questionnaire definition and walks it on the terminal, one node at a time, until a terminal node is reached.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, q, err := loadEngine(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		plain, _ := cmd.Flags().GetBool("plain")
		session, _ := cmd.Flags().GetString("session")
		if session == "" {
			session = uuid.NewString()
		}

		runner := noyes.NewRunner(domain.Identity{SessionKey: session})
		runner.Input = os.Stdin
		runner.Output = os.Stdout
		if !plain {
			tui.PrintBanner()
			runner.Renderer = tui.NewRenderer()
		}

		if err := runner.Run(commandContext(cmd), engine, q.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")
	runCmd.Flags().String("session", "", "Session key for resumable runs (random by default)")

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
}
