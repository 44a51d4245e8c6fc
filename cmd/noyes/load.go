package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/noyes"
	"github.com/aretw0/noyes/internal/logging"
	"github.com/aretw0/noyes/pkg/adapters/memory"
	"github.com/aretw0/noyes/pkg/adapters/yamlfile"
	"github.com/aretw0/noyes/pkg/domain"
)

// loadEngine parses the questionnaire file named by --file into an
// in-memory graph and wraps it in an engine.
func loadEngine(cmd *cobra.Command, opts ...noyes.Option) (*noyes.Engine, *domain.Questionnaire, error) {
	path, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(cmd.Flags().Args()) > 0 {
		path = cmd.Flags().Args()[0]
	}

	doc, err := yamlfile.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	graph := memory.NewGraph()
	if err := doc.Populate(commandContext(cmd), graph); err != nil {
		return nil, nil, fmt.Errorf("failed to populate graph: %w", err)
	}

	opts = append(opts, noyes.WithLogger(newLogger(cmd)))
	return noyes.New(graph, opts...), doc.Questionnaire, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	switch level {
	case "debug":
		return logging.New(slog.LevelDebug)
	case "warn":
		return logging.New(slog.LevelWarn)
	case "error":
		return logging.New(slog.LevelError)
	default:
		return logging.New(slog.LevelInfo)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
