package noyes

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/noyes/pkg/domain"
)

// Runner drives a questionnaire run interactively over the provided
// IO. Keeping the IO injectable makes the loop testable and lets
// frontends (CLI, TUI) reuse it.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer

	// Identity names the participant. Zero identities are rejected by
	// the engine before any node is shown.
	Identity domain.Identity

	// Resume reuses the participant's open run instead of always
	// starting fresh.
	Resume bool
}

// ContentRenderer transforms node content before it is written out.
// Used for markdown-to-ANSI rendering without coupling the core
// package to a terminal library.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set by the
// caller (typically os.Stdin and os.Stdout).
func NewRunner(identity domain.Identity) *Runner {
	return &Runner{Identity: identity}
}

// Run walks the questionnaire until a terminal node or EOF. Question
// nodes prompt for yes/no (y and n accepted); statement nodes wait for
// a bare Enter. "exit" and "quit" abandon the run, leaving it open for
// a later resume.
func (r *Runner) Run(ctx context.Context, engine *Engine, questionnaireID string) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	run, err := r.startOrResume(ctx, engine, questionnaireID)
	if err != nil {
		return err
	}

	node, err := engine.CurrentNode(ctx, run.ID)
	if err != nil {
		return err
	}

	for {
		r.display(node)

		if run.Complete {
			return nil
		}

		answer, stop, err := r.prompt(lineReader, node)
		if err != nil {
			return err
		}
		if stop {
			fmt.Fprintln(r.Output, "Bye!")
			return nil
		}

		nextRun, nextNode, err := engine.Answer(ctx, run.ID, answer)
		if err != nil {
			var invalid *domain.InvalidAnswerError
			if errors.As(err, &invalid) {
				fmt.Fprintf(r.Output, "Please answer one of: %s\n", strings.Join(invalid.Expected, ", "))
				continue
			}
			return err
		}
		run, node = nextRun, nextNode
	}
}

func (r *Runner) startOrResume(ctx context.Context, engine *Engine, questionnaireID string) (*domain.Run, error) {
	if r.Resume {
		return engine.ResumeRun(ctx, questionnaireID, r.Identity)
	}
	return engine.StartRun(ctx, questionnaireID, r.Identity)
}

func (r *Runner) display(node *domain.Node) {
	output := node.Content
	if r.Renderer != nil {
		if rendered, err := r.Renderer(node.Content); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}

// prompt reads one line and maps it onto the node's answer label set.
// stop is true when the participant asked to leave or the input hit
// EOF.
func (r *Runner) prompt(lineReader *bufio.Reader, node *domain.Node) (answer string, stop bool, err error) {
	switch node.Kind {
	case domain.NodeKindQuestion:
		fmt.Fprint(r.Output, "[y/n] > ")
	default:
		fmt.Fprint(r.Output, "[Enter to continue] > ")
	}

	text, err := lineReader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", true, nil
		}
		return "", false, fmt.Errorf("input error: %w", err)
	}
	input := strings.ToLower(strings.TrimSpace(text))

	switch input {
	case "exit", "quit":
		return "", true, nil
	}

	if node.Kind == domain.NodeKindStatement {
		// Any input, including a bare Enter, acknowledges a statement.
		return domain.AnswerNext, false, nil
	}

	switch input {
	case "y", "yes":
		return domain.AnswerYes, false, nil
	case "n", "no":
		return domain.AnswerNo, false, nil
	default:
		// Pass through as-is; the engine reports the valid label set.
		return input, false, nil
	}
}
