package graph

import (
	"strings"
	"testing"

	"github.com/aretw0/noyes/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	q := &domain.Questionnaire{ID: "q", StartNodeID: "ask-more"}
	nodes := []domain.Node{
		{ID: "ask-more", Kind: domain.NodeKindQuestion},
		{ID: "note", Kind: domain.NodeKindStatement},
		{ID: "done", Kind: domain.NodeKindTerminal},
	}
	edges := []domain.Edge{
		{Source: "ask-more", Answer: "yes", Destination: "note"},
		{Source: "ask-more", Answer: "no", Destination: "done"},
		{Source: "note", Answer: "next", Destination: "ask-more"},
	}

	out := GenerateMermaid(q, nodes, edges, nil)

	if !strings.HasPrefix(out, "graph TD\n") {
		t.Errorf("expected graph TD header, got %q", out[:20])
	}
	// Hyphens are not valid Mermaid IDs.
	if !strings.Contains(out, `ask_more(("ask-more"))`) {
		t.Errorf("expected entry node as circle with sanitized ID, got:\n%s", out)
	}
	if !strings.Contains(out, `done[["done"]]`) {
		t.Errorf("expected terminal as subroutine, got:\n%s", out)
	}
	if !strings.Contains(out, `ask_more -- "yes" --> note`) {
		t.Errorf("expected labeled edge, got:\n%s", out)
	}
}

func TestGenerateMermaid_SelfLoopDotted(t *testing.T) {
	q := &domain.Questionnaire{ID: "q", StartNodeID: "again"}
	nodes := []domain.Node{{ID: "again", Kind: domain.NodeKindStatement}}
	edges := []domain.Edge{{Source: "again", Answer: "next", Destination: "again"}}

	out := GenerateMermaid(q, nodes, edges, nil)
	if !strings.Contains(out, `again -. "next" .-> again`) {
		t.Errorf("expected dotted self-loop, got:\n%s", out)
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	q := &domain.Questionnaire{ID: "q", StartNodeID: "a"}
	nodes := []domain.Node{
		{ID: "a", Kind: domain.NodeKindStatement},
		{ID: "b", Kind: domain.NodeKindTerminal},
	}
	edges := []domain.Edge{{Source: "a", Answer: "next", Destination: "b"}}

	out := GenerateMermaid(q, nodes, edges, &Overlay{
		VisitedNodes: []string{"a", "a"},
		CurrentNode:  "b",
	})

	if strings.Count(out, "class a visited;") != 1 {
		t.Errorf("expected repeated visits styled once, got:\n%s", out)
	}
	if !strings.Contains(out, "class b current;") {
		t.Errorf("expected current node styled, got:\n%s", out)
	}
}
