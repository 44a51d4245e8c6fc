package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/noyes/pkg/domain"
)

// Overlay contains run state to visualize on top of the static graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart (graph TD) from a
// questionnaire's nodes and edges. Node shapes follow the kind:
//
//	entry     ((circle))
//	question  [/parallelogram/]
//	terminal  [[subroutine]]
//	statement [rectangle]
//
// Overlay styles mark visited and current nodes when provided.
func GenerateMermaid(q *domain.Questionnaire, nodes []domain.Node, edges []domain.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == q.StartNodeID:
			opener, closer = "((", "))"
		case node.Kind == domain.NodeKindQuestion:
			opener, closer = "[/", "/]"
		case node.Kind == domain.NodeKindTerminal:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer))
	}

	for _, edge := range edges {
		from := sanitizeMermaidID(edge.Source)
		to := sanitizeMermaidID(edge.Destination)

		// Back-edges and self-loops get a dotted arrow so cycles stand
		// out in the rendered diagram.
		arrow := fmt.Sprintf("-- \"%s\" -->", edge.Answer)
		if edge.Source == edge.Destination {
			arrow = fmt.Sprintf("-. \"%s\" .->", edge.Answer)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
