// Package yamlfile loads questionnaire definitions from YAML files,
// the on-disk authoring format used by the CLI.
package yamlfile

import (
	"fmt"
	"os"
	"time"

	"context"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/ports"
)

// Document is a fully-parsed questionnaire definition.
type Document struct {
	Questionnaire *domain.Questionnaire
	Nodes         []domain.Node
	Edges         []domain.Edge
}

// fileSpec mirrors the top level of a questionnaire YAML file.
type fileSpec struct {
	Slug        string           `yaml:"slug"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Owner       string           `yaml:"owner"`
	Access      string           `yaml:"access"`
	Start       string           `yaml:"start"`
	Nodes       []map[string]any `yaml:"nodes"`
}

// nodeSpec is one node entry. Edge shorthands (yes/no/next) name the
// destination directly; answers covers arbitrary labels.
type nodeSpec struct {
	ID       string            `mapstructure:"id"`
	Kind     string            `mapstructure:"kind"`
	Content  string            `mapstructure:"content"`
	Metadata map[string]string `mapstructure:"metadata"`
	Yes      string            `mapstructure:"yes"`
	No       string            `mapstructure:"no"`
	Next     string            `mapstructure:"next"`
	Answers  map[string]string `mapstructure:"answers"`
}

// Load reads and parses a questionnaire YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire file: %w", err)
	}
	return Parse(data)
}

// Parse parses a questionnaire definition from raw YAML.
func Parse(data []byte) (*Document, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire yaml: %w", err)
	}

	if spec.Slug == "" {
		spec.Slug = domain.Slugify(spec.Title)
	}
	if spec.Slug == "" {
		return nil, fmt.Errorf("questionnaire needs a slug or a title")
	}
	if spec.Access == "" {
		spec.Access = domain.AccessDraft
	}
	if !domain.ValidAccess(spec.Access) {
		return nil, fmt.Errorf("unknown access type %q", spec.Access)
	}

	now := time.Now().UTC()
	doc := &Document{
		Questionnaire: &domain.Questionnaire{
			ID:          spec.Slug,
			Slug:        spec.Slug,
			Title:       spec.Title,
			Description: spec.Description,
			OwnerID:     spec.Owner,
			Access:      spec.Access,
			StartNodeID: spec.Start,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	for i, raw := range spec.Nodes {
		var ns nodeSpec
		// mapstructure handles the weakly-typed YAML maps, so authors
		// can write numbers or booleans in metadata without breaking.
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &ns,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if ns.ID == "" {
			return nil, fmt.Errorf("node %d: missing id", i)
		}
		if !domain.ValidKind(ns.Kind) {
			return nil, fmt.Errorf("node %q: unknown kind %q", ns.ID, ns.Kind)
		}

		doc.Nodes = append(doc.Nodes, domain.Node{
			ID:              ns.ID,
			QuestionnaireID: spec.Slug,
			Kind:            ns.Kind,
			Content:         ns.Content,
			Metadata:        ns.Metadata,
		})

		addEdge := func(label, destination string) {
			doc.Edges = append(doc.Edges, domain.Edge{
				QuestionnaireID: spec.Slug,
				Source:          ns.ID,
				Destination:     destination,
				Answer:          label,
			})
		}
		if ns.Yes != "" {
			addEdge(domain.AnswerYes, ns.Yes)
		}
		if ns.No != "" {
			addEdge(domain.AnswerNo, ns.No)
		}
		if ns.Next != "" {
			addEdge(domain.AnswerNext, ns.Next)
		}
		for label, destination := range ns.Answers {
			addEdge(label, destination)
		}
	}

	// Default the entry node to the first listed node, matching the
	// DSL builder's behavior.
	if doc.Questionnaire.StartNodeID == "" && len(doc.Nodes) > 0 {
		doc.Questionnaire.StartNodeID = doc.Nodes[0].ID
	}

	return doc, nil
}

// Populate writes the document into a graph store.
func (d *Document) Populate(ctx context.Context, store ports.GraphStore) error {
	if err := store.PutQuestionnaire(ctx, d.Questionnaire); err != nil {
		return err
	}
	for i := range d.Nodes {
		if err := store.PutNode(ctx, &d.Nodes[i]); err != nil {
			return err
		}
	}
	for i := range d.Edges {
		if err := store.PutEdge(ctx, &d.Edges[i]); err != nil {
			return err
		}
	}
	return nil
}
