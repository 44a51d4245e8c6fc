package yamlfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noyes/internal/validator"
	"github.com/aretw0/noyes/pkg/adapters/memory"
	"github.com/aretw0/noyes/pkg/adapters/yamlfile"
	"github.com/aretw0/noyes/pkg/domain"
)

const moodCheck = `
slug: mood-check
title: Mood Check
owner: alice
access: public
start: ask
nodes:
  - id: ask
    kind: question
    content: Feeling good?
    yes: done
    no: breathe
    metadata:
      theme: calm
      weight: 3
  - id: breathe
    kind: statement
    content: Take a breath.
    next: ask
  - id: done
    kind: terminal
    content: Great!
`

func TestParse(t *testing.T) {
	doc, err := yamlfile.Parse([]byte(moodCheck))
	require.NoError(t, err)

	q := doc.Questionnaire
	assert.Equal(t, "mood-check", q.Slug)
	assert.Equal(t, "ask", q.StartNodeID)
	assert.Equal(t, domain.AccessPublic, q.Access)

	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Edges, 3)

	// Weakly-typed metadata values decode to strings.
	assert.Equal(t, "3", doc.Nodes[0].Metadata["weight"])
}

func TestParse_PopulateAndValidate(t *testing.T) {
	ctx := context.Background()
	doc, err := yamlfile.Parse([]byte(moodCheck))
	require.NoError(t, err)

	store := memory.NewGraph()
	require.NoError(t, doc.Populate(ctx, store))

	require.NoError(t, validator.ValidateQuestionnaire(ctx, store, doc.Questionnaire))

	edges, err := store.OutgoingEdges(ctx, "mood-check", "ask")
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestParse_DefaultsStartToFirstNode(t *testing.T) {
	doc, err := yamlfile.Parse([]byte(`
title: Tiny
nodes:
  - id: only
    kind: terminal
    content: Done.
`))
	require.NoError(t, err)
	assert.Equal(t, "tiny", doc.Questionnaire.Slug, "slug derived from title")
	assert.Equal(t, "only", doc.Questionnaire.StartNodeID)
}

func TestParse_Rejections(t *testing.T) {
	cases := map[string]string{
		"unknown kind": "title: x\nnodes:\n  - id: a\n    kind: rating\n",
		"missing id":   "title: x\nnodes:\n  - kind: terminal\n",
		"no slug":      "nodes: []\n",
		"bad access":   "title: x\naccess: secret\n",
		"invalid yaml": "title: [unclosed\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := yamlfile.Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mood.yaml")
	require.NoError(t, os.WriteFile(path, []byte(moodCheck), 0o644))

	doc, err := yamlfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Mood Check", doc.Questionnaire.Title)

	_, err = yamlfile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
