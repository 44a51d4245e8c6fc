// Package noyes implements a questionnaire graph engine: authors
// define a directed graph of question, statement and terminal nodes
// joined by answer-labeled edges, and participants walk it one node at
// a time until they reach a terminal.
//
// The graph is a general directed multigraph, not a tree: cycles and
// converging paths are legal, so a participant may revisit a node via
// different routes and the run history records every visit.
//
// The package is organized hexagonally, core first:
//
//   - pkg/domain holds the data types and error taxonomy.
//   - internal/validator decides structural navigability.
//   - internal/runtime resolves single-step transitions.
//   - pkg/session tracks run histories under per-run locks.
//   - pkg/ports defines the persistence boundaries, with adapters
//     under pkg/adapters (memory, redis, yamlfile).
//
// The Engine type in this package is the high-level entry point tying
// those together.
package noyes
