// Package ports defines the boundary interfaces between the engine
// core and its collaborators: graph persistence, run persistence and
// distributed locking. Adapters live under pkg/adapters.
//
// The package also exports reusable contract test suites so that any
// adapter implementation can verify it honors the interface semantics.
package ports
