// Package domain contains the core data types of the questionnaire
// graph: questionnaires, nodes, edges, answers and runs.
//
// The package is intentionally free of behavior beyond small
// constructors and predicates. Structural rules (which edges a node
// must carry) live in the validator; transition resolution lives in
// the runtime; run bookkeeping lives in the session manager.
package domain
