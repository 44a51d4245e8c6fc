package domain

import "time"

// Identity names the participant owning a run: an authenticated user
// ID, an anonymous session key, or both (a logged-in browser session).
// At least one field must be set.
type Identity struct {
	UserID     string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	SessionKey string `json:"session_key,omitempty" yaml:"session_key,omitempty"`
}

// Anonymous reports whether the identity carries no user account.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// Zero reports whether the identity is entirely empty.
func (i Identity) Zero() bool {
	return i.UserID == "" && i.SessionKey == ""
}

// Step is one entry in a run's history: a node visit, the answer later
// chosen to leave it (empty while the participant sits on the node),
// its 1-based order index and the visit timestamp.
type Step struct {
	NodeID    string    `json:"node_id" yaml:"node_id"`
	NodeKind  string    `json:"node_kind" yaml:"node_kind"`
	Answer    string    `json:"answer,omitempty" yaml:"answer,omitempty"`
	Order     int       `json:"order" yaml:"order"`
	VisitedAt time.Time `json:"visited_at" yaml:"visited_at"`
}

// Run is one participant's ordered, loop-permitting walk through one
// questionnaire. The step log is append-only: revisiting a node via a
// cycle appends a new step, it never collapses into the earlier one.
type Run struct {
	ID              string   `json:"id" yaml:"id"`
	QuestionnaireID string   `json:"questionnaire_id" yaml:"questionnaire_id"`
	Identity        Identity `json:"identity" yaml:"identity"`

	Steps []Step `json:"steps" yaml:"steps"`

	// Complete flips the moment a terminal node is appended. A complete
	// run rejects further steps.
	Complete    bool       `json:"complete" yaml:"complete"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// NewRun creates an open run positioned on the entry node. The entry
// visit is recorded immediately, with no answer chosen yet.
func NewRun(id string, q *Questionnaire, identity Identity, entry *Node, now time.Time) *Run {
	r := &Run{
		ID:              id,
		QuestionnaireID: q.ID,
		Identity:        identity,
		StartedAt:       now,
	}
	r.Steps = append(r.Steps, Step{
		NodeID:    entry.ID,
		NodeKind:  entry.Kind,
		Order:     1,
		VisitedAt: now,
	})
	if entry.Terminal() {
		r.Complete = true
		r.CompletedAt = &now
	}
	return r
}

// CurrentStep returns the last recorded step, or nil for an empty run.
func (r *Run) CurrentStep() *Step {
	if len(r.Steps) == 0 {
		return nil
	}
	return &r.Steps[len(r.Steps)-1]
}

// CurrentNodeID returns the node the run is sitting on.
func (r *Run) CurrentNodeID() string {
	if s := r.CurrentStep(); s != nil {
		return s.NodeID
	}
	return ""
}

// Path returns the visited node IDs in visit order, repeats included.
func (r *Run) Path() []string {
	ids := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		ids[i] = s.NodeID
	}
	return ids
}
