package domain

import "time"

// AccessType constants control who may walk a questionnaire.
const (
	// AccessDraft is the authoring state. Only the owner may navigate it.
	AccessDraft = "draft"
	// AccessPublic questionnaires are navigable by anyone, including anonymous participants.
	AccessPublic = "public"
	// AccessPrivate questionnaires require an authenticated participant.
	AccessPrivate = "private"
	// AccessInviteOnly questionnaires additionally require an invite (enforced by the caller).
	AccessInviteOnly = "invite_only"
)

// Questionnaire is a named, owned graph container.
type Questionnaire struct {
	// ID is an opaque unique identifier.
	ID string `json:"id" yaml:"id"`

	// Slug is the human-readable unique handle, derived from the title.
	Slug string `json:"slug" yaml:"slug"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// OwnerID references the authoring identity. Ownership checks are
	// performed by the caller; the engine only uses it for the draft
	// navigability rule.
	OwnerID string `json:"owner_id" yaml:"owner_id"`

	// Access is one of the AccessType constants. Draft questionnaires
	// cannot be walked by third parties.
	Access string `json:"access" yaml:"access"`

	// StartNodeID designates the entry node. Entry selection is an
	// authoring decision; the engine never infers one from the graph.
	StartNodeID string `json:"start_node_id,omitempty" yaml:"start_node_id,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Published reports whether the questionnaire left the draft state.
func (q *Questionnaire) Published() bool {
	return q.Access != "" && q.Access != AccessDraft
}

// Navigable reports whether the given identity may walk the
// questionnaire. Drafts are owner-only; private and invite-only
// questionnaires require an authenticated identity. Invite membership
// itself is the caller's policy, not the engine's.
func (q *Questionnaire) Navigable(id Identity) bool {
	if id.UserID != "" && id.UserID == q.OwnerID {
		return true
	}
	switch q.Access {
	case AccessPublic:
		return true
	case AccessPrivate, AccessInviteOnly:
		return id.UserID != ""
	default:
		return false
	}
}

// ValidAccess reports whether access names a known access type.
func ValidAccess(access string) bool {
	switch access {
	case AccessDraft, AccessPublic, AccessPrivate, AccessInviteOnly:
		return true
	}
	return false
}
