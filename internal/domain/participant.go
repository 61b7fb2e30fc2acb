package domain

// Namespace separates the event families that keep independent room registries.
type Namespace string

const (
	NamespaceBomb    Namespace = "bomb"
	NamespaceLoadout Namespace = "loadout"
)

// Namespaces lists every namespace the hub manages.
var Namespaces = []Namespace{NamespaceBomb, NamespaceLoadout}

// ParticipantID is the opaque handle the transport assigns to a live connection.
type ParticipantID string

// Participant is a live connection, optionally bound to a user.
type Participant struct {
	ID     ParticipantID
	UserID uint // zero when the connection is anonymous
}

// Authenticated reports whether the identity provider resolved a user.
func (p Participant) Authenticated() bool {
	return p.UserID != 0
}
