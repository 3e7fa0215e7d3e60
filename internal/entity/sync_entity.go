package entity

import "github.com/google/uuid"

// SyncStats summarises one reconciliation pass.
type SyncStats struct {
	Inserted int
	Updated  int
	Moved    int
	Deleted  int
	Embedded int
}

// EmbedCandidate is one row whose vector must be (re)computed this pass.
// Text is what gets embedded; Title and HasBody are denormalized into the
// vector point payload for downstream consumers.
type EmbedCandidate struct {
	Id      uuid.UUID
	Text    string
	Title   string
	HasBody bool
}
