package types

import "fmt"

// ActionKind identifies what a planned action does.
type ActionKind string

const (
	CreateFolder ActionKind = "create_folder"
	MoveFile     ActionKind = "move_file"
	Skip         ActionKind = "skip"
)

// Skip and failure reasons recorded in the audit log.
const (
	ReasonNoRule      = "no matching rule"
	ReasonNoExtension = "no extension"
	ReasonExcluded    = "excluded"
	ReasonCollision   = "destination collision"
)

// Action is one unit of intended work, produced by the planner before any
// mutation occurs.
type Action struct {
	Kind        ActionKind `json:"kind"`
	Source      string     `json:"source,omitempty"`
	Destination string     `json:"destination,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// String returns a human-readable representation
func (a Action) String() string {
	switch a.Kind {
	case CreateFolder:
		return fmt.Sprintf("create folder %s", a.Destination)
	case MoveFile:
		return fmt.Sprintf("move %s -> %s", a.Source, a.Destination)
	case Skip:
		return fmt.Sprintf("skip %s (%s)", a.Source, a.Reason)
	}
	return string(a.Kind)
}
