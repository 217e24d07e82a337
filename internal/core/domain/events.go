package domain

import "time"

// Event names published for structural and budget changes.
const (
	EventNodeCreated             = "wbs.node.created"
	EventNodeUpdated             = "wbs.node.updated"
	EventNodeReordered           = "wbs.node.reordered"
	EventNodeDeleted             = "wbs.node.deleted"
	EventLineCreated             = "budget.line.created"
	EventLineUpdated             = "budget.line.updated"
	EventLineDeleted             = "budget.line.deleted"
	EventLinesImported           = "budget.lines.imported"
	EventVersionCreated          = "budget.version.created"
	EventVersionUpdated          = "budget.version.updated"
	EventVersionBaselined        = "budget.version.baselined"
	EventVersionApproved         = "budget.version.approved"
	EventVersionStatusOverridden = "budget.version.status_overridden"
)

// DomainEvent is a change notification written in the same transaction as the
// mutation it describes.
type DomainEvent struct {
	EventID     string         `json:"eventID"`
	Name        string         `json:"name"`
	OrgID       string         `json:"orgID"`
	ProjectID   string         `json:"projectID"`
	ActorID     string         `json:"actorID"`
	AffectedIDs []string       `json:"affectedIDs"`
	Before      map[string]any `json:"before,omitempty"`
	After       map[string]any `json:"after,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}
