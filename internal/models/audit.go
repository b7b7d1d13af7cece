package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Audit actions.
const (
	AuditActionAssignmentCreate   = "ASSIGNMENT_CREATE"
	AuditActionAssignmentUpdate   = "ASSIGNMENT_UPDATE"
	AuditActionAssignmentDelete   = "ASSIGNMENT_DELETE"
	AuditActionCourseStatusChange = "COURSE_STATUS_CHANGE"
	AuditActionPreferenceSubmit   = "PREFERENCE_SUBMIT"
	AuditActionPreferenceDelete   = "PREFERENCE_DELETE"
	AuditActionComplaintResolve   = "COMPLAINT_RESOLVE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string         `db:"id" json:"id"`
	ActorID    *string        `db:"actor_id" json:"actorId,omitempty"`
	Action     string         `db:"action" json:"action"`
	Resource   string         `db:"resource" json:"resource"`
	ResourceID *string        `db:"resource_id" json:"resourceId,omitempty"`
	Payload    types.JSONText `db:"payload" json:"payload"`
	RequestID  *string        `db:"request_id" json:"requestId,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}
