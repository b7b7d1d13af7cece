package models

import "time"

// ComplaintStatus tracks complaint resolution.
type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "Pending"
	ComplaintResolved ComplaintStatus = "Resolved"
	ComplaintRejected ComplaintStatus = "Rejected"
)

// Complaint annotates one sub-assignment; it never alters it.
type Complaint struct {
	ID              string          `db:"id" json:"id"`
	AssignmentID    string          `db:"assignment_id" json:"assignmentId"`
	SubAssignmentID string          `db:"sub_assignment_id" json:"subAssignmentId"`
	Reason          string          `db:"reason" json:"reason"`
	Status          ComplaintStatus `db:"status" json:"status"`
	FiledBy         string          `db:"filed_by" json:"filedBy"`
	ResolvedBy      *string         `db:"resolved_by" json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time      `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}

// ComplaintFilter narrows complaint listings.
type ComplaintFilter struct {
	Status       ComplaintStatus
	AssignmentID string
	Page         int
	PageSize     int
}
