package dto

import "github.com/noah-isme/teaching-load-api/internal/models"

// CreateComplaintRequest files a complaint against one sub-assignment.
type CreateComplaintRequest struct {
	AssignmentID    string `json:"assignmentId" validate:"required"`
	SubAssignmentID string `json:"subAssignmentId" validate:"required"`
	Reason          string `json:"reason" validate:"required,max=2000"`
}

// ResolveComplaintRequest closes a pending complaint.
type ResolveComplaintRequest struct {
	Status models.ComplaintStatus `json:"status" validate:"required,oneof=Resolved Rejected"`
}

// ComplaintQuery mirrors supported listing filters.
type ComplaintQuery struct {
	Status       string `form:"status"`
	AssignmentID string `form:"assignmentId"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}
