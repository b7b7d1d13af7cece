package dto

import "github.com/noah-isme/teaching-load-api/internal/models"

// CourseUpdates carries the target state of a lifecycle transition.
type CourseUpdates struct {
	Status     models.CourseStatus `json:"status"`
	AssignedTo *string             `json:"assignedTo"`
}

// CourseTransitionRequest transitions each listed course independently.
type CourseTransitionRequest struct {
	CourseIDs []string      `json:"courseIds" validate:"required,min=1,dive,required"`
	Updates   CourseUpdates `json:"updates"`
	ActionBy  string        `json:"actionBy"`
}

// CourseTransitionResult annotates one course with its outcome.
type CourseTransitionResult struct {
	CourseID string              `json:"courseId"`
	From     models.CourseStatus `json:"from,omitempty"`
	To       models.CourseStatus `json:"to"`
	Success  bool                `json:"success"`
	Error    *ItemError          `json:"error,omitempty"`
}
