package dto

import "github.com/noah-isme/teaching-load-api/internal/models"

// PreferenceItemRequest ranks one course.
type PreferenceItemRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Rank     int    `json:"rank" validate:"required,min=1"`
}

// SubmitPreferenceRequest replaces an instructor's preference list for a period.
type SubmitPreferenceRequest struct {
	InstructorID string                  `json:"instructorId" validate:"required"`
	Year         string                  `json:"year" validate:"required"`
	Semester     string                  `json:"semester"`
	Program      models.Program          `json:"program" validate:"required,oneof=Regular Common Extension Summer"`
	Items        []PreferenceItemRequest `json:"items" validate:"required,min=1,dive"`
}
