package dto

import "github.com/noah-isme/teaching-load-api/internal/models"

// ItemError is the machine-readable failure attached to one item of a bulk result.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ManualAssignmentRequest submits one instructor/course/section binding.
type ManualAssignmentRequest struct {
	InstructorID string             `json:"instructorId" validate:"required"`
	CourseID     string             `json:"courseId" validate:"required"`
	Year         string             `json:"year" validate:"required"`
	Semester     string             `json:"semester"`
	Program      models.Program     `json:"program" validate:"required,oneof=Regular Common Extension Summer"`
	Section      string             `json:"section" validate:"required"`
	LabDivision  models.LabDivision `json:"labDivision" validate:"omitempty,oneof=Yes No"`
	Workload     float64            `json:"workload" validate:"omitempty,min=0"`
	AssignedBy   string             `json:"assignedBy" validate:"required"`
}

// AutoCourseRequest is one course entry of an automatic request.
type AutoCourseRequest struct {
	CourseID    string             `json:"courseId" validate:"required"`
	Section     string             `json:"section" validate:"required_without=Sections"`
	Sections    []string           `json:"sections" validate:"omitempty,dive,required"`
	LabDivision models.LabDivision `json:"labDivision" validate:"omitempty,oneof=Yes No"`
}

// AutoAssignmentRequest asks the scheduler to staff a course set from an instructor set.
type AutoAssignmentRequest struct {
	Year        string              `json:"year" validate:"required"`
	Semester    string              `json:"semester"`
	Program     models.Program      `json:"-"`
	AssignedBy  string              `json:"assignedBy" validate:"required"`
	Instructors []string            `json:"instructors" validate:"required,min=1,dive,required"`
	Courses     []AutoCourseRequest `json:"courses" validate:"required,min=1,dive"`
}

// UnfilledSlot reports a course section no instructor could take.
type UnfilledSlot struct {
	CourseID    string             `json:"courseId"`
	Section     string             `json:"section"`
	LabDivision models.LabDivision `json:"labDivision"`
	Reason      *ItemError         `json:"reason,omitempty"`
}

// AutoAssignmentResponse lists committed sub-assignments and slots left open.
type AutoAssignmentResponse struct {
	AssignmentID string                 `json:"assignmentId,omitempty"`
	Committed    []models.SubAssignment `json:"committed"`
	Unfilled     []UnfilledSlot         `json:"unfilled"`
}

// BulkAssignmentRow is one row of a bulk manual request.
type BulkAssignmentRow struct {
	InstructorID string             `json:"instructorId" validate:"required"`
	CourseID     string             `json:"courseId" validate:"required"`
	Section      string             `json:"section" validate:"required"`
	LabDivision  models.LabDivision `json:"labDivision" validate:"omitempty,oneof=Yes No"`
}

// BulkAssignmentRequest carries rows validated and committed independently.
type BulkAssignmentRequest struct {
	Assignments []BulkAssignmentRow `json:"assignments" validate:"required,min=1"`
	Year        string              `json:"year" validate:"required"`
	Semester    string              `json:"semester"`
	Program     models.Program      `json:"program"`
	AssignedBy  string              `json:"assignedBy" validate:"required"`
}

// AssignmentRowResult annotates one bulk row with its outcome.
type AssignmentRowResult struct {
	Index         int                   `json:"index"`
	InstructorID  string                `json:"instructorId"`
	CourseID      string                `json:"courseId"`
	Section       string                `json:"section"`
	Success       bool                  `json:"success"`
	SubAssignment *models.SubAssignment `json:"subAssignment,omitempty"`
	Error         *ItemError            `json:"error,omitempty"`
}

// UpdateSubAssignmentRequest edits one sub-assignment; omitted fields keep their value.
type UpdateSubAssignmentRequest struct {
	InstructorID *string             `json:"instructorId" validate:"omitempty,min=1"`
	CourseID     *string             `json:"courseId" validate:"omitempty,min=1"`
	Section      *string             `json:"section" validate:"omitempty,min=1"`
	LabDivision  *models.LabDivision `json:"labDivision" validate:"omitempty,oneof=Yes No"`
}

// AssignmentScopeQuery filters aggregate reads.
type AssignmentScopeQuery struct {
	Year       string `form:"year" validate:"required"`
	Semester   string `form:"semester"`
	Program    string `form:"program" validate:"required"`
	AssignedBy string `form:"assignedBy"`
}

// PeriodQuery selects one period from query parameters.
type PeriodQuery struct {
	Year     string `form:"year" validate:"required"`
	Semester string `form:"semester"`
	Program  string `form:"program" validate:"required"`
}
