package models

import "time"

// LabDivision marks whether the lab component is taught as two parallel groups.
type LabDivision string

const (
	LabDivisionYes LabDivision = "Yes"
	LabDivisionNo  LabDivision = "No"
)

// Divided reports whether the lab is split.
func (d LabDivision) Divided() bool {
	return d == LabDivisionYes
}

// NormalizeLabDivision maps an empty flag to "No".
func NormalizeLabDivision(d LabDivision) LabDivision {
	if d == LabDivisionYes {
		return LabDivisionYes
	}
	return LabDivisionNo
}

// Assignment groups the sub-assignments created by one operator for one period.
type Assignment struct {
	ID             string          `db:"id" json:"id"`
	Year           string          `db:"year" json:"year"`
	Semester       string          `db:"semester" json:"semester,omitempty"`
	Program        Program         `db:"program" json:"program"`
	AssignedBy     string          `db:"assigned_by" json:"assignedBy"`
	SubAssignments []SubAssignment `db:"-" json:"assignments"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// Period returns the scope of the aggregate.
func (a Assignment) Period() Period {
	return Period{Year: a.Year, Semester: a.Semester, Program: a.Program}
}

// SubAssignment binds one instructor to one course section.
type SubAssignment struct {
	ID            string      `db:"id" json:"id"`
	AssignmentID  string      `db:"assignment_id" json:"assignmentId"`
	Year          string      `db:"year" json:"year"`
	Semester      string      `db:"semester" json:"semester,omitempty"`
	Program       Program     `db:"program" json:"program"`
	AssignedBy    string      `db:"assigned_by" json:"assignedBy"`
	InstructorID  string      `db:"instructor_id" json:"instructorId"`
	CourseID      string      `db:"course_id" json:"courseId"`
	Section       string      `db:"section" json:"section"`
	LabDivision   LabDivision `db:"lab_division" json:"labDivision"`
	WorkloadHours float64     `db:"workload_hours" json:"workload"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// Period returns the scope of the sub-assignment.
func (s SubAssignment) Period() Period {
	return Period{Year: s.Year, Semester: s.Semester, Program: s.Program}
}

// SubAssignmentDetail enriches a sub-assignment with descriptive fields for read views.
type SubAssignmentDetail struct {
	SubAssignment
	InstructorName string `db:"instructor_name" json:"instructorName"`
	CourseCode     string `db:"course_code" json:"courseCode"`
	CourseName     string `db:"course_name" json:"courseName"`
	Chair          string `db:"chair" json:"chair"`
}

// AssignmentScope filters scope reads.
type AssignmentScope struct {
	Period
	AssignedBy string `json:"assignedBy,omitempty"`
}
