package models

import "time"

// CourseStatus is the lifecycle state of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusAssigned  CourseStatus = "assigned"
	CourseStatusActive    CourseStatus = "active"
	CourseStatusCompleted CourseStatus = "completed"
	CourseStatusArchived  CourseStatus = "archived"
)

// Valid reports whether s is a known status.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusAssigned, CourseStatusActive, CourseStatusCompleted, CourseStatusArchived:
		return true
	}
	return false
}

// Course is a unit of teaching that can be split into sections.
type Course struct {
	ID                 string       `db:"id" json:"id"`
	Code               string       `db:"code" json:"code"`
	Name               string       `db:"name" json:"name"`
	Department         string       `db:"department" json:"department"`
	Chair              string       `db:"chair" json:"chair"`
	CurriculumYear     string       `db:"curriculum_year" json:"curriculumYear"`
	CurriculumSemester string       `db:"curriculum_semester" json:"curriculumSemester"`
	LectureHours       float64      `db:"lecture_hours" json:"lectureHours"`
	LabHours           float64      `db:"lab_hours" json:"labHours"`
	TutorialHours      float64      `db:"tutorial_hours" json:"tutorialHours"`
	CreditHours        float64      `db:"credit_hours" json:"creditHours"`
	Status             CourseStatus `db:"status" json:"status"`
	AssignedTo         *string      `db:"assigned_to" json:"assignedTo,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updatedAt"`
}

// Assignable reports whether the course may receive new sub-assignments.
func (c *Course) Assignable() bool {
	return c != nil && c.Status == CourseStatusActive
}
