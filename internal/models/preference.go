package models

import "time"

// Preference is an instructor's ranked course wish list for one period.
type Preference struct {
	ID           string           `db:"id" json:"id"`
	InstructorID string           `db:"instructor_id" json:"instructorId"`
	Year         string           `db:"year" json:"year"`
	Semester     string           `db:"semester" json:"semester,omitempty"`
	Program      Program          `db:"program" json:"program"`
	Items        []PreferenceItem `db:"-" json:"items"`
	SubmittedAt  time.Time        `db:"submitted_at" json:"submittedAt"`
}

// PreferenceItem ranks one course; rank 1 is most preferred.
type PreferenceItem struct {
	PreferenceID string `db:"preference_id" json:"-"`
	CourseID     string `db:"course_id" json:"courseId"`
	Rank         int    `db:"rank" json:"rank"`
}

// RankedItem is a preference item joined with its submitting instructor.
type RankedItem struct {
	InstructorID string `db:"instructor_id"`
	CourseID     string `db:"course_id"`
	Rank         int    `db:"rank"`
}
