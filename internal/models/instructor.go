package models

import "time"

// Position is an administrative role that reduces nominal teaching capacity.
type Position struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	ExemptionHours float64   `db:"exemption_hours" json:"exemptionHours"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Instructor is a staff member who can receive sub-assignments.
type Instructor struct {
	ID          string       `db:"id" json:"id"`
	UserID      string       `db:"user_id" json:"userId"`
	FullName    string       `db:"full_name" json:"fullName"`
	PositionID  *string      `db:"position_id" json:"positionId,omitempty"`
	Location    string       `db:"location" json:"location"`
	Commitments []Commitment `db:"-" json:"commitments"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

// InstructorProfile joins an instructor with the exemption of their position.
type InstructorProfile struct {
	Instructor
	PositionName   *string `db:"position_name" json:"positionName,omitempty"`
	ExemptionHours float64 `db:"exemption_hours" json:"exemptionHours"`
}

// Commitment is the workload an instructor has taken on in one period.
type Commitment struct {
	InstructorID string    `db:"instructor_id" json:"instructorId"`
	Year         string    `db:"year" json:"year"`
	Semester     string    `db:"semester" json:"semester,omitempty"`
	Program      Program   `db:"program" json:"program"`
	Hours        float64   `db:"hours" json:"hours"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Period returns the scope of the commitment.
func (c Commitment) Period() Period {
	return Period{Year: c.Year, Semester: c.Semester, Program: c.Program}
}

// Capacity describes how many hours an instructor can still take on in a period.
type Capacity struct {
	InstructorID   string  `json:"instructorId"`
	Period         Period  `json:"period"`
	BaseHours      float64 `json:"baseHours"`
	ExemptionHours float64 `json:"exemptionHours"`
	Capacity       float64 `json:"capacity"`
	Committed      float64 `json:"committed"`
	Remaining      float64 `json:"remaining"`
}

// CanAccept reports whether hours fit into the remaining capacity.
func (c Capacity) CanAccept(hours float64) bool {
	return c.Remaining > 0 && c.Remaining >= hours
}
