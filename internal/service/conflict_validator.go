package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type bindingChecker interface {
	ExistsInPeriod(ctx context.Context, period models.Period, instructorID, courseID, section, excludeID string) (bool, error)
}

// Candidate is one instructor/course/section binding proposed for a period.
type Candidate struct {
	Period       models.Period
	InstructorID string
	CourseID     string
	Section      string
	LabDivision  models.LabDivision
	// Hours overrides the computed course load when set.
	Hours *float64
	// ExcludeSubID names the sub-assignment being edited so it does not conflict with itself.
	ExcludeSubID string
	// KeepsCourse is set when an edit leaves the bound course unchanged; the course status is
	// then not re-checked.
	KeepsCourse bool
}

func (c Candidate) normalize() Candidate {
	c.Period = c.Period.Normalize()
	c.Section = strings.TrimSpace(c.Section)
	c.LabDivision = models.NormalizeLabDivision(c.LabDivision)
	return c
}

// Verdict carries what the validator computed for an accepted candidate.
type Verdict struct {
	Course   *models.Course
	Hours    float64
	Capacity *models.Capacity
}

// ConflictValidator gates every persist against the current committed state.
type ConflictValidator struct {
	courses  courseReader
	bindings bindingChecker
	capacity *CapacityResolver
}

// NewConflictValidator constructs the validator.
func NewConflictValidator(courses courseReader, bindings bindingChecker, capacity *CapacityResolver) *ConflictValidator {
	return &ConflictValidator{courses: courses, bindings: bindings, capacity: capacity}
}

// Validate checks, in order: the course exists and is active, the binding is not already
// taken in the period, and the instructor has room for the load.
func (v *ConflictValidator) Validate(ctx context.Context, c Candidate) (*Verdict, error) {
	c = c.normalize()
	if c.InstructorID == "" || c.CourseID == "" || c.Section == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor, course and section are required")
	}

	course, err := v.courses.FindByID(ctx, c.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !c.KeepsCourse && !course.Assignable() {
		return nil, appErrors.Clone(appErrors.ErrCourseNotAssignable, fmt.Sprintf("course %s is %s, only active courses accept instructors", course.Code, course.Status))
	}

	taken, err := v.bindings.ExistsInPeriod(ctx, c.Period, c.InstructorID, c.CourseID, c.Section, c.ExcludeSubID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing assignments")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateAssignment, fmt.Sprintf("instructor already teaches %s section %s in %s", course.Code, c.Section, c.Period))
	}

	hours := v.capacity.Policy().CourseLoad(*course, c.LabDivision)
	if c.Hours != nil {
		hours = roundHours(*c.Hours)
	}

	capacity, err := v.capacity.remaining(ctx, c.InstructorID, c.Period, c.ExcludeSubID)
	if err != nil {
		return nil, err
	}
	if !capacity.CanAccept(hours) {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, fmt.Sprintf("requires %.2fh but only %.2fh remain", hours, capacity.Remaining))
	}

	return &Verdict{Course: course, Hours: hours, Capacity: capacity}, nil
}
