package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type courseBatchReader interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Course, error)
}

type rankReader interface {
	ListRanks(ctx context.Context, period models.Period, instructorIDs []string) ([]models.RankedItem, error)
}

type subCommitter interface {
	Commit(ctx context.Context, c Candidate, assignedBy, mode string) (*models.SubAssignment, error)
}

type capacityLookup interface {
	Remaining(ctx context.Context, instructorID string, period models.Period) (*models.Capacity, error)
}

// AssignmentScheduler runs manual, bulk manual and automatic assignment requests.
type AssignmentScheduler struct {
	store     subCommitter
	courses   courseBatchReader
	ranks     rankReader
	capacity  capacityLookup
	matcher   PreferenceMatcher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentScheduler wires the scheduler.
func NewAssignmentScheduler(
	store subCommitter,
	courses courseBatchReader,
	ranks rankReader,
	capacity capacityLookup,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentScheduler {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentScheduler{
		store:     store,
		courses:   courses,
		ranks:     ranks,
		capacity:  capacity,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// AssignManual validates and persists a single binding, returning the violated rule on failure.
func (s *AssignmentScheduler) AssignManual(ctx context.Context, req dto.ManualAssignmentRequest) (*models.SubAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	c := Candidate{
		Period:       models.Period{Year: req.Year, Semester: req.Semester, Program: req.Program},
		InstructorID: req.InstructorID,
		CourseID:     req.CourseID,
		Section:      req.Section,
		LabDivision:  req.LabDivision,
	}
	if req.Workload > 0 {
		hours := req.Workload
		c.Hours = &hours
	}
	return s.store.Commit(ctx, c, req.AssignedBy, ModeManual)
}

// AssignBulk commits each row independently in input order; a failing row never blocks the rest.
func (s *AssignmentScheduler) AssignBulk(ctx context.Context, program models.Program, req dto.BulkAssignmentRequest) ([]dto.AssignmentRowResult, error) {
	if req.Program != "" && req.Program != program {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payload program does not match endpoint")
	}
	req.Program = program
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk assignment payload")
	}

	period := models.Period{Year: req.Year, Semester: req.Semester, Program: program}
	results := make([]dto.AssignmentRowResult, 0, len(req.Assignments))
	for i, row := range req.Assignments {
		result := dto.AssignmentRowResult{
			Index:        i,
			InstructorID: row.InstructorID,
			CourseID:     row.CourseID,
			Section:      row.Section,
		}
		if err := s.validator.Struct(row); err != nil {
			result.Error = toItemError(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid row"))
			results = append(results, result)
			continue
		}
		sub, err := s.store.Commit(ctx, Candidate{
			Period:       period,
			InstructorID: row.InstructorID,
			CourseID:     row.CourseID,
			Section:      row.Section,
			LabDivision:  row.LabDivision,
		}, req.AssignedBy, ModeBulk)
		if err != nil {
			result.Error = toItemError(err)
		} else {
			result.Success = true
			result.SubAssignment = sub
		}
		results = append(results, result)
	}
	return results, nil
}

// AutoAssign staffs the requested slots greedily from the candidate order produced by the
// preference matcher. Each commit is visible to later candidates of the same pass.
func (s *AssignmentScheduler) AutoAssign(ctx context.Context, req dto.AutoAssignmentRequest) (*dto.AutoAssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid automatic assignment payload")
	}
	if req.Program == "" {
		req.Program = models.ProgramRegular
	}
	period := models.Period{Year: req.Year, Semester: req.Semester, Program: req.Program}.Normalize()

	slots := expandSlots(req.Courses)
	reasons := make([]*dto.ItemError, len(slots))
	open := s.openSlots(ctx, slots, reasons)

	instructors := s.matchInstructors(ctx, period, uniqueIDs(req.Instructors))

	resp := &dto.AutoAssignmentResponse{Committed: []models.SubAssignment{}, Unfilled: []dto.UnfilledSlot{}}
	filled := make([]bool, len(slots))
	if len(open) > 0 && len(instructors) > 0 {
		ids := make([]string, len(instructors))
		for i, inst := range instructors {
			ids[i] = inst.ID
		}
		items, err := s.ranks.ListRanks(ctx, period, ids)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
		}

		openSlots := make([]Slot, len(open))
		for i, idx := range open {
			openSlots[i] = slots[idx]
		}
		for _, pair := range s.matcher.Order(instructors, openSlots, NewRankTable(items)) {
			idx := open[pair.Slot]
			if filled[idx] {
				continue
			}
			slot := slots[idx]
			sub, err := s.store.Commit(ctx, Candidate{
				Period:       period,
				InstructorID: instructors[pair.Instructor].ID,
				CourseID:     slot.CourseID,
				Section:      slot.Section,
				LabDivision:  slot.LabDivision,
			}, req.AssignedBy, ModeAuto)
			if err != nil {
				reasons[idx] = toItemError(err)
				continue
			}
			filled[idx] = true
			resp.Committed = append(resp.Committed, *sub)
		}
	}

	for i, slot := range slots {
		if filled[i] {
			continue
		}
		resp.Unfilled = append(resp.Unfilled, dto.UnfilledSlot{
			CourseID:    slot.CourseID,
			Section:     slot.Section,
			LabDivision: slot.LabDivision,
			Reason:      firstReason(reasons[i], len(instructors) == 0),
		})
	}
	if len(resp.Committed) > 0 {
		resp.AssignmentID = resp.Committed[0].AssignmentID
	}
	s.metrics.SlotsUnfilled(len(resp.Unfilled))
	s.logger.Info("automatic assignment finished",
		zap.String("period", period.String()),
		zap.String("assigned_by", req.AssignedBy),
		zap.Int("slots", len(slots)),
		zap.Int("committed", len(resp.Committed)),
		zap.Int("unfilled", len(resp.Unfilled)),
	)
	return resp, nil
}

// openSlots drops slots whose course is missing or not active, recording why, and returns the
// indexes of the slots left to staff.
func (s *AssignmentScheduler) openSlots(ctx context.Context, slots []Slot, reasons []*dto.ItemError) []int {
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.CourseID)
	}
	courses, err := s.courses.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		s.logger.Warn("course prefetch failed, validating per candidate", zap.Error(err))
		open := make([]int, len(slots))
		for i := range slots {
			open[i] = i
		}
		return open
	}

	open := make([]int, 0, len(slots))
	for i, slot := range slots {
		course, ok := courses[slot.CourseID]
		switch {
		case !ok:
			reasons[i] = toItemError(appErrors.Clone(appErrors.ErrNotFound, "course not found"))
		case !course.Assignable():
			reasons[i] = toItemError(appErrors.Clone(appErrors.ErrCourseNotAssignable, "course "+course.Code+" is "+string(course.Status)))
			s.metrics.AssignmentRejected(appErrors.ErrCourseNotAssignable.Code)
		default:
			open = append(open, i)
		}
	}
	return open
}

// matchInstructors resolves starting capacity; unknown instructors are left out of the pass.
func (s *AssignmentScheduler) matchInstructors(ctx context.Context, period models.Period, ids []string) []MatchInstructor {
	out := make([]MatchInstructor, 0, len(ids))
	for _, id := range ids {
		capacity, err := s.capacity.Remaining(ctx, id, period)
		if err != nil {
			s.logger.Warn("instructor excluded from automatic assignment", zap.String("instructor_id", id), zap.Error(err))
			continue
		}
		out = append(out, MatchInstructor{ID: id, Remaining: capacity.Remaining})
	}
	return out
}

// expandSlots yields one slot per (course, section) in request order, first occurrence wins.
func expandSlots(courses []dto.AutoCourseRequest) []Slot {
	seen := make(map[string]struct{})
	var slots []Slot
	for _, course := range courses {
		sections := make([]string, 0, len(course.Sections)+1)
		if course.Section != "" {
			sections = append(sections, course.Section)
		}
		sections = append(sections, course.Sections...)
		for _, section := range sections {
			section = strings.TrimSpace(section)
			if section == "" {
				continue
			}
			key := course.CourseID + "\x00" + section
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			slots = append(slots, Slot{
				CourseID:    course.CourseID,
				Section:     section,
				LabDivision: models.NormalizeLabDivision(course.LabDivision),
			})
		}
	}
	return slots
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstReason(reason *dto.ItemError, noInstructors bool) *dto.ItemError {
	if reason != nil {
		return reason
	}
	if noInstructors {
		return &dto.ItemError{Code: appErrors.ErrNotFound.Code, Message: "no eligible instructors"}
	}
	return &dto.ItemError{Code: appErrors.ErrCapacityExceeded.Code, Message: "no instructor could accept this slot"}
}
