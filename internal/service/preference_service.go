package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/repository"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type preferenceRepository interface {
	Replace(ctx context.Context, pref *models.Preference) error
	FindByInstructor(ctx context.Context, instructorID string, period models.Period) (*models.Preference, error)
	Delete(ctx context.Context, id string) error
}

// PreferenceService accepts ranked course preferences from instructors.
type PreferenceService struct {
	prefs       preferenceRepository
	instructors instructorReader
	audit       *AuditService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPreferenceService wires the service.
func NewPreferenceService(prefs preferenceRepository, instructors instructorReader, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{prefs: prefs, instructors: instructors, audit: audit, validator: validate, logger: logger}
}

// Submit replaces the instructor's preference list for the period.
func (s *PreferenceService) Submit(ctx context.Context, actor models.Actor, req dto.SubmitPreferenceRequest) (*models.Preference, error) {
	if err := s.validator.Struct(req); err != nil {
		if hasRankFieldError(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrPreferenceConflict.Code, appErrors.ErrPreferenceConflict.Status, "ranks must be positive integers")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	if err := checkRanks(req.Items); err != nil {
		return nil, err
	}

	profile, err := s.instructors.FindProfile(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if actor.Role == models.RoleInstructor && profile.UserID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "instructors may only submit their own preferences")
	}

	period := models.Period{Year: req.Year, Semester: req.Semester, Program: req.Program}.Normalize()
	pref := &models.Preference{
		InstructorID: req.InstructorID,
		Year:         period.Year,
		Semester:     period.Semester,
		Program:      period.Program,
		Items:        make([]models.PreferenceItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		pref.Items = append(pref.Items, models.PreferenceItem{CourseID: strings.TrimSpace(item.CourseID), Rank: item.Rank})
	}
	if err := s.prefs.Replace(ctx, pref); err != nil {
		if errors.Is(err, repository.ErrMissingReference) || errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "preference references an unknown course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store preference")
	}

	s.audit.Record(ctx, models.AuditActionPreferenceSubmit, "preference", pref.ID, pref)
	return pref, nil
}

// Get returns the instructor's current submission for the period.
func (s *PreferenceService) Get(ctx context.Context, instructorID string, q dto.PeriodQuery) (*models.Preference, error) {
	period, err := ParsePeriod(s.validator, q)
	if err != nil {
		return nil, err
	}
	pref, err := s.prefs.FindByInstructor(ctx, instructorID, period)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "preference not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preference")
	}
	return pref, nil
}

// Delete removes a submission. Only chair-level roles may delete.
func (s *PreferenceService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if !actor.Role.ChairLevel() {
		return appErrors.Clone(appErrors.ErrForbidden, "only chair-level roles may delete preferences")
	}
	if err := s.prefs.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "preference not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preference")
	}
	s.audit.Record(ctx, models.AuditActionPreferenceDelete, "preference", id, nil)
	return nil
}

func checkRanks(items []dto.PreferenceItemRequest) error {
	ranks := make(map[int]string, len(items))
	courses := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Rank < 1 {
			return appErrors.Clone(appErrors.ErrPreferenceConflict, "ranks must be positive integers")
		}
		courseID := strings.TrimSpace(item.CourseID)
		if other, dup := ranks[item.Rank]; dup {
			return appErrors.Clone(appErrors.ErrPreferenceConflict, fmt.Sprintf("rank %d given to both %s and %s", item.Rank, other, courseID))
		}
		if _, dup := courses[courseID]; dup {
			return appErrors.Clone(appErrors.ErrPreferenceConflict, fmt.Sprintf("course %s ranked more than once", courseID))
		}
		ranks[item.Rank] = courseID
		courses[courseID] = struct{}{}
	}
	return nil
}

func hasRankFieldError(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() == "Rank" {
			return true
		}
	}
	return false
}
