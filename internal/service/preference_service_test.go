package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/repository"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type preferenceStoreStub struct {
	saved      map[string]*models.Preference
	deleted    []string
	replaceErr error
}

func newPreferenceStoreStub() *preferenceStoreStub {
	return &preferenceStoreStub{saved: make(map[string]*models.Preference)}
}

func (s *preferenceStoreStub) Replace(_ context.Context, pref *models.Preference) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	pref.ID = "pref-" + pref.InstructorID
	s.saved[pref.InstructorID+"|"+pref.Year+"|"+pref.Semester+"|"+string(pref.Program)] = pref
	return nil
}

func (s *preferenceStoreStub) FindByInstructor(_ context.Context, instructorID string, period models.Period) (*models.Preference, error) {
	pref, ok := s.saved[instructorID+"|"+period.Year+"|"+period.Semester+"|"+string(period.Program)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return pref, nil
}

func (s *preferenceStoreStub) Delete(_ context.Context, id string) error {
	for key, pref := range s.saved {
		if pref.ID == id {
			delete(s.saved, key)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

func preferenceFixture() (*preferenceStoreStub, *PreferenceService) {
	instructors := newEngineStore()
	instructors.addInstructor("i1", 0)
	prefs := newPreferenceStoreStub()
	return prefs, NewPreferenceService(prefs, instructors, nil, nil, nil)
}

func submitRequest(items ...dto.PreferenceItemRequest) dto.SubmitPreferenceRequest {
	return dto.SubmitPreferenceRequest{
		InstructorID: "i1",
		Year:         "2024",
		Semester:     "1",
		Program:      models.ProgramRegular,
		Items:        items,
	}
}

func TestPreferenceServiceSubmitAndGet(t *testing.T) {
	_, svc := preferenceFixture()
	ctx := context.Background()
	owner := models.Actor{ID: "user-i1", Role: models.RoleInstructor}

	pref, err := svc.Submit(ctx, owner, submitRequest(
		dto.PreferenceItemRequest{CourseID: "c1", Rank: 2},
		dto.PreferenceItemRequest{CourseID: " c2 ", Rank: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "pref-i1", pref.ID)
	require.Len(t, pref.Items, 2)
	assert.Equal(t, "c2", pref.Items[1].CourseID)

	got, err := svc.Get(ctx, "i1", dto.PeriodQuery{Year: "2024", Semester: "1", Program: "regular"})
	require.NoError(t, err)
	assert.Equal(t, pref, got)

	_, err = svc.Get(ctx, "i1", dto.PeriodQuery{Year: "2025", Program: "Regular"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPreferenceServiceRejectsMalformedRanks(t *testing.T) {
	_, svc := preferenceFixture()
	faculty := models.Actor{ID: "dean", Role: models.RoleFaculty}

	tests := []struct {
		name  string
		items []dto.PreferenceItemRequest
	}{
		{name: "duplicate rank", items: []dto.PreferenceItemRequest{{CourseID: "c1", Rank: 1}, {CourseID: "c2", Rank: 1}}},
		{name: "duplicate course", items: []dto.PreferenceItemRequest{{CourseID: "c1", Rank: 1}, {CourseID: "c1", Rank: 2}}},
		{name: "zero rank", items: []dto.PreferenceItemRequest{{CourseID: "c1", Rank: 0}}},
		{name: "negative rank", items: []dto.PreferenceItemRequest{{CourseID: "c1", Rank: -3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), faculty, submitRequest(tc.items...))
			assert.ErrorIs(t, err, appErrors.ErrPreferenceConflict)
		})
	}
}

func TestPreferenceServiceSubmitAuthorization(t *testing.T) {
	_, svc := preferenceFixture()
	item := dto.PreferenceItemRequest{CourseID: "c1", Rank: 1}

	_, err := svc.Submit(context.Background(), models.Actor{ID: "someone-else", Role: models.RoleInstructor}, submitRequest(item))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	req := submitRequest(item)
	req.InstructorID = "ghost"
	_, err = svc.Submit(context.Background(), models.Actor{ID: "dean", Role: models.RoleFaculty}, req)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPreferenceServiceDelete(t *testing.T) {
	prefs, svc := preferenceFixture()
	ctx := context.Background()
	pref, err := svc.Submit(ctx, models.Actor{ID: "dean", Role: models.RoleFaculty}, submitRequest(dto.PreferenceItemRequest{CourseID: "c1", Rank: 1}))
	require.NoError(t, err)

	err = svc.Delete(ctx, models.Actor{ID: "user-i1", Role: models.RoleInstructor}, pref.ID)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, models.Actor{ID: "chair-1", Role: models.RoleChair}, pref.ID))
	assert.Equal(t, []string{pref.ID}, prefs.deleted)

	err = svc.Delete(ctx, models.Actor{ID: "chair-1", Role: models.RoleChair}, pref.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPreferenceServiceSubmitUnknownCourse(t *testing.T) {
	prefs, svc := preferenceFixture()
	faculty := models.Actor{ID: "dean", Role: models.RoleFaculty}
	req := submitRequest(dto.PreferenceItemRequest{CourseID: "c-missing", Rank: 1})

	tests := []struct {
		name string
		err  error
	}{
		{name: "foreign key violation", err: fmt.Errorf("insert preference item for course c-missing: %w", repository.ErrMissingReference)},
		{name: "malformed course id", err: fmt.Errorf("insert preference item for course c-missing: %w", sql.ErrNoRows)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prefs.replaceErr = tc.err
			_, err := svc.Submit(context.Background(), faculty, req)
			assert.ErrorIs(t, err, appErrors.ErrNotFound)
		})
	}

	prefs.replaceErr = errors.New("connection reset")
	_, err := svc.Submit(context.Background(), faculty, req)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
