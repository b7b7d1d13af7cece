package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/repository"
	"github.com/noah-isme/teaching-load-api/pkg/lock"
)

// engineStore is an in-memory stand-in for the instructor, course, preference and assignment
// repositories. It enforces the same slot uniqueness the schema does.
type engineStore struct {
	mu         sync.Mutex
	profiles   map[string]*models.InstructorProfile
	courses    map[string]*models.Course
	subs       map[string]*models.SubAssignment
	aggregates map[string]string
	ranks      []models.RankedItem
	commitErrs []error
	seq        int
	// afterFindSub runs after each FindSub read, outside the mutex.
	afterFindSub func(call int)
	findSubs     int
}

func newEngineStore() *engineStore {
	return &engineStore{
		profiles:   make(map[string]*models.InstructorProfile),
		courses:    make(map[string]*models.Course),
		subs:       make(map[string]*models.SubAssignment),
		aggregates: make(map[string]string),
	}
}

func (s *engineStore) addInstructor(id string, exemption float64) {
	s.profiles[id] = &models.InstructorProfile{
		Instructor:     models.Instructor{ID: id, UserID: "user-" + id, FullName: "Instructor " + id},
		ExemptionHours: exemption,
	}
}

func (s *engineStore) addCourse(id string, lecture, lab, tutorial float64, status models.CourseStatus) {
	s.courses[id] = &models.Course{
		ID:            id,
		Code:          "C-" + id,
		Name:          "Course " + id,
		LectureHours:  lecture,
		LabHours:      lab,
		TutorialHours: tutorial,
		Status:        status,
	}
}

// seed stores a committed sub-assignment directly, bypassing validation.
func (s *engineStore) seed(period models.Period, instructorID, courseID, section string, hours float64) *models.SubAssignment {
	sub := &models.SubAssignment{
		Year:          period.Year,
		Semester:      period.Semester,
		Program:       period.Program,
		AssignedBy:    "seed",
		InstructorID:  instructorID,
		CourseID:      courseID,
		Section:       section,
		LabDivision:   models.LabDivisionNo,
		WorkloadHours: hours,
	}
	if err := s.CommitSub(context.Background(), sub); err != nil {
		panic(err)
	}
	return sub
}

func (s *engineStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *engineStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *engineStore) FindProfile(_ context.Context, id string) (*models.InstructorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *profile
	return &cp, nil
}

func (s *engineStore) FindByID(_ context.Context, id string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *course
	return &cp, nil
}

func (s *engineStore) FindByIDs(_ context.Context, ids []string) (map[string]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.Course)
	for _, id := range ids {
		if course, ok := s.courses[id]; ok {
			out[id] = *course
		}
	}
	return out, nil
}

func (s *engineStore) UpdateStatus(_ context.Context, id string, from, to models.CourseStatus, assignedTo *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok || course.Status != from {
		return repository.ErrWriteConflict
	}
	course.Status = to
	course.AssignedTo = assignedTo
	return nil
}

func (s *engineStore) ListRanks(_ context.Context, _ models.Period, _ []string) ([]models.RankedItem, error) {
	return s.ranks, nil
}

func (s *engineStore) SumWorkload(_ context.Context, instructorID string, period models.Period, excludeID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, sub := range s.subs {
		if sub.InstructorID == instructorID && sub.Period() == period && sub.ID != excludeID {
			total += sub.WorkloadHours
		}
	}
	return total, nil
}

func (s *engineStore) ExistsInPeriod(_ context.Context, period models.Period, instructorID, courseID, section, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.ID == excludeID {
			continue
		}
		if sub.Period() == period && sub.InstructorID == instructorID && sub.CourseID == courseID && sub.Section == section {
			return true, nil
		}
	}
	return false, nil
}

func (s *engineStore) slotTaken(sub *models.SubAssignment, excludeID string) bool {
	for _, other := range s.subs {
		if other.ID == excludeID {
			continue
		}
		if other.Period() == sub.Period() && other.InstructorID == sub.InstructorID && other.CourseID == sub.CourseID && other.Section == sub.Section {
			return true
		}
	}
	return false
}

func (s *engineStore) CommitSub(_ context.Context, sub *models.SubAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.commitErrs) > 0 {
		err := s.commitErrs[0]
		s.commitErrs = s.commitErrs[1:]
		if err != nil {
			return err
		}
	}
	if s.slotTaken(sub, "") {
		return repository.ErrDuplicate
	}
	scope := sub.Period().Key() + ":" + sub.AssignedBy
	aggregateID, ok := s.aggregates[scope]
	if !ok {
		aggregateID = s.nextID("agg")
		s.aggregates[scope] = aggregateID
	}
	now := time.Now().UTC()
	sub.ID = s.nextID("sub")
	sub.AssignmentID = aggregateID
	sub.CreatedAt = now
	sub.UpdatedAt = now
	cp := *sub
	s.subs[sub.ID] = &cp
	return nil
}

func (s *engineStore) ReplaceSub(_ context.Context, previous, updated *models.SubAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[previous.ID]; !ok {
		return sql.ErrNoRows
	}
	if s.slotTaken(updated, previous.ID) {
		return repository.ErrDuplicate
	}
	updated.UpdatedAt = time.Now().UTC()
	cp := *updated
	s.subs[previous.ID] = &cp
	return nil
}

func (s *engineStore) RemoveSub(_ context.Context, sub *models.SubAssignment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.ID]; !ok {
		return false, sql.ErrNoRows
	}
	delete(s.subs, sub.ID)
	for _, other := range s.subs {
		if other.AssignmentID == sub.AssignmentID {
			return false, nil
		}
	}
	for scope, id := range s.aggregates {
		if id == sub.AssignmentID {
			delete(s.aggregates, scope)
		}
	}
	return true, nil
}

func (s *engineStore) FindSub(_ context.Context, assignmentID, subID string) (*models.SubAssignment, error) {
	s.mu.Lock()
	s.findSubs++
	call := s.findSubs
	sub, ok := s.subs[subID]
	var cp models.SubAssignment
	if ok {
		cp = *sub
	}
	s.mu.Unlock()
	if s.afterFindSub != nil {
		s.afterFindSub(call)
	}
	if !ok || cp.AssignmentID != assignmentID {
		return nil, sql.ErrNoRows
	}
	return &cp, nil
}

// snapshot lists stored sub-assignments ordered by id for comparisons.
func (s *engineStore) snapshot() []models.SubAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SubAssignment, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type engine struct {
	repo      *engineStore
	resolver  *CapacityResolver
	store     *AssignmentStore
	scheduler *AssignmentScheduler
	metrics   *MetricsService
}

func newEngine(t *testing.T, repo *engineStore, policy WorkloadPolicy) *engine {
	t.Helper()
	metrics := NewMetricsService()
	resolver := NewCapacityResolver(repo, repo, policy)
	checker := NewConflictValidator(repo, repo, resolver)
	store := NewAssignmentStore(repo, checker, lock.NewMemoryLocker(time.Second), nil, nil, metrics, nil, nil, AssignmentStoreConfig{
		WriteRetries: 2,
		RetryBackoff: time.Millisecond,
	})
	scheduler := NewAssignmentScheduler(store, repo, repo, resolver, metrics, nil, nil)
	return &engine{repo: repo, resolver: resolver, store: store, scheduler: scheduler, metrics: metrics}
}

// documentedPolicy charges lecture and tutorial hours only for undivided labs, and doubles the
// lab when divided.
func documentedPolicy() WorkloadPolicy {
	p := DefaultWorkloadPolicy()
	p.LabMultiplier = 0
	return p
}

var testPeriod = models.Period{Year: "2024", Semester: "1", Program: models.ProgramRegular}
