package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/repository"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type scopeReaderStub struct {
	calls      int
	scope      models.AssignmentScope
	aggregates []models.Assignment
}

func (s *scopeReaderStub) ListScope(_ context.Context, scope models.AssignmentScope) ([]models.Assignment, error) {
	s.calls++
	s.scope = scope
	return s.aggregates, nil
}

func (s *scopeReaderStub) ListByInstructor(_ context.Context, instructorID string) ([]models.SubAssignmentDetail, error) {
	return nil, nil
}

func (s *scopeReaderStub) ListByChair(_ context.Context, chairID string) ([]models.SubAssignmentDetail, error) {
	return []models.SubAssignmentDetail{{Chair: chairID}}, nil
}

type commitmentStub []models.Commitment

func (s commitmentStub) ListCommitments(_ context.Context, _ string) ([]models.Commitment, error) {
	return s, nil
}

func newRedisCache(t *testing.T, metrics *MetricsService) (*miniredis.Miniredis, *CacheService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewCacheService(repository.NewCacheRepository(client, nil), metrics, time.Minute, nil, true)
}

func TestScopeCacheKeys(t *testing.T) {
	scope := models.AssignmentScope{Period: testPeriod}
	assert.Equal(t, "assignments:2024:1:Regular:_all", ScopeCacheKey(scope))
	scope.AssignedBy = "op-1"
	assert.Equal(t, "assignments:2024:1:Regular:op-1", ScopeCacheKey(scope))
	assert.Equal(t, "assignments:2024:1:Regular:*", ScopeCachePattern(testPeriod))
}

func TestAssignmentQueryServiceScopeCaches(t *testing.T) {
	metrics := NewMetricsService()
	mr, cache := newRedisCache(t, metrics)
	reader := &scopeReaderStub{aggregates: []models.Assignment{{ID: "agg-1", Year: "2024", Semester: "1", Program: models.ProgramRegular, AssignedBy: "op-1"}}}
	svc := NewAssignmentQueryService(reader, commitmentStub(nil), nil, cache, nil, nil)
	q := dto.AssignmentScopeQuery{Year: "2024", Semester: "1", Program: "regular"}

	items, cached, err := svc.Scope(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, items, 1)
	assert.Equal(t, models.ProgramRegular, reader.scope.Program)
	assert.True(t, mr.Exists("assignments:2024:1:Regular:_all"))

	items, cached, err = svc.Scope(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "agg-1", items[0].ID)
	assert.Equal(t, 1, reader.calls)

	cache.InvalidatePeriod(context.Background(), testPeriod)
	assert.False(t, mr.Exists("assignments:2024:1:Regular:_all"))

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
}

func TestAssignmentStoreInvalidatesScopeCache(t *testing.T) {
	mr, cache := newRedisCache(t, nil)
	e := storeFixture(t)
	e.store.cache = cache
	require.NoError(t, mr.Set("assignments:2024:1:Regular:_all", "[]"))
	require.NoError(t, mr.Set("assignments:2023:1:Regular:_all", "[]"))

	_, err := e.store.Commit(context.Background(), commitCandidate("i1", "c1", "A"), "op-1", ModeManual)
	require.NoError(t, err)

	assert.False(t, mr.Exists("assignments:2024:1:Regular:_all"))
	assert.True(t, mr.Exists("assignments:2023:1:Regular:_all"))
}

func TestAssignmentQueryServiceValidation(t *testing.T) {
	svc := NewAssignmentQueryService(&scopeReaderStub{}, commitmentStub(nil), nil, nil, nil, nil)

	_, _, err := svc.Scope(context.Background(), dto.AssignmentScopeQuery{Program: "Regular"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, _, err = svc.Scope(context.Background(), dto.AssignmentScopeQuery{Year: "2024", Program: "Evening"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAssignmentQueryServiceInstructorCapacity(t *testing.T) {
	repo := newEngineStore()
	repo.addInstructor("i1", 2)
	repo.seed(testPeriod, "i1", "c1", "A", 4)
	resolver := NewCapacityResolver(repo, repo, DefaultWorkloadPolicy())
	commitments := commitmentStub{{InstructorID: "i1", Year: "2024", Semester: "1", Program: models.ProgramRegular, Hours: 4}}
	svc := NewAssignmentQueryService(&scopeReaderStub{}, commitments, resolver, nil, nil, nil)

	capacity, list, err := svc.InstructorCapacity(context.Background(), "i1", dto.PeriodQuery{Year: "2024", Semester: "1", Program: "Regular"})
	require.NoError(t, err)
	assert.Equal(t, 6.0, capacity.Remaining)
	assert.Len(t, list, 1)

	subs, err := svc.ByInstructor(context.Background(), "i1")
	require.NoError(t, err)
	assert.NotNil(t, subs)

	chair, err := svc.ByChair(context.Background(), "chair-1")
	require.NoError(t, err)
	assert.Equal(t, "chair-1", chair[0].Chair)
}
