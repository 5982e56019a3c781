package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

type memoryCacheRepo struct {
	items map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.items = map[string][]byte{}
	return nil
}

func TestCourseServiceReadsThroughCache(t *testing.T) {
	cacheRepo := &memoryCacheRepo{items: map[string][]byte{}}
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	repo := newMockCourseRepo(typicalCourse())
	tx, _ := newTxProviderMock(t)
	svc := NewCourseService(tx, repo, mockAccountReader{}, &mockInstructorWriter{}, cache, nil, zap.NewNop())

	_, err := svc.GetCourse(context.Background(), "idOfTypicalCourse1")
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.items, "course:idOfTypicalCourse1")

	delete(repo.courses, "idOfTypicalCourse1")
	cached, err := svc.GetCourse(context.Background(), "idOfTypicalCourse1")
	require.NoError(t, err)
	assert.Equal(t, "Typical Course 1 with 2 Evals", cached.Name)
}

func TestCourseServiceBinInvalidatesCache(t *testing.T) {
	cacheRepo := &memoryCacheRepo{items: map[string][]byte{}}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	tx, _ := newTxProviderMock(t)
	svc := NewCourseService(tx, newMockCourseRepo(typicalCourse()), mockAccountReader{}, &mockInstructorWriter{}, cache, nil, zap.NewNop())

	_, err := svc.GetCourse(context.Background(), "idOfTypicalCourse1")
	require.NoError(t, err)
	_, err = svc.MoveCourseToRecycleBin(context.Background(), "idOfTypicalCourse1")
	require.NoError(t, err)
	assert.NotContains(t, cacheRepo.items, "course:idOfTypicalCourse1")

	course, err := svc.GetCourse(context.Background(), "idOfTypicalCourse1")
	require.NoError(t, err)
	assert.True(t, course.IsSoftDeleted())
}

func TestDisabledCacheIsAlwaysMiss(t *testing.T) {
	cache := NewCacheService(&memoryCacheRepo{items: map[string][]byte{}}, nil, 0, nil, false)
	require.NoError(t, cache.Set(context.Background(), "k", models.Course{ID: "x"}, 0))
	hit, err := cache.Get(context.Background(), "k", &models.Course{})
	require.NoError(t, err)
	assert.False(t, hit)
}
