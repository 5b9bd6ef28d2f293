package mocks

import (
	"calsnap/internal/models"
	"calsnap/internal/openai"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockFoodAnalyzer struct {
	mock.Mock
}

func (m *MockFoodAnalyzer) Analyze(ctx context.Context, image string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

func (m *MockFoodAnalyzer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockVisionClient struct {
	mock.Mock
}

func (m *MockVisionClient) DescribeImage(ctx context.Context, prompt, imageDataURI string, maxTokens int) (string, openai.TokenUsage, error) {
	args := m.Called(ctx, prompt, imageDataURI, maxTokens)
	return args.String(0), args.Get(1).(openai.TokenUsage), args.Error(2)
}

type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) Upload(ctx context.Context, userID, image string) (string, error) {
	args := m.Called(ctx, userID, image)
	return args.String(0), args.Error(1)
}

// MockRemoteStore stands in for the meal API on the client side.
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) ListMeals(ctx context.Context, from, to time.Time) ([]models.Meal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockRemoteStore) CreateMeal(ctx context.Context, draft models.MealDraft) (*models.Meal, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockRemoteStore) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockRemoteStore) DeleteMeal(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) GetProfile(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileStore) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.Profile, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockMealCache struct {
	mock.Mock
}

func (m *MockMealCache) LoadMeals(ctx context.Context) ([]models.Meal, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Meal), args.Bool(1), args.Error(2)
}

func (m *MockMealCache) SaveMeals(ctx context.Context, meals []models.Meal) error {
	args := m.Called(ctx, meals)
	return args.Error(0)
}
