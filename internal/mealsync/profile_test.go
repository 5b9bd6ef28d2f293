package mealsync

import (
	"calsnap/internal/mocks"
	"calsnap/internal/models"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileTracker_DefaultGoal(t *testing.T) {
	p := NewProfileTracker(new(mocks.MockProfileStore), testUser)

	assert.Nil(t, p.Profile())
	assert.True(t, p.Loading())
	assert.Equal(t, models.DefaultDailyCalorieGoal, p.CalorieGoal())
}

func TestProfileTracker_GoalRoundTrip(t *testing.T) {
	store := new(mocks.MockProfileStore)
	goal := 1800
	before := &models.Profile{ID: testUser, DailyCalorieGoal: 2000}
	after := &models.Profile{ID: testUser, DailyCalorieGoal: goal}

	store.On("GetProfile", mock.Anything).Return(before, nil).Once()
	store.On("UpdateProfile", mock.Anything, models.ProfilePatch{DailyCalorieGoal: &goal}).Return(after, nil)
	store.On("GetProfile", mock.Anything).Return(after, nil).Once()

	p := NewProfileTracker(store, testUser)
	require.NoError(t, p.Fetch(context.Background()))
	assert.Equal(t, 2000, p.CalorieGoal())
	assert.False(t, p.Loading())

	updated, err := p.UpdateCalorieGoal(context.Background(), goal)
	require.NoError(t, err)
	assert.Equal(t, goal, updated.DailyCalorieGoal)
	assert.Equal(t, goal, p.CalorieGoal())

	require.NoError(t, p.Fetch(context.Background()))
	assert.Equal(t, goal, p.CalorieGoal())
	store.AssertExpectations(t)
}

func TestProfileTracker_FetchFailureKeepsProfile(t *testing.T) {
	store := new(mocks.MockProfileStore)
	store.On("GetProfile", mock.Anything).Return(&models.Profile{ID: testUser, DailyCalorieGoal: 1500}, nil).Once()
	store.On("GetProfile", mock.Anything).Return(nil, errors.New("offline")).Once()

	p := NewProfileTracker(store, testUser)
	require.NoError(t, p.Fetch(context.Background()))

	err := p.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrRemoteStore)
	assert.Equal(t, 1500, p.CalorieGoal())
}

func TestProfileTracker_UpdateErrors(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		goal      int
		setupMock func(*mocks.MockProfileStore)
		wantErr   error
	}{
		{
			name:    "no user",
			userID:  "",
			goal:    1800,
			wantErr: ErrNotAuthenticated,
		},
		{
			name:    "zero goal",
			userID:  testUser,
			goal:    0,
			wantErr: ErrInvalidGoal,
		},
		{
			name:   "store failure",
			userID: testUser,
			goal:   1800,
			setupMock: func(m *mocks.MockProfileStore) {
				m.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
			},
			wantErr: ErrRemoteStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockProfileStore)
			if tt.setupMock != nil {
				tt.setupMock(store)
			}
			p := NewProfileTracker(store, tt.userID)

			_, err := p.UpdateCalorieGoal(context.Background(), tt.goal)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p.Profile())
		})
	}
}

func TestProfileTracker_StoreErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	store := new(mocks.MockProfileStore)
	store.On("GetProfile", mock.Anything).Return(nil, cause)
	store.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil, cause)
	p := NewProfileTracker(store, testUser)

	err := p.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrRemoteStore)
	assert.ErrorIs(t, err, cause)

	_, err = p.UpdateCalorieGoal(context.Background(), 1800)
	assert.ErrorIs(t, err, ErrRemoteStore)
	assert.ErrorIs(t, err, cause)
}

func TestProfileTracker_FetchWithoutUser(t *testing.T) {
	store := new(mocks.MockProfileStore)
	p := NewProfileTracker(store, "")

	require.NoError(t, p.Fetch(context.Background()))
	assert.False(t, p.Loading())
	store.AssertNotCalled(t, "GetProfile", mock.Anything)
}
