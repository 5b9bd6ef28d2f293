package mealsync

import (
	"calsnap/internal/apiclient"
	"calsnap/internal/mocks"
	"calsnap/internal/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUser = "0d3e1c52-7f8a-4a55-b3c4-0a9b8c7d6e5f"

var testDay = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

type memCache struct {
	meals   []models.Meal
	found   bool
	loadErr error
	saveErr error
	saves   int
}

func (c *memCache) LoadMeals(ctx context.Context) ([]models.Meal, bool, error) {
	return c.meals, c.found, c.loadErr
}

func (c *memCache) SaveMeals(ctx context.Context, meals []models.Meal) error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	c.meals = meals
	c.found = true
	return nil
}

func newTestTracker(remote RemoteStore, cache Cache) *Tracker {
	tr := NewTracker(remote, cache, testUser, testDay)
	tr.now = func() time.Time { return testDay }
	return tr
}

func meal(id, food string, calories int, loggedAt time.Time) models.Meal {
	return models.Meal{
		ID:       id,
		UserID:   testUser,
		FoodName: food,
		Calories: calories,
		MealType: models.Lunch,
		LoggedAt: loggedAt,
	}
}

func ids(meals []models.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.ID
	}
	return out
}

func expectList(remote *mocks.MockRemoteStore, meals []models.Meal, err error) *mock.Call {
	window := DayOf(testDay)
	return remote.On("ListMeals", mock.Anything, window.Start, window.End).Return(meals, err)
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	w := DayOf(time.Date(2024, 3, 10, 23, 59, 0, 0, loc))

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), w.End)
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End))
	assert.True(t, w.Contains(w.End.Add(-time.Nanosecond)))
}

func TestLoad_CacheThenRemote(t *testing.T) {
	cached := []models.Meal{meal("cached", "toast", 120, testDay)}
	fresh := []models.Meal{
		meal("b", "rice", 300, testDay),
		meal("a", "egg", 80, testDay.Add(-time.Hour)),
	}
	cache := &memCache{meals: cached, found: true}
	remote := new(mocks.MockRemoteStore)
	tr := newTestTracker(remote, cache)

	assert.True(t, tr.Loading())

	expectList(remote, fresh, nil).Run(func(args mock.Arguments) {
		assert.Equal(t, []string{"cached"}, ids(tr.Meals()))
		assert.True(t, tr.Loading())
	}).Once()

	require.NoError(t, tr.Load(context.Background()))
	assert.Equal(t, []string{"b", "a"}, ids(tr.Meals()))
	assert.Equal(t, fresh, cache.meals)
	assert.False(t, tr.Loading())
	remote.AssertExpectations(t)
}

func TestLoad_FetchFailureKeepsMemory(t *testing.T) {
	cached := []models.Meal{meal("cached", "toast", 120, testDay)}
	cache := &memCache{meals: cached, found: true}
	remote := new(mocks.MockRemoteStore)
	expectList(remote, nil, errors.New("connection refused"))
	tr := newTestTracker(remote, cache)

	err := tr.Load(context.Background())

	assert.ErrorIs(t, err, ErrRemoteStore)
	assert.Equal(t, cached, tr.Meals())
	assert.Equal(t, 0, cache.saves)
	assert.False(t, tr.Loading())
}

func TestLoad_CorruptCacheIgnored(t *testing.T) {
	cache := &memCache{loadErr: errors.New("failed to unmarshal cached meals")}
	remote := new(mocks.MockRemoteStore)
	expectList(remote, []models.Meal{meal("a", "egg", 80, testDay)}, nil)
	tr := newTestTracker(remote, cache)

	require.NoError(t, tr.Load(context.Background()))
	assert.Equal(t, []string{"a"}, ids(tr.Meals()))
}

func TestLoad_CacheReadOnlyOnFirstActivation(t *testing.T) {
	cache := new(mocks.MockMealCache)
	cache.On("LoadMeals", mock.Anything).Return(nil, false, nil).Once()
	cache.On("SaveMeals", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	remote := new(mocks.MockRemoteStore)
	expectList(remote, []models.Meal{}, nil)
	tr := newTestTracker(remote, cache)

	require.NoError(t, tr.Load(context.Background()))
	require.NoError(t, tr.Load(context.Background()))

	cache.AssertNumberOfCalls(t, "LoadMeals", 1)
	cache.AssertNumberOfCalls(t, "SaveMeals", 2)
	remote.AssertNumberOfCalls(t, "ListMeals", 2)
}

func TestLoad_NoUserClearsWithoutFetching(t *testing.T) {
	cache := &memCache{meals: []models.Meal{meal("cached", "toast", 120, testDay)}, found: true}
	remote := new(mocks.MockRemoteStore)
	tr := NewTracker(remote, cache, "", testDay)

	require.NoError(t, tr.Load(context.Background()))

	assert.Empty(t, tr.Meals())
	assert.False(t, tr.Loading())
	remote.AssertNotCalled(t, "ListMeals", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMeal_ReplacesPlaceholder(t *testing.T) {
	existing := meal("a", "egg", 80, testDay.Add(-time.Hour))
	created := meal("11111111-1111-1111-1111-111111111111", "apple", 95, testDay)
	draft := models.MealDraft{FoodName: "apple", Calories: 95, MealType: models.Lunch}

	remote := new(mocks.MockRemoteStore)
	tr := newTestTracker(remote, nil)
	tr.meals = []models.Meal{existing}

	remote.On("CreateMeal", mock.Anything, draft).Return(&created, nil).Run(func(args mock.Arguments) {
		meals := tr.Meals()
		require.Len(t, meals, 2)
		assert.True(t, models.IsTempID(meals[0].ID))
		assert.Equal(t, "apple", meals[0].FoodName)
		assert.Equal(t, testUser, meals[0].UserID)
		assert.Equal(t, testDay, meals[0].CreatedAt)
		assert.Equal(t, "a", meals[1].ID)
	}).Once()
	expectList(remote, []models.Meal{created, existing}, nil).Once()

	got, err := tr.AddMeal(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{created.ID, "a"}, ids(tr.Meals()))
	for _, m := range tr.Meals() {
		assert.False(t, models.IsTempID(m.ID))
	}
	assert.Empty(t, tr.pending)
	remote.AssertExpectations(t)
}

func TestAddMeal_FailureRestoresPreviousState(t *testing.T) {
	before := []models.Meal{
		meal("b", "rice", 300, testDay),
		meal("a", "egg", 80, testDay.Add(-time.Hour)),
	}
	draft := models.MealDraft{FoodName: "apple", Calories: 95, MealType: models.Snack}

	remote := new(mocks.MockRemoteStore)
	remote.On("CreateMeal", mock.Anything, draft).Return(nil, errors.New("insert rejected"))
	tr := newTestTracker(remote, nil)
	tr.meals = append([]models.Meal(nil), before...)

	got, err := tr.AddMeal(context.Background(), draft)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrRemoteStore)
	assert.Equal(t, before, tr.Meals())
	assert.Empty(t, tr.pending)
	remote.AssertNotCalled(t, "ListMeals", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMeal_RefetchFailureIsNotReturned(t *testing.T) {
	created := meal("11111111-1111-1111-1111-111111111111", "apple", 95, testDay)
	draft := models.MealDraft{FoodName: "apple", Calories: 95, MealType: models.Lunch}

	remote := new(mocks.MockRemoteStore)
	remote.On("CreateMeal", mock.Anything, draft).Return(&created, nil)
	expectList(remote, nil, errors.New("timeout"))
	tr := newTestTracker(remote, nil)

	got, err := tr.AddMeal(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{created.ID}, ids(tr.Meals()))
}

func TestAddMeal_FetchDuringPendingKeepsPlaceholder(t *testing.T) {
	existing := meal("a", "egg", 80, testDay.Add(-time.Hour))
	created := meal("11111111-1111-1111-1111-111111111111", "apple", 95, testDay)
	draft := models.MealDraft{FoodName: "apple", Calories: 95, MealType: models.Lunch}

	remote := new(mocks.MockRemoteStore)
	tr := newTestTracker(remote, nil)

	expectList(remote, []models.Meal{existing}, nil).Once()
	remote.On("CreateMeal", mock.Anything, draft).Return(&created, nil).Run(func(args mock.Arguments) {
		require.NoError(t, tr.Refetch(context.Background()))
		meals := tr.Meals()
		require.Len(t, meals, 2)
		assert.True(t, models.IsTempID(meals[0].ID))
		assert.Equal(t, "a", meals[1].ID)
	}).Once()
	expectList(remote, []models.Meal{created, existing}, nil).Once()

	_, err := tr.AddMeal(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, []string{created.ID, "a"}, ids(tr.Meals()))
}

func TestAddMeal_ConfirmedRecordAlreadyFetched(t *testing.T) {
	created := meal("11111111-1111-1111-1111-111111111111", "apple", 95, testDay)
	draft := models.MealDraft{FoodName: "apple", Calories: 95, MealType: models.Lunch}

	remote := new(mocks.MockRemoteStore)
	tr := newTestTracker(remote, nil)

	// The reconciling fetch already carries the stored record.
	expectList(remote, []models.Meal{created}, nil)
	remote.On("CreateMeal", mock.Anything, draft).Return(&created, nil).Run(func(args mock.Arguments) {
		require.NoError(t, tr.Refetch(context.Background()))
		assert.Len(t, tr.Meals(), 2)
	}).Once()

	_, err := tr.AddMeal(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, ids(tr.Meals()))
}

func TestAddMeal_NotAuthenticated(t *testing.T) {
	remote := new(mocks.MockRemoteStore)
	tr := NewTracker(remote, nil, "", testDay)

	_, err := tr.AddMeal(context.Background(), models.MealDraft{FoodName: "apple", MealType: models.Snack})

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, tr.Meals())
	remote.AssertNotCalled(t, "CreateMeal", mock.Anything, mock.Anything)
}

func TestAddMeal_NotAuthenticatedBeforeValidation(t *testing.T) {
	remote := new(mocks.MockRemoteStore)
	tr := NewTracker(remote, nil, "", testDay)

	_, err := tr.AddMeal(context.Background(), models.MealDraft{FoodName: " ", Calories: -5, MealType: "brunch"})

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.NotErrorIs(t, err, ErrInvalidMeal)
	remote.AssertNotCalled(t, "CreateMeal", mock.Anything, mock.Anything)
}

func TestAddMeal_InvalidDraft(t *testing.T) {
	remote := new(mocks.MockRemoteStore)
	tr := newTestTracker(remote, nil)

	_, err := tr.AddMeal(context.Background(), models.MealDraft{FoodName: "apple", MealType: "brunch"})

	assert.ErrorIs(t, err, ErrInvalidMeal)
	assert.Empty(t, tr.Meals())
	remote.AssertNotCalled(t, "CreateMeal", mock.Anything, mock.Anything)
}

func TestUpdateMeal(t *testing.T) {
	calories := 150
	patch := models.MealPatch{Calories: &calories}
	original := meal("a", "egg", 80, testDay)
	updated := original
	updated.Calories = 150

	t.Run("success replaces record", func(t *testing.T) {
		remote := new(mocks.MockRemoteStore)
		remote.On("UpdateMeal", mock.Anything, "a", patch).Return(&updated, nil)
		expectList(remote, []models.Meal{updated}, nil)
		tr := newTestTracker(remote, nil)
		tr.meals = []models.Meal{original}

		got, err := tr.UpdateMeal(context.Background(), "a", patch)

		require.NoError(t, err)
		assert.Equal(t, 150, got.Calories)
		assert.Equal(t, 150, tr.Meals()[0].Calories)
		remote.AssertExpectations(t)
	})

	t.Run("failure leaves state untouched", func(t *testing.T) {
		remote := new(mocks.MockRemoteStore)
		remote.On("UpdateMeal", mock.Anything, "a", patch).Return(nil, errors.New("not found"))
		tr := newTestTracker(remote, nil)
		tr.meals = []models.Meal{original}

		_, err := tr.UpdateMeal(context.Background(), "a", patch)

		assert.ErrorIs(t, err, ErrRemoteStore)
		assert.Equal(t, []models.Meal{original}, tr.Meals())
		remote.AssertNotCalled(t, "ListMeals", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not authenticated", func(t *testing.T) {
		remote := new(mocks.MockRemoteStore)
		tr := NewTracker(remote, nil, "", testDay)

		_, err := tr.UpdateMeal(context.Background(), "a", patch)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("empty patch", func(t *testing.T) {
		remote := new(mocks.MockRemoteStore)
		tr := newTestTracker(remote, nil)

		_, err := tr.UpdateMeal(context.Background(), "a", models.MealPatch{})

		assert.ErrorIs(t, err, ErrInvalidMeal)
		remote.AssertNotCalled(t, "UpdateMeal", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteMeal(t *testing.T) {
	a := meal("a", "egg", 80, testDay)
	b := meal("b", "rice", 300, testDay.Add(-time.Hour))

	t.Run("success removes record", func(t *testing.T) {
		remote := new(mocks.MockRemoteStore)
		remote.On("DeleteMeal", mock.Anything, "a").Return(nil)
		expectList(remote, []models.Meal{b}, nil)
		tr := newTestTracker(remote, nil)
		tr.meals = []models.Meal{a, b}

		require.NoError(t, tr.DeleteMeal(context.Background(), "a"))
		assert.Equal(t, []string{"b"}, ids(tr.Meals()))
	})

	t.Run("store error leaves state unchanged", func(t *testing.T) {
		remote := new(mocks.MockRemoteStore)
		remote.On("DeleteMeal", mock.Anything, "missing").Return(errors.New("Meal not found"))
		tr := newTestTracker(remote, nil)
		tr.meals = []models.Meal{a, b}

		err := tr.DeleteMeal(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrRemoteStore)
		assert.Equal(t, []models.Meal{a, b}, tr.Meals())
		remote.AssertNotCalled(t, "ListMeals", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store error keeps its cause", func(t *testing.T) {
		remote := new(mocks.MockRemoteStore)
		remote.On("DeleteMeal", mock.Anything, "missing").
			Return(&apiclient.APIError{StatusCode: 404, Message: "Meal not found"})
		tr := newTestTracker(remote, nil)

		err := tr.DeleteMeal(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrRemoteStore)
		assert.True(t, apiclient.IsNotFound(err))
		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Meal not found", apiErr.Message)
	})
}

func TestSync(t *testing.T) {
	remote := new(mocks.MockRemoteStore)
	tr := newTestTracker(remote, nil)
	expectList(remote, []models.Meal{}, nil).Run(func(args mock.Arguments) {
		assert.True(t, tr.Syncing())
	})

	require.NoError(t, tr.Sync(context.Background()))
	assert.False(t, tr.Syncing())

	remote.ExpectedCalls = nil
	expectList(remote, nil, errors.New("offline"))
	assert.ErrorIs(t, tr.Sync(context.Background()), ErrRemoteStore)
	assert.False(t, tr.Syncing())
}

func TestTotals(t *testing.T) {
	tr := newTestTracker(new(mocks.MockRemoteStore), nil)
	tr.meals = []models.Meal{
		meal("a", "soup", 300, testDay),
		meal("b", "bread", 150, testDay),
		meal("c", "water", 0, testDay),
	}
	assert.Equal(t, 450, tr.TotalCalories())
	assert.Equal(t, 450.0, tr.TotalIntake())

	two := 2.0
	tr.meals[1].Servings = &two
	assert.Equal(t, 450, tr.TotalCalories())
	assert.Equal(t, 600.0, tr.TotalIntake())

	p := tr.Progress(2000)
	assert.Equal(t, 600.0, p.Consumed)
	assert.InDelta(t, 0.3, p.Fraction, 1e-9)
	assert.Equal(t, 1400.0, p.Remaining)

	p = tr.Progress(500)
	assert.Equal(t, 1.0, p.Fraction)
	assert.Equal(t, 0.0, p.Remaining)

	p = tr.Progress(0)
	assert.Equal(t, 0.0, p.Fraction)
}

func TestPendingTable(t *testing.T) {
	p := make(pendingTable)
	first := meal("temp-1", "apple", 95, testDay)
	first.CreatedAt = testDay
	second := meal("temp-2", "pear", 60, testDay)
	second.CreatedAt = testDay.Add(time.Second)

	p.begin(first)
	p.begin(second)
	assert.Equal(t, []string{"temp-2", "temp-1"}, ids(p.outstanding()))

	assert.True(t, p.confirm("temp-1", "real-1"))
	state, ok := p.state("temp-1")
	require.True(t, ok)
	assert.Equal(t, stateConfirmed, state)
	assert.Equal(t, "confirmed", state.String())
	assert.False(t, p.rollback("temp-1"))
	assert.Equal(t, []string{"temp-2"}, ids(p.outstanding()))

	assert.True(t, p.rollback("temp-2"))
	assert.False(t, p.confirm("temp-2", "real-2"))
	state, _ = p.state("temp-2")
	assert.Equal(t, stateRolledBack, state)
	assert.Empty(t, p.outstanding())

	p.forget("temp-1")
	_, ok = p.state("temp-1")
	assert.False(t, ok)
}
