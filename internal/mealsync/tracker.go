// Package mealsync keeps one day of a user's meals on the client, applies
// additions optimistically and reconciles with the remote store after every
// mutation.
package mealsync

import (
	"calsnap/internal/models"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotAuthenticated = errors.New("no user logged in")
	ErrRemoteStore      = errors.New("remote store request failed")
	ErrInvalidMeal      = models.ErrInvalidMeal
	ErrInvalidGoal      = errors.New("daily calorie goal must be a positive integer")
)

// RemoteStore is the authoritative meal store. Implementations scope every
// call to the authenticated user.
type RemoteStore interface {
	ListMeals(ctx context.Context, from, to time.Time) ([]models.Meal, error)
	CreateMeal(ctx context.Context, draft models.MealDraft) (*models.Meal, error)
	UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error)
	DeleteMeal(ctx context.Context, id string) error
}

// Cache persists the last fetched meals between runs.
type Cache interface {
	LoadMeals(ctx context.Context) ([]models.Meal, bool, error)
	SaveMeals(ctx context.Context, meals []models.Meal) error
}

// Tracker holds the meals of one day for one user. The lock guards memory
// only and is never held across a remote call.
type Tracker struct {
	remote RemoteStore
	cache  Cache
	now    func() time.Time

	mu          sync.Mutex
	userID      string
	day         DayWindow
	meals       []models.Meal
	loading     bool
	syncing     bool
	cacheLoaded bool
	pending     pendingTable
}

// NewTracker binds the tracker to userID (empty for signed out) and to the
// day containing day. A nil cache disables persistence.
func NewTracker(remote RemoteStore, cache Cache, userID string, day time.Time) *Tracker {
	return &Tracker{
		remote:  remote,
		cache:   cache,
		now:     time.Now,
		userID:  userID,
		day:     DayOf(day),
		loading: true,
		pending: make(pendingTable),
	}
}

func (t *Tracker) SetDay(day time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.day = DayOf(day)
}

func (t *Tracker) Day() DayWindow {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.day
}

// Meals returns a copy of the held meals, most recent first.
func (t *Tracker) Meals() []models.Meal {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Meal, len(t.meals))
	copy(out, t.meals)
	return out
}

func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

func (t *Tracker) Syncing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.syncing
}

// Load shows cached meals on first activation, then fetches the day from the
// remote store. A failed fetch keeps whatever is in memory.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	firstActivation := !t.cacheLoaded
	t.cacheLoaded = true
	t.mu.Unlock()

	if firstActivation && t.cache != nil {
		cached, found, err := t.cache.LoadMeals(ctx)
		switch {
		case err != nil:
			log.Printf("Error loading cached meals: %v", err)
		case found:
			t.mu.Lock()
			t.meals = cached
			t.mu.Unlock()
		}
	}

	return t.Refetch(ctx)
}

// Refetch replaces memory with the remote store's view of the day.
func (t *Tracker) Refetch(ctx context.Context) error {
	t.mu.Lock()
	userID, day := t.userID, t.day
	if userID == "" {
		t.meals = nil
		t.loading = false
		t.mu.Unlock()
		return nil
	}
	t.loading = true
	t.mu.Unlock()

	meals, err := t.remote.ListMeals(ctx, day.Start, day.End)

	t.mu.Lock()
	t.loading = false
	if err != nil {
		t.mu.Unlock()
		log.Printf("Error fetching meals: %v", err)
		return fmt.Errorf("%w: %w", ErrRemoteStore, err)
	}
	if t.userID != userID || t.day != day {
		// Bound user or day changed while the request was in flight.
		t.mu.Unlock()
		return nil
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	t.meals = append(t.pending.outstanding(), meals...)
	t.mu.Unlock()

	if t.cache != nil {
		if err := t.cache.SaveMeals(ctx, meals); err != nil {
			log.Printf("Error caching meals: %v", err)
		}
	}
	return nil
}

// Sync runs a full fetch with the syncing flag raised.
func (t *Tracker) Sync(ctx context.Context) error {
	t.mu.Lock()
	t.syncing = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.syncing = false
		t.mu.Unlock()
	}()

	return t.Refetch(ctx)
}

// AddMeal shows a placeholder right away, creates the meal remotely and
// swaps the placeholder for the stored record. The placeholder is removed
// again when the store rejects the meal.
func (t *Tracker) AddMeal(ctx context.Context, draft models.MealDraft) (*models.Meal, error) {
	if err := t.requireUser(); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	now := t.now()
	placeholder := draft.ToMeal(t.userID, now)
	placeholder.ID = models.NewTempID()
	placeholder.CreatedAt = now
	t.pending.begin(placeholder)
	t.meals = append([]models.Meal{placeholder}, t.meals...)
	t.mu.Unlock()

	created, err := t.remote.CreateMeal(ctx, draft)

	t.mu.Lock()
	if err != nil {
		t.pending.rollback(placeholder.ID)
		t.pending.forget(placeholder.ID)
		t.meals = removeMeal(t.meals, placeholder.ID)
		t.mu.Unlock()
		log.Printf("Error adding meal: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrRemoteStore, err)
	}
	t.pending.confirm(placeholder.ID, created.ID)
	if indexOf(t.meals, created.ID) >= 0 {
		t.meals = removeMeal(t.meals, placeholder.ID)
	} else {
		t.meals = replaceMeal(t.meals, placeholder.ID, *created)
	}
	t.pending.forget(placeholder.ID)
	t.mu.Unlock()

	if err := t.Refetch(ctx); err != nil {
		log.Printf("Error refreshing meals after add: %v", err)
	}
	return created, nil
}

// UpdateMeal patches a stored meal. Memory changes only after the store
// accepts the patch.
func (t *Tracker) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error) {
	if err := t.requireUser(); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := t.remote.UpdateMeal(ctx, id, patch)
	if err != nil {
		log.Printf("Error updating meal %s: %v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrRemoteStore, err)
	}

	t.mu.Lock()
	t.meals = replaceMeal(t.meals, id, *updated)
	t.mu.Unlock()

	if err := t.Refetch(ctx); err != nil {
		log.Printf("Error refreshing meals after update: %v", err)
	}
	return updated, nil
}

// DeleteMeal removes a meal from the store, then from memory.
func (t *Tracker) DeleteMeal(ctx context.Context, id string) error {
	if err := t.requireUser(); err != nil {
		return err
	}

	if err := t.remote.DeleteMeal(ctx, id); err != nil {
		log.Printf("Error deleting meal %s: %v", id, err)
		return fmt.Errorf("%w: %w", ErrRemoteStore, err)
	}

	t.mu.Lock()
	t.meals = removeMeal(t.meals, id)
	t.mu.Unlock()

	if err := t.Refetch(ctx); err != nil {
		log.Printf("Error refreshing meals after delete: %v", err)
	}
	return nil
}

// TotalCalories sums the calories field of the held meals. Servings are
// not applied; see TotalIntake.
func (t *Tracker) TotalCalories() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, m := range t.meals {
		total += m.Calories
	}
	return total
}

// TotalIntake treats calories as per serving and multiplies by servings.
func (t *Tracker) TotalIntake() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0.0
	for _, m := range t.meals {
		total += float64(m.Calories) * m.ServingCount()
	}
	return total
}

// Progress is the day's intake relative to a calorie goal.
type Progress struct {
	Consumed  float64 `json:"consumed"`
	Goal      int     `json:"goal"`
	Fraction  float64 `json:"fraction"`
	Remaining float64 `json:"remaining"`
}

func (t *Tracker) Progress(goal int) Progress {
	return progressOf(t.TotalIntake(), goal)
}

func progressOf(consumed float64, goal int) Progress {
	p := Progress{Consumed: consumed, Goal: goal}
	if goal <= 0 {
		return p
	}
	p.Fraction = math.Min(consumed/float64(goal), 1)
	p.Remaining = math.Max(float64(goal)-consumed, 0)
	return p
}

func (t *Tracker) requireUser() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.userID == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func indexOf(meals []models.Meal, id string) int {
	for i, m := range meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func removeMeal(meals []models.Meal, id string) []models.Meal {
	out := make([]models.Meal, 0, len(meals))
	for _, m := range meals {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func replaceMeal(meals []models.Meal, id string, with models.Meal) []models.Meal {
	out := make([]models.Meal, len(meals))
	for i, m := range meals {
		if m.ID == id {
			out[i] = with
		} else {
			out[i] = m
		}
	}
	return out
}

func sortNewestFirst(meals []models.Meal) {
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].CreatedAt.After(meals[j].CreatedAt)
	})
}
