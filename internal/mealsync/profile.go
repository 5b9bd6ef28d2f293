package mealsync

import (
	"calsnap/internal/models"
	"context"
	"fmt"
	"log"
	"sync"
)

type ProfileStore interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.Profile, error)
}

// ProfileTracker holds the signed-in user's profile.
type ProfileTracker struct {
	store ProfileStore

	mu      sync.Mutex
	userID  string
	profile *models.Profile
	loading bool
}

func NewProfileTracker(store ProfileStore, userID string) *ProfileTracker {
	return &ProfileTracker{store: store, userID: userID, loading: true}
}

func (p *ProfileTracker) Fetch(ctx context.Context) error {
	p.mu.Lock()
	if p.userID == "" {
		p.loading = false
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	p.mu.Unlock()

	profile, err := p.store.GetProfile(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		log.Printf("Error fetching profile: %v", err)
		return fmt.Errorf("%w: %w", ErrRemoteStore, err)
	}
	p.profile = profile
	return nil
}

func (p *ProfileTracker) UpdateCalorieGoal(ctx context.Context, goal int) (*models.Profile, error) {
	p.mu.Lock()
	signedIn := p.userID != ""
	p.mu.Unlock()
	if !signedIn {
		return nil, ErrNotAuthenticated
	}
	if goal <= 0 {
		return nil, ErrInvalidGoal
	}

	profile, err := p.store.UpdateProfile(ctx, models.ProfilePatch{DailyCalorieGoal: &goal})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteStore, err)
	}

	p.mu.Lock()
	p.profile = profile
	p.mu.Unlock()
	return profile, nil
}

// Profile returns a copy of the held profile, nil before the first fetch.
func (p *ProfileTracker) Profile() *models.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil {
		return nil
	}
	copied := *p.profile
	return &copied
}

func (p *ProfileTracker) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// CalorieGoal falls back to the default goal until a profile is held.
func (p *ProfileTracker) CalorieGoal() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil || p.profile.DailyCalorieGoal <= 0 {
		return models.DefaultDailyCalorieGoal
	}
	return p.profile.DailyCalorieGoal
}
