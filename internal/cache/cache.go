package cache

import (
	"calsnap/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MealsKey       = "cached_meals"
	ColorSchemeKey = "color_scheme"
)

type ColorScheme string

const (
	Light ColorScheme = "light"
	Dark  ColorScheme = "dark"
)

var ErrInvalidColorScheme = errors.New("color scheme must be light or dark")

func (s ColorScheme) Valid() bool {
	return s == Light || s == Dark
}

// Store is a small persistent key-value store living on the client device.
// Get reports found=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Status(ctx context.Context) (map[string]interface{}, error)
	Close() error
}

// MealCache keeps the last fetched day of meals and the display preference.
type MealCache struct {
	store Store
}

func NewMealCache(store Store) *MealCache {
	return &MealCache{store: store}
}

func (c *MealCache) LoadMeals(ctx context.Context) ([]models.Meal, bool, error) {
	data, found, err := c.store.Get(ctx, MealsKey)
	if err != nil || !found {
		return nil, false, err
	}

	var meals []models.Meal
	if err := json.Unmarshal(data, &meals); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached meals: %w", err)
	}
	return meals, true, nil
}

func (c *MealCache) SaveMeals(ctx context.Context, meals []models.Meal) error {
	if meals == nil {
		meals = []models.Meal{}
	}
	data, err := json.Marshal(meals)
	if err != nil {
		return fmt.Errorf("failed to marshal meals: %w", err)
	}
	return c.store.Set(ctx, MealsKey, data)
}

// ColorScheme returns the stored preference, Light when none is stored.
func (c *MealCache) ColorScheme(ctx context.Context) (ColorScheme, error) {
	data, found, err := c.store.Get(ctx, ColorSchemeKey)
	if err != nil {
		return Light, err
	}
	if !found {
		return Light, nil
	}
	scheme := ColorScheme(data)
	if !scheme.Valid() {
		return Light, fmt.Errorf("%w: stored value %q", ErrInvalidColorScheme, string(data))
	}
	return scheme, nil
}

func (c *MealCache) SetColorScheme(ctx context.Context, scheme ColorScheme) error {
	if !scheme.Valid() {
		return ErrInvalidColorScheme
	}
	return c.store.Set(ctx, ColorSchemeKey, []byte(scheme))
}

func (c *MealCache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, MealsKey)
}

// Status reports the backing store's health.
func (c *MealCache) Status(ctx context.Context) (map[string]interface{}, error) {
	return c.store.Status(ctx)
}

func (c *MealCache) Close() error {
	return c.store.Close()
}
