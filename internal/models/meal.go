package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

func (t MealType) Valid() bool {
	for _, mt := range MealTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// TempIDPrefix marks ids assigned on the client before the store confirms a meal.
const TempIDPrefix = "temp-"

type Meal struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id" example:"4f0c7c1e-8a57-4f6e-9d0b-2b4b5f3b9a10"`
	UserID          string    `gorm:"type:uuid;index:idx_meals_user_logged;not null" json:"user_id" example:"0d3e1c52-7f8a-4a55-b3c4-0a9b8c7d6e5f"`
	FoodName        string    `gorm:"not null" json:"food_name" example:"apple"`
	Calories        int       `gorm:"not null;check:calories >= 0" json:"calories" example:"95"`
	Servings        *float64  `gorm:"check:servings >= 0" json:"servings,omitempty" example:"1"`
	MealType        MealType  `gorm:"type:varchar(16);not null;check:meal_type IN ('breakfast','lunch','dinner','snack')" json:"meal_type" example:"snack"`
	PhotoURL        *string   `json:"photo_url" example:"https://cdn.example.com/meal-photos/a.jpg"`
	ConfidenceScore *float64  `gorm:"check:confidence_score >= 0 AND confidence_score <= 1" json:"confidence_score" example:"0.9"`
	LoggedAt        time.Time `gorm:"index:idx_meals_user_logged;not null" json:"logged_at" example:"2024-01-01T12:00:00Z"`
	CreatedAt       time.Time `json:"created_at" example:"2024-01-01T12:00:01Z"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" || IsTempID(m.ID) {
		m.ID = uuid.NewString()
	}
	return
}

// ServingCount returns the serving multiplier, 1 when unset.
func (m Meal) ServingCount() float64 {
	if m.Servings == nil {
		return 1
	}
	return *m.Servings
}

func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

var ErrInvalidMeal = errors.New("invalid meal")

// MealDraft is what a user submits; the owner and ids are filled in later.
type MealDraft struct {
	FoodName        string     `json:"food_name" example:"apple"`
	Calories        int        `json:"calories" example:"95"`
	Servings        *float64   `json:"servings,omitempty" example:"1"`
	MealType        MealType   `json:"meal_type" example:"snack"`
	PhotoURL        *string    `json:"photo_url,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty" example:"0.9"`
	LoggedAt        *time.Time `json:"logged_at,omitempty" example:"2024-01-01T12:00:00Z"`
}

func (d MealDraft) Validate() error {
	if strings.TrimSpace(d.FoodName) == "" {
		return fmt.Errorf("%w: food_name is required", ErrInvalidMeal)
	}
	if d.Calories < 0 {
		return fmt.Errorf("%w: calories must be zero or more", ErrInvalidMeal)
	}
	if d.Servings != nil && *d.Servings < 0 {
		return fmt.Errorf("%w: servings must be zero or more", ErrInvalidMeal)
	}
	if !d.MealType.Valid() {
		return fmt.Errorf("%w: meal_type must be one of breakfast, lunch, dinner, snack", ErrInvalidMeal)
	}
	if d.ConfidenceScore != nil && (*d.ConfidenceScore < 0 || *d.ConfidenceScore > 1) {
		return fmt.Errorf("%w: confidence_score must be between 0 and 1", ErrInvalidMeal)
	}
	return nil
}

// ToMeal builds an unsaved meal owned by userID. LoggedAt falls back to now.
func (d MealDraft) ToMeal(userID string, now time.Time) Meal {
	loggedAt := now
	if d.LoggedAt != nil {
		loggedAt = *d.LoggedAt
	}
	return Meal{
		UserID:          userID,
		FoodName:        strings.TrimSpace(d.FoodName),
		Calories:        d.Calories,
		Servings:        d.Servings,
		MealType:        d.MealType,
		PhotoURL:        d.PhotoURL,
		ConfidenceScore: d.ConfidenceScore,
		LoggedAt:        loggedAt,
	}
}

// MealPatch carries a partial update. The owner can never be changed.
type MealPatch struct {
	FoodName        *string    `json:"food_name,omitempty"`
	Calories        *int       `json:"calories,omitempty"`
	Servings        *float64   `json:"servings,omitempty"`
	MealType        *MealType  `json:"meal_type,omitempty"`
	PhotoURL        *string    `json:"photo_url,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
	LoggedAt        *time.Time `json:"logged_at,omitempty"`
}

func (p MealPatch) Empty() bool {
	return p.FoodName == nil && p.Calories == nil && p.Servings == nil && p.MealType == nil &&
		p.PhotoURL == nil && p.ConfidenceScore == nil && p.LoggedAt == nil
}

func (p MealPatch) Validate() error {
	if p.Empty() {
		return fmt.Errorf("%w: no fields to update", ErrInvalidMeal)
	}
	if p.FoodName != nil && strings.TrimSpace(*p.FoodName) == "" {
		return fmt.Errorf("%w: food_name cannot be empty", ErrInvalidMeal)
	}
	if p.Calories != nil && *p.Calories < 0 {
		return fmt.Errorf("%w: calories must be zero or more", ErrInvalidMeal)
	}
	if p.Servings != nil && *p.Servings < 0 {
		return fmt.Errorf("%w: servings must be zero or more", ErrInvalidMeal)
	}
	if p.MealType != nil && !p.MealType.Valid() {
		return fmt.Errorf("%w: meal_type must be one of breakfast, lunch, dinner, snack", ErrInvalidMeal)
	}
	if p.ConfidenceScore != nil && (*p.ConfidenceScore < 0 || *p.ConfidenceScore > 1) {
		return fmt.Errorf("%w: confidence_score must be between 0 and 1", ErrInvalidMeal)
	}
	return nil
}

// Columns maps the patch onto column names for gorm's Updates.
func (p MealPatch) Columns() map[string]interface{} {
	data := make(map[string]interface{})
	if p.FoodName != nil {
		data["food_name"] = strings.TrimSpace(*p.FoodName)
	}
	if p.Calories != nil {
		data["calories"] = *p.Calories
	}
	if p.Servings != nil {
		data["servings"] = *p.Servings
	}
	if p.MealType != nil {
		data["meal_type"] = string(*p.MealType)
	}
	if p.PhotoURL != nil {
		data["photo_url"] = *p.PhotoURL
	}
	if p.ConfidenceScore != nil {
		data["confidence_score"] = *p.ConfidenceScore
	}
	if p.LoggedAt != nil {
		data["logged_at"] = *p.LoggedAt
	}
	return data
}

// Apply returns a copy of m with the patch applied.
func (p MealPatch) Apply(m Meal) Meal {
	if p.FoodName != nil {
		m.FoodName = strings.TrimSpace(*p.FoodName)
	}
	if p.Calories != nil {
		m.Calories = *p.Calories
	}
	if p.Servings != nil {
		s := *p.Servings
		m.Servings = &s
	}
	if p.MealType != nil {
		m.MealType = *p.MealType
	}
	if p.PhotoURL != nil {
		u := *p.PhotoURL
		m.PhotoURL = &u
	}
	if p.ConfidenceScore != nil {
		c := *p.ConfidenceScore
		m.ConfidenceScore = &c
	}
	if p.LoggedAt != nil {
		m.LoggedAt = *p.LoggedAt
	}
	return m
}
