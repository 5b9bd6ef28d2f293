package utils

import (
	"calsnap/internal/models"
	"calsnap/internal/repository"
	"fmt"
	"log"
	mathrand "math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSeedDays = 7
	maxSeedDays     = 365
)

type demoFood struct {
	name     string
	calories int
	mealType models.MealType
	hour     int
}

var demoFoods = []demoFood{
	{"oatmeal with banana", 320, models.Breakfast, 7},
	{"scrambled eggs on toast", 410, models.Breakfast, 8},
	{"greek yogurt", 150, models.Breakfast, 8},
	{"chicken caesar salad", 470, models.Lunch, 12},
	{"nasi goreng", 640, models.Lunch, 13},
	{"tuna sandwich", 390, models.Lunch, 12},
	{"salmon with rice", 560, models.Dinner, 19},
	{"spaghetti bolognese", 690, models.Dinner, 20},
	{"vegetable curry", 480, models.Dinner, 19},
	{"apple", 95, models.Snack, 16},
	{"almonds", 170, models.Snack, 15},
	{"protein bar", 210, models.Snack, 17},
}

type SeedOptions struct {
	UserID string
	Email  string
	Days   int
	Goal   int
	Seed   int64
}

// GenerateDemoMeals builds breakfast, lunch and dinner for each of the last
// days days ending today, plus an occasional snack.
func GenerateDemoMeals(userID string, days int, now time.Time, r *mathrand.Rand) []models.Meal {
	var meals []models.Meal
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for d := 0; d < days; d++ {
		day := today.AddDate(0, 0, -d)
		for _, mt := range models.MealTypes {
			if mt == models.Snack && r.Intn(2) == 0 {
				continue
			}
			food := pickFood(mt, r)
			loggedAt := day.Add(time.Duration(food.hour)*time.Hour + time.Duration(r.Intn(60))*time.Minute)
			if loggedAt.After(now) {
				continue
			}

			confidence := 0.6 + r.Float64()*0.4
			meal := models.Meal{
				ID:              uuid.NewString(),
				UserID:          userID,
				FoodName:        food.name,
				Calories:        food.calories,
				MealType:        food.mealType,
				ConfidenceScore: &confidence,
				LoggedAt:        loggedAt,
			}
			if r.Intn(4) == 0 {
				servings := 2.0
				meal.Servings = &servings
			}
			meals = append(meals, meal)
		}
	}
	return meals
}

func pickFood(mt models.MealType, r *mathrand.Rand) demoFood {
	var candidates []demoFood
	for _, f := range demoFoods {
		if f.mealType == mt {
			candidates = append(candidates, f)
		}
	}
	return candidates[r.Intn(len(candidates))]
}

// SeedMeals provisions the user's profile and inserts demo meals. It returns
// the number of meals created.
func SeedMeals(meals repository.MealRepository, profiles repository.ProfileRepository, opts SeedOptions) (int, error) {
	if uuid.Validate(opts.UserID) != nil {
		return 0, fmt.Errorf("user ID %q is not a UUID", opts.UserID)
	}
	if opts.Days <= 0 || opts.Days > maxSeedDays {
		return 0, fmt.Errorf("days must be between 1 and %d", maxSeedDays)
	}

	if _, err := profiles.FirstOrCreate(opts.UserID, opts.Email); err != nil {
		return 0, fmt.Errorf("failed to provision profile: %v", err)
	}
	if opts.Goal > 0 {
		if _, err := profiles.Patch(opts.UserID, map[string]interface{}{"daily_calorie_goal": opts.Goal}); err != nil {
			return 0, fmt.Errorf("failed to set calorie goal: %v", err)
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := mathrand.New(mathrand.NewSource(seed))

	created := 0
	for _, meal := range GenerateDemoMeals(opts.UserID, opts.Days, time.Now(), r) {
		meal := meal
		if err := meals.Create(&meal); err != nil {
			return created, fmt.Errorf("failed to create meal %s: %v", meal.FoodName, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d meals over %d days for user %s", created, opts.Days, opts.UserID)
	return created, nil
}

func ClearMeals(meals repository.MealRepository, userID string) (int64, error) {
	if uuid.Validate(userID) != nil {
		return 0, fmt.Errorf("user ID %q is not a UUID", userID)
	}
	deleted, err := meals.DeleteByUserID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear meals: %v", err)
	}
	log.Printf("✅ Deleted %d meals for user %s", deleted, userID)
	return deleted, nil
}
