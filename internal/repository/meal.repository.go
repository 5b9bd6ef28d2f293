package repository

import (
	"calsnap/internal/models"
	"time"

	"gorm.io/gorm"
)

// MealRepository scopes every lookup and mutation to the owning user.
type MealRepository interface {
	Create(meal *models.Meal) error
	FindByUserIDAndLoggedAtRange(userID string, from, to time.Time) ([]models.Meal, error)
	FindByID(id, userID string) (*models.Meal, error)
	Patch(id, userID string, data map[string]interface{}) (*models.Meal, error)
	Delete(id, userID string) error
	DeleteByUserID(userID string) (int64, error)
}

type mealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db}
}

func (r *mealRepository) Create(meal *models.Meal) error {
	return r.db.Create(meal).Error
}

// FindByUserIDAndLoggedAtRange returns meals logged in [from, to), newest first.
func (r *mealRepository) FindByUserIDAndLoggedAtRange(userID string, from, to time.Time) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := r.db.Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at DESC").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepository) FindByID(id, userID string) (*models.Meal, error) {
	var meal models.Meal
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&meal).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *mealRepository) Patch(id, userID string, data map[string]interface{}) (*models.Meal, error) {
	meal, err := r.FindByID(id, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(meal).Updates(data).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id, userID)
}

func (r *mealRepository) Delete(id, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Meal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *mealRepository) DeleteByUserID(userID string) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Meal{})
	return result.RowsAffected, result.Error
}
