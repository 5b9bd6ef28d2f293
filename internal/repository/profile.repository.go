package repository

import (
	"calsnap/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByID(id string) (*models.Profile, error)
	FirstOrCreate(id, email string) (*models.Profile, error)
	Patch(id string, data map[string]interface{}) (*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db}
}

func (r *profileRepository) FindByID(id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FirstOrCreate provisions a profile with the default goal the first time
// its owner is seen.
func (r *profileRepository) FirstOrCreate(id, email string) (*models.Profile, error) {
	profile := models.Profile{
		ID:               id,
		Email:            email,
		DailyCalorieGoal: models.DefaultDailyCalorieGoal,
	}
	err := r.db.Where(models.Profile{ID: id}).FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Patch(id string, data map[string]interface{}) (*models.Profile, error) {
	profile, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(profile).Updates(data).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}
