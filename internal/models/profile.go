package models

import (
	"time"
)

const DefaultDailyCalorieGoal = 2000

type Profile struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id" example:"0d3e1c52-7f8a-4a55-b3c4-0a9b8c7d6e5f"`
	Email            string    `json:"email" example:"jane@example.com"`
	DailyCalorieGoal int       `gorm:"not null;default:2000;check:daily_calorie_goal > 0" json:"daily_calorie_goal" example:"2000"`
	CreatedAt        time.Time `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt        time.Time `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

type ProfilePatch struct {
	DailyCalorieGoal *int `json:"daily_calorie_goal" example:"1800"`
}
