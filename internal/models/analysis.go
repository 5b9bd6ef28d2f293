package models

// AnalysisResult is the normalized answer of the food image analysis. It is
// never persisted.
type AnalysisResult struct {
	Food       string  `json:"food" example:"apple"`
	Calories   float64 `json:"calories" example:"95"`
	Confidence float64 `json:"confidence" example:"0.85"`
}

type AnalyzeFoodRequest struct {
	Image string `json:"image" example:"data:image/jpeg;base64,/9j/4AAQSkZJRg..."`
}

type PhotoUploadRequest struct {
	Image string `json:"image" example:"data:image/jpeg;base64,/9j/4AAQSkZJRg..."`
}
