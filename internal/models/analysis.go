package models

type BodyType string

const (
	BodyEctomorph BodyType = "Ectomorph"
	BodyMesomorph BodyType = "Mesomorph"
	BodyEndomorph BodyType = "Endomorph"
	BodyUnknown   BodyType = "Unknown"
)

// Analysis is the result of a body photo analysis.
type Analysis struct {
	BodyType              BodyType `json:"bodyType"`
	EstimatedBodyFat      float64  `json:"estimatedBodyFat"`
	PostureNotes          string   `json:"postureNotes"`
	FocusAreas            []string `json:"focusAreas"`
	RecommendationSummary string   `json:"recommendationSummary"`
	PhotoKey              string   `json:"photoKey,omitempty"`
}

// WorkoutRevision is a regenerated workout for one plan day.
type WorkoutRevision struct {
	WorkoutFocus  string     `json:"workoutFocus"`
	Exercises     []Exercise `json:"exercises"`
	TotalCalories float64    `json:"totalCalories"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
