package assessment

// ManualScoreRequest is the payload to record the interviewer's score
type ManualScoreRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=100"`
}

// ScoringWeightsRequest is the payload to update the AI/manual weight pair
type ScoringWeightsRequest struct {
	AIWeight     float64 `json:"ai_weight" validate:"gte=0"`
	ManualWeight float64 `json:"manual_weight" validate:"gte=0"`
}

// ScoringWeightsResponse is the API shape of the active weight pair
type ScoringWeightsResponse struct {
	AIWeight     float64 `json:"ai_weight"`
	ManualWeight float64 `json:"manual_weight"`
}
