package entities

import "errors"

// Domain errors
var (
	// Interview errors
	ErrInterviewNotFound = errors.New("interview not found")
	ErrInvalidStatus     = errors.New("invalid interview status")

	// Indicator errors
	ErrIndicatorNotFound = errors.New("indicator not found")
	ErrInvalidWeight     = errors.New("indicator weight must be positive")

	// Assessment errors
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidScore       = errors.New("score must be between 0 and 100")

	// Emotion errors
	ErrInvalidModality   = errors.New("invalid modality")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

	// Scoring weight errors
	ErrNegativeWeight = errors.New("scoring weights must be non-negative")
	ErrWeightSum      = errors.New("scoring weights must sum to 100")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
