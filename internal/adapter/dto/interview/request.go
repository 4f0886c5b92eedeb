package interview

// CreateInterviewRequest is the payload to register a new interview
type CreateInterviewRequest struct {
	CandidateName string `json:"candidate_name" validate:"required,min=1,max=255"`
	Position      string `json:"position" validate:"required,min=1,max=255"`
}

// ListInterviewsRequest carries pagination parameters
type ListInterviewsRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}
