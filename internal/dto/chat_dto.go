package dto

type ChatRequest struct {
	Query     string `json:"query" validate:"required,max=4000"`
	SessionId string `json:"session_id,omitempty" validate:"omitempty,max=128"`
	// Language is an optional BCP-47 hint; invalid values fall back to detection.
	Language string `json:"language,omitempty" validate:"omitempty,max=35"`
}

type ChatResponse struct {
	Answer    string `json:"answer"`
	Source    string `json:"source"`
	SessionId string `json:"session_id"`
}

type ChatMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Documents *int64 `json:"documents,omitempty"`
}
