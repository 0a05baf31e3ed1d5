package dto

type ProcessAIRequest struct {
	Text           string `json:"text" validate:"required"`
	Action         string `json:"action" validate:"required,oneof=summarize improve improve-full define translate"`
	TargetLanguage string `json:"target_language"`
}

type ProcessAIResponse struct {
	Result string `json:"result"`
}
