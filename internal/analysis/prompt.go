package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"feedback-backend/internal/models"
)

func buildPrompt(review string, rating int) string {
	return strings.Join([]string{
		"You are a helpful customer support AI.",
		fmt.Sprintf("A user left a %d-star review:", rating),
		`"` + review + `"`,
		"",
		"Please generate:",
		"1. A polite, empathetic response to the user (max 50 words).",
		"2. A very brief summary for the admin (max 15 words).",
		"3. A list of 3 recommended actions for the business based on this feedback.",
		"",
		"Return the result STRICTLY as a valid JSON object with the following structure:",
		`{`,
		`  "userResponse": "string",`,
		`  "summary": "string",`,
		`  "actions": ["action1", "action2", "action3"]`,
		`}`,
	}, "\n")
}

// stripCodeFences removes markdown fences a model may wrap around JSON.
func stripCodeFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func parseAnalysis(raw string) (models.AIResponse, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return models.AIResponse{}, errors.New("analysis: empty response text")
	}
	var out models.AIResponse
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return models.AIResponse{}, fmt.Errorf("analysis: decode response: %w", err)
	}
	if strings.TrimSpace(out.UserResponse) == "" && strings.TrimSpace(out.Summary) == "" {
		return models.AIResponse{}, errors.New("analysis: response has neither userResponse nor summary")
	}
	return out.Normalize(), nil
}
