package models

import "time"

// Submission is one star rating plus review text, enriched with the analysis
// produced at ingest time. Submissions are never mutated after they are stored.
type Submission struct {
	ID         string      `bson:"_id" json:"id"`
	Rating     int         `bson:"rating" json:"rating"`
	Review     string      `bson:"review" json:"review"`
	Timestamp  time.Time   `bson:"timestamp" json:"timestamp"`
	AIResponse *AIResponse `bson:"aiResponse,omitempty" json:"aiResponse,omitempty"`
}

// AIResponse is the analysis attached to a submission.
type AIResponse struct {
	UserResponse string   `bson:"userResponse" json:"userResponse"`
	Summary      string   `bson:"summary" json:"summary"`
	Actions      []string `bson:"actions" json:"actions"`
}

// Normalize guarantees Actions encodes as an array rather than null.
func (a AIResponse) Normalize() AIResponse {
	if a.Actions == nil {
		a.Actions = []string{}
	}
	return a
}

// IsCritical reports whether the submission should raise an admin alert.
func (s Submission) IsCritical() bool {
	return s.Rating >= 1 && s.Rating <= 2
}
