// Package analysis turns a review into a user reply, an admin summary and
// suggested actions through an external text-generation provider.
package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"feedback-backend/internal/metrics"
	"feedback-backend/internal/models"
)

// Generator sends a prompt to a text-generation provider and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UnavailableResponse is returned without any call when no provider is configured.
func UnavailableResponse() models.AIResponse {
	return models.AIResponse{
		UserResponse: "Thank you for your feedback! (AI features are currently unavailable)",
		Summary:      "AI analysis unavailable.",
		Actions:      []string{},
	}
}

// ErrorResponse is returned when the provider call or its parsing fails.
func ErrorResponse() models.AIResponse {
	return models.AIResponse{
		UserResponse: "Thank you for your feedback! We are processing it.",
		Summary:      "Error generating summary.",
		Actions:      []string{"Check system logs"},
	}
}

// Analyzer never fails: provider errors collapse into ErrorResponse.
type Analyzer struct {
	gen     Generator
	timeout time.Duration
}

// NewAnalyzer builds an Analyzer. A nil gen means no credential is configured.
// A non-positive timeout leaves the call bounded only by ctx.
func NewAnalyzer(gen Generator, timeout time.Duration) *Analyzer {
	return &Analyzer{gen: gen, timeout: timeout}
}

func (a *Analyzer) Analyze(ctx context.Context, review string, rating int) models.AIResponse {
	if a.gen == nil {
		metrics.AnalysisFallbacksTotal.WithLabelValues("unconfigured").Inc()
		log.Warn().Msg("analysis provider credential is missing; using static response")
		return UnavailableResponse()
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.gen.Generate(ctx, buildPrompt(review, rating))
	if err != nil {
		metrics.AnalysisFallbacksTotal.WithLabelValues("call").Inc()
		log.Error().Err(err).Int("rating", rating).Msg("analysis generation failed")
		return ErrorResponse()
	}

	out, err := parseAnalysis(raw)
	if err != nil {
		metrics.AnalysisFallbacksTotal.WithLabelValues("parse").Inc()
		log.Error().Err(err).Int("rating", rating).Int("raw_len", len(raw)).Msg("analysis response malformed")
		return ErrorResponse()
	}
	return out
}
