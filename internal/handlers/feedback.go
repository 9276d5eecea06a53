package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"feedback-backend/internal/ingest"
	"feedback-backend/internal/insights"
	"feedback-backend/internal/models"
)

type Submitter interface {
	Submit(ctx context.Context, in ingest.SubmitInput) (models.Submission, error)
}

type Lister interface {
	ListAll(ctx context.Context) ([]models.Submission, error)
}

type FeedbackHandler struct {
	submitter Submitter
	lister    Lister
	location  *time.Location
	clock     func() time.Time
}

func NewFeedbackHandler(submitter Submitter, lister Lister, location *time.Location) *FeedbackHandler {
	if location == nil {
		location = time.UTC
	}
	return &FeedbackHandler{
		submitter: submitter,
		lister:    lister,
		location:  location,
		clock:     time.Now,
	}
}

type SubmitFeedbackRequest struct {
	Rating float64 `json:"rating"`
	Review string  `json:"review"`
}

// --- POST /api/submit ---

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sub, err := h.submitter.Submit(r.Context(), ingest.SubmitInput{Rating: req.Rating, Review: req.Review})
	if err != nil {
		var ingestErr *ingest.Error
		if errors.As(err, &ingestErr) && ingestErr.Code == ingest.ErrorInvalidInput {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ingestErr.Message})
			return
		}
		log.Error().Err(err).Msg("submit feedback")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

// --- GET /api/submissions ---

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.lister.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list submissions")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch submissions"})
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// --- GET /api/insights ---

// Insights computes the dashboard views. The optional tz query parameter
// takes an IANA zone name and overrides the display zone.
func (h *FeedbackHandler) Insights(w http.ResponseWriter, r *http.Request) {
	loc := h.location
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tz"})
			return
		}
		loc = l
	}

	subs, err := h.lister.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list submissions for insights")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch submissions"})
		return
	}

	writeJSON(w, http.StatusOK, insights.Compute(subs, h.clock(), loc))
}
