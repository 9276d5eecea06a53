package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"feedback-backend/internal/poller"
)

func printSnapshot(w io.Writer, s poller.Snapshot, feedSize int) {
	fmt.Fprintf(w, "=== %s ===\n", s.FetchedAt.Format(time.RFC3339))
	if s.Err != nil {
		fmt.Fprintf(w, "fetch failed: %v\n", s.Err)
	}

	sum := s.Summary
	fmt.Fprintf(w, "total %d | sentiment %d%% | critical %d | today %d (avg %.2f)\n",
		sum.Total, sum.SentimentScore, sum.CriticalIssues, sum.Today.Count, sum.Today.AverageRating)

	fmt.Fprint(w, "ratings:")
	for _, b := range sum.RatingDistribution {
		fmt.Fprintf(w, " %d★=%d", b.Rating, b.Count)
	}
	fmt.Fprintln(w)

	if len(sum.Trend) > 0 {
		days := make([]string, 0, len(sum.Trend))
		for _, d := range sum.Trend {
			days = append(days, fmt.Sprintf("%s:%d", d.Date, d.Count))
		}
		fmt.Fprintf(w, "trend: %s\n", strings.Join(days, " "))
	}

	if len(sum.Keywords) > 0 {
		words := make([]string, 0, len(sum.Keywords))
		for _, k := range sum.Keywords {
			words = append(words, fmt.Sprintf("%s(%d)", k.Word, k.Count))
		}
		fmt.Fprintf(w, "keywords: %s\n", strings.Join(words, " "))
	}

	for _, a := range sum.TopActions {
		fmt.Fprintf(w, "action: %s\n", a)
	}

	for i, sub := range s.Submissions {
		if i >= feedSize {
			break
		}
		summary := ""
		if sub.AIResponse != nil {
			summary = sub.AIResponse.Summary
		}
		fmt.Fprintf(w, "- [%d★] %s %q %s\n", sub.Rating, sub.Timestamp.Format(time.RFC3339), truncate(sub.Review, 80), summary)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
