// Package insights derives the dashboard views from the full submission set.
// Every function is pure and recomputes from scratch on each call.
package insights

import (
	"math"
	"sort"
	"time"

	"feedback-backend/internal/models"
)

const (
	// DayLabelLayout matches the short month/day labels used on the charts.
	DayLabelLayout = "Jan 2"

	DefaultKeywordLimit = 20
	DefaultActionLimit  = 5

	neutralSentiment = 50
)

type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DayAverage struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type TodayStats struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// Summary bundles every view served to the dashboard.
type Summary struct {
	Total              int             `json:"total"`
	RatingDistribution [5]RatingBucket `json:"ratingDistribution"`
	Trend              []DayCount      `json:"trend"`
	AverageRatingTrend []DayAverage    `json:"averageRatingTrend"`
	WeekdayHeatmap     [7][24]int      `json:"weekdayHeatmap"`
	Today              TodayStats      `json:"today"`
	SentimentScore     int             `json:"sentimentScore"`
	CriticalIssues     int             `json:"criticalIssues"`
	TopActions         []string        `json:"topActions"`
	Keywords           []KeywordCount  `json:"keywords"`
}

// Compute derives all views. loc is the display time zone used for day and
// hour grouping.
func Compute(subs []models.Submission, now time.Time, loc *time.Location) Summary {
	return Summary{
		Total:              len(subs),
		RatingDistribution: RatingDistribution(subs),
		Trend:              Trend(subs, loc),
		AverageRatingTrend: AverageRatingTrend(subs, loc),
		WeekdayHeatmap:     WeekdayHeatmap(subs, loc),
		Today:              Today(subs, now, loc),
		SentimentScore:     SentimentScore(subs),
		CriticalIssues:     CriticalIssues(subs),
		TopActions:         TopActions(subs, DefaultActionLimit),
		Keywords:           Keywords(subs, DefaultKeywordLimit),
	}
}

// RatingDistribution counts submissions per rating 1..5. Out-of-range ratings
// are ignored.
func RatingDistribution(subs []models.Submission) [5]RatingBucket {
	var out [5]RatingBucket
	for i := range out {
		out[i].Rating = i + 1
	}
	for _, s := range subs {
		if s.Rating >= 1 && s.Rating <= 5 {
			out[s.Rating-1].Count++
		}
	}
	return out
}

// chronological returns a copy of subs sorted oldest first. Equal timestamps
// keep their input order.
func chronological(subs []models.Submission) []models.Submission {
	sorted := make([]models.Submission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

func dayLabel(t time.Time, loc *time.Location) string {
	return t.In(orUTC(loc)).Format(DayLabelLayout)
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

type dayGroup struct {
	label string
	count int
	sum   int
}

// groupByDay buckets submissions by display label in chronological
// first-seen order. Distinct instants on the same calendar day share a bucket.
func groupByDay(subs []models.Submission, loc *time.Location) []*dayGroup {
	var groups []*dayGroup
	index := map[string]*dayGroup{}
	for _, s := range chronological(subs) {
		label := dayLabel(s.Timestamp, loc)
		g, ok := index[label]
		if !ok {
			g = &dayGroup{label: label}
			index[label] = g
			groups = append(groups, g)
		}
		g.count++
		g.sum += s.Rating
	}
	return groups
}

// Trend counts submissions per display day.
func Trend(subs []models.Submission, loc *time.Location) []DayCount {
	out := []DayCount{}
	for _, g := range groupByDay(subs, loc) {
		out = append(out, DayCount{Date: g.label, Count: g.count})
	}
	return out
}

// AverageRatingTrend reports the mean rating per display day.
func AverageRatingTrend(subs []models.Submission, loc *time.Location) []DayAverage {
	out := []DayAverage{}
	for _, g := range groupByDay(subs, loc) {
		out = append(out, DayAverage{
			Date:    g.label,
			Average: round2(float64(g.sum) / float64(g.count)),
			Count:   g.count,
		})
	}
	return out
}

// WeekdayHeatmap counts submissions by weekday (Sunday first) and hour.
func WeekdayHeatmap(subs []models.Submission, loc *time.Location) [7][24]int {
	var grid [7][24]int
	for _, s := range subs {
		t := s.Timestamp.In(orUTC(loc))
		grid[t.Weekday()][t.Hour()]++
	}
	return grid
}

// Today reports volume and mean rating for now's calendar day in loc.
func Today(subs []models.Submission, now time.Time, loc *time.Location) TodayStats {
	loc = orUTC(loc)
	y, m, d := now.In(loc).Date()
	var count, sum int
	for _, s := range subs {
		sy, sm, sd := s.Timestamp.In(loc).Date()
		if sy == y && sm == m && sd == d {
			count++
			sum += s.Rating
		}
	}
	stats := TodayStats{Count: count}
	if count > 0 {
		stats.AverageRating = round2(float64(sum) / float64(count))
	}
	return stats
}

// SentimentScore is the rounded percentage of submissions rated 4 or 5.
// An empty set scores a neutral 50.
func SentimentScore(subs []models.Submission) int {
	if len(subs) == 0 {
		return neutralSentiment
	}
	positive := 0
	for _, s := range subs {
		if s.Rating >= 4 {
			positive++
		}
	}
	return int(math.Round(100 * float64(positive) / float64(len(subs))))
}

// CriticalIssues counts submissions rated 1 or 2.
func CriticalIssues(subs []models.Submission) int {
	n := 0
	for _, s := range subs {
		if s.IsCritical() {
			n++
		}
	}
	return n
}

// TopActions returns the first limit distinct suggested actions in feed order.
func TopActions(subs []models.Submission, limit int) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range subs {
		if s.AIResponse == nil {
			continue
		}
		for _, a := range s.AIResponse.Actions {
			if len(out) >= limit {
				return out
			}
			if seen[a] {
				continue
			}
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
