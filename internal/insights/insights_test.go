package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"feedback-backend/internal/models"
)

func sub(rating int, ts time.Time, review string, actions ...string) models.Submission {
	s := models.Submission{
		ID:        fmt.Sprintf("%d-%d", rating, ts.UnixNano()),
		Rating:    rating,
		Review:    review,
		Timestamp: ts,
	}
	if actions != nil {
		s.AIResponse = &models.AIResponse{Actions: actions}
	}
	return s
}

func at(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestRatingDistribution(t *testing.T) {
	subs := []models.Submission{
		sub(5, at(1, 1), "a"), sub(5, at(1, 2), "b"), sub(1, at(1, 3), "c"),
		sub(3, at(1, 4), "d"), sub(0, at(1, 5), "e"), sub(7, at(1, 6), "f"),
	}
	got := RatingDistribution(subs)
	require.Equal(t, [5]RatingBucket{
		{Rating: 1, Count: 1},
		{Rating: 2, Count: 0},
		{Rating: 3, Count: 1},
		{Rating: 4, Count: 0},
		{Rating: 5, Count: 2},
	}, got)
}

func TestTrend_GroupsByDisplayDayChronologically(t *testing.T) {
	// Newest first, as the store returns them.
	subs := []models.Submission{
		sub(4, at(3, 9), "x"),
		sub(2, at(2, 23), "x"),
		sub(5, at(2, 8), "x"),
		sub(1, at(1, 12), "x"),
	}
	got := Trend(subs, time.UTC)
	require.Equal(t, []DayCount{
		{Date: "Mar 1", Count: 1},
		{Date: "Mar 2", Count: 2},
		{Date: "Mar 3", Count: 1},
	}, got)
}

func TestTrend_UsesDisplayLocation(t *testing.T) {
	// 23:00 UTC on Mar 2 is already Mar 3 in UTC+2.
	subs := []models.Submission{sub(4, at(2, 23), "x"), sub(4, at(3, 1), "x")}
	plus2 := time.FixedZone("UTC+2", 2*60*60)

	require.Equal(t, []DayCount{{Date: "Mar 3", Count: 2}}, Trend(subs, plus2))
	require.Equal(t, []DayCount{{Date: "Mar 2", Count: 1}, {Date: "Mar 3", Count: 1}}, Trend(subs, nil))
}

func TestTrend_Empty(t *testing.T) {
	got := Trend(nil, time.UTC)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestTrend_DoesNotReorderInput(t *testing.T) {
	subs := []models.Submission{sub(4, at(3, 9), "new"), sub(1, at(1, 12), "old")}
	_ = Trend(subs, time.UTC)
	require.Equal(t, "new", subs[0].Review)
}

func TestAverageRatingTrend(t *testing.T) {
	subs := []models.Submission{
		sub(5, at(1, 9), "x"), sub(4, at(1, 10), "x"), sub(4, at(1, 11), "x"),
		sub(1, at(2, 9), "x"),
	}
	got := AverageRatingTrend(subs, time.UTC)
	require.Equal(t, []DayAverage{
		{Date: "Mar 1", Average: 4.33, Count: 3},
		{Date: "Mar 2", Average: 1, Count: 1},
	}, got)
}

func TestWeekdayHeatmap(t *testing.T) {
	// 2025-03-02 is a Sunday, 2025-03-03 a Monday.
	subs := []models.Submission{sub(4, at(2, 10), "x"), sub(4, at(2, 10), "x"), sub(4, at(3, 23), "x")}
	grid := WeekdayHeatmap(subs, time.UTC)
	require.Equal(t, 2, grid[time.Sunday][10])
	require.Equal(t, 1, grid[time.Monday][23])

	total := 0
	for _, row := range grid {
		for _, c := range row {
			total += c
		}
	}
	require.Equal(t, 3, total)
}

func TestToday(t *testing.T) {
	now := at(5, 18)
	subs := []models.Submission{
		sub(5, at(5, 0), "x"), sub(2, at(5, 17), "x"), sub(4, at(4, 23), "x"),
	}
	require.Equal(t, TodayStats{Count: 2, AverageRating: 3.5}, Today(subs, now, time.UTC))
	require.Equal(t, TodayStats{}, Today(nil, now, time.UTC))
}

func TestSentimentScore_Boundaries(t *testing.T) {
	require.Equal(t, 50, SentimentScore(nil))
	require.Equal(t, 50, SentimentScore([]models.Submission{}))

	for _, k := range []int{1, 3, 10} {
		var fives, ones []models.Submission
		for i := 0; i < k; i++ {
			fives = append(fives, sub(5, at(1, i), "x"))
			ones = append(ones, sub(1, at(1, i), "x"))
		}
		require.Equal(t, 100, SentimentScore(fives), "k=%d", k)
		require.Equal(t, 0, SentimentScore(ones), "k=%d", k)
	}
}

func TestSentimentScore_Rounds(t *testing.T) {
	subs := []models.Submission{sub(4, at(1, 1), "x"), sub(3, at(1, 2), "x"), sub(2, at(1, 3), "x")}
	require.Equal(t, 33, SentimentScore(subs))

	subs = append(subs, sub(5, at(1, 4), "x"), sub(5, at(1, 5), "x"), sub(1, at(1, 6), "x"))
	require.Equal(t, 50, SentimentScore(subs))

	subs = []models.Submission{sub(4, at(1, 1), "x"), sub(5, at(1, 2), "x"), sub(1, at(1, 3), "x")}
	require.Equal(t, 67, SentimentScore(subs))
}

func TestCriticalIssues(t *testing.T) {
	subs := []models.Submission{sub(1, at(1, 1), "x"), sub(2, at(1, 2), "x"), sub(3, at(1, 3), "x"), sub(0, at(1, 4), "x")}
	require.Equal(t, 2, CriticalIssues(subs))
}

func TestTopActions(t *testing.T) {
	subs := []models.Submission{
		sub(1, at(1, 1), "x", "Fix login", "Add tests", "Fix login"),
		sub(2, at(1, 2), "x"),
		sub(3, at(1, 3), "x", "Add tests", "Improve docs", "Hire support", "Refund", "Call user"),
	}
	require.Equal(t, []string{"Fix login", "Add tests", "Improve docs", "Hire support", "Refund"}, TopActions(subs, 5))
	require.Equal(t, []string{"Fix login"}, TopActions(subs, 1))
	require.Empty(t, TopActions(nil, 5))
}

func TestCompute_Idempotent(t *testing.T) {
	subs := []models.Submission{
		sub(5, at(3, 9), "Great support team, quick replies", "Thank team"),
		sub(2, at(2, 10), "Checkout crashes, checkout keeps failing", "Fix checkout"),
		sub(4, at(1, 11), "Smooth checkout overall"),
	}
	now := at(3, 12)

	first := Compute(subs, now, time.UTC)
	second := Compute(subs, now, time.UTC)
	require.Equal(t, first, second)

	require.Equal(t, 3, first.Total)
	require.Equal(t, 67, first.SentimentScore)
	require.Equal(t, 1, first.CriticalIssues)
	require.Equal(t, 1, first.Today.Count)
	require.Equal(t, KeywordCount{Word: "checkout", Count: 3}, first.Keywords[0])
}
