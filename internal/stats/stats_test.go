package stats

import (
	"testing"
	"time"

	"readmark/pkg/domain"
)

func sessionAt(t time.Time, minutes, wordsSaved int) domain.ReadingSession {
	return domain.ReadingSession{
		DurationMinutes: minutes,
		WordsSaved:      wordsSaved,
		CreatedAt:       t,
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	sessions := []domain.ReadingSession{
		sessionAt(base, 30, 2),
		sessionAt(base.Add(-24*time.Hour), 15, 1),
		sessionAt(base.Add(-48*time.Hour).Add(-12*time.Hour), 45, 0), // 09:00
	}
	summary := Summarize(sessions)
	if summary.TotalSessions != 3 {
		t.Fatalf("sessions %d", summary.TotalSessions)
	}
	if summary.TotalMinutes != 90 {
		t.Fatalf("minutes %d", summary.TotalMinutes)
	}
	if summary.TotalWordsSaved != 3 {
		t.Fatalf("words %d", summary.TotalWordsSaved)
	}
	if summary.AverageSessionLength != 30 {
		t.Fatalf("avg %f", summary.AverageSessionLength)
	}
	if summary.FavoriteReadingTime != "21:00" {
		t.Fatalf("favorite %q", summary.FavoriteReadingTime)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalSessions != 0 || summary.AverageSessionLength != 0 || summary.FavoriteReadingTime != "" {
		t.Fatalf("unexpected summary for no sessions: %+v", summary)
	}
}

func TestWeeklyActivity(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	sessions := []domain.ReadingSession{
		sessionAt(now.Add(-2*time.Hour), 20, 0),            // today
		sessionAt(now.AddDate(0, 0, -3), 40, 0),            // 3 days ago
		sessionAt(now.AddDate(0, 0, -3).Add(time.Hour), 10, 0),
		sessionAt(now.AddDate(0, 0, -10), 99, 0),           // outside the window
	}
	week := WeeklyActivity(sessions, now)
	if len(week) != 7 {
		t.Fatalf("want 7 days, got %d", len(week))
	}
	if week[6].Minutes != 20 {
		t.Fatalf("today %d minutes, want 20", week[6].Minutes)
	}
	if week[3].Minutes != 50 {
		t.Fatalf("3 days ago %d minutes, want 50", week[3].Minutes)
	}
	total := 0
	for _, day := range week {
		total += day.Minutes
	}
	if total != 70 {
		t.Fatalf("window total %d, want 70 (out-of-window session leaked in)", total)
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	sessions := []domain.ReadingSession{
		sessionAt(now.AddDate(0, 0, -1), 10, 0),
		sessionAt(now.AddDate(0, 0, -2), 10, 0),
		sessionAt(now.AddDate(0, 0, -3), 10, 0),
		sessionAt(now.AddDate(0, 0, -5), 10, 0), // gap breaks the streak
	}
	if got := Streak(sessions, now); got != 3 {
		t.Fatalf("streak %d, want 3", got)
	}
	// Reading today extends it.
	sessions = append(sessions, sessionAt(now, 10, 0))
	if got := Streak(sessions, now); got != 4 {
		t.Fatalf("streak %d, want 4", got)
	}
	if got := Streak(nil, now); got != 0 {
		t.Fatalf("streak %d for no sessions, want 0", got)
	}
}
