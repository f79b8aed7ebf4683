// Package stats aggregates reading sessions client-side for the dashboard
// views that do not need a server round trip per figure.
package stats

import (
	"fmt"
	"time"

	"readmark/pkg/domain"
)

// Summary mirrors the server's aggregate but is computed locally over an
// already-fetched session list.
type Summary struct {
	TotalSessions        int
	TotalMinutes         int
	TotalWordsSaved      int
	AverageSessionLength float64
	FavoriteReadingTime  string
}

// Summarize folds the session list into totals. The favorite reading time is
// the hour of day with the most sessions, formatted "HH:00".
func Summarize(sessions []domain.ReadingSession) Summary {
	out := Summary{TotalSessions: len(sessions)}
	hourCounts := map[int]int{}
	for _, s := range sessions {
		out.TotalMinutes += s.DurationMinutes
		out.TotalWordsSaved += s.WordsSaved
		hourCounts[s.CreatedAt.Hour()]++
	}
	if out.TotalSessions > 0 {
		out.AverageSessionLength = float64(out.TotalMinutes) / float64(out.TotalSessions)
	}
	bestHour, bestCount := 0, 0
	for hour, count := range hourCounts {
		if count > bestCount || (count == bestCount && hour < bestHour) {
			bestHour, bestCount = hour, count
		}
	}
	if bestCount > 0 {
		out.FavoriteReadingTime = fmt.Sprintf("%02d:00", bestHour)
	}
	return out
}

// WeeklyActivity returns minutes read per day for the seven days ending at
// now, oldest first.
func WeeklyActivity(sessions []domain.ReadingSession, now time.Time) []DayActivity {
	days := make([]DayActivity, 7)
	today := truncateDay(now)
	for i := range days {
		date := today.AddDate(0, 0, i-6)
		days[i] = DayActivity{Date: date}
	}
	start := today.AddDate(0, 0, -6)
	for _, s := range sessions {
		day := truncateDay(s.CreatedAt)
		if day.Before(start) || day.After(today) {
			continue
		}
		idx := int(day.Sub(start).Hours() / 24)
		days[idx].Minutes += s.DurationMinutes
	}
	return days
}

// DayActivity is one bar of the weekly activity chart.
type DayActivity struct {
	Date    time.Time
	Minutes int
}

// Streak counts consecutive days with at least one session, ending today or
// yesterday relative to now.
func Streak(sessions []domain.ReadingSession, now time.Time) int {
	readDays := map[time.Time]bool{}
	for _, s := range sessions {
		readDays[truncateDay(s.CreatedAt)] = true
	}
	day := truncateDay(now)
	if !readDays[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for readDays[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
