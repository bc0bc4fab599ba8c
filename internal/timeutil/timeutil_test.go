package timeutil

import (
	"testing"
	"time"

	"github.com/lockinhq/lockin/internal/models"
)

func mkLog(date string, hours float64) models.FocusLog {
	return models.FocusLog{ID: date + "-log", Date: date, Subject: models.SubjectPhysics, Hours: hours, Quality: 4}
}

func TestDayKey_ConvertsToIST(t *testing.T) {
	// 19:30 UTC is 01:00 the next day in IST (UTC+5:30)
	late := time.Date(2026, 3, 9, 19, 30, 0, 0, time.UTC)
	if got := DayKey(late); got != "2026-03-10" {
		t.Errorf("expected evening UTC to roll over to 2026-03-10 in IST, got %s", got)
	}

	noon := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	if got := DayKey(noon); got != "2026-03-09" {
		t.Errorf("expected noon UTC to stay on 2026-03-09, got %s", got)
	}
}

func TestDayKey_SameInstantDifferentZonesAgree(t *testing.T) {
	utc := time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC)
	ny := utc.In(time.FixedZone("EDT", -4*3600))
	if DayKey(utc) != DayKey(ny) {
		t.Errorf("same instant produced different day-keys: %s vs %s", DayKey(utc), DayKey(ny))
	}
}

func TestStreak(t *testing.T) {
	// Noon IST on 2026-04-10
	now := time.Date(2026, 4, 10, 6, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []string
		want int
	}{
		{"no logs", nil, 0},
		{"only today", []string{"2026-04-10"}, 1},
		{"three consecutive ending today", []string{"2026-04-10", "2026-04-09", "2026-04-08"}, 3},
		{"yesterday keeps streak alive", []string{"2026-04-09", "2026-04-08"}, 2},
		{"gap before yesterday breaks", []string{"2026-04-10", "2026-04-08"}, 1},
		{"stale logs only", []string{"2026-04-07", "2026-04-06"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs []models.FocusLog
			for _, d := range tt.days {
				logs = append(logs, mkLog(d, 2))
			}
			if got := Streak(logs, now); got != tt.want {
				t.Errorf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreak_DuplicateLogsSameDayCountOnce(t *testing.T) {
	now := time.Date(2026, 4, 10, 6, 30, 0, 0, time.UTC)
	logs := []models.FocusLog{
		mkLog("2026-04-10", 1),
		mkLog("2026-04-10", 2),
		mkLog("2026-04-09", 1),
	}
	if got := Streak(logs, now); got != 2 {
		t.Errorf("Streak = %d, want 2", got)
	}
}

func TestDaysRemaining(t *testing.T) {
	target := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"one day out", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), 1},
		{"partial day rounds up", time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC), 1},
		{"just over a day rounds up", time.Date(2026, 12, 30, 18, 0, 0, 0, time.UTC), 2},
		{"already passed", time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), 0},
		{"exactly now", target, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(target, tt.now); got != tt.want {
				t.Errorf("DaysRemaining = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLast7Days(t *testing.T) {
	now := time.Date(2026, 4, 10, 6, 30, 0, 0, time.UTC) // noon IST
	logs := []models.FocusLog{
		mkLog("2026-04-10", 2.5),
		mkLog("2026-04-10", 1.0),
		mkLog("2026-04-08", 3.25),
		mkLog("2026-01-01", 5), // outside the window
	}

	stats := Last7Days(logs, now)
	if len(stats) != 7 {
		t.Fatalf("expected 7 days, got %d", len(stats))
	}
	if stats[6].Key != "2026-04-10" {
		t.Errorf("last entry should be today, got %s", stats[6].Key)
	}
	if stats[0].Key != "2026-04-04" {
		t.Errorf("first entry should be six days ago, got %s", stats[0].Key)
	}
	if stats[6].Hours != 3.5 {
		t.Errorf("today should aggregate to 3.5h, got %v", stats[6].Hours)
	}
	if stats[4].Hours != 3.3 {
		t.Errorf("2026-04-08 should round 3.25 to 3.3, got %v", stats[4].Hours)
	}
	if stats[1].Hours != 0 {
		t.Errorf("unlogged day should be zero, got %v", stats[1].Hours)
	}
}

func TestSubjectDistribution(t *testing.T) {
	now := time.Date(2026, 4, 10, 6, 30, 0, 0, time.UTC)
	logs := []models.FocusLog{
		{Date: "2026-04-10", Subject: models.SubjectPhysics, Hours: 2},
		{Date: "2026-04-10", Subject: models.SubjectPhysics, Hours: 1},
		{Date: "2026-04-10", Subject: models.SubjectMaths, Hours: 1.5},
		{Date: "2026-04-09", Subject: models.SubjectChemistry, Hours: 4}, // yesterday
	}

	dist := SubjectDistribution(logs, now)
	if dist[models.SubjectPhysics] != 3 {
		t.Errorf("Physics = %v, want 3", dist[models.SubjectPhysics])
	}
	if dist[models.SubjectChemistry] != 0 {
		t.Errorf("Chemistry should not include yesterday, got %v", dist[models.SubjectChemistry])
	}
	if dist[models.SubjectMaths] != 1.5 {
		t.Errorf("Maths = %v, want 1.5", dist[models.SubjectMaths])
	}
	if len(dist) != 3 {
		t.Errorf("distribution should always carry exactly the three subjects, got %d keys", len(dist))
	}
}

func TestWindowKeys(t *testing.T) {
	now := time.Date(2026, 4, 10, 6, 30, 0, 0, time.UTC)
	keys := WindowKeys(now, 3)
	want := []string{"2026-04-10", "2026-04-09", "2026-04-08"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}
