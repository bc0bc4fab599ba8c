package timeutil

import (
	"math"
	"time"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
)

// IST is the fixed UTC+5:30 offset used for all day bucketing. Day-keys are
// computed here regardless of the host timezone; the offset has no DST.
var IST = time.FixedZone("IST", 5*3600+30*60)

// Clock supplies the current time. Production code uses SystemClock; tests
// substitute a fixed clock to make day boundaries deterministic.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DayKey formats t as a calendar-day string in the fixed IST offset. Two
// instants within the same IST calendar day always produce the same key.
func DayKey(t time.Time) string {
	return t.In(IST).Format(constants.DateFormat)
}

// TodayKey is DayKey for the current instant.
func TodayKey(clock Clock) string {
	return DayKey(clock.Now())
}

// DaysRemaining returns ceil((target - now) / 24h), floored at zero.
func DaysRemaining(target, now time.Time) int {
	d := target.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// Streak counts consecutive logged days ending at today or yesterday. A user
// who logged yesterday but not yet today keeps their streak until the day
// ends; any earlier gap breaks the count.
func Streak(logs []models.FocusLog, now time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	logged := make(map[string]bool, len(logs))
	for _, l := range logs {
		logged[l.Date] = true
	}

	today := DayKey(now)
	yesterday := DayKey(now.Add(-24 * time.Hour))
	if !logged[today] && !logged[yesterday] {
		return 0
	}

	cursor := now
	if !logged[today] {
		cursor = now.Add(-24 * time.Hour)
	}

	streak := 0
	for logged[DayKey(cursor)] {
		streak++
		cursor = cursor.Add(-24 * time.Hour)
	}
	return streak
}

// DayStat is one point of the last-7-days series.
type DayStat struct {
	Day   string  // short weekday label, e.g. "Mon"
	Key   string  // day-key
	Hours float64 // total hours logged that day, rounded to 0.1
}

// Last7Days buckets total hours per day for the seven IST days ending today,
// oldest first.
func Last7Days(logs []models.FocusLog, now time.Time) []DayStat {
	perDay := make(map[string]float64)
	for _, l := range logs {
		perDay[l.Date] += l.Hours
	}

	stats := make([]DayStat, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.Add(-time.Duration(i) * 24 * time.Hour)
		key := DayKey(d)
		stats = append(stats, DayStat{
			Day:   d.In(IST).Format("Mon"),
			Key:   key,
			Hours: math.Round(perDay[key]*10) / 10,
		})
	}
	return stats
}

// SubjectDistribution sums today's hours per subject. The result always
// carries all three subjects, defaulting to zero.
func SubjectDistribution(logs []models.FocusLog, now time.Time) map[models.Subject]float64 {
	dist := map[models.Subject]float64{
		models.SubjectPhysics:   0,
		models.SubjectChemistry: 0,
		models.SubjectMaths:     0,
	}
	today := DayKey(now)
	for _, l := range logs {
		if l.Date == today {
			dist[l.Subject] += l.Hours
		}
	}
	return dist
}

// WindowKeys returns the n day-keys ending today inclusive, newest first.
func WindowKeys(now time.Time, n int) []string {
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, DayKey(now.Add(-time.Duration(i)*24*time.Hour)))
	}
	return keys
}
