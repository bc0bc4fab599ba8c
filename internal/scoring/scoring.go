package scoring

import (
	"math"
	"time"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/timeutil"
)

// Breakdown carries the individual components of the integrity score, each on
// a 0-100 scale before weighting.
type Breakdown struct {
	Consistency float64
	Volume      float64
	Syllabus    float64
	Quality     float64
	Penalty     int
	Score       int
}

// LockInScore computes the 0-100 integrity score from the 30-day log window
// and syllabus progress for the active class.
//
// Weights are fixed at 30% consistency, 30% volume, 10% syllabus, 30%
// quality, minus 2 points per distraction, clamped to [0,100].
func LockInScore(logs []models.FocusLog, classID int, progress []models.ChapterProgress, now time.Time) int {
	return Compute(logs, classID, progress, now).Score
}

// Compute returns the full component breakdown behind LockInScore.
func Compute(logs []models.FocusLog, classID int, progress []models.ChapterProgress, now time.Time) Breakdown {
	window := windowLogs(logs, now)

	days := make(map[string]bool)
	var totalHours float64
	var totalQuality int
	var totalDistractions int
	for _, l := range window {
		days[l.Date] = true
		totalHours += l.Hours
		totalQuality += l.Quality
		totalDistractions += l.Distractions
	}

	consistency := float64(len(days)) / float64(constants.ScoreWindowDays) * 100

	loggedDays := len(days)
	if loggedDays == 0 {
		loggedDays = 1
	}
	volume := math.Min(totalHours/float64(loggedDays)/constants.VolumeTargetHours*100, 100)

	completed := 0
	for _, p := range progress {
		if p.ClassID == classID && p.Status == models.StatusCompleted {
			completed++
		}
	}
	syllabus := math.Min(float64(completed)/float64(constants.TotalChapters)*100, 100)

	var quality float64
	if len(window) > 0 {
		quality = float64(totalQuality) / float64(len(window)) / 5 * 100
	}

	base := consistency*0.30 + volume*0.30 + syllabus*0.10 + quality*0.30
	penalty := totalDistractions * constants.DistractionPenalty

	score := int(math.Round(base)) - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Breakdown{
		Consistency: consistency,
		Volume:      volume,
		Syllabus:    syllabus,
		Quality:     quality,
		Penalty:     penalty,
		Score:       score,
	}
}

func windowLogs(logs []models.FocusLog, now time.Time) []models.FocusLog {
	keys := make(map[string]bool, constants.ScoreWindowDays)
	for _, k := range timeutil.WindowKeys(now, constants.ScoreWindowDays) {
		keys[k] = true
	}
	var window []models.FocusLog
	for _, l := range logs {
		if keys[l.Date] {
			window = append(window, l)
		}
	}
	return window
}
