package constants

import "time"

const (
	AppName            = "lockin"
	DefaultKeyringUser = "database-connection"
	KeyringSessionUser = "session-token"
	DefaultConfigPath  = "~/.config/lockin"
	Version            = "v0.3.0"

	// DateFormat is the standard day-key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// StateFileName is the local document file inside the config dir
	StateFileName = "state.json"

	// MinFocusMs is the minimum display time before a session may be stopped
	MinFocusMs = 15 * 60 * 1000

	// WipeHoldMs is how long the discard gesture must be held before a
	// locked-in session is wiped without a log
	WipeHoldMs = 15 * 1000

	// TotalChapters is the fixed syllabus denominator used by the integrity
	// score. It is intentionally NOT derived from the syllabus catalog so
	// that scores stay comparable across releases.
	TotalChapters = 45

	// DistractionPenalty is subtracted from the integrity score per recorded
	// distraction in the 30-day window
	DistractionPenalty = 2

	// VolumeTargetHours is the average daily hours at which the volume
	// component of the score saturates
	VolumeTargetHours = 10.0

	ScoreWindowDays = 30

	DefaultDailyGoalHours = 8.0
	DefaultClass          = 11

	QuoteRotateInterval = 10 * time.Second
)

// ExamDate is the countdown target shown in the header (Mains '27).
var ExamDate = time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

// LockInQuotes rotate on the lock-in screen while a session is active.
var LockInQuotes = []string{
	"THE COMPETITION IS STUDYING. ARE YOU?",
	"ONE CHAPTER TODAY. ONE RANK TOMORROW.",
	"EVERY SECOND WASTED IS A STEP BACKWARD.",
	"AIR 1 IS EARNED IN THE SILENCE OF DEEP FOCUS.",
	"DISCIPLINE IS THE BRIDGE BETWEEN GOALS AND ACHIEVEMENT.",
	"RESPECT THE SCHEDULE. IGNORE THE NOISE.",
	"YOU ARE ALONE WITH YOUR DREAMS. PROTECT THEM.",
	"STAY FOCUSED. STAY DETERMINED.",
}
