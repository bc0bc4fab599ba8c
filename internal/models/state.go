package models

import "github.com/lockinhq/lockin/internal/constants"

type Subject string

const (
	SubjectPhysics   Subject = "Physics"
	SubjectChemistry Subject = "Chemistry"
	SubjectMaths     Subject = "Maths"

	// SubjectGeneral is the untagged sentinel for tasks visible everywhere.
	// It is never valid on a FocusLog.
	SubjectGeneral Subject = "General"
)

// Subjects lists the three study subjects, in display order.
var Subjects = []Subject{SubjectPhysics, SubjectChemistry, SubjectMaths}

// ValidSubject reports whether s is one of the three study subjects.
func ValidSubject(s Subject) bool {
	return s == SubjectPhysics || s == SubjectChemistry || s == SubjectMaths
}

type SyllabusStatus string

const (
	StatusNotStarted      SyllabusStatus = "not_started"
	StatusInProgress      SyllabusStatus = "in_progress"
	StatusCompleted       SyllabusStatus = "completed"
	StatusRevisionPending SyllabusStatus = "revision_pending"
)

// StatusCycle is the fixed toggle order for chapter status. Merging compares
// statuses by their index in this cycle.
var StatusCycle = []SyllabusStatus{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
	StatusRevisionPending,
}

// CycleIndex returns the position of s in StatusCycle, or 0 for unknown values.
func CycleIndex(s SyllabusStatus) int {
	for i, c := range StatusCycle {
		if c == s {
			return i
		}
	}
	return 0
}

// NextStatus advances s one step along StatusCycle, wrapping around.
func NextStatus(s SyllabusStatus) SyllabusStatus {
	return StatusCycle[(CycleIndex(s)+1)%len(StatusCycle)]
}

type SyncStatus string

const (
	SyncLocal   SyncStatus = "local"
	SyncSyncing SyncStatus = "syncing"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// FocusLog is one completed study session. Logs are immutable once created;
// every stop of the timer appends a new log and deduplication is by ID only.
type FocusLog struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"` // day-key, YYYY-MM-DD at UTC+5:30
	Subject      Subject `json:"subject"`
	Hours        float64 `json:"hours"`
	Quality      int     `json:"quality"` // 1-5, self reported
	Distractions int     `json:"distractions"`
}

// Task is an ad hoc to-do item, optionally subject-tagged.
type Task struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Subject   Subject `json:"subject,omitempty"`
}

// ChapterProgress is the mastery state of one syllabus chapter. Identity is
// the (ClassID, Subject, Chapter) composite; at most one entry exists per key.
type ChapterProgress struct {
	ClassID int            `json:"classId"` // 11 or 12
	Subject Subject        `json:"subject"`
	Chapter string         `json:"chapter"`
	Status  SyllabusStatus `json:"status"`
	Notes   string         `json:"notes,omitempty"`
}

// Key returns the composite identity used for lookups and merging.
func (p ChapterProgress) Key() ProgressKey {
	return ProgressKey{ClassID: p.ClassID, Subject: p.Subject, Chapter: p.Chapter}
}

type ProgressKey struct {
	ClassID int
	Subject Subject
	Chapter string
}

// TimerState is the single live-session state machine. StartTime is non-zero
// exactly when IsRunning is true.
type TimerState struct {
	IsRunning      bool    `json:"isRunning"`
	StartTime      int64   `json:"startTime,omitempty"` // unix millis, 0 when stopped
	AccumulatedMs  int64   `json:"accumulatedMs"`
	Subject        Subject `json:"subject"`
	IsLockInActive bool    `json:"isLockInActive"`
	Distractions   int     `json:"distractions"`
}

// AppState is the root aggregate: the unit of persistence and of remote sync.
type AppState struct {
	CurrentClass        int               `json:"currentClass"` // 11 or 12
	Logs                []FocusLog        `json:"logs"`
	Progress            []ChapterProgress `json:"progress"`
	LastUsedTab         string            `json:"lastUsedTab"`
	Timer               TimerState        `json:"timer"`
	IsLockInModeEnabled bool              `json:"isLockInModeEnabled"`
	AllowList           []string          `json:"allowList"`
	Tasks               []Task            `json:"tasks"`
	Theme               string            `json:"theme,omitempty"` // "dark" or "light", empty = unset
	DailyGoalHours      float64           `json:"dailyGoalHours"`
}

// Empty reports whether the state carries no user-created records. A fresh
// install is empty and must not clobber established cloud history on merge.
func (s AppState) Empty() bool {
	return len(s.Logs) == 0 && len(s.Progress) == 0 && len(s.Tasks) == 0
}

// ProgressFor returns the entry for the composite key, if present.
func (s AppState) ProgressFor(key ProgressKey) (ChapterProgress, bool) {
	for _, p := range s.Progress {
		if p.Key() == key {
			return p, true
		}
	}
	return ChapterProgress{}, false
}

// Default returns the documented default document used on first run and when
// the persisted document is malformed.
func Default() AppState {
	return AppState{
		CurrentClass:   constants.DefaultClass,
		Logs:           []FocusLog{},
		Progress:       []ChapterProgress{},
		LastUsedTab:    "Today",
		Timer:          TimerState{Subject: SubjectPhysics},
		AllowList:      []string{},
		Tasks:          []Task{},
		DailyGoalHours: constants.DefaultDailyGoalHours,
	}
}
