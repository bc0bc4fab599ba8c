// Package session owns the single authoritative AppState document and exposes
// the mutation operations that act on it. Every command is one atomic
// read-modify-write transition under the engine mutex; observers see either
// the state before a command or the state after it, never a partial update.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/timeutil"
)

var (
	// ErrFocusDenied is returned when the focus guard refuses or loses the
	// fullscreen grant required for a lock-in session.
	ErrFocusDenied = errors.New("focus guard denied the request")

	// ErrMinFocus is returned when a stop is attempted before the minimum
	// focus duration has elapsed.
	ErrMinFocus = errors.New("minimum focus duration not reached")

	ErrTimerRunning    = errors.New("a session is already running")
	ErrTimerNotRunning = errors.New("no session is running")
	ErrNotBreached     = errors.New("session is not breached")
	ErrUnknownChapter  = errors.New("chapter is not in the syllabus")
	ErrNotFound        = errors.New("not found")
)

// FocusGuard is the external fullscreen/visibility collaborator. Acquire may
// fail at any time and the grant may be revoked by the user; revocation is
// reported to the engine via Breach, not through this interface.
type FocusGuard interface {
	Acquire() error
	Release()
}

// NopGuard satisfies FocusGuard without any real fullscreen control. Used by
// the CLI paths and by tests.
type NopGuard struct{}

func (NopGuard) Acquire() error { return nil }
func (NopGuard) Release()       {}

// Engine is the state owner. All mutations go through its command methods.
type Engine struct {
	mu       sync.Mutex
	state    models.AppState
	clock    timeutil.Clock
	guard    FocusGuard
	onChange func(models.AppState)
}

// New creates an engine owning the given document. Pass nil for guard to use
// NopGuard.
func New(state models.AppState, clock timeutil.Clock, guard FocusGuard) *Engine {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if guard == nil {
		guard = NopGuard{}
	}
	return &Engine{state: state, clock: clock, guard: guard}
}

// OnChange registers the observer invoked with a snapshot after every
// successful mutation. Persistence and sync subscribe here. The callback runs
// outside the engine mutex.
func (e *Engine) OnChange(fn func(models.AppState)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// SetGuard swaps the focus guard collaborator. The TUI installs its
// terminal-backed guard at startup.
func (e *Engine) SetGuard(g FocusGuard) {
	e.mu.Lock()
	if g == nil {
		g = NopGuard{}
	}
	e.guard = g
	e.mu.Unlock()
}

// State returns a snapshot of the current document.
func (e *Engine) State() models.AppState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Replace swaps the entire document, used after reconciliation. A running or
// breached in-memory timer is kept so an active session survives a sign-in;
// an idle timer with nothing banked yields to the incoming one.
func (e *Engine) Replace(state models.AppState) {
	e.mu.Lock()
	local := e.state.Timer
	e.state = state
	if local.IsRunning || local.AccumulatedMs > 0 {
		e.state.Timer = local
	}
	snapshot := e.state
	fn := e.onChange
	e.mu.Unlock()
	e.notify(fn, snapshot)
}

func (e *Engine) notify(fn func(models.AppState), snapshot models.AppState) {
	if fn != nil {
		fn(snapshot)
	}
}

// mutate runs fn under the mutex and notifies the observer when fn reports a
// change.
func (e *Engine) mutate(fn func(*models.AppState) error) error {
	e.mu.Lock()
	err := fn(&e.state)
	snapshot := e.state
	cb := e.onChange
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(cb, snapshot)
	return nil
}

// Start begins a focus session on subject. When lock-in mode is enabled the
// guard must grant fullscreen first; on denial the state is unchanged.
func (e *Engine) Start(subject models.Subject) error {
	if !models.ValidSubject(subject) {
		return fmt.Errorf("invalid subject %q", subject)
	}
	e.mu.Lock()
	if e.state.Timer.IsRunning {
		e.mu.Unlock()
		return ErrTimerRunning
	}
	lockIn := e.state.IsLockInModeEnabled
	guard := e.guard
	e.mu.Unlock()

	if lockIn {
		if err := guard.Acquire(); err != nil {
			logger.Warn("Focus guard denied lock-in start", "error", err)
			return fmt.Errorf("%w: %v", ErrFocusDenied, err)
		}
	}

	return e.mutate(func(s *models.AppState) error {
		if s.Timer.IsRunning {
			return ErrTimerRunning
		}
		s.Timer.IsRunning = true
		s.Timer.StartTime = e.clock.Now().UnixMilli()
		s.Timer.Subject = subject
		s.Timer.IsLockInActive = lockIn
		return nil
	})
}

// Elapsed returns the current display time of the live session. It never
// mutates state; the TUI polls it for the countdown.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.state.Timer
	ms := t.AccumulatedMs
	if t.IsRunning && t.StartTime > 0 {
		ms += e.clock.Now().UnixMilli() - t.StartTime
	}
	return time.Duration(ms) * time.Millisecond
}

// CanStop reports whether the minimum focus duration has elapsed.
func (e *Engine) CanStop() bool {
	return e.Elapsed() >= constants.MinFocusMs*time.Millisecond
}

// Stop ends the session, appending one immutable FocusLog with the given
// self-reported quality. Stops before the minimum focus duration are
// rejected; a stop with zero elapsed and zero banked time is a no-op.
func (e *Engine) Stop(quality int) (models.FocusLog, error) {
	if quality < 1 || quality > 5 {
		return models.FocusLog{}, fmt.Errorf("quality must be 1-5, got %d", quality)
	}

	var log models.FocusLog
	var release bool
	err := e.mutate(func(s *models.AppState) error {
		t := s.Timer
		if !t.IsRunning && t.AccumulatedMs == 0 {
			return ErrTimerNotRunning
		}

		now := e.clock.Now()
		finalMs := t.AccumulatedMs
		if t.IsRunning && t.StartTime > 0 {
			finalMs += now.UnixMilli() - t.StartTime
		}
		if finalMs < constants.MinFocusMs {
			return ErrMinFocus
		}

		release = t.IsLockInActive
		log = models.FocusLog{
			ID:           uuid.NewString(),
			Date:         timeutil.DayKey(now),
			Subject:      t.Subject,
			Hours:        roundHours(float64(finalMs) / (1000 * 60 * 60)),
			Quality:      quality,
			Distractions: t.Distractions,
		}
		s.Logs = append(s.Logs, log)
		s.Timer = models.TimerState{Subject: t.Subject}
		return nil
	})
	if err != nil {
		return models.FocusLog{}, err
	}
	if release {
		e.guard.Release()
	}
	logger.Info("Focus session logged", "subject", log.Subject, "hours", log.Hours, "distractions", log.Distractions)
	return log, nil
}

// Breach records an involuntary pause: the guard reported that fullscreen was
// lost during a lock-in session. The elapsed time is banked, the timer stops,
// and one distraction is recorded.
func (e *Engine) Breach() error {
	return e.mutate(func(s *models.AppState) error {
		t := &s.Timer
		if !t.IsLockInActive || !t.IsRunning {
			return ErrTimerNotRunning
		}
		t.AccumulatedMs += e.clock.Now().UnixMilli() - t.StartTime
		t.StartTime = 0
		t.IsRunning = false
		t.Distractions++
		logger.Warn("Lock-in session breached", "distractions", t.Distractions)
		return nil
	})
}

// Resume re-enters a breached lock-in session. Fullscreen must be re-acquired
// first; on denial the session stays breached. Banked time and distraction
// count carry over.
func (e *Engine) Resume() error {
	e.mu.Lock()
	t := e.state.Timer
	guard := e.guard
	e.mu.Unlock()
	if !t.IsLockInActive || t.IsRunning {
		return ErrNotBreached
	}
	if err := guard.Acquire(); err != nil {
		return fmt.Errorf("%w: %v", ErrFocusDenied, err)
	}
	return e.mutate(func(s *models.AppState) error {
		if !s.Timer.IsLockInActive || s.Timer.IsRunning {
			return ErrNotBreached
		}
		s.Timer.IsRunning = true
		s.Timer.StartTime = e.clock.Now().UnixMilli()
		return nil
	})
}

// Breached reports whether the session is in the breached state.
func (e *Engine) Breached() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.state.Timer
	return t.IsLockInActive && !t.IsRunning
}

// Wipe discards the live session without emitting a log. Callers gate this
// behind the sustained hold gesture.
func (e *Engine) Wipe() error {
	var release bool
	err := e.mutate(func(s *models.AppState) error {
		t := s.Timer
		if !t.IsRunning && t.AccumulatedMs == 0 {
			return ErrTimerNotRunning
		}
		release = t.IsLockInActive
		s.Timer = models.TimerState{Subject: t.Subject}
		return nil
	})
	if err != nil {
		return err
	}
	if release {
		e.guard.Release()
	}
	logger.Info("Focus session wiped")
	return nil
}

// AddLog appends a manually-entered study record for today.
func (e *Engine) AddLog(subject models.Subject, hours float64, quality int) (models.FocusLog, error) {
	if !models.ValidSubject(subject) {
		return models.FocusLog{}, fmt.Errorf("invalid subject %q", subject)
	}
	if hours <= 0 {
		return models.FocusLog{}, fmt.Errorf("hours must be positive, got %v", hours)
	}
	if quality < 1 || quality > 5 {
		return models.FocusLog{}, fmt.Errorf("quality must be 1-5, got %d", quality)
	}
	log := models.FocusLog{
		ID:      uuid.NewString(),
		Date:    timeutil.DayKey(e.clock.Now()),
		Subject: subject,
		Hours:   roundHours(hours),
		Quality: quality,
	}
	err := e.mutate(func(s *models.AppState) error {
		s.Logs = append(s.Logs, log)
		return nil
	})
	if err != nil {
		return models.FocusLog{}, err
	}
	return log, nil
}

// DeleteLog removes one record by ID. Deletion is irreversible; callers must
// confirm with the user first.
func (e *Engine) DeleteLog(id string) error {
	return e.mutate(func(s *models.AppState) error {
		for i, l := range s.Logs {
			if l.ID == id {
				s.Logs = append(s.Logs[:i], s.Logs[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("log %s: %w", id, ErrNotFound)
	})
}

// ClearLogs wipes the whole study history. Callers must confirm first.
func (e *Engine) ClearLogs() error {
	return e.mutate(func(s *models.AppState) error {
		s.Logs = []models.FocusLog{}
		return nil
	})
}

// ToggleChapter advances a chapter one step along the status cycle, creating
// the progress entry from the implicit not_started state when absent.
func (e *Engine) ToggleChapter(classID int, subject models.Subject, chapter string) (models.SyllabusStatus, error) {
	if !constants.SyllabusHas(classID, string(subject), chapter) {
		return "", fmt.Errorf("%s (class %d %s): %w", chapter, classID, subject, ErrUnknownChapter)
	}
	var next models.SyllabusStatus
	err := e.mutate(func(s *models.AppState) error {
		key := models.ProgressKey{ClassID: classID, Subject: subject, Chapter: chapter}
		for i, p := range s.Progress {
			if p.Key() == key {
				next = models.NextStatus(p.Status)
				s.Progress[i].Status = next
				return nil
			}
		}
		next = models.NextStatus(models.StatusNotStarted)
		s.Progress = append(s.Progress, models.ChapterProgress{
			ClassID: classID,
			Subject: subject,
			Chapter: chapter,
			Status:  next,
		})
		return nil
	})
	return next, err
}

// SetChapterNotes updates free-text notes without touching status, creating
// the entry at not_started if needed.
func (e *Engine) SetChapterNotes(classID int, subject models.Subject, chapter, notes string) error {
	if !constants.SyllabusHas(classID, string(subject), chapter) {
		return fmt.Errorf("%s (class %d %s): %w", chapter, classID, subject, ErrUnknownChapter)
	}
	return e.mutate(func(s *models.AppState) error {
		key := models.ProgressKey{ClassID: classID, Subject: subject, Chapter: chapter}
		for i, p := range s.Progress {
			if p.Key() == key {
				s.Progress[i].Notes = notes
				return nil
			}
		}
		s.Progress = append(s.Progress, models.ChapterProgress{
			ClassID: classID,
			Subject: subject,
			Chapter: chapter,
			Status:  models.StatusNotStarted,
			Notes:   notes,
		})
		return nil
	})
}

// AddTask creates a to-do item. Subject may be one of the three subjects or
// General.
func (e *Engine) AddTask(text string, subject models.Subject) (models.Task, error) {
	if text == "" {
		return models.Task{}, errors.New("task text cannot be empty")
	}
	if !models.ValidSubject(subject) && subject != models.SubjectGeneral {
		return models.Task{}, fmt.Errorf("invalid subject %q", subject)
	}
	task := models.Task{ID: uuid.NewString(), Text: text, Subject: subject}
	err := e.mutate(func(s *models.AppState) error {
		s.Tasks = append(s.Tasks, task)
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ToggleTask flips the completed flag.
func (e *Engine) ToggleTask(id string) error {
	return e.mutate(func(s *models.AppState) error {
		for i, t := range s.Tasks {
			if t.ID == id {
				s.Tasks[i].Completed = !t.Completed
				return nil
			}
		}
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	})
}

// DeleteTask removes one task by ID. Callers must confirm first.
func (e *Engine) DeleteTask(id string) error {
	return e.mutate(func(s *models.AppState) error {
		for i, t := range s.Tasks {
			if t.ID == id {
				s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	})
}

// SetClass switches the active academic year.
func (e *Engine) SetClass(classID int) error {
	if classID != 11 && classID != 12 {
		return fmt.Errorf("class must be 11 or 12, got %d", classID)
	}
	return e.mutate(func(s *models.AppState) error {
		s.CurrentClass = classID
		return nil
	})
}

// SetDailyGoal updates the daily hours target.
func (e *Engine) SetDailyGoal(hours float64) error {
	if hours <= 0 {
		return fmt.Errorf("daily goal must be positive, got %v", hours)
	}
	return e.mutate(func(s *models.AppState) error {
		s.DailyGoalHours = hours
		return nil
	})
}

// SetTheme records the theme preference ("dark" or "light").
func (e *Engine) SetTheme(theme string) error {
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("theme must be dark or light, got %q", theme)
	}
	return e.mutate(func(s *models.AppState) error {
		s.Theme = theme
		return nil
	})
}

// SetTab remembers the last used tab.
func (e *Engine) SetTab(tab string) error {
	return e.mutate(func(s *models.AppState) error {
		s.LastUsedTab = tab
		return nil
	})
}

// SetLockInMode enables or disables strict mode for future sessions.
func (e *Engine) SetLockInMode(enabled bool) error {
	return e.mutate(func(s *models.AppState) error {
		s.IsLockInModeEnabled = enabled
		return nil
	})
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
