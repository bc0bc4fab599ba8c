package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/session"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type todayModel struct {
	engine *session.Engine
	clock  timeutil.Clock
	width  int
	height int

	subjectIdx int
	taskCursor int

	// Discard gesture: armed at a point in time, completes after the hold
	// period unless any key cancels it.
	wipeArmedAt time.Time

	quoteIdx   int
	quoteTicks int

	formActive bool
	form       *huh.Form
	formType   string // "quality", "task", "deleteTask"

	// Form field pointers (survive value copies)
	formQuality *int
	formText    *string
	formSubject *string
	formConfirm *bool

	deleteTaskID string
}

func newTodayModel(engine *session.Engine, clock timeutil.Clock) todayModel {
	quality, text, subject, confirm := 4, "", string(models.SubjectGeneral), false
	return todayModel{
		engine:      engine,
		clock:       clock,
		formQuality: &quality,
		formText:    &text,
		formSubject: &subject,
		formConfirm: &confirm,
	}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t todayModel) capturesInput() bool {
	if t.formActive {
		return true
	}
	if !t.wipeArmedAt.IsZero() {
		return true
	}
	st := t.engine.State()
	return st.Timer.IsRunning && st.Timer.IsLockInActive
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		return t.tick()

	case tea.KeyMsg:
		if !t.wipeArmedAt.IsZero() {
			// Any key abandons the discard gesture.
			t.wipeArmedAt = time.Time{}
			return t, status("Wipe cancelled")
		}
		return t.updateKeys(msg)
	}
	return t, nil
}

func (t todayModel) tick() (todayModel, tea.Cmd) {
	if !t.wipeArmedAt.IsZero() {
		held := t.clock.Now().Sub(t.wipeArmedAt)
		if held >= time.Duration(constants.WipeHoldMs)*time.Millisecond {
			t.wipeArmedAt = time.Time{}
			if err := t.engine.Wipe(); err != nil {
				return t, status(err.Error())
			}
			return t, status("Session wiped. Nothing was logged.")
		}
	}

	if st := t.engine.State(); st.Timer.IsRunning && st.Timer.IsLockInActive {
		t.quoteTicks++
		if t.quoteTicks >= int(constants.QuoteRotateInterval/time.Second) {
			t.quoteTicks = 0
			t.quoteIdx = (t.quoteIdx + 1) % len(constants.LockInQuotes)
		}
	}
	return t, nil
}

func (t todayModel) updateKeys(msg tea.KeyMsg) (todayModel, tea.Cmd) {
	st := t.engine.State()

	switch {
	case key.Matches(msg, keys.Start):
		if st.Timer.IsRunning || t.engine.Breached() {
			return t, nil
		}
		err := t.engine.Start(models.Subjects[t.subjectIdx])
		if errors.Is(err, session.ErrFocusDenied) {
			return t, status("Terminal is not focused. Lock-in refused to start.")
		}
		if err != nil {
			return t, status(err.Error())
		}
		t.quoteIdx = 0
		t.quoteTicks = 0
		return t, status("Session started")

	case key.Matches(msg, keys.Stop):
		if !st.Timer.IsRunning && !t.engine.Breached() {
			return t, nil
		}
		if !t.engine.CanStop() {
			return t, status(fmt.Sprintf("Under %d minutes. Keep going or hold w to wipe.", constants.MinFocusMs/60000))
		}
		return t.showQualityForm()

	case key.Matches(msg, keys.Resume):
		if !t.engine.Breached() {
			return t, nil
		}
		err := t.engine.Resume()
		if errors.Is(err, session.ErrFocusDenied) {
			return t, status("Terminal is not focused. Refocus before resuming.")
		}
		if err != nil {
			return t, status(err.Error())
		}
		return t, status("Session resumed")

	case key.Matches(msg, keys.Wipe):
		if !st.Timer.IsRunning && !t.engine.Breached() {
			return t, nil
		}
		t.wipeArmedAt = t.clock.Now()
		return t, nil

	case key.Matches(msg, keys.Subject):
		if st.Timer.IsRunning || t.engine.Breached() {
			return t, nil
		}
		t.subjectIdx = (t.subjectIdx + 1) % len(models.Subjects)
		return t, nil

	case key.Matches(msg, keys.LockIn):
		if st.Timer.IsRunning {
			return t, nil
		}
		if err := t.engine.SetLockInMode(!st.IsLockInModeEnabled); err != nil {
			return t, status(err.Error())
		}
		if st.IsLockInModeEnabled {
			return t, status("Lock-in mode off")
		}
		return t, status("Lock-in mode on")

	case key.Matches(msg, keys.New):
		return t.showTaskForm()

	case key.Matches(msg, keys.Toggle):
		if task, ok := t.taskAt(t.taskCursor); ok {
			if err := t.engine.ToggleTask(task.ID); err != nil {
				return t, status(err.Error())
			}
		}
		return t, nil

	case key.Matches(msg, keys.Delete):
		if task, ok := t.taskAt(t.taskCursor); ok {
			return t.showDeleteTaskForm(task)
		}
		return t, nil

	case key.Matches(msg, keys.Up):
		if t.taskCursor > 0 {
			t.taskCursor--
		}
		return t, nil

	case key.Matches(msg, keys.Down):
		if t.taskCursor < len(t.engine.State().Tasks)-1 {
			t.taskCursor++
		}
		return t, nil
	}
	return t, nil
}

func (t todayModel) taskAt(i int) (models.Task, bool) {
	tasks := t.engine.State().Tasks
	if i < 0 || i >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[i], true
}

func status(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func (t todayModel) showQualityForm() (todayModel, tea.Cmd) {
	*t.formQuality = 4
	t.formType = "quality"

	opts := make([]huh.Option[int], 5)
	labels := []string{"1 · scattered", "2 · shallow", "3 · okay", "4 · deep", "5 · locked in"}
	for i := range opts {
		opts[i] = huh.NewOption(labels[i], i+1)
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("How deep was the focus?").Options(opts...).Value(t.formQuality),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t todayModel) showTaskForm() (todayModel, tea.Cmd) {
	*t.formText = ""
	*t.formSubject = string(models.SubjectGeneral)
	t.formType = "task"

	subjects := []models.Subject{models.SubjectGeneral, models.SubjectPhysics, models.SubjectChemistry, models.SubjectMaths}
	opts := make([]huh.Option[string], len(subjects))
	for i, s := range subjects {
		opts[i] = huh.NewOption(string(s), string(s))
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(t.formText),
			huh.NewSelect[string]().Title("Subject").Options(opts...).Value(t.formSubject),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t todayModel) showDeleteTaskForm(task models.Task) (todayModel, tea.Cmd) {
	*t.formConfirm = false
	t.deleteTaskID = task.ID
	t.formType = "deleteTask"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard task?").
				Description(task.Text).
				Affirmative("Delete").
				Negative("Keep").
				Value(t.formConfirm),
		),
	).WithShowHelp(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t todayModel) deleteTask() (todayModel, tea.Cmd) {
	if err := t.engine.DeleteTask(t.deleteTaskID); err != nil {
		return t, status(err.Error())
	}
	if t.taskCursor > 0 {
		t.taskCursor--
	}
	return t, status("Task discarded")
}

func (t todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		switch t.formType {
		case "quality":
			log, err := t.engine.Stop(*t.formQuality)
			if err != nil {
				return t, status(err.Error())
			}
			return t, status(fmt.Sprintf("Logged %.2fh of %s", log.Hours, log.Subject))
		case "task":
			if *t.formText != "" {
				if _, err := t.engine.AddTask(*t.formText, models.Subject(*t.formSubject)); err != nil {
					return t, status(err.Error())
				}
			}
			return t, nil
		case "deleteTask":
			if *t.formConfirm {
				return t.deleteTask()
			}
			return t, nil
		}
	}

	return t, cmd
}

// lockInView returns the full-screen takeover, or "" when the normal layout
// should render.
func (t todayModel) lockInView(w, h int) string {
	if t.formActive {
		return ""
	}
	st := t.engine.State()
	if !st.Timer.IsRunning || !st.Timer.IsLockInActive {
		return ""
	}

	quote := quoteStyle.Width(w - 8).Render(constants.LockInQuotes[t.quoteIdx])
	elapsed := timerRunningStyle.Render(formatDuration(t.engine.Elapsed()))
	subject := lipgloss.NewStyle().
		Foreground(subjectColor(string(st.Timer.Subject))).
		Bold(true).
		Render(string(st.Timer.Subject))

	lines := []string{
		quote,
		"",
		subject,
		elapsed,
		"",
		t.minFocusBar(40),
		"",
	}
	if !t.wipeArmedAt.IsZero() {
		lines = append(lines, t.wipeCountdown())
	} else {
		lines = append(lines, mutedStyle.Render("x: stop   w: wipe   switching away breaches the session"))
	}

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, body)
}

func (t todayModel) wipeCountdown() string {
	held := t.clock.Now().Sub(t.wipeArmedAt)
	left := time.Duration(constants.WipeHoldMs)*time.Millisecond - held
	if left < 0 {
		left = 0
	}
	return errorStyle.Render(fmt.Sprintf("WIPING IN %d… any key cancels", int(left.Seconds())+1))
}

func (t todayModel) minFocusBar(width int) string {
	elapsed := t.engine.Elapsed()
	min := time.Duration(constants.MinFocusMs) * time.Millisecond
	frac := float64(elapsed) / float64(min)
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if frac >= 1 {
		return successStyle.Render(bar + " countable")
	}
	return warningStyle.Render(bar + fmt.Sprintf(" %s to count", formatDuration(min-elapsed)))
}

func (t todayModel) view() string {
	w := t.width - 4
	if t.formActive && t.form != nil {
		title := titleStyle.Render("Today")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(w).Render(content)
	}

	st := t.engine.State()
	now := t.clock.Now()

	var rows []string
	rows = append(rows, t.renderTimer(st))
	rows = append(rows, "")
	rows = append(rows, t.renderGoal(st, now))
	rows = append(rows, "")
	rows = append(rows, t.renderTasks(st))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderTimer(st models.AppState) string {
	if t.engine.Breached() {
		lines := []string{
			timerBreachStyle.Render("SESSION BREACHED"),
			timerStyle.Render(formatDuration(t.engine.Elapsed()) + " banked"),
		}
		if !t.wipeArmedAt.IsZero() {
			lines = append(lines, t.wipeCountdown())
		} else {
			lines = append(lines, mutedStyle.Render("r: resume   x: stop   w: wipe"))
		}
		return lipgloss.JoinVertical(lipgloss.Center, lines...)
	}

	if st.Timer.IsRunning {
		return lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Foreground(subjectColor(string(st.Timer.Subject))).Bold(true).Render(string(st.Timer.Subject)),
			timerRunningStyle.Render(formatDuration(t.engine.Elapsed())),
			t.minFocusBar(40),
			mutedStyle.Render("x: stop   w: wipe"),
		)
	}

	subject := models.Subjects[t.subjectIdx]
	mode := "relaxed"
	if st.IsLockInModeEnabled {
		mode = "LOCK-IN"
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Render("00:00"),
		lipgloss.NewStyle().Foreground(subjectColor(string(subject))).Bold(true).Render(string(subject)),
		mutedStyle.Render(fmt.Sprintf("s: start   p: subject   L: mode (%s)", mode)),
	)
}

func (t todayModel) renderGoal(st models.AppState, now time.Time) string {
	dist := timeutil.SubjectDistribution(st.Logs, now)
	total := 0.0
	var parts []string
	for _, s := range models.Subjects {
		total += dist[s]
		parts = append(parts, lipgloss.NewStyle().
			Foreground(subjectColor(string(s))).
			Render(fmt.Sprintf("%s %.1fh", s[:1], dist[s])))
	}
	goal := st.DailyGoalHours
	if goal <= 0 {
		goal = constants.DefaultDailyGoalHours
	}
	head := titleStyle.Render(fmt.Sprintf("Today  %.1f / %.1fh", total, goal))
	return head + "  " + strings.Join(parts, "  ")
}

func (t todayModel) renderTasks(st models.AppState) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Tasks"))

	if len(st.Tasks) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing pending. Press n to add one."))
		return strings.Join(rows, "\n")
	}

	for i, task := range st.Tasks {
		check := "☐"
		style := normalItemStyle
		if task.Completed {
			check = "☑"
			style = mutedStyle.Strikethrough(true)
		}
		cursor := "  "
		if i == t.taskCursor {
			cursor = "> "
			if !task.Completed {
				style = selectedItemStyle
			}
		}
		tag := ""
		if task.Subject != models.SubjectGeneral {
			tag = lipgloss.NewStyle().Foreground(subjectColor(string(task.Subject))).Render(" [" + string(task.Subject) + "]")
		}
		rows = append(rows, style.Render(cursor+check+" "+task.Text)+tag)
	}
	rows = append(rows, mutedStyle.Render("n: new  space: toggle  d: delete"))
	return strings.Join(rows, "\n")
}
