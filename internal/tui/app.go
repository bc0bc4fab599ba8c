package tui

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/scoring"
	"github.com/lockinhq/lockin/internal/session"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type viewState int

const (
	viewToday viewState = iota
	viewSyllabus
	viewStreak
	viewReview
)

var viewNames = []string{"Today", "Syllabus", "Streak", "Review"}

var viewTabs = map[viewState]string{
	viewToday:    "today",
	viewSyllabus: "syllabus",
	viewStreak:   "streak",
	viewReview:   "review",
}

type tickMsg time.Time

type statusMsg struct {
	text string
}

// terminalGuard maps the focus collaborator onto terminal focus reporting.
// A locked-in session may only start while the terminal has focus; losing
// focus afterwards is a breach, delivered through tea.BlurMsg.
type terminalGuard struct {
	focused atomic.Bool
}

func (g *terminalGuard) Acquire() error {
	if !g.focused.Load() {
		return session.ErrFocusDenied
	}
	return nil
}

func (g *terminalGuard) Release() {}

// App is the root Bubble Tea model.
type App struct {
	engine *session.Engine
	clock  timeutil.Clock
	sync   func() string
	guard  *terminalGuard

	width  int
	height int

	activeView viewState
	showHelp   bool

	today    todayModel
	syllabus syllabusModel
	streak   streakModel
	review   reviewModel

	help   help.Model
	status string
}

func NewApp(engine *session.Engine, clock timeutil.Clock, syncStatus func() string) App {
	h := help.New()
	h.ShowAll = false

	guard := &terminalGuard{}
	guard.focused.Store(true)
	engine.SetGuard(guard)

	active := viewToday
	for v, name := range viewTabs {
		if name == engine.State().LastUsedTab {
			active = v
		}
	}

	return App{
		engine:     engine,
		clock:      clock,
		sync:       syncStatus,
		guard:      guard,
		activeView: active,
		today:      newTodayModel(engine, clock),
		syllabus:   newSyllabusModel(engine),
		streak:     newStreakModel(engine, clock),
		review:     newReviewModel(engine, clock),
		help:       h,
	}
}

// Run starts the full-screen interface and blocks until it exits.
func Run(engine *session.Engine, clock timeutil.Clock, syncStatus func() string) error {
	app := NewApp(engine, clock, syncStatus)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.syllabus.setSize(a.width, contentHeight)
		a.streak.setSize(a.width, contentHeight)
		a.review.setSize(a.width, contentHeight)
		return a, nil

	case tea.FocusMsg:
		a.guard.focused.Store(true)
		return a, nil

	case tea.BlurMsg:
		a.guard.focused.Store(false)
		st := a.engine.State()
		if st.Timer.IsRunning && st.Timer.IsLockInActive {
			if err := a.engine.Breach(); err != nil {
				a.status = err.Error()
			} else {
				a.status = "Focus lost. Session breached."
			}
		}
		return a, nil

	case tea.KeyMsg:
		// The lock-in screen swallows everything except its own keys.
		if a.today.capturesInput() {
			return a.updateToday(msg)
		}
		// If a child view is capturing input (e.g. form), delegate first.
		if a.syllabus.formActive || a.review.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewSyllabus)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewStreak)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewReview)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % 4)
		}

	case tickMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	if err := a.engine.SetTab(viewTabs[v]); err != nil {
		a.status = err.Error()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		return a.updateToday(msg)
	case viewSyllabus:
		a.syllabus, cmd = a.syllabus.update(msg)
	case viewStreak:
		a.streak, cmd = a.streak.update(msg)
	case viewReview:
		a.review, cmd = a.review.update(msg)
	}
	return a, cmd
}

func (a App) updateToday(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.today, cmd = a.today.update(msg)
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	// A locked-in session takes over the whole screen.
	if full := a.today.lockInView(a.width, a.height); full != "" {
		return full
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewSyllabus:
		content = a.syllabus.view()
	case viewStreak:
		content = a.streak.view()
	case viewReview:
		content = a.review.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	st := a.engine.State()
	now := a.clock.Now()
	score := scoring.LockInScore(st.Logs, st.CurrentClass, st.Progress, now)
	streak := timeutil.Streak(st.Logs, now)
	days := timeutil.DaysRemaining(constants.ExamDate, now)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("lockin")
	stats := mutedStyle.Render(fmt.Sprintf("score %d · streak %d · %dd to mains", score, streak, days))
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", stats)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}
	syncInfo := mutedStyle.Render(" [" + a.sync() + "]")

	timerInfo := ""
	if st := a.engine.State(); st.Timer.IsRunning {
		timerInfo = successStyle.Render(" ● " + formatDuration(a.engine.Elapsed()))
	} else if a.engine.Breached() {
		timerInfo = errorStyle.Render(" ⚠ BREACHED")
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status + syncInfo

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
