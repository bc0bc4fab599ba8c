package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/scoring"
	"github.com/lockinhq/lockin/internal/session"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type reviewModel struct {
	engine *session.Engine
	clock  timeutil.Clock
	width  int
	height int

	cursor int

	formActive  bool
	form        *huh.Form
	formConfirm *bool
	deleteLogID string
}

func newReviewModel(engine *session.Engine, clock timeutil.Clock) reviewModel {
	confirm := false
	return reviewModel{engine: engine, clock: clock, formConfirm: &confirm}
}

func (r *reviewModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

// recentLogs returns logs newest first.
func (r reviewModel) recentLogs() []models.FocusLog {
	logs := append([]models.FocusLog(nil), r.engine.State().Logs...)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date > logs[j].Date
	})
	return logs
}

func (r reviewModel) update(msg tea.Msg) (reviewModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	logs := r.recentLogs()

	switch {
	case key.Matches(msgKey, keys.Up):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(msgKey, keys.Down):
		if r.cursor < len(logs)-1 {
			r.cursor++
		}
	case key.Matches(msgKey, keys.Delete):
		if r.cursor < len(logs) {
			return r.showDeleteForm(logs[r.cursor])
		}
	}
	return r, nil
}

func (r reviewModel) showDeleteForm(log models.FocusLog) (reviewModel, tea.Cmd) {
	*r.formConfirm = false
	r.deleteLogID = log.ID
	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete this focus record?").
				Description(fmt.Sprintf("%s · %.2fh on %s", log.Subject, log.Hours, log.Date)).
				Affirmative("Delete").
				Negative("Keep").
				Value(r.formConfirm),
		),
	).WithShowHelp(true)
	r.formActive = true
	return r, r.form.Init()
}

func (r reviewModel) updateForm(msg tea.Msg) (reviewModel, tea.Cmd) {
	if msgKey, ok := msg.(tea.KeyMsg); ok && key.Matches(msgKey, keys.Back) {
		r.formActive = false
		r.form = nil
		return r, nil
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}
	if r.form.State == huh.StateCompleted {
		r.formActive = false
		r.form = nil
		if *r.formConfirm {
			return r.deleteSelected()
		}
		return r, nil
	}
	return r, cmd
}

func (r reviewModel) deleteSelected() (reviewModel, tea.Cmd) {
	if err := r.engine.DeleteLog(r.deleteLogID); err != nil {
		return r, status(err.Error())
	}
	if r.cursor > 0 {
		r.cursor--
	}
	return r, status("Log deleted")
}

func scoreBar(label string, value float64, width int) string {
	filled := int(value / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%-12s %s %3.0f", label, mutedStyle.Render(bar), value)
}

func (r reviewModel) view() string {
	w := r.width - 4
	if r.formActive && r.form != nil {
		return panelStyle.Width(w).Render(r.form.View())
	}
	st := r.engine.State()
	now := r.clock.Now()

	b := scoring.Compute(st.Logs, st.CurrentClass, st.Progress, now)

	scoreStyle := successStyle
	if b.Score < 40 {
		scoreStyle = errorStyle
	} else if b.Score < 70 {
		scoreStyle = warningStyle
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Integrity Score")+"  "+
		scoreStyle.Bold(true).Render(fmt.Sprintf("%d / 100", b.Score)))
	rows = append(rows, "")
	rows = append(rows, scoreBar("Consistency", b.Consistency, 24))
	rows = append(rows, scoreBar("Volume", b.Volume, 24))
	rows = append(rows, scoreBar("Syllabus", b.Syllabus, 24))
	rows = append(rows, scoreBar("Quality", b.Quality, 24))
	if b.Penalty > 0 {
		rows = append(rows, errorStyle.Render(fmt.Sprintf("%-12s -%d (distractions)", "Penalty", b.Penalty)))
	}
	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Recent Sessions"))

	logs := r.recentLogs()
	if len(logs) == 0 {
		rows = append(rows, mutedStyle.Render("No sessions yet. Start one on the Today tab."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	visible := r.height - len(rows) - 6
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if r.cursor >= visible {
		offset = r.cursor - visible + 1
	}

	for i := offset; i < len(logs) && i < offset+visible; i++ {
		l := logs[i]
		cursor := "  "
		style := normalItemStyle
		if i == r.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(subjectColor(string(l.Subject))).Render("●")
		line := fmt.Sprintf("%s%s %s  %-9s %5.2fh  q%d", cursor, dot, l.Date, l.Subject, l.Hours, l.Quality)
		if l.Distractions > 0 {
			line += errorStyle.Render(fmt.Sprintf("  ⚠%d", l.Distractions))
		}
		rows = append(rows, style.Render(line))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
