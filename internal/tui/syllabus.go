package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/session"
)

var statusGlyphs = map[models.SyllabusStatus]string{
	models.StatusNotStarted:      "○",
	models.StatusInProgress:      "◐",
	models.StatusCompleted:       "●",
	models.StatusRevisionPending: "↻",
}

var statusStyles = map[models.SyllabusStatus]lipgloss.Style{
	models.StatusNotStarted:      mutedStyle,
	models.StatusInProgress:      warningStyle,
	models.StatusCompleted:       successStyle,
	models.StatusRevisionPending: accentStyle,
}

type syllabusModel struct {
	engine *session.Engine
	width  int
	height int

	subjectIdx int
	cursor     int

	formActive bool
	form       *huh.Form

	formNotes *string
}

func newSyllabusModel(engine *session.Engine) syllabusModel {
	notes := ""
	return syllabusModel{
		engine:    engine,
		formNotes: &notes,
	}
}

func (s *syllabusModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s syllabusModel) chapters() []string {
	st := s.engine.State()
	return constants.Syllabus[st.CurrentClass][string(models.Subjects[s.subjectIdx])]
}

func (s syllabusModel) update(msg tea.Msg) (syllabusModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	chapters := s.chapters()

	switch {
	case key.Matches(msgKey, keys.Left):
		s.subjectIdx = (s.subjectIdx + len(models.Subjects) - 1) % len(models.Subjects)
		s.cursor = 0
	case key.Matches(msgKey, keys.Right):
		s.subjectIdx = (s.subjectIdx + 1) % len(models.Subjects)
		s.cursor = 0
	case key.Matches(msgKey, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msgKey, keys.Down):
		if s.cursor < len(chapters)-1 {
			s.cursor++
		}
	case key.Matches(msgKey, keys.Toggle), key.Matches(msgKey, keys.Enter):
		if s.cursor < len(chapters) {
			st := s.engine.State()
			next, err := s.engine.ToggleChapter(st.CurrentClass, models.Subjects[s.subjectIdx], chapters[s.cursor])
			if err != nil {
				return s, status(err.Error())
			}
			return s, status(fmt.Sprintf("%s → %s", chapters[s.cursor], next))
		}
	case key.Matches(msgKey, keys.Notes):
		if s.cursor < len(chapters) {
			return s.showNotesForm(chapters[s.cursor])
		}
	case key.Matches(msgKey, keys.Class):
		st := s.engine.State()
		next := 11
		if st.CurrentClass == 11 {
			next = 12
		}
		s.engine.SetClass(next)
		s.cursor = 0
		return s, status(fmt.Sprintf("Class %d", next))
	}
	return s, nil
}

func (s syllabusModel) showNotesForm(chapter string) (syllabusModel, tea.Cmd) {
	st := s.engine.State()
	subject := models.Subjects[s.subjectIdx]
	*s.formNotes = ""
	if p, ok := st.ProgressFor(models.ProgressKey{
		ClassID: st.CurrentClass,
		Subject: subject,
		Chapter: chapter,
	}); ok {
		*s.formNotes = p.Notes
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Notes · " + chapter).Value(s.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s syllabusModel) updateForm(msg tea.Msg) (syllabusModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		chapters := s.chapters()
		if s.cursor < len(chapters) {
			st := s.engine.State()
			if err := s.engine.SetChapterNotes(st.CurrentClass, models.Subjects[s.subjectIdx], chapters[s.cursor], *s.formNotes); err != nil {
				return s, status(err.Error())
			}
		}
	}

	return s, cmd
}

func (s syllabusModel) view() string {
	w := s.width - 4
	if s.formActive && s.form != nil {
		title := titleStyle.Render("Syllabus")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	st := s.engine.State()

	var tabs []string
	for i, subj := range models.Subjects {
		name := string(subj)
		if i == s.subjectIdx {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	subjectRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	chapters := s.chapters()
	done := 0
	for _, ch := range chapters {
		if p, ok := st.ProgressFor(models.ProgressKey{
			ClassID: st.CurrentClass,
			Subject: models.Subjects[s.subjectIdx],
			Chapter: ch,
		}); ok && p.Status == models.StatusCompleted {
			done++
		}
	}

	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Class %d  ·  %d/%d completed", st.CurrentClass, done, len(chapters))))
	rows = append(rows, subjectRow)
	rows = append(rows, "")

	visible := s.height - 10
	if visible < 5 {
		visible = 5
	}
	offset := 0
	if s.cursor >= visible {
		offset = s.cursor - visible + 1
	}

	for i := offset; i < len(chapters) && i < offset+visible; i++ {
		ch := chapters[i]
		progStatus := models.StatusNotStarted
		notes := ""
		if p, ok := st.ProgressFor(models.ProgressKey{
			ClassID: st.CurrentClass,
			Subject: models.Subjects[s.subjectIdx],
			Chapter: ch,
		}); ok {
			progStatus = p.Status
			notes = p.Notes
		}

		glyph := statusStyles[progStatus].Render(statusGlyphs[progStatus])
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := cursor + glyph + " " + style.Render(ch)
		if notes != "" {
			row += mutedStyle.Render("  · " + notes)
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("←/→: subject  space: cycle status  o: notes  c: class"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
