package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/session"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type streakModel struct {
	engine *session.Engine
	clock  timeutil.Clock
	width  int
	height int
}

func newStreakModel(engine *session.Engine, clock timeutil.Clock) streakModel {
	return streakModel{engine: engine, clock: clock}
}

func (s *streakModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s streakModel) update(msg tea.Msg) (streakModel, tea.Cmd) {
	return s, nil
}

func (s streakModel) buildChart() barchart.Model {
	chartWidth := s.width - 12
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if s.height > 28 {
		chartHeight = 14
	}

	chart := barchart.New(chartWidth, chartHeight)

	st := s.engine.State()
	now := s.clock.Now()
	stats := timeutil.Last7Days(st.Logs, now)

	// Per-subject stacks per day
	perDay := make(map[string]map[models.Subject]float64)
	for _, l := range st.Logs {
		if perDay[l.Date] == nil {
			perDay[l.Date] = make(map[models.Subject]float64)
		}
		perDay[l.Date][l.Subject] += l.Hours
	}

	var bars []barchart.BarData
	for _, day := range stats {
		var values []barchart.BarValue
		for _, subj := range models.Subjects {
			if h := perDay[day.Key][subj]; h > 0 {
				values = append(values, barchart.BarValue{
					Name:  string(subj),
					Value: h,
					Style: lipgloss.NewStyle().Foreground(subjectColor(string(subj))),
				})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{
			Label:  day.Day,
			Values: values,
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}

func (s streakModel) view() string {
	w := s.width - 4
	st := s.engine.State()
	now := s.clock.Now()

	streak := timeutil.Streak(st.Logs, now)
	days := timeutil.DaysRemaining(constants.ExamDate, now)

	flame := "·"
	style := mutedStyle
	if streak > 0 {
		flame = "🔥"
		style = accentStyle
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Streak"))
	rows = append(rows, "")
	rows = append(rows, style.Render(fmt.Sprintf("%s %d day streak", flame, streak))+
		mutedStyle.Render(fmt.Sprintf("   %d days to Mains '27", days)))
	rows = append(rows, "")
	rows = append(rows, s.buildChart().View())
	rows = append(rows, "")

	var legend []string
	for _, subj := range models.Subjects {
		legend = append(legend, lipgloss.NewStyle().
			Foreground(subjectColor(string(subj))).
			Render("■ "+string(subj)))
	}
	rows = append(rows, strings.Join(legend, "  "))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
