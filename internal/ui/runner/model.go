package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quizhook/internal/modules/quiz/domain"
	"quizhook/internal/ui/theme"
)

type phase int

const (
	phaseAnswer phase = iota
	phaseGrade
	phaseReflect
	phaseSkipReason
	phaseSkipNote
	phaseDone
)

const noContext = "No additional context available."

type keyMap struct {
	Submit key.Binding
	Quit   key.Binding
	Grade  key.Binding
	Skip   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "abort")),
		Grade:  key.NewBinding(key.WithKeys("c", "p", "w"), key.WithHelp("c/p/w", "grade")),
		Skip:   key.NewBinding(key.WithKeys("t", "k", "u", "o"), key.WithHelp("t/k/u/o", "skip reason")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Grade, k.Skip, k.Quit}}
}

// Model walks through a quiz one question at a time. Typing s, h or ? as
// the answer skips, shows a hint or shows the session context.
type Model struct {
	title     string
	questions []domain.Question
	answers   []domain.Answer
	index     int
	phase     phase

	input   textinput.Model
	keys    keyMap
	help    help.Model
	notice  string
	grade   domain.Grade
	reason  domain.SkipReason
	started time.Time
	now     func() time.Time
	aborted bool
	width   int
}

func New(title string, questions []domain.Question, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "your answer (s skip, h hint, ? context)"
	ti.CharLimit = 2000
	ti.Focus()
	return Model{
		title:     title,
		questions: questions,
		answers:   make([]domain.Answer, 0, len(questions)),
		input:     ti,
		keys:      defaultKeys(),
		help:      help.New(),
		started:   now(),
		now:       now,
	}
}

func (m Model) Answers() []domain.Answer { return m.answers }

// Aborted reports whether the user left before the last question.
func (m Model) Aborted() bool { return m.aborted }

func (m Model) Done() bool { return m.phase == phaseDone }

func (m Model) Init() tea.Cmd {
	if len(m.questions) == 0 {
		return tea.Quit
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 20)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.aborted = m.phase != phaseDone
			return m, tea.Quit
		}
		switch m.phase {
		case phaseAnswer:
			if key.Matches(msg, m.keys.Submit) {
				return m.submitAnswer()
			}
		case phaseGrade:
			return m.chooseGrade(msg.String())
		case phaseSkipReason:
			return m.chooseSkipReason(msg.String())
		case phaseReflect:
			if key.Matches(msg, m.keys.Submit) {
				return m.record(domain.Answered(m.current(), m.grade, m.input.Value(), m.elapsed()))
			}
		case phaseSkipNote:
			if key.Matches(msg, m.keys.Submit) {
				return m.record(domain.Skipped(m.current(), m.reason, m.input.Value(), m.elapsed()))
			}
		case phaseDone:
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitAnswer() (tea.Model, tea.Cmd) {
	q := m.current()
	switch strings.ToLower(strings.TrimSpace(m.input.Value())) {
	case "s":
		m.phase = phaseSkipReason
		m.notice = ""
		m.input.Blur()
	case "h":
		m.notice = "Hint: " + q.Hint()
	case "?":
		ctx := q.Context
		if ctx == "" {
			ctx = noContext
		}
		m.notice = "Context: " + ctx
	default:
		m.phase = phaseGrade
		m.notice = ""
		m.input.Blur()
	}
	m.input.SetValue("")
	return m, nil
}

func (m Model) chooseGrade(k string) (tea.Model, tea.Cmd) {
	grade, err := domain.ParseGrade(k)
	if err != nil {
		m.notice = "Please enter c, p, or w"
		return m, nil
	}
	m.grade = grade
	m.notice = ""
	if grade == domain.GradeCorrect {
		return m.record(domain.Answered(m.current(), grade, "", m.elapsed()))
	}
	m.phase = phaseReflect
	m.input.Placeholder = "what did you miss? (optional)"
	return m, m.input.Focus()
}

func (m Model) chooseSkipReason(k string) (tea.Model, tea.Cmd) {
	reason, err := domain.ParseSkipKey(k)
	if err != nil {
		m.notice = "Please enter t, k, u, or o"
		return m, nil
	}
	m.reason = reason
	m.notice = ""
	if reason == domain.SkipOther {
		m.phase = phaseSkipNote
		m.input.Placeholder = "note"
		return m, m.input.Focus()
	}
	return m.record(domain.Skipped(m.current(), reason, "", m.elapsed()))
}

func (m Model) record(answer domain.Answer) (tea.Model, tea.Cmd) {
	m.answers = append(m.answers, answer)
	m.index++
	m.input.SetValue("")
	m.notice = ""
	if m.index >= len(m.questions) {
		m.phase = phaseDone
		m.input.Blur()
		return m, tea.Quit
	}
	m.phase = phaseAnswer
	m.started = m.now()
	m.input.Placeholder = "your answer (s skip, h hint, ? context)"
	return m, m.input.Focus()
}

func (m Model) current() domain.Question {
	return m.questions[m.index]
}

func (m Model) elapsed() time.Duration {
	return m.now().Sub(m.started)
}

func (m Model) View() string {
	if m.phase == phaseDone || len(m.questions) == 0 {
		return ""
	}
	q := m.current()
	b := strings.Builder{}
	b.WriteString(theme.Title.Render(m.title) + "\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("%d questions · ~%d min", len(m.questions), len(m.questions)*2)) + "\n\n")

	kind := strings.ToUpper(strings.ReplaceAll(q.Kind(), "_", " "))
	b.WriteString(theme.Hot.Render(fmt.Sprintf("Q%d/%d [%s]", m.index+1, len(m.questions), kind)) + "\n")
	b.WriteString(q.Question + "\n")
	if len(q.Tags) > 0 {
		b.WriteString(theme.Muted.Render("Tags: "+strings.Join(q.Tags, ", ")) + "\n")
	}
	b.WriteString("\n")

	switch m.phase {
	case phaseAnswer:
		b.WriteString("Your answer:\n" + m.input.View() + "\n")
	case phaseGrade:
		b.WriteString(theme.Pane.Render("Expected answer:\n"+q.ExpectedAnswer+contextBlock(q)) + "\n\n")
		b.WriteString("How'd you do?\n")
		b.WriteString(theme.Good.Render("  [c] Correct - I got the key points") + "\n")
		b.WriteString(theme.Warn.Render("  [p] Partial - I missed something important") + "\n")
		b.WriteString(theme.Bad.Render("  [w] Wrong - I didn't understand this") + "\n")
	case phaseReflect:
		b.WriteString("What did you miss? (optional, enter to continue)\n" + m.input.View() + "\n")
	case phaseSkipReason:
		b.WriteString("Why are you skipping? (required)\n")
		b.WriteString("  [t] Time pressure - need to ship\n")
		b.WriteString("  [k] Already know this well\n")
		b.WriteString("  [u] Question unclear\n")
		b.WriteString("  [o] Other\n")
	case phaseSkipNote:
		b.WriteString("Note:\n" + m.input.View() + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + theme.Warn.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))

	style := lipgloss.NewStyle().Padding(1, 2)
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(b.String())
}

func contextBlock(q domain.Question) string {
	if q.Context == "" {
		return ""
	}
	return "\n\nContext from session:\n" + q.Context
}
