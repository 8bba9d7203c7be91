// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typedesk/internal/clock"
	"github.com/verte-zerg/typedesk/internal/generator"
	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/session"
	"github.com/verte-zerg/typedesk/internal/stats"
	"github.com/verte-zerg/typedesk/internal/submit"
	"github.com/verte-zerg/typedesk/internal/wordlist"
)

type screen int

const (
	screenPicker screen = iota
	screenTyping
	screenResult
)

// Options configures the practice UI.
type Options struct {
	// Subject skips the picker when set.
	Subject       *model.Subject
	Duration      int
	Words         func(model.Language) ([]string, error)
	Generator     *generator.Generator
	Submitter     submit.Submitter
	SubmitTimeout time.Duration
	Logger        *zap.Logger
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	ctx  context.Context
	opts Options
	log  *zap.Logger

	screen screen
	width  int
	height int

	picker table.Model
	review viewport.Model

	subject  model.Subject
	runner   *session.Runner
	sessCtx  context.Context
	cancel   context.CancelFunc
	gen      int
	snap     session.Snapshot
	outcome  *session.Outcome
	quitting bool
	err      error
}

type snapshotMsg struct {
	gen  int
	snap session.Snapshot
}

type outcomeMsg struct {
	gen     int
	outcome session.Outcome
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#6E6E6E")).
				Padding(0, 1).
				Align(lipgloss.Center)
)

// NewModel constructs the practice UI. Without a subject it opens on the
// subject picker.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Words == nil {
		opts.Words = func(lang model.Language) ([]string, error) {
			return wordlist.Builtin(lang), nil
		}
	}
	if opts.Generator == nil {
		opts.Generator = generator.New()
	}
	if opts.Duration <= 0 {
		opts.Duration = clock.DefaultDuration
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		ctx:    ctx,
		opts:   opts,
		log:    log,
		picker: newPicker(model.Subjects()),
		review: viewport.New(0, 0),
	}
	if opts.Subject != nil {
		m.subject = *opts.Subject
		m.screen = screenTyping
	}
	return m
}

func newPicker(subjects []model.Subject) table.Model {
	columns := []table.Column{
		{Title: "Subject", Width: 18},
		{Title: "Language", Width: 10},
		{Title: "Target", Width: 8},
		{Title: "Words", Width: 6},
	}
	rows := make([]table.Row, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, table.Row{
			s.Label,
			s.Language.Label(),
			fmt.Sprintf("%d WPM", s.TargetWPM),
			strconv.Itoa(s.WordCount()),
		})
	}
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.screen == screenTyping {
		return m.startSession()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case snapshotMsg:
		if msg.gen != m.gen || m.runner == nil {
			return m, nil
		}
		m.apply(msg.snap)
		return m, listen(m.sessCtx, m.gen, m.runner)
	case outcomeMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		out := msg.outcome
		m.outcome = &out
		m.snap.Result = out.Result
		m.snap.Done = true
		m.screen = screenResult
		m.refreshReview()
		if m.quitting {
			m.stopSession()
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.err != nil {
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				return m.quit()
			}
			return m, nil
		}
		switch m.screen {
		case screenPicker:
			return m.updatePicker(msg)
		case screenTyping:
			return m.updateTyping(msg)
		default:
			return m.updateResult(msg)
		}
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || msg.String() == "q":
		return m.quit()
	case msg.Type == tea.KeyEnter:
		subjects := model.Subjects()
		idx := m.picker.Cursor()
		if idx < 0 || idx >= len(subjects) {
			return m, nil
		}
		m.subject = subjects[idx]
		return m, m.startSession()
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		snap session.Snapshot
		err  error
	)
	switch msg.Type {
	case tea.KeyEsc:
		return m.quit()
	case tea.KeyCtrlR:
		if m.snap.State == clock.Idle {
			return m, m.startSession()
		}
		return m, nil
	case tea.KeyCtrlS:
		snap, err = m.runner.Submit()
	case tea.KeyBackspace, tea.KeyDelete:
		snap, err = m.runner.Backspace()
	case tea.KeySpace:
		snap, err = m.runner.Type([]rune{' '})
	case tea.KeyRunes:
		snap, err = m.runner.Type(msg.Runes)
	default:
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.apply(snap)
	return m, nil
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || msg.String() == "q":
		return m.quit()
	case m.outcome == nil:
		// Wait for the submission before starting over.
		return m, nil
	case msg.Type == tea.KeyEnter:
		return m, m.startSession()
	case msg.String() == "p":
		m.stopSession()
		m.screen = screenPicker
		return m, nil
	}
	var cmd tea.Cmd
	m.review, cmd = m.review.Update(msg)
	return m, cmd
}

// quit waits for a pending submission once; a second request quits anyway.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.runner != nil && m.snap.Done && m.outcome == nil && !m.quitting {
		m.quitting = true
		return m, nil
	}
	m.stopSession()
	return m, tea.Quit
}

func (m *Model) startSession() tea.Cmd {
	m.stopSession()
	words, err := m.opts.Words(m.subject.Language)
	if err != nil {
		m.err = fmt.Errorf("failed to load words: %w", err)
		return nil
	}
	passage := m.opts.Generator.Passage(m.subject, words)

	ctx, cancel := context.WithCancel(m.ctx)
	runner := session.NewRunner(ctx, m.subject, passage, session.RunnerOptions{
		Duration:      m.opts.Duration,
		Submitter:     m.opts.Submitter,
		SubmitTimeout: m.opts.SubmitTimeout,
		Logger:        m.log,
	})
	snap, err := runner.Snapshot()
	if err != nil {
		cancel()
		runner.Close()
		m.err = err
		return nil
	}
	m.gen++
	m.runner = runner
	m.sessCtx = ctx
	m.cancel = cancel
	m.snap = snap
	m.outcome = nil
	m.screen = screenTyping
	m.log.Debug("session started",
		zap.String("text_id", passage.ID),
		zap.String("subject", m.subject.ID),
		zap.Int("words", passage.WordCount),
	)
	return listen(ctx, m.gen, runner)
}

// stopSession releases the current runner. Ticks or submissions still in
// flight are cancelled.
func (m *Model) stopSession() {
	if m.runner == nil {
		return
	}
	m.cancel()
	m.runner.Close()
	m.runner = nil
	m.cancel = nil
	m.sessCtx = nil
}

// Close releases the running session, if any.
func (m *Model) Close() {
	m.stopSession()
}

func (m *Model) apply(snap session.Snapshot) {
	m.snap = snap
	if snap.Done && m.screen == screenTyping {
		m.screen = screenResult
		m.refreshReview()
	}
}

func listen(ctx context.Context, gen int, r *session.Runner) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-r.Updates():
			return snapshotMsg{gen: gen, snap: snap}
		case out := <-r.Done():
			return outcomeMsg{gen: gen, outcome: out}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) resize() {
	m.review.Width = m.contentWidth()
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	m.review.Height = h
}

func (m *Model) refreshReview() {
	var b strings.Builder
	if err := stats.RenderWordDiff(&b, m.snap.Result); err != nil {
		b.WriteString(err.Error())
	}
	m.review.SetContent(strings.TrimRight(b.String(), "\n"))
	m.review.GotoTop()
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = warnStyle.Render("Error: "+m.err.Error()) + "\n\n" + footerStyle.Render("q quit")
	case m.screen == screenPicker:
		content = titleStyle.Render("Choose a subject") + "\n\n" + m.picker.View() + "\n\n" +
			footerStyle.Render("↑/↓ move  enter start  q quit")
	case m.screen == screenTyping:
		return m.viewTyping()
	default:
		content = m.viewResult()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewTyping() string {
	target := []rune(m.snap.Passage)
	if len(target) == 0 {
		return ""
	}
	cells := styleCells(target, []rune(m.snap.Input))
	header := titleStyle.Render(m.snap.Subject.Label)
	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + joinCells(cells)
	}
	contentWidth := m.contentWidth()
	wrapped := wrapCells(cells, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(header + "\n\n" + wrapped)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	live := m.snap.Live
	segments := []string{
		"Time " + stats.FormatDuration(m.snap.Remaining),
		fmt.Sprintf("WPM %d", live.WPM),
		fmt.Sprintf("Accuracy %d%%", live.Accuracy),
		fmt.Sprintf("Errors %d", live.ErrorCount),
		fmt.Sprintf("Progress %d%%", m.snap.Progress()),
	}
	if m.snap.State == clock.Idle {
		segments = append(segments, "ctrl+r new passage")
	}
	segments = append(segments, "ctrl+s submit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) viewResult() string {
	r := m.snap.Result
	title := titleStyle.Render(fmt.Sprintf("%s · %s", r.SubjectLabel, r.Trigger))
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("WPM", strconv.Itoa(r.WPM)),
		card("Accuracy", fmt.Sprintf("%d%%", r.Accuracy)),
		card("Errors", strconv.Itoa(r.ErrorCount)),
		card("Marks", fmt.Sprintf("%s/%d", strconv.FormatFloat(r.Marks, 'f', -1, 64), r.TotalMarks)),
		card("Time", stats.FormatDuration(r.Duration)),
	)
	parts := []string{title, cards}
	if notice := m.submitNotice(); notice != "" {
		parts = append(parts, notice)
	}
	parts = append(parts, m.review.View(), footerStyle.Render(m.resultHelp()))
	return strings.Join(parts, "\n")
}

func (m *Model) submitNotice() string {
	switch {
	case m.outcome == nil && m.quitting:
		return footerStyle.Render("Saving result before quitting...")
	case m.outcome == nil:
		return footerStyle.Render("Saving result...")
	case m.outcome.SubmitErr != nil:
		return warnStyle.Render("Result not submitted: " + m.outcome.SubmitErr.Error())
	default:
		return ""
	}
}

func (m *Model) resultHelp() string {
	if m.outcome == nil {
		return "q quit"
	}
	return "enter new session  p subjects  ↑/↓ scroll  q quit"
}

func card(label, value string) string {
	return cardStyle.Render(footerStyle.Render(label) + "\n" + titleStyle.Render(value))
}
