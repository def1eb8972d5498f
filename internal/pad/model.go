package pad

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onkardamal/Aura/internal/analyzer"
	"github.com/onkardamal/Aura/internal/log"
	"github.com/onkardamal/Aura/internal/mode"
	"github.com/onkardamal/Aura/internal/model"
	"github.com/onkardamal/Aura/internal/render"
	"github.com/onkardamal/Aura/internal/stats"
	"github.com/onkardamal/Aura/internal/store"
	"github.com/onkardamal/Aura/internal/suggest"
	"github.com/onkardamal/Aura/internal/typing"
)

const (
	// DefaultDebounce is the quiet period after the last edit before analysis starts.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultReevaluate is the interval between periodic mood re-evaluations.
	DefaultReevaluate = 5 * time.Second
)

// Config controls the pad.
type Config struct {
	Debounce   time.Duration
	Reevaluate time.Duration
	Options    analyzer.Options
	SessionID  string
	// Record persists analyses and mood changes when a store is provided.
	Record bool
}

type debounceMsg struct{ seq int }

type analysisMsg struct {
	gen     uint64
	outcome analyzer.Outcome
	length  int
}

type tickMsg time.Time

// Model implements the Bubble Tea typing pad.
type Model struct {
	cfg      Config
	analyzer *analyzer.Analyzer
	tracker  *typing.Tracker
	session  *analyzer.Session
	store    *store.Store
	logger   *slog.Logger
	now      func() time.Time

	input  textarea.Model
	width  int
	height int

	seq       int
	pending   bool
	outcome   analyzer.Outcome
	hasResult bool
	mood      model.MoodLabel
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a pad model. st may be nil.
func NewModel(cfg Config, an *analyzer.Analyzer, tracker *typing.Tracker, st *store.Store, logger *slog.Logger) *Model {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Reevaluate <= 0 {
		cfg.Reevaluate = DefaultReevaluate
	}
	input := textarea.New()
	input.Placeholder = "Start typing..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	return &Model{
		cfg:      cfg,
		analyzer: an,
		tracker:  tracker,
		session:  &analyzer.Session{},
		store:    st,
		logger:   log.OrDiscard(logger),
		now:      time.Now,
		input:    input,
		outcome:  analyzer.Outcome{Result: analyzer.Neutral(), Source: analyzer.SourceHeuristic},
		mood:     tracker.Mood(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Reevaluate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(msg.Width-4, 10))
		m.input.SetHeight(max(msg.Height/3, 3))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.analyze()
	case analysisMsg:
		m.applyAnalysis(msg)
		return m, nil
	case tickMsg:
		m.setMood(m.tracker.Evaluate(time.Time(msg).UnixMilli()))
		return m, m.tick()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlT:
		m.tracker.SetEnabled(!m.tracker.Enabled())
		m.setMood(m.tracker.Mood())
		return m, nil
	}

	if sample, ok := m.sampleFor(msg); ok {
		m.setMood(m.tracker.Observe(sample))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.inputChanged())
}

func (m *Model) sampleFor(msg tea.KeyMsg) (model.TypingSample, bool) {
	ts := m.now().UnixMilli()
	switch msg.Type {
	case tea.KeyBackspace:
		return model.TypingSample{TimestampMs: ts, IsDeletion: true, RawKey: "Backspace"}, true
	case tea.KeyDelete:
		return model.TypingSample{TimestampMs: ts, IsDeletion: true, RawKey: "Delete"}, true
	case tea.KeyRunes, tea.KeySpace, tea.KeyEnter, tea.KeyTab:
		return model.TypingSample{TimestampMs: ts, RawKey: msg.String()}, true
	default:
		return model.TypingSample{}, false
	}
}

// inputChanged resets on empty input or restarts the debounce timer.
func (m *Model) inputChanged() tea.Cmd {
	m.seq++
	if strings.TrimSpace(m.input.Value()) == "" {
		m.session.Reset()
		m.tracker.Reset()
		m.setMood(m.tracker.Mood())
		m.outcome = analyzer.Outcome{Result: analyzer.Neutral(), Source: analyzer.SourceHeuristic}
		m.hasResult = false
		m.pending = false
		return nil
	}
	seq := m.seq
	m.pending = true
	return tea.Tick(m.cfg.Debounce, func(time.Time) tea.Msg { return debounceMsg{seq: seq} })
}

func (m *Model) analyze() tea.Cmd {
	gen := m.session.Begin()
	text := m.input.Value()
	an := m.analyzer
	opts := m.cfg.Options
	session := m.session
	return func() tea.Msg {
		if !session.Current(gen) {
			return analysisMsg{gen: gen}
		}
		outcome := an.Run(context.Background(), text, opts)
		return analysisMsg{gen: gen, outcome: outcome, length: len([]rune(text))}
	}
}

func (m *Model) applyAnalysis(msg analysisMsg) {
	if !m.session.Commit(msg.gen, msg.outcome) {
		m.logger.Debug("discarding stale analysis", "generation", msg.gen)
		return
	}
	m.outcome, m.hasResult = m.session.Latest()
	m.pending = false
	if !m.recording() {
		return
	}
	rec := model.AnalysisRecord{
		SessionID:  m.cfg.SessionID,
		CreatedAt:  m.now(),
		Source:     string(msg.outcome.Source),
		TextLength: msg.length,
		Result:     msg.outcome.Result,
	}
	if _, err := m.store.InsertAnalysis(context.Background(), rec); err != nil {
		m.logger.Warn("failed to save analysis", "err", err)
	}
}

func (m *Model) setMood(mood model.MoodLabel) {
	if mood == m.mood {
		return
	}
	m.mood = mood
	if !m.recording() {
		return
	}
	snap := m.tracker.Snapshot()
	rec := model.MoodRecord{
		SessionID:     m.cfg.SessionID,
		At:            m.now(),
		Mood:          mood,
		Mode:          mode.ForMood(mood),
		SpeedEstimate: snap.SpeedEstimate,
		ErrorRate:     m.tracker.ErrorRate(),
	}
	if _, err := m.store.InsertMood(context.Background(), rec); err != nil {
		m.logger.Warn("failed to save mood change", "err", err)
	}
}

func (m *Model) recording() bool {
	return m.cfg.Record && m.store != nil
}

// currentMode prefers the typing mood and falls back to the text sentiment.
func (m *Model) currentMode() model.Mode {
	if md := mode.ForMood(m.mood); md != model.ModeDefault {
		return md
	}
	return mode.ForSentiment(m.outcome.Result.Sentiment.Label)
}

// View implements tea.Model.
func (m *Model) View() string {
	md := m.currentMode()
	accent := lipgloss.NewStyle().Foreground(render.ModeColor(md)).Bold(true)
	panelWidth := m.panelWidth()

	header := titleStyle.Render("aura") + "  " + accent.Render("mode: "+string(md))
	sections := []string{
		header,
		m.input.View(),
		panelStyle.BorderForeground(render.ModeColor(md)).Width(panelWidth).Render(m.renderAnalysis(panelWidth - 4)),
		panelStyle.Width(panelWidth).Render(m.renderTyping(panelWidth - 4)),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) panelWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width-2, 20)
}

func (m *Model) renderAnalysis(width int) string {
	r := m.outcome.Result
	var b strings.Builder
	status := string(m.outcome.Source)
	if m.pending {
		status = "analyzing..."
	} else if !m.hasResult {
		status = "waiting for input"
	}
	fmt.Fprintf(&b, "%s %s (%+d)   %s %s   %s %s\n",
		labelStyle.Render("sentiment"), r.Sentiment.Label, r.Sentiment.Score,
		labelStyle.Render("intent"), r.Intent,
		labelStyle.Render("source"), status)
	cats := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		cats[i] = string(c)
	}
	if len(cats) == 0 {
		cats = []string{"-"}
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("categories"), strings.Join(cats, ", "))
	for _, s := range r.Suggestions {
		b.WriteString(bullet(s, width))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderTyping(width int) string {
	snap := m.tracker.Snapshot()
	wpm, acc := stats.WindowMetrics(snap)
	var b strings.Builder
	if !m.tracker.Enabled() {
		b.WriteString("typing tracker paused (ctrl+t to resume)")
		return b.String()
	}
	fmt.Fprintf(&b, "%s %s   %s %d   %s %.1f   %s %.1f%%   %s %.1f%%\n",
		labelStyle.Render("mood"), m.mood,
		labelStyle.Render("speed"), snap.SpeedEstimate,
		labelStyle.Render("wpm"), wpm,
		labelStyle.Render("accuracy"), acc*100,
		labelStyle.Render("errors"), m.tracker.ErrorRate()*100)
	for _, s := range suggest.ForMood(m.mood) {
		b.WriteString(bullet(s, width))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{"esc quit", "ctrl+t toggle tracking"}
	if m.cfg.Options.UseRemote {
		segments = append(segments, "remote: "+string(m.cfg.Options.Remote.Kind))
	} else {
		segments = append(segments, "remote: off")
	}
	if m.recording() {
		segments = append(segments, "history on")
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}
