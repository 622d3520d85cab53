// Package tui provides the Bubble Tea live view for gesture detection.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kagesign/jutsu/internal/catalog"
	"github.com/kagesign/jutsu/internal/effects"
	"github.com/kagesign/jutsu/internal/gesture"
	"github.com/kagesign/jutsu/internal/progress"
	"github.com/kagesign/jutsu/internal/tracker"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Section heading
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	sealStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	// Countdown urgency bands
	urgencyLowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	urgencyMediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	urgencyCriticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Event log kinds
	kindProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	kindCompleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	kindResetStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Messages ─────────────────

// EventMsg delivers one classifier observation to the view.
type EventMsg gesture.Event

// StreamClosedMsg signals the end of the input stream.
type StreamClosedMsg struct {
	Err error // nil on clean EOF
}

// CatalogMsg delivers a hot-reloaded catalog (or the reload failure).
type CatalogMsg struct {
	Catalog *catalog.Catalog
	Err     error
}

type tickMsg time.Time

const tickInterval = 100 * time.Millisecond

// ── Model ────────────────────

// Model is the root Bubble Tea model for the live detection view.
type Model struct {
	tracker    *tracker.Tracker
	dispatcher *effects.Dispatcher
	title      string

	// OnOutcome, when set, observes the outcome of every processed event.
	OnOutcome func(out tracker.Outcome, ev gesture.Event)

	log      viewport.Model
	logLines []string

	banner      string
	bannerUntil time.Time

	streamDone bool
	streamErr  error
	width      int
	height     int
	ready      bool
}

// New creates a live view over the given tracker.
func New(tr *tracker.Tracker, dispatcher *effects.Dispatcher, title string) Model {
	return Model{
		tracker:    tr,
		dispatcher: dispatcher,
		title:      title,
	}
}

// Run starts the view in the alternate screen. start is launched in a
// goroutine with the program's Send function so the caller can pump
// EventMsg/CatalogMsg/StreamClosedMsg values in.
func Run(m Model, start func(send func(tea.Msg))) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if start != nil {
		go start(p.Send)
	}
	_, err := p.Run()
	return err
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.tracker.Reset()
			m.appendLog(kindResetStyle.Render("RESET"), "attempt discarded (manual)")
			return m, nil
		}
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewport()
		return m, nil

	case tickMsg:
		if m.banner != "" && time.Time(msg).After(m.bannerUntil) {
			m.banner = ""
		}
		return m, tick()

	case EventMsg:
		m.handleEvent(gesture.Event(msg))
		return m, nil

	case CatalogMsg:
		if msg.Err != nil {
			m.appendLog(kindResetStyle.Render("CATALOG"), "reload failed: "+msg.Err.Error())
			return m, nil
		}
		// Rebuild the tracker over the new catalog; the old attempt no
		// longer has a defined meaning against changed definitions.
		tr, err := tracker.New(msg.Catalog)
		if err != nil {
			m.appendLog(kindResetStyle.Render("CATALOG"), "reload rejected: "+err.Error())
			return m, nil
		}
		m.tracker = tr
		m.appendLog(kindProgressStyle.Render("CATALOG"), fmt.Sprintf("reloaded (%d combos)", len(msg.Catalog.Combos())))
		return m, nil

	case StreamClosedMsg:
		m.streamDone = true
		m.streamErr = msg.Err
		if msg.Err != nil {
			m.appendLog(kindResetStyle.Render("STREAM"), msg.Err.Error())
		} else {
			m.appendLog(dimStyle.Render("STREAM"), "end of input")
		}
		return m, nil
	}
	return m, nil
}

// handleEvent drives the state machine and records the outcome in the log.
func (m *Model) handleEvent(ev gesture.Event) {
	out := m.tracker.Update(ev.Seal, ev.Confidence, ev.At)
	if m.OnOutcome != nil {
		m.OnOutcome(out, ev)
	}
	m.recordOutcome(out, ev)
}

func (m *Model) recordOutcome(out tracker.Outcome, ev gesture.Event) {
	switch o := out.(type) {
	case tracker.Ignored:
		// Too noisy to log per frame.
	case tracker.Progressed:
		m.appendLog(kindProgressStyle.Render("SEAL"),
			fmt.Sprintf("%s (%.2f) — %s [%d candidate(s)]",
				ev.Seal, ev.Confidence, gesture.FormatSequence(o.Prefix), len(o.Candidates)))
	case tracker.Completed:
		m.appendLog(kindCompleteStyle.Render("JUTSU"),
			fmt.Sprintf("%s (%s)", o.Combo.Name, o.Combo.Japanese))
		if action, ok := m.dispatcher.Dispatch(o.Combo, ev.At); ok {
			m.banner = fmt.Sprintf("✦ %s ✦", action.Name)
			if action.Sound != "" {
				m.banner += "  ♪ " + action.Sound
			}
			m.bannerUntil = time.Now().Add(action.Duration)
		}
	case tracker.Reset:
		m.appendLog(kindResetStyle.Render("RESET"), "attempt discarded ("+o.Reason.String()+")")
		if o.Then != nil {
			m.recordOutcome(o.Then, ev)
		}
	}
}

func (m *Model) appendLog(kind, text string) {
	line := dimStyle.Render(time.Now().Format("15:04:05")) + " " + kind + " " + text
	m.logLines = append(m.logLines, line)
	if m.ready {
		m.log.SetContent(strings.Join(m.logLines, "\n"))
		m.log.GotoBottom()
	}
}

// ── View ───────────────

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  jutsu  " + m.title)
	progressPane := m.renderProgress()

	banner := ""
	if m.banner != "" {
		banner = bannerStyle.Width(m.width).Render(m.banner)
	}

	hint := "  q quit  r reset  ↑/↓ scroll log"
	status := "detecting"
	if m.tracker.Target() != nil {
		status = "practice: " + m.tracker.Target().Name
	}
	if m.streamDone {
		status = "stream closed"
		if m.streamErr != nil {
			status = "stream error"
		}
	}
	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(status) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + status)

	parts := []string{title, progressPane}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, m.log.View(), statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// progressPaneHeight is the fixed number of rows reserved above the log.
const progressPaneHeight = 9

func (m *Model) initViewport() {
	// title(1) + progress(progressPaneHeight) + statusBar(1)
	vpHeight := m.height - progressPaneHeight - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.log = viewport.New(m.width, vpHeight)
	m.log.SetContent(strings.Join(m.logLines, "\n"))
	m.log.GotoBottom()
}

func (m Model) renderProgress() string {
	r := progress.Snapshot(m.tracker, time.Now())

	var sb strings.Builder
	sb.WriteString("\n" + sectionHeader.Render("  Sequence") + "\n")
	switch {
	case len(r.Accepted) > 0:
		sb.WriteString("  " + sealStyle.Render(gesture.FormatSequence(r.Accepted)))
		sb.WriteString(dimStyle.Render(" … "))
		sb.WriteString(timeStyle.Render(fmt.Sprintf("%.1fs elapsed", r.Elapsed.Seconds())))
		sb.WriteString("\n")
	case r.Active:
		sb.WriteString(dimStyle.Render("  waiting for the first seal") + "\n")
	default:
		sb.WriteString(dimStyle.Render("  idle") + "\n")
	}

	sb.WriteString("\n" + sectionHeader.Render("  Possible jutsus") + "\n")
	if len(r.Possible) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	for i, c := range r.Possible {
		if i >= 5 { // keep the pane height fixed
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  … and %d more", len(r.Possible)-i)) + "\n")
			break
		}
		left := fmt.Sprintf("%.1fs", c.TimeLeft.Seconds())
		var countdown string
		switch progress.UrgencyFor(c.TimeLeft) {
		case progress.UrgencyLow:
			countdown = urgencyLowStyle.Render(left)
		case progress.UrgencyMedium:
			countdown = urgencyMediumStyle.Render(left)
		default:
			countdown = urgencyCriticalStyle.Render(left)
		}
		sb.WriteString(fmt.Sprintf("  %s — next: %s  %s\n",
			c.Name, sealStyle.Render(c.Next.String()), countdown))
	}

	pane := sb.String()
	// Pad to the fixed height so the log below doesn't jump around.
	lines := strings.Count(pane, "\n")
	for ; lines < progressPaneHeight; lines++ {
		pane += "\n"
	}
	return strings.TrimSuffix(pane, "\n")
}
