// This file implements the interactive console using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"iffidb/cmd/iffidb/ui"
	"iffidb/internal/audit"
	"iffidb/internal/command"
	"iffidb/internal/voice"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// pollInterval is how often the console re-reads the activity log even
// without a change notification. Mutations from other processes sharing
// the database surface within one interval.
const pollInterval = 2 * time.Second

// consoleModel is the main model for the interactive console
type consoleModel struct {
	// UI Components
	textinput textinput.Model
	viewport  viewport.Model
	styles    ui.Styles

	// State
	entries   []audit.Entry
	history   []string
	histPos   int
	isBusy    bool
	listening bool
	status    string
	width     int
	height    int
	ready     bool

	// Backend
	app       *app
	ctx       context.Context
	refreshCh chan struct{}
	voiceCh   <-chan voice.Transcript
}

// Messages for tea updates
type (
	executedMsg    struct{}
	refreshMsg     struct{}
	tickMsg        time.Time
	transcriptMsg  voice.Transcript
	voiceDoneMsg   struct{}
	statusClearMsg struct{}
)

// initConsole builds the console model over an already-wired app.
func initConsole(ctx context.Context, a *app) consoleModel {
	styles := ui.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Type a command... ('help' lists commands, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	vp := viewport.New(80, 20)
	vp.SetContent("")

	return consoleModel{
		textinput: ti,
		viewport:  vp,
		styles:    styles,
		entries:   a.audit.List(),
		history:   []string{},
		app:       a,
		ctx:       ctx,
		refreshCh: make(chan struct{}, 1),
	}
}

func (m consoleModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		tickCmd(),
		waitForRefresh(m.refreshCh),
	}
	if m.voiceCh != nil {
		cmds = append(cmds, waitForTranscript(m.voiceCh))
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func waitForTranscript(ch <-chan voice.Transcript) tea.Cmd {
	return func() tea.Msg {
		tr, ok := <-ch
		if !ok {
			return voiceDoneMsg{}
		}
		return transcriptMsg(tr)
	}
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isBusy {
				return m.handleSubmit()
			}
			return m, nil

		case tea.KeyCtrlY:
			if err := m.copyLogs(); err != nil {
				m.status = "Failed to copy logs"
			} else {
				m.status = "Copied logs to clipboard"
			}
			return m, clearStatusCmd()

		case tea.KeyUp:
			if len(m.history) > 0 && m.histPos > 0 {
				m.histPos--
				m.textinput.SetValue(m.history[m.histPos])
				m.textinput.CursorEnd()
			}
			return m, nil

		case tea.KeyDown:
			if m.histPos < len(m.history) {
				m.histPos++
				if m.histPos == len(m.history) {
					m.textinput.SetValue("")
				} else {
					m.textinput.SetValue(m.history[m.histPos])
					m.textinput.CursorEnd()
				}
			}
			return m, nil
		}

		if !m.isBusy {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 2
		inputHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4
		m.refresh()

	case executedMsg:
		m.isBusy = false
		m.refresh()

	case refreshMsg:
		m.refresh()
		return m, waitForRefresh(m.refreshCh)

	case tickMsg:
		m.refresh()
		return m, tickCmd()

	case transcriptMsg:
		tr := voice.Transcript(msg)
		if !tr.Final {
			m.listening = true
			m.textinput.SetValue(tr.Text)
			m.textinput.CursorEnd()
			return m, waitForTranscript(m.voiceCh)
		}
		m.listening = false
		m.textinput.SetValue("")
		if !m.isBusy {
			// Dictated commands join the recall history like typed ones.
			m.history = append(m.history, tr.Text)
			m.histPos = len(m.history)
			m.isBusy = true
			return m, tea.Batch(m.execute(tr.Text), waitForTranscript(m.voiceCh))
		}
		return m, waitForTranscript(m.voiceCh)

	case voiceDoneMsg:
		m.listening = false
		m.voiceCh = nil

	case statusClearMsg:
		m.status = ""
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSubmit runs the typed line through interpretation and execution.
func (m consoleModel) handleSubmit() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.textinput.Value())
	if raw == "" {
		return m, nil
	}

	m.history = append(m.history, raw)
	m.histPos = len(m.history)
	m.textinput.SetValue("")
	m.isBusy = true

	return m, m.execute(raw)
}

// execute interprets and dispatches one command line off the UI loop. The
// executor records outcomes in the activity log, so the only result the
// model needs is a refresh signal.
func (m consoleModel) execute(raw string) tea.Cmd {
	a := m.app
	ctx := m.ctx
	return func() tea.Msg {
		input, translated := command.Interpret(raw)
		if translated {
			a.audit.Append(audit.ActionSystem,
				fmt.Sprintf("🤖 AI Interpreted: \"%s\" -> \"%s\"", raw, input))
		}
		a.executor.Execute(ctx, input)
		return executedMsg{}
	}
}

// copyLogs puts the activity log on the system clipboard as plain text,
// in the order the console displays it.
func (m *consoleModel) copyLogs() error {
	entries := m.app.audit.List()
	lines := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		ts := time.UnixMilli(e.Timestamp).Format("15:04:05")
		lines = append(lines, fmt.Sprintf("[%s] %s %s", ts, e.Action, e.Details))
	}
	return clipboardWriteAll(strings.Join(lines, "\n"))
}

// refresh re-reads the activity log into the viewport.
func (m *consoleModel) refresh() {
	m.entries = m.app.audit.List()
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}

// renderEntries renders the log oldest first, newest at the bottom.
func (m consoleModel) renderEntries() string {
	if len(m.entries) == 0 {
		return m.styles.Muted.Render("No activity yet. Type 'help' to get started.")
	}
	var b strings.Builder
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		ts := time.UnixMilli(e.Timestamp).Format("15:04:05")
		b.WriteString(m.styles.Timestamp.Render("["+ts+"]") + " ")
		b.WriteString(m.styles.Action(e.Action).Render(fmt.Sprintf("%-6s", e.Action)) + " ")
		b.WriteString(m.styles.Body.Render(e.Details))
		if i > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m consoleModel) View() string {
	if !m.ready {
		return "Starting console..."
	}

	title := "iffiDB Console"
	if user, ok := m.app.sessions.Current(); ok {
		title += "  ·  " + user.Name
	}
	header := m.styles.Header.Render(title)

	hints := "Enter run · ↑/↓ history · Ctrl+Y copy logs · Ctrl+C quit"
	if m.isBusy {
		hints = "Working..."
	}
	if m.status != "" {
		hints = m.status
	}
	footer := m.styles.Footer.Render(hints)
	if m.listening {
		footer = lipgloss.JoinHorizontal(lipgloss.Top,
			footer, m.styles.Listening.Render("  ● listening"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.textinput.View(),
		footer,
	)
}

// runConsole wires the app and runs the bubbletea program until exit.
func runConsole() error {
	a, err := openApp(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := initConsole(ctx, a)

	// Refresh on store changes without blocking the publisher.
	unsubscribe := a.store.Notifier().Subscribe(func() {
		select {
		case m.refreshCh <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	if a.cfg.TranscriptFeed != "" {
		src := voice.NewFeedSource(a.cfg.TranscriptFeed, logger)
		ch, err := src.Transcripts(ctx)
		if err != nil {
			logger.Warn("Voice feed unavailable", zap.Error(err))
		} else {
			m.voiceCh = ch
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}
