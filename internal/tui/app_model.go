package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatthy/chatthy/internal/adapter"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/models"
)

type screen int

const (
	screenChat screen = iota
	screenSessions
)

type appModel struct {
	ctx         context.Context
	adapter     adapter.ServerAdapter
	transcripts store.TranscriptRepository
	events      <-chan models.ServerEnvelope
	logger      *logger.Logger

	screen     screen
	sessionID  string
	title      string
	backend    models.BackendHandle
	history    []models.Message
	streaming  string
	generating bool

	sessionList []models.SessionMeta
	cursor      int

	viewport viewport.Model
	textarea textarea.Model
	width    int
	height   int
	ready    bool

	notice     string
	quitByUser bool
	reqSeq     int
}

func newAppModel(ctx context.Context, serverAdapter adapter.ServerAdapter, transcripts store.TranscriptRepository, events <-chan models.ServerEnvelope, logger *logger.Logger) appModel {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()

	return appModel{
		ctx:         ctx,
		adapter:     serverAdapter,
		transcripts: transcripts,
		events:      events,
		logger:      logger,
		textarea:    ta,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForEnvelope(), m.send(models.Envelope{Type: models.EnvelopeSessionNew}))
}

// waitForEnvelope blocks on the adapter's event channel from inside the
// bubbletea runtime.
func (m appModel) waitForEnvelope() tea.Cmd {
	return func() tea.Msg {
		env, ok := <-m.events
		if !ok {
			return connClosedMsg{}
		}
		return envelopeMsg(env)
	}
}

func (m *appModel) send(env models.Envelope) tea.Cmd {
	m.reqSeq++
	env.RequestID = fmt.Sprintf("req-%d", m.reqSeq)

	ctx := m.ctx
	a := m.adapter

	return func() tea.Msg {
		if err := a.Send(ctx, env); err != nil {
			return noticeMsg("send failed: " + err.Error())
		}
		return nil
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case envelopeMsg:
		return m.handleEnvelope(models.ServerEnvelope(msg))

	case connClosedMsg:
		m.notice = "connection to server lost"
		return m, tea.Quit

	case noticeMsg:
		m.notice = string(msg)
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m appModel) resize(msg tea.WindowSizeMsg) appModel {
	m.width = msg.Width
	m.height = msg.Height

	chatHeight := msg.Height - m.textarea.Height() - 4
	if chatHeight < 1 {
		chatHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = chatHeight
	}
	m.textarea.SetWidth(msg.Width)
	m.refreshChat()

	return m
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit

	case key.Matches(msg, keys.newSession):
		return m, m.send(models.Envelope{Type: models.EnvelopeSessionNew})

	case key.Matches(msg, keys.sessions):
		m.screen = screenSessions
		m.cursor = 0
		return m, m.send(models.Envelope{Type: models.EnvelopeSessionList})

	case key.Matches(msg, keys.cancel):
		if m.generating {
			return m, m.send(models.Envelope{Type: models.EnvelopeCancel, SessionID: m.sessionID})
		}
		return m, nil

	case key.Matches(msg, keys.copyReply):
		return m, m.copyLastReply()
	}

	if m.screen == screenSessions {
		return m.handleSessionsKey(msg)
	}

	if key.Matches(msg, keys.enter) {
		return m.submitMessage()
	}

	return m.updateComponents(msg)
}

func (m appModel) handleSessionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.down):
		if m.cursor < len(m.sessionList)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.esc):
		m.screen = screenChat

	case key.Matches(msg, keys.enter):
		if m.cursor < len(m.sessionList) {
			id := m.sessionList[m.cursor].ID
			m.screen = screenChat
			return m, tea.Batch(
				m.send(models.Envelope{Type: models.EnvelopeSessionSwitch, SessionID: id}),
				m.send(models.Envelope{Type: models.EnvelopeSessionHistory, SessionID: id}),
			)
		}

	case key.Matches(msg, keys.delete):
		if m.cursor < len(m.sessionList) {
			id := m.sessionList[m.cursor].ID
			return m, tea.Batch(
				m.send(models.Envelope{Type: models.EnvelopeSessionDelete, SessionID: id}),
				m.send(models.Envelope{Type: models.EnvelopeSessionList}),
			)
		}
	}

	return m, nil
}

func (m appModel) submitMessage() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.textarea.Value())
	if content == "" || m.generating {
		return m, nil
	}

	m.textarea.Reset()
	m.generating = true
	m.streaming = ""
	m.notice = ""
	m.history = append(m.history, models.Message{
		SessionID: m.sessionID,
		Role:      models.RoleUser,
		Content:   content,
		Status:    models.StatusComplete,
	})
	m.refreshChat()

	sessionID := m.sessionID
	if sessionID == "" {
		sessionID = models.NewSessionID
	}

	return m, m.send(models.Envelope{
		Type:      models.EnvelopeMessage,
		SessionID: sessionID,
		Content:   content,
	})
}

func (m appModel) handleEnvelope(env models.ServerEnvelope) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForEnvelope()}

	switch env.Type {
	case models.ServerAck:
		if env.SessionID != "" {
			m.sessionID = env.SessionID
		}

	case models.ServerChunk, models.ServerDone, models.ServerError:
		if cmd := m.applyChunk(env); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case models.ServerWarning:
		if env.Error != nil {
			m.notice = noticeStyle.Render(env.Error.Message)
		}

	case models.ServerSession:
		if env.Session != nil {
			m.sessionID = env.Session.ID
			m.title = env.Session.Title
			m.backend = env.Session.Backend
			m.history = nil
			m.streaming = ""
			m.generating = false
			m.screen = screenChat
			m.refreshChat()
		}

	case models.ServerSessions:
		m.sessionList = env.Sessions
		if m.cursor >= len(m.sessionList) {
			m.cursor = 0
		}

	case models.ServerHistory:
		m.history = env.Messages
		m.streaming = ""
		m.refreshChat()
	}

	return m, tea.Batch(cmds...)
}

// applyChunk folds one stream envelope into the chat state, returning an
// optional follow-up command (transcript caching on completion).
func (m *appModel) applyChunk(env models.ServerEnvelope) tea.Cmd {
	if env.Type == models.ServerError && env.Chunk == nil {
		// Pre-stream failure: no trailing message was created.
		if env.Error != nil {
			m.notice = errorStyle.Render(env.Error.Message)
		}
		m.generating = false
		return nil
	}

	if env.Chunk == nil || env.Chunk.SessionID != m.sessionID {
		return nil
	}

	if !env.Chunk.Final {
		m.streaming += env.Chunk.Content
		m.refreshChat()
		return nil
	}

	status := models.StatusComplete
	if env.Chunk.Err != nil {
		m.notice = errorStyle.Render(env.Chunk.Err.Message)
		status = models.StatusFailed
		if env.Chunk.Err.Code == "cancelled" {
			status = models.StatusCancelled
		}
	}

	m.history = append(m.history, models.Message{
		ID:        env.Chunk.MessageID,
		SessionID: m.sessionID,
		Seq:       len(m.history),
		Role:      models.RoleAssistant,
		Content:   m.streaming,
		Status:    status,
	})
	m.streaming = ""
	m.generating = false
	m.refreshChat()

	return m.cacheTranscript()
}

// cacheTranscript mirrors the current conversation into the local SQLite
// cache. Failures degrade to a notice; the server stays authoritative.
func (m *appModel) cacheTranscript() tea.Cmd {
	if m.transcripts == nil || m.sessionID == "" {
		return nil
	}

	ctx := m.ctx
	transcripts := m.transcripts
	meta := models.SessionMeta{
		ID:           m.sessionID,
		Title:        m.title,
		Backend:      m.backend,
		MessageCount: len(m.history),
	}
	msgs := make([]models.Message, len(m.history))
	copy(msgs, m.history)

	return func() tea.Msg {
		if err := transcripts.SaveSession(ctx, meta); err != nil {
			return noticeMsg("transcript cache write failed")
		}
		if err := transcripts.SaveMessages(ctx, msgs); err != nil {
			return noticeMsg("transcript cache write failed")
		}
		return nil
	}
}

func (m appModel) copyLastReply() tea.Cmd {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].Role != models.RoleAssistant {
			continue
		}
		content := m.history[i].Content

		return func() tea.Msg {
			if err := clipboard.WriteAll(content); err != nil {
				return noticeMsg("clipboard unavailable")
			}
			return noticeMsg("reply copied")
		}
	}

	return nil
}

func (m appModel) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(taCmd, vpCmd)
}

func (m *appModel) refreshChat() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m appModel) renderHistory() string {
	var b strings.Builder
	for _, msg := range m.history {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(userStyle.Render("you") + "  " + msg.Content + "\n\n")
		case models.RoleAssistant:
			b.WriteString(assistantStyle.Render("chat") + " " + msg.Content)
			if msg.Status == models.StatusCancelled {
				b.WriteString(noticeStyle.Render(" [cancelled]"))
			}
			b.WriteString("\n\n")
		}
	}
	if m.streaming != "" || m.generating {
		b.WriteString(assistantStyle.Render("chat") + " " + m.streaming)
	}

	return b.String()
}

func (m appModel) View() string {
	if !m.ready {
		return "connecting..."
	}

	if m.screen == screenSessions {
		return m.viewSessions()
	}

	title := m.title
	if title == "" {
		title = "new session"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(m.viewport.View() + "\n")
	if m.notice != "" {
		b.WriteString(m.notice + "\n")
	}
	b.WriteString(m.textarea.View() + "\n")
	b.WriteString(helpStyle.Render("enter send · ctrl+n new · ctrl+l sessions · ctrl+g cancel · ctrl+y copy · ctrl+c quit"))

	return b.String()
}

func (m appModel) viewSessions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("sessions") + "\n\n")

	if len(m.sessionList) == 0 {
		b.WriteString(noticeStyle.Render("no sessions yet") + "\n")
	}
	for i, meta := range m.sessionList {
		title := meta.Title
		if title == "" {
			title = meta.ID
		}
		line := fmt.Sprintf("%s  (%d messages)", title, meta.MessageCount)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("enter open · ctrl+d delete · esc back · ctrl+c quit"))

	return b.String()
}
