package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/mock"
	"github.com/chatthy/chatthy/models"
)

func newTestModel(t *testing.T) (appModel, *mock.MockServerAdapter, chan models.ServerEnvelope) {
	t.Helper()

	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	events := make(chan models.ServerEnvelope, 8)

	return newAppModel(context.Background(), serverAdapter, nil, events, logger.Nop()), serverAdapter, events
}

// runCmd executes a command tree synchronously, descending into batches.
// Only safe for commands that do not block on the event channel.
func runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(c)
		}
	}
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runeMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestAppModel_ServerSessionResetsChat(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.history = []models.Message{{Role: models.RoleUser, Content: "old"}}
	m.generating = true
	m.screen = screenSessions

	updated, _ := m.handleEnvelope(models.ServerEnvelope{
		Type:    models.ServerSession,
		Session: &models.SessionMeta{ID: "s-1", Title: "greetings", Backend: "echo"},
	})
	got := updated.(appModel)

	assert.Equal(t, "s-1", got.sessionID)
	assert.Equal(t, "greetings", got.title)
	assert.Nil(t, got.history)
	assert.False(t, got.generating)
	assert.Equal(t, screenChat, got.screen)
}

func TestAppModel_AckAdoptsSessionID(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, _ := m.handleEnvelope(models.ServerEnvelope{Type: models.ServerAck, SessionID: "s-7"})

	assert.Equal(t, "s-7", updated.(appModel).sessionID)
}

func TestAppModel_StreamingChunksAccumulate(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.sessionID = "s-1"
	m.generating = true

	for _, content := range []string{"hel", "lo"} {
		updated, _ := m.handleEnvelope(models.ServerEnvelope{
			Type:  models.ServerChunk,
			Chunk: &models.StreamChunk{SessionID: "s-1", Content: content},
		})
		m = updated.(appModel)
	}
	assert.Equal(t, "hello", m.streaming)

	updated, _ := m.handleEnvelope(models.ServerEnvelope{
		Type:  models.ServerDone,
		Chunk: &models.StreamChunk{SessionID: "s-1", MessageID: "m-1", Final: true},
	})
	got := updated.(appModel)

	require.Len(t, got.history, 1)
	assert.Equal(t, models.RoleAssistant, got.history[0].Role)
	assert.Equal(t, "hello", got.history[0].Content)
	assert.Equal(t, models.StatusComplete, got.history[0].Status)
	assert.Empty(t, got.streaming)
	assert.False(t, got.generating)
}

func TestAppModel_ChunkForOtherSessionIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.sessionID = "s-1"

	updated, _ := m.handleEnvelope(models.ServerEnvelope{
		Type:  models.ServerChunk,
		Chunk: &models.StreamChunk{SessionID: "s-2", Content: "stray"},
	})

	assert.Empty(t, updated.(appModel).streaming)
}

func TestAppModel_CancelledFinalKeepsPartialReply(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.sessionID = "s-1"
	m.streaming = "partial"
	m.generating = true

	updated, _ := m.handleEnvelope(models.ServerEnvelope{
		Type: models.ServerError,
		Chunk: &models.StreamChunk{
			SessionID: "s-1",
			Final:     true,
			Err:       &models.WireError{Code: "cancelled", Message: "generation cancelled"},
		},
	})
	got := updated.(appModel)

	require.Len(t, got.history, 1)
	assert.Equal(t, "partial", got.history[0].Content)
	assert.Equal(t, models.StatusCancelled, got.history[0].Status)
	assert.False(t, got.generating)
}

func TestAppModel_PreStreamErrorRaisesNotice(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.sessionID = "s-1"
	m.generating = true

	updated, _ := m.handleEnvelope(models.ServerEnvelope{
		Type:  models.ServerError,
		Error: &models.WireError{Code: "conflict", Message: "generation already running"},
	})
	got := updated.(appModel)

	assert.NotEmpty(t, got.notice)
	assert.False(t, got.generating)
	assert.Empty(t, got.history)
}

func TestAppModel_SubmitMessageSendsEnvelope(t *testing.T) {
	m, serverAdapter, _ := newTestModel(t)
	m.textarea.SetValue("hi there")

	var sent models.Envelope
	serverAdapter.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, env models.Envelope) error {
			sent = env
			return nil
		})

	updated, cmd := m.submitMessage()
	runCmd(cmd)
	got := updated.(appModel)

	assert.Equal(t, models.EnvelopeMessage, sent.Type)
	assert.Equal(t, models.NewSessionID, sent.SessionID)
	assert.Equal(t, "hi there", sent.Content)
	assert.True(t, got.generating)
	require.Len(t, got.history, 1)
	assert.Equal(t, models.RoleUser, got.history[0].Role)
}

func TestAppModel_SubmitIgnoredWhileGenerating(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.generating = true
	m.textarea.SetValue("queued up")

	_, cmd := m.submitMessage()

	assert.Nil(t, cmd)
}

func TestAppModel_CancelKeyOnlyWhileGenerating(t *testing.T) {
	m, serverAdapter, _ := newTestModel(t)
	m.sessionID = "s-1"

	_, cmd := m.handleKey(keyMsg(tea.KeyCtrlG))
	assert.Nil(t, cmd)

	m.generating = true
	var sent models.Envelope
	serverAdapter.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, env models.Envelope) error {
			sent = env
			return nil
		})

	_, cmd = m.handleKey(keyMsg(tea.KeyCtrlG))
	runCmd(cmd)

	assert.Equal(t, models.EnvelopeCancel, sent.Type)
	assert.Equal(t, "s-1", sent.SessionID)
}

func TestAppModel_SessionsScreenNavigation(t *testing.T) {
	m, serverAdapter, _ := newTestModel(t)
	m.screen = screenSessions
	m.sessionList = []models.SessionMeta{{ID: "s-1"}, {ID: "s-2"}}

	updated, _ := m.handleKey(runeMsg('j'))
	m = updated.(appModel)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.handleKey(runeMsg('k'))
	m = updated.(appModel)
	assert.Equal(t, 0, m.cursor)

	var sent []models.Envelope
	serverAdapter.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, env models.Envelope) error {
			sent = append(sent, env)
			return nil
		}).Times(2)

	updated, cmd := m.handleKey(keyMsg(tea.KeyEnter))
	runCmd(cmd)
	m = updated.(appModel)

	assert.Equal(t, screenChat, m.screen)
	require.Len(t, sent, 2)
	assert.Equal(t, models.EnvelopeSessionSwitch, sent[0].Type)
	assert.Equal(t, "s-1", sent[0].SessionID)
	assert.Equal(t, models.EnvelopeSessionHistory, sent[1].Type)
}

func TestAppModel_DeleteKeyRefreshesSessionList(t *testing.T) {
	m, serverAdapter, _ := newTestModel(t)
	m.screen = screenSessions
	m.sessionList = []models.SessionMeta{{ID: "s-1"}}

	var sent []models.Envelope
	serverAdapter.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, env models.Envelope) error {
			sent = append(sent, env)
			return nil
		}).Times(2)

	_, cmd := m.handleKey(keyMsg(tea.KeyCtrlD))
	runCmd(cmd)

	require.Len(t, sent, 2)
	assert.Equal(t, models.EnvelopeSessionDelete, sent[0].Type)
	assert.Equal(t, "s-1", sent[0].SessionID)
	assert.Equal(t, models.EnvelopeSessionList, sent[1].Type)
}

func TestAppModel_WaitForEnvelope(t *testing.T) {
	m, _, events := newTestModel(t)

	events <- models.ServerEnvelope{Type: models.ServerAck, SessionID: "s-1"}
	msg := m.waitForEnvelope()()
	env, ok := msg.(envelopeMsg)
	require.True(t, ok)
	assert.Equal(t, "s-1", env.SessionID)

	close(events)
	msg = m.waitForEnvelope()()
	assert.IsType(t, connClosedMsg{}, msg)
}

func TestAppModel_QuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, cmd := m.handleKey(keyMsg(tea.KeyCtrlC))

	assert.True(t, updated.(appModel).quitByUser)
	assert.NotNil(t, cmd)
}

func TestAppModel_ViewSessionsRendersList(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.screen = screenSessions
	m.sessionList = []models.SessionMeta{
		{ID: "s-1", Title: "first", MessageCount: 4},
		{ID: "s-2"},
	}

	out := m.viewSessions()

	assert.Contains(t, out, "first")
	assert.Contains(t, out, "s-2")
}
