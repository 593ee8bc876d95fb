package botapp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/app/wiring"
	"github.com/ivankudzin/teenmatch/internal/config"
	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	tginfra "github.com/ivankudzin/teenmatch/internal/infra/telegram"
	"github.com/ivankudzin/teenmatch/internal/repo/memory"
	"github.com/ivankudzin/teenmatch/internal/ui"
)

const moderatorID int64 = 1

type sentMessage struct {
	ChatID int64
	Text   string
	Rows   [][]tginfra.InlineButton
}

type fakeMessenger struct {
	mu       sync.Mutex
	sent     []sentMessage
	deleted  []int
	answered map[string]string
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{answered: make(map[string]string)}
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeMessenger) SendWithButtons(_ context.Context, chatID int64, text string, rows [][]tginfra.InlineButton) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Rows: rows})
	return nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) AnswerCallback(_ context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered[callbackID] = text
	return nil
}

func (f *fakeMessenger) textsTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0)
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeMessenger) last(chatID int64) sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].ChatID == chatID {
			return f.sent[i]
		}
	}
	return sentMessage{}
}

func (f *fakeMessenger) answer(callbackID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.answered[callbackID]
	return text, ok
}

type harness struct {
	t        *testing.T
	router   *Router
	msg      *fakeMessenger
	store    *memory.Store
	services wiring.Services
	seq      int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	msg := newFakeMessenger()
	store := memory.NewStore()
	services := wiring.FromMemory(store, config.Default(), msg, zap.NewNop())

	router, err := NewRouter(Dependencies{
		Profiles:    services.Profiles,
		Feed:        services.Feed,
		Likes:       services.Likes,
		Reports:     services.Reports,
		Moderation:  services.Moderation,
		Messenger:   msg,
		ModeratorID: moderatorID,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	return &harness{t: t, router: router, msg: msg, store: store, services: services}
}

func (h *harness) text(userID int64, text string) {
	h.t.Helper()
	h.seq++
	m := &tginfra.MessageUpdate{ChatID: userID, UserID: userID, Username: fmt.Sprintf("user%d", userID), Text: text}
	if strings.HasPrefix(text, "/") {
		m.Command = strings.TrimPrefix(strings.Fields(text)[0], "/")
	}
	require.NoError(h.t, h.router.Handle(context.Background(), tginfra.Update{ID: h.seq, Message: m}))
}

func (h *harness) press(userID int64, data string) string {
	h.t.Helper()
	h.seq++
	id := fmt.Sprintf("cb-%d", h.seq)
	require.NoError(h.t, h.router.Handle(context.Background(), tginfra.Update{
		ID: h.seq,
		Callback: &tginfra.CallbackUpdate{
			CallbackID: id,
			ChatID:     userID,
			MessageID:  h.seq,
			UserID:     userID,
			Data:       data,
		},
	}))
	return id
}

func profileText(name, gender string) string {
	return name + "\n16\nМосква\n" + gender + "\nЛюблю музыку"
}

func TestRouterEndToEndMatch(t *testing.T) {
	h := newHarness(t)

	h.text(100, profileText("Алексей", "М"))
	h.text(200, profileText("Маша", "Ж"))
	assert.Equal(t, ui.MsgProfileCreated, h.msg.last(100).Text)

	h.text(100, "/browse")
	assert.Equal(t, ui.MsgNotApproved, h.msg.last(100).Text)

	h.text(moderatorID, "/moderate")
	card := h.msg.last(moderatorID)
	require.Len(t, card.Rows, 1)
	assert.Equal(t, "mod_approve_1", card.Rows[0][1].Data)

	h.press(moderatorID, "mod_approve_1")
	assert.Contains(t, h.msg.textsTo(100), ui.MsgApprovedOwner)
	assert.Equal(t, "mod_approve_2", h.msg.last(moderatorID).Rows[0][1].Data)

	h.press(moderatorID, "mod_approve_2")
	assert.Equal(t, ui.MsgNoPendingProfile, h.msg.last(moderatorID).Text)

	h.text(100, "/browse")
	browse := h.msg.last(100)
	require.Len(t, browse.Rows, 2)
	assert.Equal(t, "like_200", browse.Rows[0][1].Data)
	assert.Contains(t, browse.Text, "Маша")

	h.press(100, "like_200")
	assert.Contains(t, h.msg.textsTo(100), ui.MsgLikeSent)
	assert.Equal(t, ui.MsgNoCandidates, h.msg.last(100).Text)

	h.press(200, "like_100")
	assert.Contains(t, h.msg.textsTo(200), fmt.Sprintf(ui.MsgMutualLike, "@user100"))
	assert.Contains(t, h.msg.textsTo(100), fmt.Sprintf(ui.MsgMutualLike, "@user200"))

	h.text(100, "/matches")
	assert.Contains(t, h.msg.last(100).Text, "Маша")
	assert.Equal(t, 1, h.store.Matches().Count())

	// a repeated like does not notify twice
	before := len(h.msg.textsTo(100))
	h.press(200, "like_100")
	assert.Contains(t, h.msg.textsTo(200), fmt.Sprintf(ui.MsgAlreadyMatched, "@user100"))
	assert.Len(t, h.msg.textsTo(100), before)
	assert.Equal(t, 1, h.store.Matches().Count())
}

func TestRouterRejectsModerationFromRegularUser(t *testing.T) {
	h := newHarness(t)
	h.text(100, profileText("Алексей", "М"))

	cb := h.press(100, "mod_approve_1")
	text, ok := h.msg.answer(cb)
	require.True(t, ok)
	assert.Equal(t, ui.MsgNoAccess, text)

	p, err := h.store.Profiles().GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, enums.ModerationStatusPending, p.Status)

	h.text(100, "/moderate")
	assert.Equal(t, ui.MsgNoAccess, h.msg.last(100).Text)
}

func TestRouterMalformedCallback(t *testing.T) {
	h := newHarness(t)

	cb := h.press(100, "like_abc")
	text, ok := h.msg.answer(cb)
	require.True(t, ok)
	assert.Equal(t, ui.MsgUnknownAction, text)
	assert.False(t, h.store.Likes().Exists(100, 0))
}

func TestRouterProfileValidationMessages(t *testing.T) {
	h := newHarness(t)

	h.text(100, "Алексей\n25\nМосква\nМ")
	assert.Equal(t, fmt.Sprintf(ui.MsgAgeOutOfRange, 13, 19), h.msg.last(100).Text)

	h.text(100, "Алексей\n16\nМосква\nX")
	assert.Equal(t, ui.MsgBadGender, h.msg.last(100).Text)

	h.text(100, "Алексей\nшестнадцать\nМосква\nМ")
	assert.Equal(t, fmt.Sprintf(ui.MsgAgeOutOfRange, 13, 19), h.msg.last(100).Text)

	h.text(100, "hello")
	assert.Equal(t, ui.MsgUsage, h.msg.last(100).Text)

	h.text(100, profileText("Алексей", "М"))
	assert.Equal(t, ui.MsgProfileCreated, h.msg.last(100).Text)

	h.text(100, "/create")
	assert.Equal(t, ui.MsgProfileExists, h.msg.last(100).Text)

	h.text(100, "/profile")
	assert.Contains(t, h.msg.last(100).Text, "На модерации")
}

func TestRouterReportFlow(t *testing.T) {
	h := newHarness(t)
	h.text(100, profileText("Алексей", "М"))
	h.text(200, profileText("Маша", "Ж"))

	h.press(100, "report_200")
	assert.Equal(t, ui.MsgReportSent, h.msg.last(100).Text)

	h.text(moderatorID, "/reports")
	card := h.msg.last(moderatorID)
	require.Len(t, card.Rows, 1)
	assert.Contains(t, card.Text, "Маша")
	assert.Equal(t, "rep_resolve_1", card.Rows[0][1].Data)

	h.press(moderatorID, "rep_resolve_1")
	assert.Contains(t, h.msg.textsTo(moderatorID), fmt.Sprintf(ui.MsgReportResolved, 1))
	assert.Equal(t, ui.MsgNoPendingReports, h.msg.last(moderatorID).Text)

	cb := h.press(moderatorID, "rep_dismiss_99")
	text, _ := h.msg.answer(cb)
	assert.Equal(t, ui.MsgReportGone, text)

	h.text(moderatorID, "/stats")
	assert.Contains(t, h.msg.last(moderatorID).Text, "Всего анкет: 2")
}

func TestRouterDailyLimit(t *testing.T) {
	h := newHarness(t)
	h.text(100, profileText("Алексей", "М"))
	h.press(moderatorID, "mod_approve_1")

	for i := int64(0); i < 15; i++ {
		h.press(100, fmt.Sprintf("like_%d", 1000+i))
	}
	assert.Equal(t, fmt.Sprintf(ui.MsgLimitReached, 15, 15), h.msg.last(100).Text)

	cb := h.press(100, "like_2000")
	text, _ := h.msg.answer(cb)
	assert.Equal(t, fmt.Sprintf(ui.MsgLimitCallback, 15, 15), text)
	assert.False(t, h.store.Likes().Exists(100, 2000))

	h.text(100, "/browse")
	assert.Equal(t, fmt.Sprintf(ui.MsgLimitReached, 15, 15), h.msg.last(100).Text)
}

func TestRouterRepeatedLikeKeepsQuotaCount(t *testing.T) {
	h := newHarness(t)
	h.text(100, profileText("Алексей", "М"))
	h.press(moderatorID, "mod_approve_1")

	for i := int64(0); i < 14; i++ {
		h.press(100, fmt.Sprintf("like_%d", 1000+i))
	}

	h.press(100, "like_1000")
	assert.NotEqual(t, fmt.Sprintf(ui.MsgLimitReached, 15, 15), h.msg.last(100).Text)

	quota, err := h.services.Likes.Used(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 14, quota.Used)

	h.press(100, "like_2000")
	assert.Equal(t, fmt.Sprintf(ui.MsgLimitReached, 15, 15), h.msg.last(100).Text)
}

